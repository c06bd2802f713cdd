package pay

import (
	"context"
	"log"
	"time"

	"eventra/auth"
	"eventra/db"
	"eventra/mailer"
	"eventra/models"
	"eventra/rdx"
	"eventra/tickets"

	"go.mongodb.org/mongo-driver/bson"
)

const reconcileLockTTL = 2 * time.Minute

// Reconcile periodically backfills tickets for COMPLETED orders that ended
// up with none: the partial-failure mode both the payment callback and the
// free RSVP path tolerate (insert failing after the order transition).
// Orders with a partial ticket set are only reported; splitting a
// half-issued order across tiers is a manual decision.
func Reconcile(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reconcileOnce(ctx)
		}
	}
}

func reconcileOnce(ctx context.Context) {
	// One instance sweeps at a time.
	ok, err := rdx.Conn.SetNX(ctx, "lock:ticket-reconciler", "1", reconcileLockTTL).Result()
	if err != nil || !ok {
		return
	}
	defer func() {
		if err := rdx.Conn.Del(ctx, "lock:ticket-reconciler").Err(); err != nil {
			log.Printf("reconcile: lock release failed: %v", err)
		}
	}()

	cur, err := db.OrdersCollection.Find(ctx, backfillFilter(time.Now().Add(-24*time.Hour)))
	if err != nil {
		log.Printf("reconcile: order scan failed: %v", err)
		return
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var order models.Order
		if err := cur.Decode(&order); err != nil {
			continue
		}

		issued, err := tickets.IssuedCount(ctx, order.OrderID)
		if err != nil {
			log.Printf("reconcile: ticket count failed for %s: %v", order.OrderID, err)
			continue
		}
		want := int64(order.UnitCount())

		switch {
		case issued >= want:
			// fully issued
		case issued == 0:
			holderName := ""
			if user, err := auth.EnsureUser(ctx, order.UserID); err == nil {
				holderName = user.Username
			}
			issuedTickets, err := tickets.Issue(ctx, &order, holderName)
			if err != nil {
				log.Printf("reconcile: backfill failed for %s: %v", order.OrderID, err)
				continue
			}
			log.Printf("reconcile: backfilled %d tickets for order %s", want, order.OrderID)
			var event models.Event
			if err := db.EventsCollection.FindOne(ctx, bson.M{"eventid": order.EventID}).Decode(&event); err == nil {
				go mailer.SendOrderConfirmation(order.Email, &event, &order, issuedTickets)
			}
		default:
			log.Printf("reconcile: order %s has %d of %d tickets, needs manual review", order.OrderID, issued, want)
		}
	}
}

// backfillFilter selects recently completed orders of every type. Free RSVP
// orders can lose their tickets to an insert failure the same way paid
// orders can, so all three order types are swept.
func backfillFilter(cutoff time.Time) bson.M {
	return bson.M{
		"status": models.OrderCompleted,
		"order_type": bson.M{"$in": []string{
			models.OrderTypePaidEvent,
			models.OrderTypeFreeVirtualRSVP,
			models.OrderTypeFreeLocationRSVP,
		}},
		"updated_at": bson.M{"$gte": cutoff},
	}
}
