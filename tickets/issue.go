package tickets

import (
	"context"
	"fmt"
	"time"

	"eventra/db"
	"eventra/models"
	"eventra/mq"
	"eventra/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// Build expands an order into its ticket documents: exactly one per
// purchased unit, quantity summed across line items. Each ticket gets a
// fresh unique identifier which doubles as its QR payload.
func Build(order *models.Order, holderName string) []models.Ticket {
	now := time.Now().UTC()
	out := make([]models.Ticket, 0, order.UnitCount())
	for _, item := range order.Items {
		for i := 0; i < item.Quantity; i++ {
			id := utils.GetUUID()
			out = append(out, models.Ticket{
				TicketID:   id,
				OrderID:    order.OrderID,
				EventID:    order.EventID,
				UserID:     order.UserID,
				HolderName: holderName,
				Email:      order.Email,
				TierName:   item.TierName,
				Price:      item.Price,
				Currency:   order.Currency,
				QRCode:     id,
				Status:     models.TicketValid,
				IssuedAt:   now,
			})
		}
	}
	return out
}

// Issue persists the order's tickets and announces the issuance. The order
// must already be COMPLETED; callers own that transition.
func Issue(ctx context.Context, order *models.Order, holderName string) ([]models.Ticket, error) {
	tickets := Build(order, holderName)
	if len(tickets) == 0 {
		return nil, fmt.Errorf("order %s has no units to issue", order.OrderID)
	}

	docs := make([]interface{}, len(tickets))
	for i := range tickets {
		docs[i] = tickets[i]
	}
	if _, err := db.TicketsCollection.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to store tickets for order %s: %w", order.OrderID, err)
	}

	go mq.Emit("ticket-issued", mq.Index{
		EntityType: "order", EntityId: order.OrderID, Method: "POST",
		ItemType: "event", ItemId: order.EventID,
	})
	go BroadcastAvailability(context.Background(), order.EventID)

	return tickets, nil
}

// IssuedCount counts how many tickets exist for an order, used by the
// payment reconciler to detect partial issuance.
func IssuedCount(ctx context.Context, orderID string) (int64, error) {
	return db.TicketsCollection.CountDocuments(ctx, bson.M{"orderid": orderID})
}
