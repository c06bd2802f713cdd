package orders

import (
	"context"

	"eventra/db"
	"eventra/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsRegistered reports whether the viewer already holds a registration for
// the event. A COMPLETED order is authoritative; a successful payment
// matching the email covers historical records that never got an order
// linked.
func IsRegistered(ctx context.Context, eventID, userID, email string) (bool, error) {
	if userID != "" {
		err := db.OrdersCollection.FindOne(ctx, bson.M{
			"eventid": eventID,
			"userid":  userID,
			"status":  models.OrderCompleted,
		}).Err()
		if err == nil {
			return true, nil
		}
		if err != mongo.ErrNoDocuments {
			return false, err
		}
	}

	if email != "" {
		err := db.PaymentsCollection.FindOne(ctx, bson.M{
			"eventid": eventID,
			"email":   email,
			"status":  models.PaymentSuccess,
		}).Err()
		if err == nil {
			return true, nil
		}
		if err != mongo.ErrNoDocuments {
			return false, err
		}
	}

	return false, nil
}

// existingVirtualRSVP returns the COMPLETED free virtual order for this
// event+user, if one exists, so re-RSVPs can be answered with the same
// order instead of a duplicate.
func existingVirtualRSVP(ctx context.Context, eventID, userID string) (*models.Order, error) {
	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{
		"eventid":    eventID,
		"userid":     userID,
		"order_type": models.OrderTypeFreeVirtualRSVP,
		"status":     models.OrderCompleted,
	}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
