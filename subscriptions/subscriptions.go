package subscriptions

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"eventra/db"
	"eventra/models"
	"eventra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActiveQuota resolves the event-creation quota for an organizer from their
// newest active subscription. No subscription means the free plan.
func ActiveQuota(ctx context.Context, organizerID string) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "end_date", Value: -1}})
	var sub models.Subscription
	err := db.SubscriptionsCollection.FindOne(ctx, bson.M{
		"organizerid": organizerID,
		"status":      models.SubscriptionActive,
	}, opts).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return models.PlanQuota(models.PlanFree), nil
	}
	if err != nil {
		return 0, err
	}
	if !sub.Active(time.Now()) {
		return models.PlanQuota(models.PlanFree), nil
	}
	return models.PlanQuota(sub.Plan), nil
}

// AllowEventCreation enforces the plan quota against the organizer's
// current event count. If the check itself fails, creation is allowed:
// availability wins over strictness here.
func AllowEventCreation(ctx context.Context, organizerID string) bool {
	quota, err := ActiveQuota(ctx, organizerID)
	if err != nil {
		log.Printf("subscriptions: quota lookup failed for %s, allowing creation: %v", organizerID, err)
		return true
	}

	count, err := db.EventsCollection.CountDocuments(ctx, bson.M{"organizerid": organizerID})
	if err != nil {
		log.Printf("subscriptions: event count failed for %s, allowing creation: %v", organizerID, err)
		return true
	}
	return count < int64(quota)
}

// GET /api/subscriptions/me
func GetMySubscription(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	opts := options.FindOne().SetSort(bson.D{{Key: "end_date", Value: -1}})
	var sub models.Subscription
	err := db.SubscriptionsCollection.FindOne(r.Context(), bson.M{"organizerid": userID}, opts).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"plan":   models.PlanFree,
			"quota":  models.PlanQuota(models.PlanFree),
			"status": "none",
		})
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch subscription")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"subscription": sub,
		"quota":        models.PlanQuota(sub.Plan),
	})
}

// POST /api/subscriptions: create or renew the organizer's plan.
func CreateSubscription(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		Plan   string `json:"plan"`
		Months int    `json:"months"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	switch input.Plan {
	case models.PlanFree, models.PlanStarter, models.PlanPro:
	default:
		utils.RespondWithCode(w, http.StatusBadRequest, "UNKNOWN_PLAN", "Unknown plan")
		return
	}
	if input.Months < 1 || input.Months > 24 {
		input.Months = 1
	}

	now := time.Now().UTC()
	sub := models.Subscription{
		SubscriptionID: "s" + utils.GenerateID(12),
		OrganizerID:    userID,
		Plan:           input.Plan,
		Status:         models.SubscriptionActive,
		StartDate:      now,
		EndDate:        now.AddDate(0, input.Months, 0),
		CreatedAt:      now,
	}

	// Retire any prior active plan before inserting the new one.
	_, err := db.SubscriptionsCollection.UpdateMany(r.Context(),
		bson.M{"organizerid": userID, "status": models.SubscriptionActive},
		bson.M{"$set": bson.M{"status": models.SubscriptionCanceled}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	if _, err := db.SubscriptionsCollection.InsertOne(r.Context(), sub); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, sub)
}
