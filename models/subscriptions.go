package models

import "time"

// Subscription plans and the event-creation quota each grants.
const (
	PlanFree    = "free"
	PlanStarter = "starter"
	PlanPro     = "pro"

	SubscriptionActive   = "active"
	SubscriptionExpired  = "expired"
	SubscriptionCanceled = "canceled"
)

type Subscription struct {
	SubscriptionID string    `json:"subscriptionid" bson:"subscriptionid"`
	OrganizerID    string    `json:"organizerid" bson:"organizerid"`
	Plan           string    `json:"plan" bson:"plan"`
	Status         string    `json:"status" bson:"status"`
	StartDate      time.Time `json:"start_date" bson:"start_date"`
	EndDate        time.Time `json:"end_date" bson:"end_date"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// PlanQuota maps a plan to the number of events an organizer may have
// created under it. Unknown plans get the free quota.
func PlanQuota(plan string) int {
	switch plan {
	case PlanPro:
		return 100
	case PlanStarter:
		return 20
	default:
		return 3
	}
}

// Active reports whether the subscription covers the given instant.
func (s *Subscription) Active(now time.Time) bool {
	return s.Status == SubscriptionActive &&
		!now.Before(s.StartDate) && now.Before(s.EndDate)
}
