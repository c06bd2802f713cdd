package models

import "time"

// Payment statuses, in the order the flow walks them. success, failed and
// verification_failed are terminal.
const (
	PaymentInitiated          = "initiated"
	PaymentPending            = "pending"
	PaymentSuccess            = "success"
	PaymentFailed             = "failed"
	PaymentVerificationFailed = "verification_failed"
)

// PaymentStatusChange is one entry in a payment's append-only history log.
type PaymentStatusChange struct {
	Status    string    `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Detail    string    `json:"detail,omitempty" bson:"detail,omitempty"`
}

type Payment struct {
	TxRef     string                `json:"tx_ref" bson:"tx_ref"`
	OrderID   string                `json:"orderid" bson:"orderid"`
	EventID   string                `json:"eventid" bson:"eventid"`
	UserID    string                `json:"userid" bson:"userid"`
	Email     string                `json:"email" bson:"email"`
	Amount    float64               `json:"amount" bson:"amount"`
	Currency  string                `json:"currency" bson:"currency"`
	Status    string                `json:"status" bson:"status"`
	History   []PaymentStatusChange `json:"history" bson:"history"`
	CreatedAt time.Time             `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time             `json:"updated_at" bson:"updated_at"`
}
