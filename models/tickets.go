package models

import "time"

// Ticket statuses.
const (
	TicketValid = "valid"
	TicketUsed  = "used"
)

// Ticket is one admission document per purchased seat. QRCode always equals
// the ticket's own identifier.
type Ticket struct {
	TicketID   string    `json:"ticketid" bson:"ticketid"`
	OrderID    string    `json:"orderid" bson:"orderid"`
	EventID    string    `json:"eventid" bson:"eventid"`
	UserID     string    `json:"userid" bson:"userid"`
	HolderName string    `json:"holderName,omitempty" bson:"holder_name,omitempty"`
	Email      string    `json:"email" bson:"email"`
	TierName   string    `json:"tierName,omitempty" bson:"tier_name,omitempty"`
	Price      float64   `json:"price" bson:"price"`
	Currency   string    `json:"currency,omitempty" bson:"currency,omitempty"`
	QRCode     string    `json:"qrcode" bson:"qrcode"`
	Status     string    `json:"status" bson:"status"`
	IssuedAt   time.Time `json:"issued_at" bson:"issued_at"`
	UsedAt     time.Time `json:"used_at,omitempty" bson:"used_at,omitempty"`
}
