package models

import "time"

// Order statuses. COMPLETED keeps its historical upper-case spelling; the
// stored records predate the lower-case convention and the callback flow
// matches on the exact string.
const (
	OrderPendingPayment = "pending_payment"
	OrderCompleted      = "COMPLETED"
	OrderPaymentFailed  = "payment_failed"
	OrderCancelled      = "cancelled"
)

// Order types. The RSVP path only accepts the two free variants; paid
// events always go through payment initiation.
const (
	OrderTypeFreeVirtualRSVP  = "FREE_VIRTUAL_EVENT_RSVP"
	OrderTypeFreeLocationRSVP = "FREE_LOCATION_EVENT_RSVP"
	OrderTypePaidEvent        = "PAID_EVENT"
)

type OrderItem struct {
	TierName string  `json:"tierName" bson:"tier_name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

type Order struct {
	OrderID   string      `json:"orderid" bson:"orderid"`
	EventID   string      `json:"eventid" bson:"eventid"`
	UserID    string      `json:"userid" bson:"userid"`
	Email     string      `json:"email" bson:"email"`
	OrderType string      `json:"orderType" bson:"order_type"`
	Items     []OrderItem `json:"items" bson:"items"`
	Amount    float64     `json:"amount" bson:"amount"`
	Currency  string      `json:"currency" bson:"currency"`
	Status    string      `json:"status" bson:"status"`
	TxRef     string      `json:"tx_ref,omitempty" bson:"tx_ref,omitempty"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// UnitCount is the number of admission units on the order: the sum of
// quantity across all line items. One ticket is issued per unit.
func (o *Order) UnitCount() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}
