package orders

import (
	"net/http"
	"testing"

	"eventra/models"
)

func freeEvent(virtual bool) *models.Event {
	return &models.Event{
		EventID:   "e1",
		Status:    models.EventActive,
		IsVirtual: virtual,
	}
}

func TestValidateRSVPAdmits(t *testing.T) {
	req := &RSVPRequest{EventID: "e1", OrderType: models.OrderTypeFreeLocationRSVP, Quantity: 3}
	if rej := ValidateRSVP(freeEvent(false), req); rej != nil {
		t.Fatalf("valid location RSVP rejected: %+v", rej)
	}

	vreq := &RSVPRequest{EventID: "e1", OrderType: models.OrderTypeFreeVirtualRSVP, Quantity: 5}
	if rej := ValidateRSVP(freeEvent(true), vreq); rej != nil {
		t.Fatalf("valid virtual RSVP rejected: %+v", rej)
	}
	if vreq.Quantity != 1 {
		t.Fatalf("virtual RSVP must be forced to one seat, got %d", vreq.Quantity)
	}
}

func TestValidateRSVPRejections(t *testing.T) {
	paid := freeEvent(false)
	paid.Price = 25

	cancelled := freeEvent(false)
	cancelled.Status = models.EventCancelled

	tieredPaid := freeEvent(false)
	tieredPaid.Tiers = []models.TicketTier{{Name: "VIP", Price: 50, Quantity: 10}}

	cases := []struct {
		name       string
		ev         *models.Event
		req        RSVPRequest
		wantStatus int
		wantCode   string
	}{
		{"inactive event", cancelled, RSVPRequest{OrderType: models.OrderTypeFreeLocationRSVP, Quantity: 1}, http.StatusConflict, "EVENT_NOT_ACTIVE"},
		{"paid base price", paid, RSVPRequest{OrderType: models.OrderTypeFreeLocationRSVP, Quantity: 1}, http.StatusBadRequest, "PAYMENT_REQUIRED"},
		{"paid tier", tieredPaid, RSVPRequest{OrderType: models.OrderTypeFreeLocationRSVP, Quantity: 1}, http.StatusBadRequest, "PAYMENT_REQUIRED"},
		{"virtual type on physical event", freeEvent(false), RSVPRequest{OrderType: models.OrderTypeFreeVirtualRSVP}, http.StatusBadRequest, "ORDER_TYPE_MISMATCH"},
		{"location type on virtual event", freeEvent(true), RSVPRequest{OrderType: models.OrderTypeFreeLocationRSVP, Quantity: 2}, http.StatusBadRequest, "ORDER_TYPE_MISMATCH"},
		{"zero quantity", freeEvent(false), RSVPRequest{OrderType: models.OrderTypeFreeLocationRSVP, Quantity: 0}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"quantity above cap", freeEvent(false), RSVPRequest{OrderType: models.OrderTypeFreeLocationRSVP, Quantity: 11}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"paid order type", freeEvent(false), RSVPRequest{OrderType: models.OrderTypePaidEvent, Quantity: 1}, http.StatusBadRequest, "UNKNOWN_ORDER_TYPE"},
		{"garbage order type", freeEvent(false), RSVPRequest{OrderType: "WALK_IN", Quantity: 1}, http.StatusBadRequest, "UNKNOWN_ORDER_TYPE"},
	}

	for _, tc := range cases {
		req := tc.req
		rej := ValidateRSVP(tc.ev, &req)
		if rej == nil {
			t.Errorf("%s: expected rejection, got none", tc.name)
			continue
		}
		if rej.Status != tc.wantStatus || rej.Code != tc.wantCode {
			t.Errorf("%s: got %d %s, want %d %s", tc.name, rej.Status, rej.Code, tc.wantStatus, tc.wantCode)
		}
	}
}
