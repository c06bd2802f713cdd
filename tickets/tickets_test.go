package tickets

import (
	"strings"
	"testing"
	"time"

	"eventra/models"
)

func TestBuildOneTicketPerUnit(t *testing.T) {
	order := &models.Order{
		OrderID:  "o1",
		EventID:  "e1",
		UserID:   "u1",
		Email:    "a@x.com",
		Currency: "USD",
		Items: []models.OrderItem{
			{TierName: "General", Price: 10, Quantity: 3},
			{TierName: "VIP", Price: 40, Quantity: 2},
		},
	}

	built := Build(order, "Ada")
	if len(built) != 5 {
		t.Fatalf("expected 5 tickets, got %d", len(built))
	}

	seen := map[string]bool{}
	vip := 0
	for _, tk := range built {
		if tk.TicketID == "" || tk.QRCode != tk.TicketID {
			t.Fatalf("QR code must equal the ticket id: %+v", tk)
		}
		if seen[tk.TicketID] {
			t.Fatalf("duplicate ticket id %s", tk.TicketID)
		}
		seen[tk.TicketID] = true
		if tk.Status != models.TicketValid {
			t.Fatalf("fresh ticket must be valid, got %q", tk.Status)
		}
		if tk.OrderID != "o1" || tk.EventID != "e1" || tk.HolderName != "Ada" {
			t.Fatalf("ticket not linked to its order: %+v", tk)
		}
		if tk.TierName == "VIP" {
			vip++
			if tk.Price != 40 {
				t.Fatalf("VIP ticket priced %v", tk.Price)
			}
		}
	}
	if vip != 2 {
		t.Fatalf("expected 2 VIP tickets, got %d", vip)
	}
}

func TestBuildEmptyOrder(t *testing.T) {
	order := &models.Order{OrderID: "o1"}
	if built := Build(order, ""); len(built) != 0 {
		t.Fatalf("order without items produced %d tickets", len(built))
	}
}

func TestSignedQRPayloadRoundTrip(t *testing.T) {
	issued := time.Now().UTC()
	payload := SignedQRPayload("e1", "t-abc", issued)

	eventID, ticketID, err := VerifySignedQRPayload(payload)
	if err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if eventID != "e1" || ticketID != "t-abc" {
		t.Fatalf("ids not recovered: %s %s", eventID, ticketID)
	}
}

func TestSignedQRPayloadTamperRejected(t *testing.T) {
	payload := SignedQRPayload("e1", "t-abc", time.Now())

	// swap the ticket id for someone else's
	forged := strings.Replace(payload, "t-abc", "t-xyz", 1)
	if _, _, err := VerifySignedQRPayload(forged); err == nil {
		t.Fatal("tampered payload accepted")
	}

	if _, _, err := VerifySignedQRPayload("e1|t-abc|notatime|sig"); err == nil {
		t.Fatal("bad timestamp accepted")
	}
	if _, _, err := VerifySignedQRPayload("just-a-ticket-id"); err == nil {
		t.Fatal("unsigned payload accepted")
	}
}
