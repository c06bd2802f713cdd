package pay

import (
	"testing"

	"eventra/models"
)

func TestPriceOrderUsesServerPrices(t *testing.T) {
	ev := &models.Event{
		Price: 10,
		Tiers: []models.TicketTier{
			{Name: "General", Price: 10, Quantity: 100},
			{Name: "VIP", Price: 40, Quantity: 20},
		},
	}
	req := initiateRequest{EventID: "e1"}
	req.Items = []struct {
		TierName string `json:"tierName"`
		Quantity int    `json:"quantity"`
	}{
		{TierName: "General", Quantity: 2},
		{TierName: "VIP", Quantity: 1},
	}

	items, total, err := priceOrder(ev, req)
	if err != nil {
		t.Fatal(err)
	}
	if total != 60 {
		t.Fatalf("total = %v, want 60", total)
	}
	if len(items) != 2 || items[1].Price != 40 {
		t.Fatalf("tier prices not resolved server-side: %+v", items)
	}
}

func TestPriceOrderDefaultsToBasePrice(t *testing.T) {
	ev := &models.Event{Price: 15}
	req := initiateRequest{EventID: "e1"}
	req.Items = []struct {
		TierName string `json:"tierName"`
		Quantity int    `json:"quantity"`
	}{
		{Quantity: 3},
	}

	items, total, err := priceOrder(ev, req)
	if err != nil {
		t.Fatal(err)
	}
	if total != 45 {
		t.Fatalf("total = %v, want 45", total)
	}
	if items[0].TierName != "General" {
		t.Fatalf("untier-ed item must land on General, got %q", items[0].TierName)
	}
}

func TestPriceOrderRejections(t *testing.T) {
	ev := &models.Event{Price: 15, Tiers: []models.TicketTier{{Name: "VIP", Price: 40}}}

	mk := func(tier string, qty int) initiateRequest {
		req := initiateRequest{EventID: "e1"}
		req.Items = []struct {
			TierName string `json:"tierName"`
			Quantity int    `json:"quantity"`
		}{
			{TierName: tier, Quantity: qty},
		}
		return req
	}

	if _, _, err := priceOrder(ev, initiateRequest{EventID: "e1"}); err == nil {
		t.Error("empty item list must be rejected")
	}
	if _, _, err := priceOrder(ev, mk("VIP", 0)); err == nil {
		t.Error("zero quantity must be rejected")
	}
	if _, _, err := priceOrder(ev, mk("VIP", 11)); err == nil {
		t.Error("quantity above cap must be rejected")
	}
	if _, _, err := priceOrder(ev, mk("Platinum", 1)); err == nil {
		t.Error("unknown tier must be rejected")
	}
}
