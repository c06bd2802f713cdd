package models

import (
	"testing"
	"time"
)

func TestEventIsFree(t *testing.T) {
	cases := []struct {
		name string
		ev   Event
		want bool
	}{
		{"zero price no tiers", Event{}, true},
		{"priced event", Event{Price: 10}, false},
		{"free tiers", Event{Tiers: []TicketTier{{Name: "General", Price: 0}}}, true},
		{"one paid tier", Event{Tiers: []TicketTier{{Name: "General", Price: 0}, {Name: "VIP", Price: 40}}}, false},
	}
	for _, tc := range cases {
		if got := tc.ev.IsFree(); got != tc.want {
			t.Errorf("%s: IsFree = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEventHasCapacity(t *testing.T) {
	capped := Event{MaxAttendees: 10}
	cases := []struct {
		name      string
		issued    int64
		requested int
		want      bool
	}{
		{"room to spare", 5, 3, true},
		{"exactly full", 7, 3, true},
		{"one over", 8, 3, false},
		{"already full", 10, 1, false},
	}
	for _, tc := range cases {
		if got := capped.HasCapacity(tc.issued, tc.requested); got != tc.want {
			t.Errorf("%s: HasCapacity(%d, %d) = %v, want %v", tc.name, tc.issued, tc.requested, got, tc.want)
		}
	}

	uncapped := Event{}
	if !uncapped.HasCapacity(1_000_000, 100) {
		t.Fatal("zero MaxAttendees must mean uncapped")
	}
}

func TestOrderUnitCount(t *testing.T) {
	o := Order{Items: []OrderItem{
		{TierName: "General", Quantity: 3},
		{TierName: "VIP", Quantity: 2},
	}}
	if got := o.UnitCount(); got != 5 {
		t.Fatalf("UnitCount = %d, want 5", got)
	}

	empty := Order{}
	if empty.UnitCount() != 0 {
		t.Fatal("empty order must count zero units")
	}
}

func TestPlanQuota(t *testing.T) {
	if PlanQuota(PlanFree) != 3 || PlanQuota(PlanStarter) != 20 || PlanQuota(PlanPro) != 100 {
		t.Fatal("plan quotas changed")
	}
	if PlanQuota("enterprise") != 3 {
		t.Fatal("unknown plans must fall back to the free quota")
	}
}

func TestSubscriptionActive(t *testing.T) {
	now := time.Now()
	sub := Subscription{
		Status:    SubscriptionActive,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}
	if !sub.Active(now) {
		t.Fatal("in-window active subscription reported inactive")
	}

	expired := sub
	expired.EndDate = now.Add(-time.Minute)
	if expired.Active(now) {
		t.Fatal("past end date must be inactive")
	}

	canceled := sub
	canceled.Status = SubscriptionCanceled
	if canceled.Active(now) {
		t.Fatal("canceled subscription must be inactive")
	}
}
