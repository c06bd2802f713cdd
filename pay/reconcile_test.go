package pay

import (
	"testing"
	"time"

	"eventra/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBackfillFilterCoversAllOrderTypes(t *testing.T) {
	filter := backfillFilter(time.Now().Add(-24 * time.Hour))

	if filter["status"] != models.OrderCompleted {
		t.Fatalf("sweep must target completed orders, got %v", filter["status"])
	}

	typeCond, ok := filter["order_type"].(bson.M)
	if !ok {
		t.Fatalf("order_type condition missing: %v", filter)
	}
	types, ok := typeCond["$in"].([]string)
	if !ok {
		t.Fatalf("order_type must be an $in set: %v", typeCond)
	}

	want := map[string]bool{
		models.OrderTypePaidEvent:        false,
		models.OrderTypeFreeVirtualRSVP:  false,
		models.OrderTypeFreeLocationRSVP: false,
	}
	for _, typ := range types {
		if _, known := want[typ]; !known {
			t.Fatalf("unexpected order type in sweep: %s", typ)
		}
		want[typ] = true
	}
	for typ, covered := range want {
		if !covered {
			t.Errorf("order type %s excluded from ticket backfill", typ)
		}
	}
}
