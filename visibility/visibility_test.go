package visibility

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestCanView(t *testing.T) {
	organizer := "u_org"
	cases := []struct {
		name string
		d    Descriptor
		v    Viewer
		want bool
	}{
		{"public anonymous", Public(), Viewer{}, true},
		{"public logged in", Public(), Viewer{ID: "u1", Email: "x@x.com"}, true},
		{"public with allow-list still open", Descriptor{Status: StatusPublic, RestrictedTo: []string{"a@x.com"}}, Viewer{}, true},
		{"private anonymous", Descriptor{Status: StatusPrivate}, Viewer{}, false},
		{"private organizer", Descriptor{Status: StatusPrivate}, Viewer{ID: organizer}, true},
		{"private listed email", Descriptor{Status: StatusPrivate, RestrictedTo: []string{"a@x.com", "b@x.com"}}, Viewer{ID: "u2", Email: "b@x.com"}, true},
		{"private unlisted email", Descriptor{Status: StatusPrivate, RestrictedTo: []string{"a@x.com"}}, Viewer{ID: "u2", Email: "c@x.com"}, false},
		{"unknown status fails open", Descriptor{Status: "friends"}, Viewer{}, true},
	}

	for _, tc := range cases {
		if got := CanView(tc.d, organizer, tc.v); got != tc.want {
			t.Errorf("%s: CanView = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNormalized(t *testing.T) {
	d := Descriptor{Status: "whatever", RestrictedTo: []string{"a@x.com"}}
	n := d.Normalized()
	if n.Status != StatusPublic {
		t.Fatalf("expected public, got %q", n.Status)
	}
	if len(n.RestrictedTo) != 1 {
		t.Fatalf("restriction list lost during normalization")
	}

	p := Descriptor{Status: StatusPrivate}
	if p.Normalized().Status != StatusPrivate {
		t.Fatal("private must survive normalization")
	}
}

type eventDoc struct {
	Visibility Descriptor `bson:"visibility"`
}

func TestUnmarshalLegacyString(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"visibility": "private"})
	if err != nil {
		t.Fatal(err)
	}
	var doc eventDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Visibility.Status != StatusPrivate {
		t.Fatalf("expected private, got %q", doc.Visibility.Status)
	}
}

func TestUnmarshalObjectForm(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"visibility": bson.M{
		"status":       "private",
		"restrictedto": bson.A{"a@x.com", "b@x.com"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	var doc eventDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Visibility.Status != StatusPrivate {
		t.Fatalf("expected private, got %q", doc.Visibility.Status)
	}
	if len(doc.Visibility.RestrictedTo) != 2 || doc.Visibility.RestrictedTo[1] != "b@x.com" {
		t.Fatalf("allow-list not decoded: %v", doc.Visibility.RestrictedTo)
	}
}

func TestUnmarshalMalformedFailsOpen(t *testing.T) {
	for _, v := range []interface{}{int32(42), true, bson.M{"status": int32(7)}} {
		raw, err := bson.Marshal(bson.M{"visibility": v})
		if err != nil {
			t.Fatal(err)
		}
		var doc eventDoc
		if err := bson.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("malformed value must not error: %v", err)
		}
		if doc.Visibility.Status != StatusPublic {
			t.Fatalf("malformed value %v must default to public, got %q", v, doc.Visibility.Status)
		}
	}
}

func TestListFilter(t *testing.T) {
	anon := ListFilter(Viewer{})
	anonOr, ok := anon["$or"].([]bson.M)
	if !ok || len(anonOr) != 2 {
		t.Fatalf("anonymous filter must be the two public shapes: %v", anon)
	}
	if anonOr[0]["visibility.status"] != StatusPublic {
		t.Fatalf("tagged public branch missing: %v", anonOr[0])
	}
	if anonOr[1]["visibility"] != StatusPublic {
		t.Fatalf("legacy bare-string public branch missing: %v", anonOr[1])
	}

	f := ListFilter(Viewer{ID: "u1", Email: "a@x.com"})
	or, ok := f["$or"].([]bson.M)
	if !ok || len(or) != 4 {
		t.Fatalf("expected four-branch disjunction, got %v", f)
	}
	if or[1]["visibility"] != StatusPublic {
		t.Fatalf("legacy public branch missing: %v", or[1])
	}
	if or[2]["organizerid"] != "u1" {
		t.Fatalf("ownership branch missing: %v", or[2])
	}
	if or[3]["visibility.restrictedto"] != "a@x.com" {
		t.Fatalf("allow-list branch missing: %v", or[3])
	}
}
