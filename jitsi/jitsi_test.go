package jitsi

import (
	"net/http"
	"testing"
	"time"

	"eventra/models"
	"eventra/visibility"

	"github.com/golang-jwt/jwt/v5"
)

func TestRoomName(t *testing.T) {
	if got := RoomName("E123ABC"); got != "eventra-e123abc" {
		t.Fatalf("RoomName = %q", got)
	}
}

func TestTokenClaims(t *testing.T) {
	t.Setenv("JITSI_APP_SECRET", "test-secret")
	t.Setenv("JITSI_APP_ID", "eventra-test")

	signed, err := Token("eventra-e1", "u1", "Ada", "a@x.com", true, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	var claims roomClaims
	tok, err := jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("token does not verify: %v", err)
	}

	if claims.Room != "eventra-e1" {
		t.Fatalf("room claim = %q", claims.Room)
	}
	if claims.Issuer != "eventra-test" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
	user, ok := claims.Context["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("user context missing: %v", claims.Context)
	}
	if user["moderator"] != true || user["email"] != "a@x.com" {
		t.Fatalf("user claims wrong: %v", user)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Hour+time.Minute {
		t.Fatal("expiry not bounded by the requested ttl")
	}
}

func TestResolveGrant(t *testing.T) {
	private := &models.Event{
		EventID:     "e1",
		OrganizerID: "u_org",
		Visibility: visibility.Descriptor{
			Status:       visibility.StatusPrivate,
			RestrictedTo: []string{"a@x.com"},
		},
	}
	public := &models.Event{
		EventID:     "e2",
		OrganizerID: "u_org",
		Visibility:  visibility.Public(),
	}

	cases := []struct {
		name       string
		ev         *models.Event
		v          visibility.Viewer
		moderator  bool
		wantStatus int // 0 means granted
	}{
		{"public participant", public, visibility.Viewer{ID: "u1", Email: "x@x.com"}, false, 0},
		{"organizer moderator", public, visibility.Viewer{ID: "u_org"}, true, 0},
		{"non-organizer moderator", public, visibility.Viewer{ID: "u1"}, true, http.StatusForbidden},
		{"private listed participant", private, visibility.Viewer{ID: "u2", Email: "a@x.com"}, false, 0},
		{"private unlisted viewer", private, visibility.Viewer{ID: "u2", Email: "b@x.com"}, false, http.StatusNotFound},
		{"private listed asks moderator", private, visibility.Viewer{ID: "u2", Email: "a@x.com"}, true, http.StatusForbidden},
		{"private organizer moderator", private, visibility.Viewer{ID: "u_org"}, true, 0},
	}

	for _, tc := range cases {
		rej := resolveGrant(tc.ev, tc.v, tc.moderator)
		if tc.wantStatus == 0 {
			if rej != nil {
				t.Errorf("%s: expected grant, got %+v", tc.name, rej)
			}
			continue
		}
		if rej == nil {
			t.Errorf("%s: expected rejection with %d, got grant", tc.name, tc.wantStatus)
			continue
		}
		if rej.Status != tc.wantStatus {
			t.Errorf("%s: status %d, want %d", tc.name, rej.Status, tc.wantStatus)
		}
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("JITSI_APP_SECRET", "")
	if _, err := Token("room", "u1", "Ada", "a@x.com", false, time.Hour); err == nil {
		t.Fatal("expected error without a configured secret")
	}
}
