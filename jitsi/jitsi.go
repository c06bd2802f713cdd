package jitsi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventra/db"
	"eventra/globals"
	"eventra/models"
	"eventra/utils"
	"eventra/visibility"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// RoomName derives the conference room identifier for a virtual event.
func RoomName(eventID string) string {
	return fmt.Sprintf("eventra-%s", strings.ToLower(eventID))
}

// RoomLink is the join URL participants receive.
func RoomLink(eventID string) string {
	domain := globals.Getenv("JITSI_DOMAIN", "meet.jit.si")
	return fmt.Sprintf("https://%s/%s", domain, RoomName(eventID))
}

type roomClaims struct {
	Room    string         `json:"room"`
	Context map[string]any `json:"context"`
	jwt.RegisteredClaims
}

// Token signs a moderator/participant JWT for the given room, scoped to the
// configured app id and audience.
func Token(room, userID, username, email string, moderator bool, ttl time.Duration) (string, error) {
	secret := globals.Getenv("JITSI_APP_SECRET", "")
	if secret == "" {
		return "", fmt.Errorf("JITSI_APP_SECRET not configured")
	}
	appID := globals.Getenv("JITSI_APP_ID", "eventra")

	now := time.Now()
	claims := roomClaims{
		Room: room,
		Context: map[string]any{
			"user": map[string]any{
				"id":        userID,
				"name":      username,
				"email":     email,
				"moderator": moderator,
			},
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    appID,
			Subject:   globals.Getenv("JITSI_DOMAIN", "meet.jit.si"),
			Audience:  jwt.ClaimStrings{"jitsi"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// grantRejection carries the HTTP status and code a refused token request
// gets back.
type grantRejection struct {
	Status  int
	Code    string
	Message string
}

// resolveGrant validates a room token request against the event's access
// policy. Participants need read access to the event; moderator tokens are
// the organizer's alone. Invisible events answer as missing so their
// existence is not leaked. A nil return means the token may be signed.
func resolveGrant(ev *models.Event, v visibility.Viewer, moderator bool) *grantRejection {
	if !visibility.CanView(ev.Visibility, ev.OrganizerID, v) {
		return &grantRejection{http.StatusNotFound, "EVENT_NOT_FOUND", "Event not found"}
	}
	if moderator && v.ID != ev.OrganizerID {
		return &grantRejection{http.StatusForbidden, "NOT_ORGANIZER", "Moderator tokens are limited to the organizer"}
	}
	return nil
}

// GET /api/jitsi/generate-token?eventid=...&moderator=true
func GenerateToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	eventID := r.URL.Query().Get("eventid")
	if eventID == "" {
		utils.RespondWithCode(w, http.StatusBadRequest, "MISSING_EVENT_ID", "eventid is required")
		return
	}

	var event models.Event
	if err := db.EventsCollection.FindOne(r.Context(), bson.M{"eventid": eventID}).Decode(&event); err != nil {
		utils.RespondWithCode(w, http.StatusNotFound, "EVENT_NOT_FOUND", "Event not found")
		return
	}

	viewer := utils.ViewerFromRequest(r)
	moderator := r.URL.Query().Get("moderator") == "true"
	if rej := resolveGrant(&event, viewer, moderator); rej != nil {
		utils.RespondWithCode(w, rej.Status, rej.Code, rej.Message)
		return
	}

	room := RoomName(eventID)
	token, err := Token(room, viewer.ID, viewer.ID, viewer.Email, moderator, 2*time.Hour)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to sign room token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"room":  room,
		"link":  RoomLink(eventID),
		"token": token,
	})
}
