package events

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"eventra/db"
	"eventra/jitsi"
	"eventra/models"
	"eventra/mq"
	"eventra/subscriptions"
	"eventra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var bannerUploadPath = "./static/eventpic"

// POST /api/events: multipart form with an "event" JSON field and an
// optional "banner" image.
func CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_FORM", "Unable to parse form")
		return
	}

	if r.FormValue("event") == "" {
		utils.RespondWithCode(w, http.StatusBadRequest, "MISSING_EVENT", "Missing event data")
		return
	}

	var event models.Event
	if err := json.Unmarshal([]byte(r.FormValue("event")), &event); err != nil {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_EVENT", "Invalid event payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	if event.Title == "" || event.Date.IsZero() {
		utils.RespondWithCode(w, http.StatusBadRequest, "MISSING_FIELDS", "Title and date are required")
		return
	}
	if event.Price < 0 {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_PRICE", "Price cannot be negative")
		return
	}

	// Plan quota. The check fails open inside AllowEventCreation; a clean
	// "no" is the only thing that blocks creation.
	if !subscriptions.AllowEventCreation(r.Context(), userID) {
		utils.RespondWithCode(w, http.StatusForbidden, "EVENT_QUOTA_EXCEEDED", "Plan event limit reached")
		return
	}

	now := time.Now().UTC()
	event.EventID = "e" + utils.GenerateID(13)
	event.OrganizerID = userID
	event.Status = models.EventActive
	event.Date = event.Date.UTC()
	if !event.EndDate.IsZero() {
		event.EndDate = event.EndDate.UTC()
	}
	event.Views, event.Likes, event.Shares = 0, 0, 0
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Currency == "" {
		event.Currency = "USD"
	}

	// Visibility is always persisted in the tagged shape, emails
	// normalized at write time.
	event.Visibility = event.Visibility.Normalized()
	event.Visibility.RestrictedTo = utils.NormalizeEmails(event.Visibility.RestrictedTo)

	if event.IsVirtual {
		event.MeetingRoom = jitsi.RoomName(event.EventID)
		event.MeetingLink = jitsi.RoomLink(event.EventID)
	}

	if bannerFile, _, err := r.FormFile("banner"); err == nil {
		defer bannerFile.Close()
		fileName, err := utils.SaveImageFile(bannerFile, bannerUploadPath, event.EventID)
		if err != nil {
			utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_BANNER", err.Error())
			return
		}
		event.Banner = fileName
		if err := utils.CreateThumb(bannerUploadPath, fileName, 300, 200); err != nil {
			log.Printf("events: thumbnail failed for %s: %v", event.EventID, err)
		}
	} else if err != http.ErrMissingFile {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_BANNER", "Error retrieving banner file")
		return
	}

	if _, err := db.EventsCollection.InsertOne(r.Context(), event); err != nil {
		log.Printf("events: insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving event")
		return
	}

	go mq.Emit("event-created", mq.Index{
		EntityType: "event", EntityId: event.EventID, Method: "POST",
	})

	utils.RespondWithJSON(w, http.StatusCreated, event)
}

// loadOwnedEvent fetches an event and checks ownership in one step for the
// mutation handlers.
func loadOwnedEvent(r *http.Request, eventID string) (*models.Event, int, string) {
	var event models.Event
	if err := db.EventsCollection.FindOne(r.Context(), bson.M{"eventid": eventID}).Decode(&event); err != nil {
		return nil, http.StatusNotFound, "Event not found"
	}
	if event.OrganizerID != utils.GetUserIDFromRequest(r) {
		return nil, http.StatusForbidden, "Only the organizer may modify this event"
	}
	return &event, 0, ""
}
