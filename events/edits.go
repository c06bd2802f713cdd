package events

import (
	"encoding/json"
	"net/http"
	"time"

	"eventra/db"
	"eventra/jitsi"
	"eventra/models"
	"eventra/mq"
	"eventra/utils"
	"eventra/visibility"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// PUT /api/events/:eventid: organizer-only field updates.
func UpdateEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	event, status, msg := loadOwnedEvent(r, eventID)
	if event == nil {
		utils.RespondWithError(w, status, msg)
		return
	}

	var input struct {
		Title        *string                `json:"title"`
		Description  *string                `json:"description"`
		Date         *time.Time             `json:"date"`
		EndDate      *time.Time             `json:"end_date"`
		Category     *string                `json:"category"`
		Location     *string                `json:"location"`
		Price        *float64               `json:"price"`
		MaxAttendees *int                   `json:"maxAttendees"`
		Visibility   *visibility.Descriptor `json:"visibility"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid update payload")
		return
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Date != nil {
		set["date"] = input.Date.UTC()
	}
	if input.EndDate != nil {
		set["end_date"] = input.EndDate.UTC()
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.Location != nil {
		set["location"] = *input.Location
	}
	if input.Price != nil {
		if *input.Price < 0 {
			utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_PRICE", "Price cannot be negative")
			return
		}
		set["price"] = *input.Price
	}
	if input.MaxAttendees != nil {
		set["max_attendees"] = *input.MaxAttendees
	}
	if input.Visibility != nil {
		d := input.Visibility.Normalized()
		d.RestrictedTo = utils.NormalizeEmails(d.RestrictedTo)
		set["visibility"] = d
	}

	if _, err := db.EventsCollection.UpdateOne(r.Context(), bson.M{"eventid": eventID}, bson.M{"$set": set}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update event")
		return
	}

	go mq.Emit("event-updated", mq.Index{EntityType: "event", EntityId: eventID, Method: "PUT"})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"updated": true})
}

// PUT /api/events/:eventid/status: lifecycle transitions.
func UpdateEventStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	event, status, msg := loadOwnedEvent(r, eventID)
	if event == nil {
		utils.RespondWithError(w, status, msg)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid payload")
		return
	}
	switch input.Status {
	case models.EventActive, models.EventCancelled, models.EventCompleted:
	default:
		utils.RespondWithCode(w, http.StatusBadRequest, "UNKNOWN_STATUS", "Unknown event status")
		return
	}

	_, err := db.EventsCollection.UpdateOne(r.Context(),
		bson.M{"eventid": eventID},
		bson.M{"$set": bson.M{"status": input.Status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	go mq.Emit("event-status-changed", mq.Index{EntityType: "event", EntityId: eventID, Method: "PUT"})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": input.Status})
}

// POST /api/events/:eventid/delete: deletion is soft-blocked once the
// event has attendees; cancel instead.
func DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	event, status, msg := loadOwnedEvent(r, eventID)
	if event == nil {
		utils.RespondWithError(w, status, msg)
		return
	}

	attendees, err := db.TicketsCollection.CountDocuments(r.Context(), bson.M{"eventid": eventID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Attendee check failed")
		return
	}
	if attendees > 0 {
		utils.RespondWithCode(w, http.StatusConflict, "EVENT_HAS_ATTENDEES",
			"Events with attendees cannot be deleted; cancel the event instead")
		return
	}

	if _, err := db.EventsCollection.DeleteOne(r.Context(), bson.M{"eventid": eventID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	go mq.Emit("event-deleted", mq.Index{EntityType: "event", EntityId: eventID, Method: "DELETE"})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"deleted": true})
}

// POST /api/events/:eventid/regenerate-room: post-creation hook for
// virtual events: refreshes the meeting room once an identifier exists.
func RegenerateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	event, status, msg := loadOwnedEvent(r, eventID)
	if event == nil {
		utils.RespondWithError(w, status, msg)
		return
	}
	if !event.IsVirtual {
		utils.RespondWithCode(w, http.StatusBadRequest, "NOT_VIRTUAL", "Only virtual events have meeting rooms")
		return
	}

	room := jitsi.RoomName(eventID)
	link := jitsi.RoomLink(eventID)
	_, err := db.EventsCollection.UpdateOne(r.Context(),
		bson.M{"eventid": eventID},
		bson.M{"$set": bson.M{
			"meeting_room": room,
			"meeting_link": link,
			"updated_at":   time.Now().UTC(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to regenerate room")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"room": room, "link": link})
}
