package events

import (
	"net/http"

	"eventra/db"
	"eventra/models"
	"eventra/orders"
	"eventra/rdx"
	"eventra/utils"
	"eventra/visibility"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/events: visibility-filtered listing with pagination and
// optional category/search filters. ?mine=true switches to the organizer
// dashboard view: ownership alone, visibility bypassed.
func GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	viewer := utils.ViewerFromRequest(r)
	skip, limit := utils.ParsePagination(r, 10, 100)

	var filter bson.M
	if r.URL.Query().Get("mine") == "true" && !viewer.Anonymous() {
		filter = visibility.OwnerFilter(viewer.ID)
	} else {
		filter = visibility.ListFilter(viewer)
	}

	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["title"] = bson.M{"$regex": search, "$options": "i"}
	}
	if r.URL.Query().Get("upcoming") == "true" {
		filter["status"] = models.EventActive
	}

	totalCount, err := db.EventsCollection.CountDocuments(r.Context(), filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch event count")
		return
	}

	opts := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "date", Value: 1}})

	cur, err := db.EventsCollection.Find(r.Context(), filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	defer cur.Close(r.Context())

	list := []models.Event{}
	if err := cur.All(r.Context(), &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode events")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"events":     list,
		"eventCount": totalCount,
		"page":       skip/limit + 1,
		"limit":      limit,
	})
}

// GET /api/events/:eventid: single event read behind the visibility gate.
// Private events a viewer may not see answer 404, not 403, so their
// existence is not leaked.
func GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	viewer := utils.ViewerFromRequest(r)

	var event models.Event
	if err := db.EventsCollection.FindOne(r.Context(), bson.M{"eventid": eventID}).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	if !visibility.CanView(event.Visibility, event.OrganizerID, viewer) {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	go rdx.BumpCounter("view", eventID)

	registered := false
	if !viewer.Anonymous() {
		if reg, err := orders.IsRegistered(r.Context(), eventID, viewer.ID, viewer.Email); err == nil {
			registered = reg
		}
	}

	// The allow-list is only the organizer's business.
	if viewer.ID != event.OrganizerID {
		event.Visibility.RestrictedTo = nil
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"event":      event,
		"registered": registered,
	})
}
