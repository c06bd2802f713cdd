package events

import (
	"net/http"

	"eventra/db"
	"eventra/rdx"
	"eventra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Engagement bumps go through redis and a background ticker folds them into
// the event documents; nothing is counted in process memory.

// POST /api/events/:eventid/like
func LikeEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bumpEngagement(w, r, ps.ByName("eventid"), "like")
}

// POST /api/events/:eventid/share
func ShareEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bumpEngagement(w, r, ps.ByName("eventid"), "share")
}

func bumpEngagement(w http.ResponseWriter, r *http.Request, eventID, kind string) {
	err := db.EventsCollection.FindOne(r.Context(), bson.M{"eventid": eventID}).Err()
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	rdx.BumpCounter(kind, eventID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
