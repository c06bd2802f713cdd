package organizers

import (
	"encoding/json"
	"net/http"
	"time"

	"eventra/auth"
	"eventra/db"
	"eventra/mailer"
	"eventra/models"
	"eventra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// POST /api/organizers/apply
func Apply(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		Organization string `json:"organization"`
		Website      string `json:"website"`
		Reason       string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Organization == "" {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_INPUT", "organization is required")
		return
	}

	err := db.OrganizerAppsCollection.FindOne(r.Context(), bson.M{
		"userid": userID,
		"status": models.ApplicationPending,
	}).Err()
	if err == nil {
		utils.RespondWithCode(w, http.StatusConflict, "APPLICATION_PENDING", "An application is already under review")
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Application lookup failed")
		return
	}

	app := models.OrganizerApplication{
		AppID:        "a" + utils.GenerateID(12),
		UserID:       userID,
		Organization: input.Organization,
		Website:      input.Website,
		Reason:       input.Reason,
		Status:       models.ApplicationPending,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := db.OrganizerAppsCollection.InsertOne(r.Context(), app); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save application")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, app)
}

// GET /api/organizers/application
func MyApplication(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var app models.OrganizerApplication
	err := db.OrganizerAppsCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "No application on file")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Application lookup failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, app)
}

// PUT /api/organizers/applications/:appid: admin review. Approval grants
// the organizer role.
func Review(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	appID := ps.ByName("appid")

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid payload")
		return
	}
	if input.Status != models.ApplicationApproved && input.Status != models.ApplicationRejected {
		utils.RespondWithCode(w, http.StatusBadRequest, "UNKNOWN_STATUS", "status must be approved or rejected")
		return
	}

	var app models.OrganizerApplication
	if err := db.OrganizerAppsCollection.FindOne(r.Context(), bson.M{"appid": appID}).Decode(&app); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Application not found")
		return
	}

	_, err := db.OrganizerAppsCollection.UpdateOne(r.Context(),
		bson.M{"appid": appID},
		bson.M{"$set": bson.M{"status": input.Status, "reviewed_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update application")
		return
	}

	if input.Status == models.ApplicationApproved {
		_, err := db.UserCollection.UpdateOne(r.Context(),
			bson.M{"userid": app.UserID},
			bson.M{"$addToSet": bson.M{"role": "organizer"}},
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to grant organizer role")
			return
		}
	}

	if user, err := auth.EnsureUser(r.Context(), app.UserID); err == nil {
		go mailer.SendOrganizerApplicationUpdate(user.Email, input.Status)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": input.Status})
}
