package tickets

import (
	"net/http"

	"eventra/db"
	"eventra/models"
	"eventra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/tickets: the caller's tickets, newest first.
func GetMyTickets(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	skip, limit := utils.ParsePagination(r, 20, 100)

	opts := options.Find().
		SetSort(bson.D{{Key: "issued_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := db.TicketsCollection.Find(r.Context(), bson.M{"userid": userID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tickets")
		return
	}
	defer cur.Close(r.Context())

	tickets := []models.Ticket{}
	if err := cur.All(r.Context(), &tickets); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode tickets")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"tickets": tickets})
}

// GET /api/tickets/:ticketid
func GetTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ticketID := ps.ByName("ticketid")
	userID := utils.GetUserIDFromRequest(r)

	var ticket models.Ticket
	err := db.TicketsCollection.FindOne(r.Context(), bson.M{"ticketid": ticketID}).Decode(&ticket)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Ticket not found")
		return
	}
	if ticket.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your ticket")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ticket)
}
