package tickets

import (
	"encoding/json"
	"net/http"
	"time"

	"eventra/db"
	"eventra/models"
	"eventra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// POST /api/tickets/verify: gate scanner endpoint. Validates the signed QR
// payload, then atomically marks the ticket used so the same code cannot be
// admitted twice.
func VerifyScan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Payload string `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Payload == "" {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_PAYLOAD", "QR payload is required")
		return
	}

	eventID, ticketID, err := VerifySignedQRPayload(input.Payload)
	if err != nil {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_QR", err.Error())
		return
	}

	res, err := db.TicketsCollection.UpdateOne(r.Context(),
		bson.M{"ticketid": ticketID, "eventid": eventID, "status": models.TicketValid},
		bson.M{"$set": bson.M{"status": models.TicketUsed, "used_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Verification failed")
		return
	}
	if res.ModifiedCount == 0 {
		// Either unknown or already admitted.
		var ticket models.Ticket
		findErr := db.TicketsCollection.FindOne(r.Context(), bson.M{"ticketid": ticketID, "eventid": eventID}).Decode(&ticket)
		if findErr != nil {
			utils.RespondWithCode(w, http.StatusNotFound, "TICKET_NOT_FOUND", "No such ticket for this event")
			return
		}
		utils.RespondWithCode(w, http.StatusConflict, "TICKET_ALREADY_USED", "Ticket was already scanned")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"valid":    true,
		"ticketid": ticketID,
		"eventid":  eventID,
	})
}
