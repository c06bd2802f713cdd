package orders

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"eventra/auth"
	"eventra/db"
	"eventra/mailer"
	"eventra/models"
	"eventra/mq"
	"eventra/tickets"
	"eventra/utils"
	"eventra/visibility"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	minRSVPQuantity = 1
	maxRSVPQuantity = 10
)

type RSVPRequest struct {
	EventID   string `json:"eventId"`
	OrderType string `json:"orderType"`
	Quantity  int    `json:"quantity"`
}

// RSVPRejection carries the HTTP status and machine-readable code a bad
// RSVP gets back.
type RSVPRejection struct {
	Status  int
	Code    string
	Message string
}

// ValidateRSVP applies the free-registration rules: free events only,
// order type matching the event's virtual/physical nature, and quantity
// bounds. Virtual RSVPs are always a single seat. A nil return means the
// request is admissible.
func ValidateRSVP(ev *models.Event, req *RSVPRequest) *RSVPRejection {
	if ev.Status != models.EventActive {
		return &RSVPRejection{http.StatusConflict, "EVENT_NOT_ACTIVE", "Event is not open for registration"}
	}
	if !ev.IsFree() {
		return &RSVPRejection{http.StatusBadRequest, "PAYMENT_REQUIRED", "Paid events go through payment initiation"}
	}

	switch req.OrderType {
	case models.OrderTypeFreeVirtualRSVP:
		if !ev.IsVirtual {
			return &RSVPRejection{http.StatusBadRequest, "ORDER_TYPE_MISMATCH", "Physical events require FREE_LOCATION_EVENT_RSVP"}
		}
		req.Quantity = 1
	case models.OrderTypeFreeLocationRSVP:
		if ev.IsVirtual {
			return &RSVPRejection{http.StatusBadRequest, "ORDER_TYPE_MISMATCH", "Virtual events require FREE_VIRTUAL_EVENT_RSVP"}
		}
		if req.Quantity < minRSVPQuantity || req.Quantity > maxRSVPQuantity {
			return &RSVPRejection{http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be between 1 and 10"}
		}
	default:
		return &RSVPRejection{http.StatusBadRequest, "UNKNOWN_ORDER_TYPE", "Unsupported order type"}
	}

	return nil
}

// POST /api/orders/rsvp: free-event registration, bypassing payment.
func RSVP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	email := utils.GetEmailFromRequest(r)

	var req RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == "" {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_INPUT", "eventId and orderType are required")
		return
	}

	var event models.Event
	if err := db.EventsCollection.FindOne(r.Context(), bson.M{"eventid": req.EventID}).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	if !visibility.CanView(event.Visibility, event.OrganizerID, utils.ViewerFromRequest(r)) {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	if rej := ValidateRSVP(&event, &req); rej != nil {
		utils.RespondWithCode(w, rej.Status, rej.Code, rej.Message)
		return
	}

	// A virtual re-RSVP answers with the existing order; no duplicate is
	// created. Location RSVPs may repeat with fresh quantities.
	if req.OrderType == models.OrderTypeFreeVirtualRSVP {
		existing, err := existingVirtualRSVP(r.Context(), req.EventID, userID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Registration lookup failed")
			return
		}
		if existing != nil {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{
				"orderid":           existing.OrderID,
				"alreadyRegistered": true,
			})
			return
		}
	}

	if event.MaxAttendees > 0 {
		issued, err := db.TicketsCollection.CountDocuments(r.Context(), bson.M{"eventid": event.EventID})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Capacity check failed")
			return
		}
		if !event.HasCapacity(issued, req.Quantity) {
			utils.RespondWithCode(w, http.StatusConflict, "EVENT_FULL", "Not enough seats left")
			return
		}
	}

	now := time.Now().UTC()
	order := models.Order{
		OrderID:   "o" + utils.GenerateID(14),
		EventID:   event.EventID,
		UserID:    userID,
		Email:     email,
		OrderType: req.OrderType,
		Items: []models.OrderItem{
			{TierName: "General", Price: 0, Quantity: req.Quantity},
		},
		Amount:    0,
		Currency:  event.Currency,
		Status:    models.OrderCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.OrdersCollection.InsertOne(r.Context(), order); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save order")
		return
	}

	holderName := ""
	if user, err := auth.EnsureUser(r.Context(), userID); err == nil {
		holderName = user.Username
	}

	issuedTickets, err := tickets.Issue(r.Context(), &order, holderName)
	if err != nil {
		// The order stays COMPLETED and the registration stands; the
		// reconciler backfills the tickets and mails the codes.
		log.Printf("rsvp: ticket issuance failed for order %s: %v", order.OrderID, err)
		utils.RespondWithJSON(w, http.StatusCreated, utils.M{
			"orderid": order.OrderID,
			"tickets": []string{},
		})
		return
	}

	go mq.Emit("order-completed", mq.Index{
		EntityType: "order", EntityId: order.OrderID, Method: "POST",
		ItemType: "event", ItemId: event.EventID,
	})
	go mailer.SendOrderConfirmation(email, &event, &order, issuedTickets)

	codes := make([]string, len(issuedTickets))
	for i, t := range issuedTickets {
		codes[i] = t.TicketID
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"orderid": order.OrderID,
		"tickets": codes,
	})
}
