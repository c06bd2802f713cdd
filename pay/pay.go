// Package pay owns the order → payment → ticket issuance flow. An order
// reaches COMPLETED only when the provider's verify endpoint confirms the
// transaction; the callback never trusts client-supplied status.
package pay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"eventra/db"
	"eventra/gateway"
	"eventra/models"
	"eventra/utils"
	"eventra/visibility"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service carries the provider client so the callback flow can be exercised
// against a fake in tests.
type Service struct {
	gw gateway.Client
}

func NewService(gw gateway.Client) *Service {
	return &Service{gw: gw}
}

type initiateRequest struct {
	EventID string `json:"eventId"`
	Items   []struct {
		TierName string `json:"tierName"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

// priceOrder resolves the server-side price of the requested items. Client
// supplied amounts are never trusted.
func priceOrder(ev *models.Event, req initiateRequest) ([]models.OrderItem, float64, error) {
	if len(req.Items) == 0 {
		return nil, 0, fmt.Errorf("at least one line item is required")
	}

	tierPrice := map[string]float64{}
	for _, t := range ev.Tiers {
		tierPrice[t.Name] = t.Price
	}

	var items []models.OrderItem
	var total float64
	for _, it := range req.Items {
		if it.Quantity < 1 || it.Quantity > 10 {
			return nil, 0, fmt.Errorf("quantity must be between 1 and 10")
		}
		price := ev.Price
		name := it.TierName
		if name != "" {
			p, ok := tierPrice[name]
			if !ok {
				return nil, 0, fmt.Errorf("unknown tier %q", name)
			}
			price = p
		} else {
			name = "General"
		}
		items = append(items, models.OrderItem{TierName: name, Price: price, Quantity: it.Quantity})
		total += price * float64(it.Quantity)
	}
	return items, total, nil
}

// POST /api/payment: create a pending order and hand the user to the
// provider's hosted checkout.
func (s *Service) Initiate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	email := utils.GetEmailFromRequest(r)

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == "" {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_INPUT", "eventId and items are required")
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
	if event.Status != models.EventActive {
		utils.RespondWithCode(w, http.StatusConflict, "EVENT_NOT_ACTIVE", "Event is not open for registration")
		return
	}
	if event.IsFree() {
		utils.RespondWithCode(w, http.StatusBadRequest, "USE_RSVP", "Free events register via the RSVP path")
		return
	}

	items, amount, err := priceOrder(&event, req)
	if err != nil {
		utils.RespondWithCode(w, http.StatusBadRequest, "INVALID_ITEMS", err.Error())
		return
	}

	units := 0
	for _, it := range items {
		units += it.Quantity
	}
	if event.MaxAttendees > 0 {
		issued, err := db.TicketsCollection.CountDocuments(r.Context(), bson.M{"eventid": event.EventID})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Capacity check failed")
			return
		}
		if !event.HasCapacity(issued, units) {
			utils.RespondWithCode(w, http.StatusConflict, "EVENT_FULL", "Not enough seats left")
			return
		}
	}

	now := time.Now().UTC()
	txRef := "tx-" + utils.GetUUID()
	order := models.Order{
		OrderID:   "o" + utils.GenerateID(14),
		EventID:   event.EventID,
		UserID:    userID,
		Email:     email,
		OrderType: models.OrderTypePaidEvent,
		Items:     items,
		Amount:    amount,
		Currency:  event.Currency,
		Status:    models.OrderPendingPayment,
		TxRef:     txRef,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.OrdersCollection.InsertOne(r.Context(), order); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save order")
		return
	}

	payment := models.Payment{
		TxRef:    txRef,
		OrderID:  order.OrderID,
		EventID:  event.EventID,
		UserID:   userID,
		Email:    email,
		Amount:   amount,
		Currency: order.Currency,
		Status:   models.PaymentInitiated,
		History: []models.PaymentStatusChange{
			{Status: models.PaymentInitiated, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.PaymentsCollection.InsertOne(r.Context(), payment); err != nil {
		if isDuplicateKeyError(err) {
			utils.RespondWithCode(w, http.StatusConflict, "DUPLICATE_TX_REF", "Transaction reference already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save payment record")
		return
	}

	initReq := gateway.InitRequest{
		TxRef:       txRef,
		Amount:      amount,
		Currency:    order.Currency,
		RedirectURL: callbackURL(),
		Meta:        map[string]string{"orderid": order.OrderID, "eventid": event.EventID},
	}
	initReq.Customer.Email = email

	initResp, err := s.gw.Initialize(r.Context(), initReq)
	if err != nil {
		appendPaymentStatus(r.Context(), txRef, models.PaymentFailed, "initialization failed: "+err.Error())
		utils.RespondWithError(w, http.StatusBadGateway, "Payment initialization failed")
		return
	}

	appendPaymentStatus(r.Context(), txRef, models.PaymentPending, "redirect issued")

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"orderid":    order.OrderID,
		"tx_ref":     txRef,
		"paymentUrl": initResp.Link,
	})
}

func callbackURL() string {
	base := os.Getenv("APP_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base + "/api/payment/callback"
}

// appendPaymentStatus moves the payment to a new status and records the
// transition in the append-only history log.
func appendPaymentStatus(ctx context.Context, txRef, status, detail string) {
	change := models.PaymentStatusChange{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Detail:    detail,
	}
	_, err := db.PaymentsCollection.UpdateOne(ctx,
		bson.M{"tx_ref": txRef},
		bson.M{
			"$set":  bson.M{"status": status, "updated_at": change.Timestamp},
			"$push": bson.M{"history": change},
		},
	)
	if err != nil {
		log.Printf("pay: history append failed for %s: %v", txRef, err)
	}
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if we, ok := err.(mongo.WriteException); ok {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
