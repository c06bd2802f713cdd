package pay

import (
	"log"
	"net/http"
	"os"
	"time"

	"eventra/auth"
	"eventra/db"
	"eventra/gateway"
	"eventra/mailer"
	"eventra/models"
	"eventra/mq"
	"eventra/tickets"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// verdict is the outcome of resolving a provider verification response.
type verdict struct {
	PaymentStatus string
	OrderStatus   string
	IssueTickets  bool
	Detail        string
}

// resolveVerification maps the provider's answer onto our payment/order
// state machines. Verification errors and amount/currency mismatches are
// terminal for the transaction; only a confirmed successful charge of at
// least the order amount completes the order and issues tickets.
func resolveVerification(v gateway.VerifyResult, verifyErr error, wantAmount float64, wantCurrency string) verdict {
	if verifyErr != nil {
		return verdict{
			PaymentStatus: models.PaymentVerificationFailed,
			OrderStatus:   models.OrderPaymentFailed,
			Detail:        "verification call failed: " + verifyErr.Error(),
		}
	}
	if !v.Successful() {
		return verdict{
			PaymentStatus: models.PaymentFailed,
			OrderStatus:   models.OrderPaymentFailed,
			Detail:        "provider reported status " + v.Status,
		}
	}
	if v.Amount < wantAmount || (wantCurrency != "" && v.Currency != wantCurrency) {
		return verdict{
			PaymentStatus: models.PaymentVerificationFailed,
			OrderStatus:   models.OrderPaymentFailed,
			Detail:        "amount or currency mismatch",
		}
	}
	return verdict{
		PaymentStatus: models.PaymentSuccess,
		OrderStatus:   models.OrderCompleted,
		IssueTickets:  true,
		Detail:        "provider confirmed transaction",
	}
}

// GET /api/payment/callback?tx_ref=...: provider redirect/webhook target.
// The status query parameter the provider appends is ignored: the flow
// always re-verifies the transaction reference independently.
func (s *Service) Callback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	txRef := r.URL.Query().Get("tx_ref")
	if txRef == "" {
		http.Error(w, "tx_ref is required", http.StatusBadRequest)
		return
	}

	var payment models.Payment
	if err := db.PaymentsCollection.FindOne(r.Context(), bson.M{"tx_ref": txRef}).Decode(&payment); err != nil {
		http.Error(w, "Unknown transaction reference", http.StatusNotFound)
		return
	}

	var order models.Order
	if err := db.OrdersCollection.FindOne(r.Context(), bson.M{"orderid": payment.OrderID}).Decode(&order); err != nil {
		http.Error(w, "Order not found for transaction", http.StatusNotFound)
		return
	}

	// Duplicate delivery after completion short-circuits to success
	// without touching the tickets again.
	if order.Status == models.OrderCompleted {
		redirect(w, r, true, order.OrderID)
		return
	}

	result, verifyErr := s.gw.Verify(r.Context(), txRef)
	v := resolveVerification(result, verifyErr, order.Amount, order.Currency)

	if !v.IssueTickets {
		appendPaymentStatus(r.Context(), txRef, v.PaymentStatus, v.Detail)
		_, err := db.OrdersCollection.UpdateOne(r.Context(),
			bson.M{"orderid": order.OrderID, "status": models.OrderPendingPayment},
			bson.M{"$set": bson.M{"status": v.OrderStatus, "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			log.Printf("pay: failed-order update error for %s: %v", order.OrderID, err)
		}
		redirect(w, r, false, order.OrderID)
		return
	}

	// Conditional transition guards against a concurrent duplicate
	// callback: only one delivery moves the order out of pending_payment.
	res, err := db.OrdersCollection.UpdateOne(r.Context(),
		bson.M{"orderid": order.OrderID, "status": models.OrderPendingPayment},
		bson.M{"$set": bson.M{"status": models.OrderCompleted, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		log.Printf("pay: completion update error for %s: %v", order.OrderID, err)
		http.Error(w, "Failed to complete order", http.StatusInternalServerError)
		return
	}
	if res.ModifiedCount == 0 {
		// Lost the race; the winning delivery issues the tickets.
		redirect(w, r, true, order.OrderID)
		return
	}

	appendPaymentStatus(r.Context(), txRef, models.PaymentSuccess, v.Detail)
	order.Status = models.OrderCompleted

	holderName := ""
	if user, err := auth.EnsureUser(r.Context(), order.UserID); err == nil {
		holderName = user.Username
	}

	issued, err := tickets.Issue(r.Context(), &order, holderName)
	if err != nil {
		// The order stays COMPLETED and the user still lands on the
		// success page; the reconciler backfills the tickets.
		log.Printf("pay: ticket issuance failed for completed order %s: %v", order.OrderID, err)
	} else {
		var event models.Event
		if err := db.EventsCollection.FindOne(r.Context(), bson.M{"eventid": order.EventID}).Decode(&event); err == nil {
			go mailer.SendOrderConfirmation(order.Email, &event, &order, issued)
		}
	}

	go mq.Emit("order-completed", mq.Index{
		EntityType: "order", EntityId: order.OrderID, Method: "PUT",
		ItemType: "event", ItemId: order.EventID,
	})

	redirect(w, r, true, order.OrderID)
}

// redirect sends the user back to the web app's payment result page.
func redirect(w http.ResponseWriter, r *http.Request, success bool, orderID string) {
	base := os.Getenv("FRONTEND_BASE_URL")
	if base == "" {
		base = "http://localhost:5173"
	}
	target := base + "/payment/failed?orderid=" + orderID
	if success {
		target = base + "/payment/success?orderid=" + orderID
	}
	http.Redirect(w, r, target, http.StatusFound)
}
