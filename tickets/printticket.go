package tickets

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventra/db"
	"eventra/globals"
	"eventra/models"
	"eventra/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

var hmacSecret = []byte(globals.Getenv("TICKET_HMAC_SECRET", "change_me_in_production"))

// SignedQRPayload returns eventID|ticketID|timestamp|signature. The stored
// QR value on the ticket document is the bare ticket id; this signed form
// is what the printed code and the gate scanner exchange.
func SignedQRPayload(eventID, ticketID string, issued time.Time) string {
	data := fmt.Sprintf("%s|%s|%d", eventID, ticketID, issued.Unix())
	h := hmac.New(sha256.New, hmacSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifySignedQRPayload checks a scanned payload's shape and signature and
// returns the embedded event and ticket ids.
func VerifySignedQRPayload(payload string) (eventID, ticketID string, err error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 4 {
		return "", "", fmt.Errorf("invalid QR format")
	}

	eventID, ticketID = parts[0], parts[1]
	if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
		return "", "", fmt.Errorf("invalid timestamp")
	}

	data := fmt.Sprintf("%s|%s|%s", parts[0], parts[1], parts[2])
	h := hmac.New(sha256.New, hmacSecret)
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(parts[3]), []byte(expected)) {
		return "", "", fmt.Errorf("invalid signature")
	}
	return eventID, ticketID, nil
}

// GET /api/tickets/:ticketid/print: PDF ticket with a signed QR code.
func PrintTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var event models.Event
	if err := db.EventsCollection.FindOne(r.Context(), bson.M{"eventid": ticket.EventID}).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	qrPayload := SignedQRPayload(ticket.EventID, ticket.TicketID, ticket.IssuedAt)
	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Event Ticket")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Event: %s", event.Title))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", event.Date.Format("Mon, 02 Jan 2006 15:04 MST")))
	pdf.Ln(8)
	if ticket.HolderName != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Holder: %s", ticket.HolderName))
		pdf.Ln(8)
	}
	if ticket.TierName != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Tier: %s", ticket.TierName))
		pdf.Ln(8)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Ticket ID: %s", ticket.TicketID))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 80, pdf.GetY(), 50, 50, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ticket-%s.pdf", ticket.TicketID))
	if err := pdf.Output(w); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render ticket")
	}
}
