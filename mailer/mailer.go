// Package mailer sends plain-text notification mail over SMTP. Sending is
// best effort: callers fire it from a goroutine and a failure only logs.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"

	"eventra/models"
)

func send(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")

	if host == "" || port == "" || user == "" || pass == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg := "From: " + user + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n"

	auth := smtp.PlainAuth("", user, pass, host)
	return smtp.SendMail(host+":"+port, auth, user, []string{to}, []byte(msg))
}

// SendOrderConfirmation mails the registrant their ticket codes.
func SendOrderConfirmation(to string, event *models.Event, order *models.Order, tickets []models.Ticket) {
	if to == "" {
		return
	}

	codes := make([]string, len(tickets))
	for i, t := range tickets {
		codes[i] = t.TicketID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your registration for %q is confirmed.\n\n", event.Title)
	fmt.Fprintf(&b, "Order: %s\n", order.OrderID)
	fmt.Fprintf(&b, "Date: %s\n", event.Date.Format("Mon, 02 Jan 2006 15:04 MST"))
	if event.IsVirtual && event.MeetingLink != "" {
		fmt.Fprintf(&b, "Join link: %s\n", event.MeetingLink)
	}
	fmt.Fprintf(&b, "\nTicket codes:\n  %s\n", strings.Join(codes, "\n  "))

	if err := send(to, "Your tickets for "+event.Title, b.String()); err != nil {
		log.Printf("mailer: order confirmation to %s failed: %v", to, err)
	}
}

// SendOrganizerApplicationUpdate notifies an applicant of a status change.
func SendOrganizerApplicationUpdate(to, status string) {
	if to == "" {
		return
	}
	body := fmt.Sprintf("Your organizer application is now %s.\n", status)
	if err := send(to, "Organizer application update", body); err != nil {
		log.Printf("mailer: application update to %s failed: %v", to, err)
	}
}
