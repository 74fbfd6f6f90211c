package notifier

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fleet-rental/internal/pkg/errs"
)

type bookingMessage struct {
	BookingID     string `json:"booking_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DepositCents  int64  `json:"deposit_cents"`
	TotalCents    int64  `json:"total_cents"`
	Reason        string `json:"reason,omitempty"`
	CustomerID    string `json:"customer_id,omitempty"`
}

var errUnknownTopic = errs.New("unknown notification topic")

// renderTopic turns a job payload into recipient, subject, body and an
// optional attachment. Unknown topics are a permanent failure; retrying
// cannot fix them.
func renderTopic(topic string, payload []byte) (to, subject, body string, att *Attachment, err error) {
	var msg bookingMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return "", "", "", nil, errs.Wrap(err, "malformed notification payload")
	}

	period := fmt.Sprintf("from %s to %s", msg.StartDate, msg.EndDate)
	total := formatCents(msg.TotalCents)
	deposit := formatCents(msg.DepositCents)

	switch topic {
	case "booking_created":
		return msg.CustomerEmail, "Booking request received",
			fmt.Sprintf("Hello %s,\n\nWe received your booking request %s.\nEstimated total: %s (deposit %s).\nWe will notify you once it is confirmed.",
				msg.CustomerName, period, total, deposit),
			bookingInvite(msg), nil
	case "booking_confirmed":
		return msg.CustomerEmail, "Booking confirmed",
			fmt.Sprintf("Hello %s,\n\nYour booking %s is confirmed.\nTotal: %s.",
				msg.CustomerName, period, total), nil, nil
	case "booking_completed":
		return msg.CustomerEmail, "Thank you for renting with us",
			fmt.Sprintf("Hello %s,\n\nYour rental %s is complete.\nAmount charged: %s.",
				msg.CustomerName, period, total), nil, nil
	case "booking_cancelled":
		return msg.CustomerEmail, "Booking cancelled",
			fmt.Sprintf("Hello %s,\n\nYour booking %s has been cancelled.\nAny amount already charged has been refunded.",
				msg.CustomerName, period), nil, nil
	case "booking_rejected":
		body := fmt.Sprintf("Hello %s,\n\nWe are sorry, your booking %s has been rejected.",
			msg.CustomerName, period)
		if msg.Reason != "" {
			body += "\nReason: " + msg.Reason
		}
		return msg.CustomerEmail, "Booking rejected", body, nil, nil
	case "customer_welcome":
		return msg.CustomerEmail, "Welcome",
			fmt.Sprintf("Hello %s,\n\nYour customer profile has been created. You can now book vehicles from our fleet.",
				msg.CustomerName), nil, nil
	default:
		return "", "", "", nil, errs.Mark(errs.Newf("topic %q", topic), errUnknownTopic)
	}
}

// bookingInvite renders the rental period as an all-day calendar event.
// Malformed dates drop the attachment rather than fail the mail.
func bookingInvite(msg bookingMessage) *Attachment {
	start, err := time.Parse(time.DateOnly, msg.StartDate)
	if err != nil {
		return nil
	}
	end, err := time.Parse(time.DateOnly, msg.EndDate)
	if err != nil {
		return nil
	}

	const compact = "20060102"
	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//fleet-rental//bookings//EN",
		"BEGIN:VEVENT",
		"UID:" + msg.BookingID,
		"DTSTART;VALUE=DATE:" + start.Format(compact),
		// DTEND is exclusive for all-day events; the rental end day counts
		"DTEND;VALUE=DATE:" + end.AddDate(0, 0, 1).Format(compact),
		"SUMMARY:Vehicle rental",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	return &Attachment{
		Filename:    "booking.ics",
		ContentType: "text/calendar; charset=utf-8",
		Content:     []byte(ics),
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d EUR", cents/100, cents%100)
}
