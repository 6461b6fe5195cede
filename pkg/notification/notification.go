// Package notification delivers best-effort notifications to users.
//
// Define one:
//
//	type OrderPlaced struct { Order models.Order }
//	func (n *OrderPlaced) Via() []string { return []string{"mail"} }
//	func (n *OrderPlaced) ToMail() notification.MailData {
//	    return notification.MailData{Subject: "Order placed", Body: ...}
//	}
//
// Send:
//
//	notification.Send("user@example.com", &OrderPlaced{Order: order})
//
// Failures are logged and counted, never propagated to the request path.
package notification

import (
	"fmt"

	"github.com/shashiranjanraj/plantnet/pkg/logger"
	"github.com/shashiranjanraj/plantnet/pkg/mail"
	"github.com/shashiranjanraj/plantnet/pkg/metrics"
)

// MailData carries the data needed to send an email notification.
type MailData struct {
	To      string // overrides the notifiable address if set
	Subject string
	Body    string // HTML
	Text    string // plain-text fallback
}

// Notification is the interface every notification must satisfy.
type Notification interface {
	// Via returns the list of channel names. Only "mail" is wired.
	Via() []string
}

// Mailable must be implemented to support the mail channel.
type Mailable interface {
	ToMail() MailData
}

// Send dispatches the notification through all channels returned by Via().
// address is the email address used for the mail channel.
func Send(address string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := dispatch(address, channel, n); err != nil {
			logger.Error("notification: channel failed",
				"channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

func dispatch(address, channel string, n Notification) error {
	switch channel {
	case "mail":
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		data := m.ToMail()
		to := data.To
		if to == "" {
			to = address
		}

		msg := mail.To(to).Subject(data.Subject)
		if data.Body != "" {
			msg.Body(data.Body)
		} else {
			msg.Text(data.Text)
		}

		if err := msg.Send(); err != nil {
			metrics.MailSent.WithLabelValues("failed").Inc()
			return err
		}
		metrics.MailSent.WithLabelValues("success").Inc()
		return nil
	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}
