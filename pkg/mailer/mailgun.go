package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const defaultSendTimeout = 10 * time.Second

// Mailgun sends one message per call from a fixed sender address.
type Mailgun struct {
	Sender  string
	Timeout time.Duration

	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Sender: sender, Timeout: defaultSendTimeout, client: mg.NewMailgun(domain, apiKey)}
}

// Send delivers text, plus html when it is not empty, and returns the
// Mailgun message id.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) (string, error) {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, id, err := m.client.Send(c, msg)
	return id, err
}
