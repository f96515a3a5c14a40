package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Mailgun sends rendered messages through the Mailgun HTTP API.
type Mailgun struct {
	Domain string
	Sender string
	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, Sender: sender, client: mg.NewMailgun(domain, apiKey)}
}

// WithAPIBase points the client at another API host, e.g. the EU region
// ("https://api.eu.mailgun.net/v3").
func (m *Mailgun) WithAPIBase(base string) *Mailgun {
	m.client.SetAPIBase(base)
	return m
}

// Send delivers one message. html is optional.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if to == "" {
		return errors.New("mailgun: empty recipient")
	}
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
