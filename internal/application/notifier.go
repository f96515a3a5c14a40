package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/pkg/helpers"
	"github.com/oksasatya/hireboard/pkg/mailer"
	mailtpl "github.com/oksasatya/hireboard/pkg/mailer/templates"
)

// Notifier delivers transactional email. Callers treat delivery as best-effort.
type Notifier interface {
	Notify(ctx context.Context, job mailer.EmailJob) error
}

// Publisher is the queue side of the email pipeline (RabbitMQ in production).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// MailSender sends a rendered message (Mailgun in production).
type MailSender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// QueueNotifier hands jobs to the email worker through the queue.
type QueueNotifier struct {
	Pub Publisher
}

func (n *QueueNotifier) Notify(ctx context.Context, job mailer.EmailJob) error {
	if n.Pub == nil {
		return errors.New("email queue not configured")
	}
	return n.Pub.PublishJSON(ctx, job)
}

// DirectNotifier renders and sends inline, without the worker.
type DirectNotifier struct {
	Sender   MailSender
	Resolver mailtpl.GeoResolver
}

func (n *DirectNotifier) Notify(ctx context.Context, job mailer.EmailJob) error {
	if n.Sender == nil {
		return errors.New("mail sender not configured")
	}
	subject, text, html, err := helpers.RenderEmailJob(ctx, n.Resolver, job)
	if err != nil {
		return err
	}
	return n.Sender.Send(ctx, job.To, subject, text, html)
}

// LogNotifier only logs; used when MAIL_SEND_ENABLED=false.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (n *LogNotifier) Notify(_ context.Context, job mailer.EmailJob) error {
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sending disabled; skipping")
	}
	return nil
}

// notify sends and logs failures; it never fails the caller.
func notify(ctx context.Context, n Notifier, log logrus.FieldLogger, job mailer.EmailJob) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, job); err != nil {
		helpers.LogError(log, "notify failed", err, logrus.Fields{"to": job.To, "template": job.Template})
	}
}
