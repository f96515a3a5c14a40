package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/config"
	"github.com/oksasatya/hireboard/pkg/helpers"
	"github.com/oksasatya/hireboard/pkg/mailer"
	mailtpl "github.com/oksasatya/hireboard/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if _, err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := &worker{
		sender:   mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		resolver: mailtpl.IPAPIResolver{},
		logger:   logger,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-ctx.Done()
	logger.Info("shutting down...")
	_ = ch.Cancel("", false)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}

type worker struct {
	sender   *mailer.Mailgun
	resolver mailtpl.GeoResolver
	logger   logrus.FieldLogger
}

// handle acks delivered mail, drops undecodable or unrenderable jobs, and
// requeues a failed send once.
func (w *worker) handle(ctx context.Context, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		helpers.LogError(w.logger, "bad message", err, nil)
		_ = msg.Nack(false, false)
		return
	}
	fields := logrus.Fields{"to": job.To, "template": job.Template}

	subject, text, html, err := helpers.RenderEmailJob(ctx, w.resolver, job)
	if err != nil {
		helpers.LogError(w.logger, "render failed", err, fields)
		_ = msg.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		fields["redelivered"] = msg.Redelivered
		helpers.LogError(w.logger, "send failed", err, fields)
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
	helpers.LogInfo(w.logger, "email sent", fields)
}
