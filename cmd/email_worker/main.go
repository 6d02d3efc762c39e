package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/config"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/mailer"
)

const prefetch = 16

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker not started")
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("email worker stopped")
	}
	logger.Info("email worker exited")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	switch {
	case cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "":
		return errors.New("RABBITMQ_URL and RABBITMQ_EMAIL_QUEUE are required")
	case cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "":
		return errors.New("MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER are required")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, cfg.AppName+"-email-worker", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	sender := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			handle(context.WithoutCancel(ctx), logger, sender, msg)
		}
	}
}

// handle acks delivered mail, drops malformed or unrenderable jobs and
// requeues jobs whose delivery failed.
func handle(ctx context.Context, logger *logrus.Logger, sender *mailer.Mailgun, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}
	fields := logrus.Fields{"to": job.To, "template": job.Template}

	subject, text, html, err := mailer.Render(job)
	if err != nil {
		logger.WithError(err).WithFields(fields).Error("render failed")
		_ = msg.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	id, err := sender.Send(c, job.To, subject, text, html)
	if err != nil {
		logger.WithError(err).WithFields(fields).Warn("send failed, requeued")
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
	fields["mailgun_id"] = id
	helpers.LogInfo(logger, "email sent", fields)
}
