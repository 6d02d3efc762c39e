package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Publisher is the queue side of RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender hands jobs to the email worker through the queue.
type QueueSender struct {
	Pub Publisher
}

func (s QueueSender) Send(ctx context.Context, job EmailJob) error {
	return s.Pub.PublishJSON(ctx, job)
}

// DirectSender renders and delivers in-process, without a queue.
type DirectSender struct {
	Mailgun *Mailgun
}

func (s DirectSender) Send(ctx context.Context, job EmailJob) error {
	subject, text, html, err := Render(job)
	if err != nil {
		return err
	}
	_, err = s.Mailgun.Send(ctx, job.To, subject, text, html)
	return err
}

// LogSender only logs; used when MAIL_SEND_ENABLED=false.
type LogSender struct {
	Logger *logrus.Logger
}

func (s LogSender) Send(_ context.Context, job EmailJob) error {
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sending disabled, job dropped")
	}
	return nil
}
