package application

import (
	"context"
	"io"

	"github.com/Gabriel-Moraes12/Kinisi2/pkg/mailer"
)

// MailSender delivers or enqueues an email job.
type MailSender interface {
	Send(ctx context.Context, job mailer.EmailJob) error
}

// ImageStore keeps profile images and hands back their public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// CompletionProvider returns the text completion for a single prompt.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
