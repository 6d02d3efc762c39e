package mailer

import (
	"fmt"

	mailtpl "github.com/Gabriel-Moraes12/Kinisi2/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject plus Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "verify_email" or "forgot_password"
	Data     map[string]any `json:"data,omitempty"`
}

// EnsureRecipient fills Email/RecipientEmail in the template data from To.
func EnsureRecipient(job *EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	for _, k := range []string{"Email", "RecipientEmail"} {
		if v, ok := job.Data[k]; !ok || fmt.Sprintf("%v", v) == "" {
			job.Data[k] = job.To
		}
	}
}

// Render resolves the subject and bodies of job, rendering its template when set.
func Render(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("email job for %s has neither template nor content", job.To)
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	EnsureRecipient(&job)
	return mailtpl.Render(job.Template, job.Data)
}
