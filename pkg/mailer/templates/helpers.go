package templates

import (
	"time"

	"github.com/Gabriel-Moraes12/Kinisi2/config"
)

// Option pattern
type Option func(*EmailData)

func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }
func WithResetURL(url string) Option  { return func(d *EmailData) { d.ResetURL = url } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02/01/2006 15:04 MST")
	}
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		AppName:        cfg.AppName,
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		SupportURL:     cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewVerifyEmailData(cfg *config.Config, name, email, verifyURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithVerifyURL(verifyURL)}, opts...)
	return ToMap(NewBaseEmailData(cfg, VerifyEmail, name, email, opts...))
}

func NewForgotPasswordData(cfg *config.Config, name, email, resetURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithResetURL(resetURL)}, opts...)
	return ToMap(NewBaseEmailData(cfg, ForgotPassword, name, email, opts...))
}
