package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

// Template names. Each has <name>.subject.tmpl, <name>.text.tmpl and
// <name>.html.tmpl in this directory.
const (
	VerifyEmail    = "verify_email"
	ForgotPassword = "forgot_password"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData is the data every template can rely on. Jobs carry it as a map
// (see ToMap) so the queue payload stays plain JSON.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	AppName        string `json:"AppName"`
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	SupportURL     string `json:"SupportURL"`

	ResetURL  string `json:"ResetURL"`
	VerifyURL string `json:"VerifyURL"`

	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
}

func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn is the "default" pipe: {{ .AppName | default "Kinisi" }}.
// Blank strings and zero values take the fallback.
func defaultFn(fallback, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if rv := reflect.ValueOf(value); !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

var funcs = map[string]any{
	"upper":   strings.ToUpper,
	"default": defaultFn,
}

// Parsed once; a broken template fails at startup rather than on first send.
var (
	textSet = texttpl.Must(texttpl.New("").Funcs(funcs).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("").Funcs(funcs).ParseFS(FS, "*.html.tmpl"))
)

func execText(name string, data any) (string, error) {
	t := textSet.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

func execHTML(name string, data any) (string, error) {
	t := htmlSet.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render produces the trimmed subject and both bodies of template name.
func Render(name string, data any) (subject, text, html string, err error) {
	if subject, err = execText(name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execText(name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execHTML(name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
