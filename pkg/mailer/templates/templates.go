package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	// Basic info
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`
	Role           string `json:"Role"`

	// Company info
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	// URLs
	LogoURL    string `json:"LogoURL"`
	SupportURL string `json:"SupportURL"`
	PrivacyURL string `json:"PrivacyURL"`
	ActionURL  string `json:"ActionURL"`

	// Signup
	Code          string    `json:"Code"`
	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`

	// Applications
	PostingTitle  string `json:"PostingTitle"`
	ApplicantName string `json:"ApplicantName"`
	Status        string `json:"Status"`

	// Request context
	IP        string    `json:"IP"`
	Time      string    `json:"Time"`
	TimeAt    time.Time `json:"TimeAt"`
	UserAgent string    `json:"UserAgent"`
	Location  string    `json:"Location"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		zero := reflect.Zero(rv.Type()).Interface()
		if reflect.DeepEqual(value, zero) {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"upper":   strings.ToUpper,
		"title":   func(s string) string { return strings.ToUpper(s[:min(1, len(s))]) + s[min(1, len(s)):] },
		"default": defaultFn,
	}
}

// Template names
const (
	SignupOTP           = "signup_otp"
	Welcome             = "welcome"
	ApplicationReceived = "application_received"
	ApplicationStatus   = "application_status"
)

// Both sets are parsed once from the embedded files; a broken template
// fails at init.
var (
	textSet = texttpl.Must(texttpl.New("").Funcs(texttpl.FuncMap(baseFuncs())).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("").Funcs(htmpl.FuncMap(baseFuncs())).ParseFS(FS, "*.html.tmpl"))
)

type executor interface {
	Execute(w io.Writer, data any) error
}

func execute(t executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render renders <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	st, tt, ht := textSet.Lookup(name+".subject.tmpl"), textSet.Lookup(name+".text.tmpl"), htmlSet.Lookup(name+".html.tmpl")
	if st == nil || tt == nil || ht == nil {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	if subject, err = execute(st, name, data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(tt, name, data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(ht, name, data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
