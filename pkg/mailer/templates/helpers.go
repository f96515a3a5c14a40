package templates

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/hireboard/config"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// WithActionURL overrides the default frontend link; empty is ignored.
func WithActionURL(url string) Option {
	return func(d *EmailData) {
		if url != "" {
			d.ActionURL = url
		}
	}
}

func WithRole(role string) Option { return func(d *EmailData) { d.Role = role } }

func setLocation(d *EmailData, loc string) {
	if s := strings.TrimSpace(loc); s != "" {
		d.Location = s
	}
}

func WithGeoFromIP(ctx context.Context, r GeoResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			setLocation(d, FormatGeo(g))
		}
	}
}

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// NewBaseEmailData fills the common fields from config, then applies options.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:    cfg.LogoURL,
		SupportURL: cfg.SupportURL,
		PrivacyURL: cfg.PrivacyURL,
		ActionURL:  cfg.FrontendURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewSignupOTPData(cfg *config.Config, email, code string, expiresAt time.Time, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, SignupOTP, "", email, append([]Option{WithExpiresAt(expiresAt)}, opts...)...)
	d.Code = code
	return ToMap(d)
}

func NewWelcomeData(cfg *config.Config, name, email, role string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, Welcome, name, email, append([]Option{WithRole(role)}, opts...)...)
	return ToMap(d)
}

func NewApplicationReceivedData(cfg *config.Config, ownerName, ownerEmail, postingTitle, applicantName string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, ApplicationReceived, ownerName, ownerEmail, opts...)
	d.PostingTitle = postingTitle
	d.ApplicantName = applicantName
	return ToMap(d)
}

func NewApplicationStatusData(cfg *config.Config, name, email, postingTitle, status string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, ApplicationStatus, name, email, opts...)
	d.PostingTitle = postingTitle
	d.Status = status
	return ToMap(d)
}
