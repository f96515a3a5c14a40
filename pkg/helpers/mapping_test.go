package helpers

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/hireboard/config"
	"github.com/oksasatya/hireboard/pkg/mailer"
	mailtpl "github.com/oksasatya/hireboard/pkg/mailer/templates"
)

type fixedGeo struct{ geo mailtpl.Geo }

func (f fixedGeo) Lookup(context.Context, string) (mailtpl.Geo, error) { return f.geo, nil }

func TestRenderEmailJob_Raw(t *testing.T) {
	subject, text, html, err := RenderEmailJob(context.Background(), nil, mailer.EmailJob{To: "a@b.c", Subject: "Hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", subject)
	assert.Equal(t, "body", text)
	assert.Empty(t, html)

	_, _, _, err = RenderEmailJob(context.Background(), nil, mailer.EmailJob{To: "a@b.c", Subject: "Hi"})
	assert.Error(t, err)
}

func TestRenderEmailJob_LocalizesForRequester(t *testing.T) {
	cfg := &config.Config{AppName: "Hireboard"}
	exp := time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)
	job := mailer.EmailJob{
		To:       "jane@x.com",
		Template: mailtpl.SignupOTP,
		Data:     mailtpl.NewSignupOTPData(cfg, "jane@x.com", "123456", exp, mailtpl.WithIP("203.0.113.9")),
	}
	resolver := fixedGeo{geo: mailtpl.Geo{City: "Pune", Country: "India", Timezone: "Asia/Kolkata"}}

	_, text, _, err := RenderEmailJob(context.Background(), resolver, job)
	require.NoError(t, err)
	assert.Contains(t, text, "03 February 2026, 16:00 IST")
	assert.Contains(t, text, "Pune, India")
}
