package helpers

import (
	"context"
	"fmt"
	"strings"
	"time"

	mailtpl "github.com/oksasatya/hireboard/pkg/mailer/templates"
)

const mailTimeLayout = "02 January 2006, 15:04 MST"

// LocalizeTimesIfPossible rewrites ExpiresAtText and Time in the requester's
// timezone when the IP resolves to one. Data is left untouched otherwise.
func LocalizeTimesIfPossible(ctx context.Context, resolver mailtpl.GeoResolver, data map[string]any) {
	ip := strings.TrimSpace(fmt.Sprint(data["IP"]))
	if resolver == nil || ip == "" || ip == "<nil>" {
		return
	}
	g, err := resolver.Lookup(ctx, ip)
	if err != nil || strings.TrimSpace(g.Timezone) == "" {
		return
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return
	}
	for src, dst := range map[string]string{"ExpiresAt": "ExpiresAtText", "TimeAt": "Time"} {
		v, ok := data[src]
		if !ok {
			continue
		}
		if t, ok := parseTimeAny(v); ok && !t.IsZero() {
			data[dst] = t.In(loc).Format(mailTimeLayout)
		}
	}
}

func parseTimeAny(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s := fmt.Sprintf("%v", v)
	for _, l := range []string{time.RFC3339Nano, "2006-01-02 15:04:05 -0700 MST", "2006-01-02 15:04:05 -0700"} {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
