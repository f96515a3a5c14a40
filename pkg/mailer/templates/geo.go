package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

// Geo is the coarse location of a client IP.
type Geo struct {
	City     string
	Region   string
	Country  string
	Timezone string
}

type GeoResolver interface {
	Lookup(ctx context.Context, ip string) (Geo, error)
}

var errNotRoutable = errors.New("ip not publicly routable")

// FormatGeo renders "City, Region, Country", skipping blanks.
func FormatGeo(g Geo) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{g.City, g.Region, g.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// IPAPIResolver looks IPs up on ip-api.com. Private and loopback addresses are
// rejected without a request.
type IPAPIResolver struct {
	Client  *http.Client
	BaseURL string
}

type ipAPIResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
	Timezone   string `json:"timezone"`
}

func (r IPAPIResolver) Lookup(ctx context.Context, ip string) (Geo, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return Geo{}, fmt.Errorf("parse ip %q: %w", ip, err)
	}
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return Geo{}, errNotRoutable
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	base := r.BaseURL
	if base == "" {
		base = "http://ip-api.com"
	}
	url := base + "/json/" + addr.String() + "?fields=status,message,country,regionName,city,timezone"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Geo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Geo{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return Geo{}, fmt.Errorf("geo lookup: %s", resp.Status)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Geo{}, err
	}
	if !strings.EqualFold(body.Status, "success") {
		return Geo{}, fmt.Errorf("geo lookup failed: %s", body.Message)
	}
	return Geo{City: body.City, Region: body.RegionName, Country: body.Country, Timezone: body.Timezone}, nil
}
