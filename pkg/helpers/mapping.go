package helpers

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/hireboard/pkg/mailer"
	mailtpl "github.com/oksasatya/hireboard/pkg/mailer/templates"
)

// EnsureRecipientAndEmail fills template recipient fields from job.To.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// RenderEmailJob turns a queued job into subject, text and html bodies.
// Template jobs are rendered from the embedded templates, optionally
// enriched with the requester's location; raw jobs pass through.
func RenderEmailJob(ctx context.Context, resolver mailtpl.GeoResolver, job mailer.EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", errors.New("raw email needs subject and text or html")
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	EnsureRecipientAndEmail(&job)
	if resolver != nil {
		if loc, ok := job.Data["Location"]; !ok || fmt.Sprintf("%v", loc) == "" {
			if ip, ok := job.Data["IP"]; ok && fmt.Sprintf("%v", ip) != "" {
				if g, gerr := resolver.Lookup(ctx, fmt.Sprintf("%v", ip)); gerr == nil {
					job.Data["Location"] = mailtpl.FormatGeo(g)
				}
			}
		}
		LocalizeTimesIfPossible(ctx, resolver, job.Data)
	}
	return mailtpl.Render(job.Template, job.Data)
}
