// internal/explorer/auth.go
package explorer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/classify"
	"github.com/xkilldash9x/webscout-cli/internal/report"
)

// discoverAuthForms finds authentication forms three ways, in order: forms
// already on the page, overlays opened by signup-style triggers, and
// dedicated auth pages behind matching links.
func (e *Engine) discoverAuthForms(ctx context.Context, page *schemas.PageSnapshot, agg *report.Aggregator) []schemas.AuthForm {
	var authForms []schemas.AuthForm

	// Direct pass over the page's own forms.
	for _, form := range page.Forms {
		res := e.classifier.ClassifyWithOracle(ctx, form)
		if !classify.IsAuthPurpose(res.Purpose) {
			continue
		}
		authForms = append(authForms, schemas.AuthForm{
			Form:       form,
			Purpose:    res.Purpose,
			Confidence: classify.ConfidenceDirect,
			SourceURL:  page.URL,
		})
	}

	// Trigger-driven overlays.
	triggers, err := e.driver.CollectTriggers(ctx, classify.TriggerKeywords)
	if err != nil {
		e.logger.Warn("Trigger collection failed.", zap.Error(err))
	}
	if len(triggers) > maxTriggerButtons {
		triggers = triggers[:maxTriggerButtons]
	}
	for _, trigger := range triggers {
		if ctx.Err() != nil {
			return authForms
		}
		result := e.navigator.Discover(ctx, trigger)
		if result.State == schemas.FlowFailed {
			e.logger.Debug("Overlay flow failed for trigger.", zap.String("text", trigger.Text))
			continue
		}
		authForms = append(authForms, result.AuthForms...)
	}

	// Dedicated auth pages.
	authForms = append(authForms, e.followAuthLinks(ctx, page, agg)...)

	return authForms
}

// followAuthLinks visits links whose text or destination looks like an auth
// page and classifies the forms found there. Link visits are throttled.
func (e *Engine) followAuthLinks(ctx context.Context, page *schemas.PageSnapshot, agg *report.Aggregator) []schemas.AuthForm {
	var found []schemas.AuthForm

	links := e.selectAuthLinks(ctx, page)
	for _, link := range links {
		if ctx.Err() != nil {
			return found
		}
		e.politeWait(ctx)

		snap, err := e.driver.Navigate(ctx, link)
		if err != nil || snap == nil {
			e.logger.Debug("Auth link navigation failed.", zap.String("url", link), zap.Error(err))
			continue
		}
		agg.AddPage(snap.URL)

		for _, form := range snap.Forms {
			res := e.classifier.ClassifyWithOracle(ctx, form)
			if !classify.IsAuthPurpose(res.Purpose) {
				continue
			}
			found = append(found, schemas.AuthForm{
				Form:       form,
				Purpose:    res.Purpose,
				Confidence: classify.ConfidenceIndirect,
				SourceURL:  link,
			})
		}
	}
	return found
}

// selectAuthLinks picks up to maxAuthLinks anchors matching the auth keyword
// sets. Anchor text comes from the trigger scan so matching covers rendered
// text, not just the href.
func (e *Engine) selectAuthLinks(ctx context.Context, page *schemas.PageSnapshot) []string {
	seen := make(map[string]bool)
	var links []string
	add := func(href string) {
		if href == "" || seen[href] || !strings.HasPrefix(href, "http") {
			return
		}
		seen[href] = true
		links = append(links, href)
	}

	anchors, err := e.driver.CollectTriggers(ctx, classify.AuthLinkTextKeywords)
	if err == nil {
		for _, a := range anchors {
			if strings.EqualFold(a.TagName, "a") && matchesAny(strings.ToLower(a.Text), classify.AuthLinkTextKeywords) {
				add(a.Href)
			}
		}
	}
	for _, href := range page.Links {
		if matchesAny(strings.ToLower(href), classify.AuthLinkHrefKeywords) {
			add(href)
		}
	}

	if len(links) > maxAuthLinks {
		links = links[:maxAuthLinks]
	}
	return links
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
