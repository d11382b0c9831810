// internal/explorer/stages.go
package explorer

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/report"
)

// Comment sampling caps. The element and attribute caps live inside the
// collection scripts so only the sample crosses the wire.
const (
	maxHTMLComments  = 5
	minCommentLength = 5
)

// exploreAllForms classifies and fills every form on the page with data
// matching its purpose. Nothing is submitted here; submission is reserved for
// the registration stage.
func (e *Engine) exploreAllForms(ctx context.Context, page *schemas.PageSnapshot) []schemas.FormInteraction {
	var interactions []schemas.FormInteraction

	for _, form := range page.Forms {
		if ctx.Err() != nil {
			return interactions
		}

		res := e.classifier.ClassifyWithOracle(ctx, form)
		testData := e.dataForPurpose(res.Purpose)

		fillResult := e.filler.Fill(ctx, form, testData)
		interactions = append(interactions, schemas.FormInteraction{
			FormIndex:    form.Index,
			Purpose:      res.Purpose,
			InputsCount:  len(form.Fields),
			FillResult:   fillResult,
			TestDataUsed: redactTestData(testData),
		})
	}
	return interactions
}

// dataForPurpose picks the slot map matching the classified purpose. Unknown
// forms get the full registration set: it carries every identity slot, so
// fields like password or zip still receive a value.
func (e *Engine) dataForPurpose(purpose schemas.FormPurpose) map[string]string {
	switch purpose {
	case schemas.PurposeContact:
		return e.generator.Contact()
	case schemas.PurposeSearch:
		return e.generator.Search()
	case schemas.PurposeSubscription:
		return e.generator.Subscription()
	default:
		return e.generator.Registration(e.personas[0])
	}
}

// discoverHidden samples three kinds of concealed page content: elements
// hidden via style or attribute, HTML comments, and data-* attributes.
func (e *Engine) discoverHidden(ctx context.Context) []schemas.HiddenFinding {
	var findings []schemas.HiddenFinding

	var hidden []schemas.HiddenElement
	if err := e.driver.Evaluate(ctx, hiddenElementsScript, &hidden); err != nil {
		e.logger.Warn("Hidden element scan failed.", zap.Error(err))
		findings = append(findings, schemas.HiddenFinding{Type: "error", Message: err.Error()})
	} else if len(hidden) > 0 {
		findings = append(findings, schemas.HiddenFinding{
			Type:     "hidden_elements",
			Count:    len(hidden),
			Elements: hidden,
		})
	}

	if comments := e.scanComments(ctx); len(comments) > 0 {
		findings = append(findings, schemas.HiddenFinding{
			Type:     "html_comments",
			Count:    len(comments),
			Comments: comments,
		})
	}

	var attrs []schemas.DataAttribute
	if err := e.driver.Evaluate(ctx, dataAttributesScript, &attrs); err != nil {
		e.logger.Warn("Data attribute scan failed.", zap.Error(err))
		findings = append(findings, schemas.HiddenFinding{Type: "error", Message: err.Error()})
	} else if len(attrs) > 0 {
		findings = append(findings, schemas.HiddenFinding{
			Type:       "data_attributes",
			Count:      len(attrs),
			Attributes: attrs,
		})
	}

	return findings
}

// scanComments tokenizes the page source and collects substantive HTML
// comments. Trivially short comments are skipped.
func (e *Engine) scanComments(ctx context.Context) []string {
	source, err := e.driver.PageHTML(ctx)
	if err != nil {
		e.logger.Debug("Could not read page source for comment scan.", zap.Error(err))
		return nil
	}

	var comments []string
	tokenizer := html.NewTokenizer(strings.NewReader(source))
	for len(comments) < maxHTMLComments {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.CommentToken {
			continue
		}
		text := strings.TrimSpace(tokenizer.Token().Data)
		if len(text) > minCommentLength {
			comments = append(comments, text)
		}
	}
	return comments
}

// analyzeUserFlows follows each outgoing link one hop and records what the
// destination offers: its title, a few buttons, a few onward links.
func (e *Engine) analyzeUserFlows(ctx context.Context, page *schemas.PageSnapshot, agg *report.Aggregator) []schemas.UserFlow {
	var flows []schemas.UserFlow

	links := httpLinks(page.Links, maxFlowLinks)
	for _, link := range links {
		if ctx.Err() != nil {
			return flows
		}
		e.politeWait(ctx)

		snap, err := e.driver.Navigate(ctx, link)
		if err != nil || snap == nil {
			e.logger.Debug("Flow link navigation failed.", zap.String("url", link), zap.Error(err))
			continue
		}
		agg.AddPage(snap.URL)

		var probe struct {
			Title   string                     `json:"title"`
			Buttons []schemas.ButtonDescriptor `json:"buttons"`
			Links   []schemas.FlowLink         `json:"links"`
		}
		if err := e.driver.Evaluate(ctx, flowProbeScript, &probe); err != nil {
			e.logger.Debug("Flow probe failed.", zap.String("url", link), zap.Error(err))
			continue
		}

		flows = append(flows, schemas.UserFlow{
			StartURL:      link,
			PageTitle:     probe.Title,
			Buttons:       probe.Buttons,
			Links:         probe.Links,
			DepthExplored: 1,
		})
	}
	return flows
}

// httpLinks filters to absolute http(s) links, deduplicated, capped at limit.
func httpLinks(links []string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, link := range links {
		if !strings.HasPrefix(link, "http") || seen[link] {
			continue
		}
		seen[link] = true
		out = append(out, link)
		if len(out) == limit {
			break
		}
	}
	return out
}
