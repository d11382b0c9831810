// internal/report/aggregator.go
// Package report accumulates stage outputs during a run and assembles them
// into the final exploration report document.
package report

import (
	"time"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

// Aggregator collects results as stages complete. It is not safe for
// concurrent use; the engine runs stages sequentially.
type Aggregator struct {
	startURL  string
	depth     int
	startedAt time.Time

	pages     []string
	pagesSeen map[string]bool

	registrations []schemas.RegistrationAttempt
	interactions  []schemas.FormInteraction
	hidden        []schemas.HiddenFinding
	flows         []schemas.UserFlow
	security      []schemas.SecurityFinding
	accessibility []string
	performance   schemas.PerformanceInsights
	mainAnalysis  map[string]any
	authForms     []schemas.AuthForm
}

func NewAggregator(startURL string, depth int) *Aggregator {
	return &Aggregator{
		startURL:  startURL,
		depth:     depth,
		startedAt: time.Now().UTC(),
		pagesSeen: make(map[string]bool),
	}
}

// AddPage records a visited page once, preserving first-visit order.
func (a *Aggregator) AddPage(url string) {
	if url == "" || a.pagesSeen[url] {
		return
	}
	a.pagesSeen[url] = true
	a.pages = append(a.pages, url)
}

func (a *Aggregator) AddRegistrationAttempt(attempt schemas.RegistrationAttempt) {
	a.registrations = append(a.registrations, attempt)
}

func (a *Aggregator) AddFormInteractions(interactions []schemas.FormInteraction) {
	a.interactions = append(a.interactions, interactions...)
}

func (a *Aggregator) AddHiddenFindings(findings []schemas.HiddenFinding) {
	a.hidden = append(a.hidden, findings...)
}

func (a *Aggregator) AddUserFlows(flows []schemas.UserFlow) {
	a.flows = append(a.flows, flows...)
}

func (a *Aggregator) AddSecurityFindings(findings []schemas.SecurityFinding) {
	a.security = append(a.security, findings...)
}

func (a *Aggregator) AddAccessibilityIssues(issues []string) {
	a.accessibility = append(a.accessibility, issues...)
}

func (a *Aggregator) SetPerformance(insights schemas.PerformanceInsights) {
	a.performance = insights
}

func (a *Aggregator) SetMainPageAnalysis(analysis map[string]any) {
	a.mainAnalysis = analysis
}

// SetAuthForms snapshots the discovered auth forms. The list is consumed by
// later stages and not re-emitted at top level; the report's count is derived
// from this snapshot at assembly time.
func (a *Aggregator) SetAuthForms(forms []schemas.AuthForm) {
	a.authForms = forms
}

// Assemble builds the final report. Collections are emitted as empty slices
// rather than nulls so the document shape is stable, and every derived count
// is taken from its backing collection at this moment.
func (a *Aggregator) Assemble() *schemas.ExplorationReport {
	report := &schemas.ExplorationReport{
		URL:                  a.startURL,
		Timestamp:            a.startedAt,
		ExplorationDepth:     a.depth,
		DiscoveredPages:      emptyIfNil(a.pages),
		RegistrationAttempts: emptyIfNil(a.registrations),
		FormInteractions:     emptyIfNil(a.interactions),
		HiddenFunctionality:  emptyIfNil(a.hidden),
		UserFlows:            emptyIfNil(a.flows),
		SecurityFindings:     emptyIfNil(a.security),
		AccessibilityIssues:  emptyIfNil(a.accessibility),
		PerformanceInsights:  a.performance,
		MainPageAnalysis:     a.mainAnalysis,
		AuthFormsDiscovered:  len(a.authForms),
	}
	if report.MainPageAnalysis == nil {
		report.MainPageAnalysis = map[string]any{}
	}
	return report
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
