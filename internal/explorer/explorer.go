// internal/explorer/explorer.go
// Package explorer runs the exploration pipeline: one browser session walked
// through eight sequential stages, each contributing a slice of the final
// report. Stages are isolated; a stage that fails records what it can and
// the run continues.
package explorer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/classify"
	"github.com/xkilldash9x/webscout-cli/internal/config"
	"github.com/xkilldash9x/webscout-cli/internal/forms"
	"github.com/xkilldash9x/webscout-cli/internal/modal"
	"github.com/xkilldash9x/webscout-cli/internal/persona"
	"github.com/xkilldash9x/webscout-cli/internal/report"
	"github.com/xkilldash9x/webscout-cli/internal/resolve"
)

// Stage limits. Breadth caps keep a run polite and bounded regardless of how
// link-dense the target is.
const (
	maxTriggerButtons = 2
	maxAuthLinks      = 3
	maxFlowLinks      = 10
)

// Engine wires the pipeline components around one shared browser session.
type Engine struct {
	driver     schemas.PageDriver
	judge      schemas.Judge
	classifier *classify.Classifier
	resolver   *resolve.Resolver
	navigator  *modal.FlowNavigator
	filler     *forms.Filler
	generator  *persona.DataGenerator
	personas   []persona.Persona
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewEngine builds an engine around the given driver and judge. The
// politeness delay spaces out successive link navigations.
func NewEngine(driver schemas.PageDriver, judge schemas.Judge, netCfg config.NetworkConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("explorer")

	classifier := classify.NewClassifier(judge, logger)
	resolver := resolve.NewResolver(driver, logger)

	every := rate.Inf
	if netCfg.PolitenessDelay > 0 {
		every = rate.Every(netCfg.PolitenessDelay)
	}

	return &Engine{
		driver:     driver,
		judge:      judge,
		classifier: classifier,
		resolver:   resolver,
		navigator:  modal.NewFlowNavigator(driver, resolver, classifier, logger),
		filler:     forms.NewFiller(driver, logger),
		generator:  persona.NewDataGenerator(),
		personas:   persona.Defaults(),
		limiter:    rate.NewLimiter(every, 1),
		logger:     logger,
	}
}

// Run executes the full pipeline against the start URL and returns the
// assembled report. Only context cancellation aborts a run early; everything
// else degrades into report entries.
func (e *Engine) Run(ctx context.Context, startURL string, depth int) (*schemas.ExplorationReport, error) {
	agg := report.NewAggregator(startURL, depth)

	// Stage 1: main page snapshot and deep analysis.
	e.logger.Info("Stage 1: analyzing main page.", zap.String("url", startURL))
	mainPage, err := e.driver.Navigate(ctx, startURL)
	if err != nil {
		// The driver folds navigation failures into the snapshot; an error
		// here means the session itself broke.
		return nil, err
	}
	agg.AddPage(mainPage.URL)
	agg.SetMainPageAnalysis(e.analyzeMainPage(ctx, mainPage))
	if ctx.Err() != nil {
		return agg.Assemble(), ctx.Err()
	}

	// Stage 2: auth form discovery.
	e.logger.Info("Stage 2: discovering auth forms.")
	authForms := e.discoverAuthForms(ctx, mainPage, agg)
	agg.SetAuthForms(authForms)
	if ctx.Err() != nil {
		return agg.Assemble(), ctx.Err()
	}

	// Stage 3: registration attempts, one per persona.
	e.logger.Info("Stage 3: attempting registrations.", zap.Int("auth_forms", len(authForms)))
	for _, p := range e.personas {
		if ctx.Err() != nil {
			return agg.Assemble(), ctx.Err()
		}
		if attempt, ok := e.attemptRegistration(ctx, authForms, p); ok {
			agg.AddRegistrationAttempt(attempt)
		}
	}

	// Later stages want the main page back; registration may have wandered
	// off to auth pages or left overlays behind.
	mainPage = e.returnToStart(ctx, startURL, mainPage)

	// Stage 4: fill every form on the main page.
	e.logger.Info("Stage 4: exploring all forms.", zap.Int("forms", len(mainPage.Forms)))
	agg.AddFormInteractions(e.exploreAllForms(ctx, mainPage))
	if ctx.Err() != nil {
		return agg.Assemble(), ctx.Err()
	}

	// Stage 5: hidden functionality.
	e.logger.Info("Stage 5: scanning for hidden functionality.")
	agg.AddHiddenFindings(e.discoverHidden(ctx))
	if ctx.Err() != nil {
		return agg.Assemble(), ctx.Err()
	}

	// Stage 6: user flows, one hop per outgoing link.
	e.logger.Info("Stage 6: tracing user flows.")
	agg.AddUserFlows(e.analyzeUserFlows(ctx, mainPage, agg))
	if ctx.Err() != nil {
		return agg.Assemble(), ctx.Err()
	}

	// Flows navigate away; the security and performance stages measure the
	// start page, not whatever link came last.
	e.returnToStart(ctx, startURL, mainPage)

	// Stage 7: security checks.
	e.logger.Info("Stage 7: running security checks.")
	agg.AddSecurityFindings(e.securityAnalysis(ctx))
	if ctx.Err() != nil {
		return agg.Assemble(), ctx.Err()
	}

	// Stage 8: performance.
	e.logger.Info("Stage 8: collecting performance metrics.")
	agg.SetPerformance(e.performanceAnalysis(ctx))

	rep := agg.Assemble()
	e.logger.Info("Exploration complete.",
		zap.Int("pages", len(rep.DiscoveredPages)),
		zap.Int("registration_attempts", len(rep.RegistrationAttempts)),
		zap.Int("forms_tested", len(rep.FormInteractions)))
	return rep, nil
}

// analyzeMainPage asks the judge for a deep page analysis. No judge output
// is still a valid (empty) analysis.
func (e *Engine) analyzeMainPage(ctx context.Context, page *schemas.PageSnapshot) map[string]any {
	analysis, err := e.judge.AnalyzePage(ctx, page)
	if err != nil {
		e.logger.Warn("Main page analysis failed.", zap.Error(err))
		return map[string]any{}
	}
	if analysis == nil {
		return map[string]any{}
	}
	return analysis
}

// returnToStart re-navigates to the start URL if the session drifted away
// from it, returning the freshest snapshot available.
func (e *Engine) returnToStart(ctx context.Context, startURL string, current *schemas.PageSnapshot) *schemas.PageSnapshot {
	if ctx.Err() != nil {
		return current
	}
	cur, err := e.driver.CurrentURL(ctx)
	if err == nil && sameURL(cur, startURL) {
		return current
	}
	snap, err := e.driver.Navigate(ctx, startURL)
	if err != nil || snap == nil {
		e.logger.Warn("Failed to return to start URL; continuing with last snapshot.", zap.Error(err))
		return current
	}
	return snap
}

func sameURL(a, b string) bool {
	trim := func(s string) string { return strings.TrimSuffix(s, "/") }
	return trim(a) == trim(b)
}

// politeWait spaces out successive navigations. Context cancellation simply
// ends the wait.
func (e *Engine) politeWait(ctx context.Context) {
	if err := e.limiter.Wait(ctx); err != nil {
		e.logger.Debug("Politeness wait interrupted.", zap.Error(err))
	}
}

// nowUTC is indirected for tests.
var nowUTC = func() time.Time { return time.Now().UTC() }
