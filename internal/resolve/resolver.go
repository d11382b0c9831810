// internal/resolve/resolver.go
// Package resolve turns logical trigger descriptions into actual clicks. A
// trigger carries text and attributes but no live handle, so the resolver
// derives an ordered list of candidate selectors and walks a click escalation
// per matched element until one succeeds.
package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

// genericSignupSelectors is the fixed tail appended to every candidate list.
// It catches signup controls whose text was empty or mangled.
var genericSignupSelectors = []string{
	"[data-testid*='signup']",
	"[data-testid*='register']",
	"[aria-label*='sign up']",
	"[aria-label*='register']",
	"button[class*='signup']",
	"button[class*='register']",
	".signup-btn",
	".register-btn",
	"#signup",
	"#register",
}

const (
	maxClassFragments = 3
	scrollSettle      = 1 * time.Second
)

// Resolver resolves triggers against a live page.
type Resolver struct {
	driver schemas.PageDriver
	logger *zap.Logger
	// sleep is swapped out in tests.
	sleep func(context.Context, time.Duration)
}

func NewResolver(driver schemas.PageDriver, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{driver: driver, logger: logger, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Candidates builds the ordered selector list for a trigger: text selectors
// across the clickable tag set, then exact attribute selectors, then up to
// three class fragments, then the generic signup tail. Duplicates keep their
// first position.
func Candidates(trigger schemas.TriggerDescriptor) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(sel string) {
		if sel != "" && !seen[sel] {
			seen[sel] = true
			out = append(out, sel)
		}
	}

	if text := strings.TrimSpace(trigger.Text); text != "" {
		escaped := strings.ReplaceAll(text, "'", "\\'")
		for _, tag := range []string{"button", "[role='button']", "div", "a", "span"} {
			add(fmt.Sprintf("%s:has-text('%s')", tag, escaped))
		}
	}
	if trigger.DataTestID != "" {
		add(fmt.Sprintf("[data-testid='%s']", trigger.DataTestID))
	}
	if trigger.AriaLabel != "" {
		add(fmt.Sprintf("[aria-label='%s']", trigger.AriaLabel))
	}
	if trigger.ClassName != "" {
		classes := strings.Fields(trigger.ClassName)
		if len(classes) > maxClassFragments {
			classes = classes[:maxClassFragments]
		}
		for _, cls := range classes {
			add("." + cls)
		}
	}
	for _, sel := range genericSignupSelectors {
		add(sel)
	}
	return out
}

// Resolve walks the candidate selectors for the trigger and attempts to
// click each matched element, escalating normal -> forced -> scripted per
// element. The first successful click wins. Exhaustion is a failed outcome,
// not an error; errors from individual selectors or elements never abort the
// walk.
func (r *Resolver) Resolve(ctx context.Context, trigger schemas.TriggerDescriptor) schemas.ResolutionOutcome {
	out := r.ResolveSelectors(ctx, Candidates(trigger))
	if !out.Success {
		r.logger.Debug("Trigger resolution exhausted all candidates.", zap.String("text", trigger.Text))
	}
	return out
}

// ResolveSelectors runs the same walk over a caller-supplied selector list.
func (r *Resolver) ResolveSelectors(ctx context.Context, selectors []string) schemas.ResolutionOutcome {
	for _, selector := range selectors {
		if ctx.Err() != nil {
			return schemas.ResolutionOutcome{}
		}
		handles, err := r.driver.QueryAll(ctx, selector)
		if err != nil {
			r.logger.Debug("Selector query failed.", zap.String("selector", selector), zap.Error(err))
			continue
		}
		for _, el := range handles {
			strategy, ok := r.clickElement(ctx, el, selector)
			if ok {
				return schemas.ResolutionOutcome{
					StrategyUsed:    strategy,
					SelectorMatched: selector,
					Success:         true,
				}
			}
		}
	}
	return schemas.ResolutionOutcome{}
}

// clickElement applies the escalation tiers to one element. An element that
// is not visible gets one scroll-into-view attempt before the tier is chosen.
func (r *Resolver) clickElement(ctx context.Context, el schemas.ElementHandle, selector string) (schemas.ClickStrategy, bool) {
	state, err := el.State(ctx)
	if err != nil {
		return "", false
	}

	if !state.Visible {
		if err := el.ScrollIntoView(ctx); err == nil {
			r.sleep(ctx, scrollSettle)
			if s, err := el.State(ctx); err == nil {
				state = s
			}
		}
	}

	var strategy schemas.ClickStrategy
	switch {
	case state.Visible && state.Enabled:
		strategy = schemas.ClickNormal
	case state.Enabled:
		strategy = schemas.ClickForced
	default:
		strategy = schemas.ClickScripted
	}

	if err := el.Click(ctx, strategy); err != nil {
		r.logger.Debug("Click failed.",
			zap.String("selector", selector),
			zap.String("strategy", string(strategy)),
			zap.Error(err))
		return "", false
	}
	return strategy, true
}
