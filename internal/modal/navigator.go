// internal/modal/navigator.go
// Package modal walks overlay-based auth flows through an explicit state
// machine: click a trigger, wait for the overlay, optionally flip a login
// overlay into registration mode, and hand the surfaced forms back to the
// caller. Every terminal path ends in Closed or Failed; partial progress is
// reported, never discarded.
package modal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/classify"
	"github.com/xkilldash9x/webscout-cli/internal/resolve"
)

const (
	modalSettle  = 3 * time.Second
	switchSettle = 2 * time.Second
	closeSettle  = 1 * time.Second
)

// closeSelectors locate an overlay's dismiss control.
var closeSelectors = "button[aria-label*='close'], button[aria-label*='Close'], .close, [data-testid*='close']"

// FlowResult is the outcome of one overlay discovery pass.
type FlowResult struct {
	State     schemas.FlowState
	AuthForms []schemas.AuthForm
	Trigger   schemas.ResolutionOutcome
}

// FlowNavigator owns the overlay state machine. It never navigates; the page
// it operates on is whatever the driver currently shows.
type FlowNavigator struct {
	driver     schemas.PageDriver
	resolver   *resolve.Resolver
	classifier *classify.Classifier
	logger     *zap.Logger
	sleep      func(context.Context, time.Duration)
}

func NewFlowNavigator(driver schemas.PageDriver, resolver *resolve.Resolver, classifier *classify.Classifier, logger *zap.Logger) *FlowNavigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlowNavigator{
		driver:     driver,
		resolver:   resolver,
		classifier: classifier,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Discover clicks the trigger, waits for the overlay to settle and classifies
// every form that surfaced. Login-only overlays get one mode-switch attempt.
// The overlay is dismissed best-effort before returning; a failed dismissal
// does not change the result.
func (n *FlowNavigator) Discover(ctx context.Context, trigger schemas.TriggerDescriptor) FlowResult {
	outcome := n.resolver.Resolve(ctx, trigger)
	if !outcome.Success {
		n.logger.Debug("Overlay trigger did not resolve.", zap.String("text", trigger.Text))
		return FlowResult{State: schemas.FlowFailed, Trigger: outcome}
	}

	// TriggerClicked: give the overlay time to render before looking for it.
	n.sleep(ctx, modalSettle)

	forms, err := n.driver.CollectForms(ctx)
	if err != nil {
		n.logger.Debug("Form collection after trigger failed.", zap.Error(err))
		return FlowResult{State: schemas.FlowFailed, Trigger: outcome}
	}

	var authForms []schemas.AuthForm
	loginSeen := false
	for _, form := range forms {
		res := n.classifier.ClassifyWithOracle(ctx, form)
		if !classify.IsAuthPurpose(res.Purpose) {
			continue
		}
		if res.Purpose == schemas.PurposeLogin {
			loginSeen = true
		}
		authForms = append(authForms, schemas.AuthForm{
			Form:          form,
			Purpose:       res.Purpose,
			Confidence:    classify.ConfidenceIndirect,
			SourceURL:     schemas.ModalSourceURL,
			TriggerButton: trigger.Text,
		})
	}

	// A login overlay often hides the registration variant behind a mode
	// switch. One attempt; failure leaves the login result standing. The
	// switch runs whenever a login form is present, even if a registration
	// form already surfaced: both variants are kept, and the switched form
	// carries the trigger/switch provenance reopen needs.
	if loginSeen {
		n.switchToRegistration(ctx, trigger, &authForms)
	}

	n.Close(ctx)
	return FlowResult{State: schemas.FlowClosed, AuthForms: authForms, Trigger: outcome}
}

// switchToRegistration looks for an in-overlay control that flips to signup
// mode, clicks it and re-classifies the surfaced forms. A registration form
// found this way carries the post-switch confidence.
func (n *FlowNavigator) switchToRegistration(ctx context.Context, trigger schemas.TriggerDescriptor, authForms *[]schemas.AuthForm) bool {
	switches, err := n.driver.CollectTriggers(ctx, classify.ModeSwitchScanKeywords)
	if err != nil {
		n.logger.Debug("Mode switch scan failed.", zap.Error(err))
		return false
	}

	for _, sw := range switches {
		text := strings.ToLower(sw.Text)
		matched := false
		for _, kw := range classify.ModeSwitchKeywords {
			if strings.Contains(text, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		selector := fmt.Sprintf("button:has-text('%s')", escapeText(sw.Text))
		if strings.EqualFold(sw.TagName, "a") {
			selector = fmt.Sprintf("a:has-text('%s')", escapeText(sw.Text))
		}
		out := n.resolver.ResolveSelectors(ctx, []string{selector})
		if !out.Success {
			continue
		}
		n.sleep(ctx, switchSettle)

		forms, err := n.driver.CollectForms(ctx)
		if err != nil {
			return false
		}
		for _, form := range forms {
			res := n.classifier.ClassifyWithOracle(ctx, form)
			if res.Purpose != schemas.PurposeRegistration {
				continue
			}
			*authForms = append(*authForms, schemas.AuthForm{
				Form:          form,
				Purpose:       schemas.PurposeRegistration,
				Confidence:    classify.ConfidenceModeSwitch,
				SourceURL:     schemas.ModalSourceURL,
				TriggerButton: trigger.Text,
				SwitchButton:  sw.Text,
			})
			break
		}
		return true
	}
	return false
}

// Reopen restores the overlay a previously discovered form lives in: click
// the recorded trigger, then the recorded mode switch if there was one.
// Returns the state reached; FlowFailed means the trigger never resolved.
// A missing switch is tolerated since the overlay may already be in
// registration mode.
func (n *FlowNavigator) Reopen(ctx context.Context, form schemas.AuthForm) schemas.FlowState {
	trigger := schemas.TriggerDescriptor{Text: form.TriggerButton}
	out := n.resolver.Resolve(ctx, trigger)
	if !out.Success {
		return schemas.FlowFailed
	}
	n.sleep(ctx, modalSettle)

	if form.SwitchButton == "" {
		return schemas.FlowModalOpen
	}

	selectors := switchSelectors(form.SwitchButton)
	if sw := n.resolver.ResolveSelectors(ctx, selectors); sw.Success {
		n.sleep(ctx, switchSettle)
		return schemas.FlowModeSwitched
	}
	n.logger.Debug("Mode switch not found on reopen; continuing with current overlay.",
		zap.String("switch", form.SwitchButton))
	return schemas.FlowModalOpen
}

// Close dismisses any open overlay. Best effort: no overlay, no dismiss
// control and click failures are all fine.
func (n *FlowNavigator) Close(ctx context.Context) {
	handles, err := n.driver.QueryAll(ctx, closeSelectors)
	if err != nil || len(handles) == 0 {
		return
	}
	if err := handles[0].Click(ctx, schemas.ClickNormal); err != nil {
		n.logger.Debug("Overlay close click failed.", zap.Error(err))
		return
	}
	n.sleep(ctx, closeSettle)
}

func switchSelectors(text string) []string {
	var sels []string
	if text != "" {
		esc := escapeText(text)
		sels = append(sels,
			fmt.Sprintf("button:has-text('%s')", esc),
			fmt.Sprintf("a:has-text('%s')", esc),
			fmt.Sprintf("div:has-text('%s')", esc),
			fmt.Sprintf("span:has-text('%s')", esc),
		)
	}
	return append(sels,
		"[data-testid*='switch']",
		"[data-testid*='signup']",
		"[data-testid*='register']",
		"button[class*='switch']",
		".switch-btn",
	)
}

func escapeText(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
