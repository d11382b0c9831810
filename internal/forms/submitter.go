// internal/forms/submitter.go
package forms

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

// submitSelectors locate the submit control, tried in order.
var submitSelectors = []string{
	"input[type='submit']",
	"button[type='submit']",
	"button:has-text('Submit')",
	"button:has-text('Register')",
	"button:has-text('Sign up')",
}

// Outcome keyword sets scanned in the post-submit page content. English-only;
// localized sites will read as "no message detected" rather than wrong.
var (
	successIndicators = []string{"success", "welcome", "registered", "created", "thank you"}
	errorIndicators   = []string{"error", "invalid", "failed", "required", "already exists"}
)

const settleTimeout = 10 * time.Second

// Submit locates the submit control, clicks it, waits for the network to
// settle and classifies the page's reaction. A page with no recognizable
// outcome phrase is a non-success, not an error; only a missing submit
// control or a click failure populate the Error field.
func (f *Filler) Submit(ctx context.Context) schemas.SubmitResult {
	el, selector := f.findSubmitControl(ctx)
	if el == nil {
		return schemas.SubmitResult{Success: false, Error: "Submit button not found"}
	}

	beforeURL, _ := f.driver.CurrentURL(ctx)

	if err := el.Click(ctx, schemas.ClickNormal); err != nil {
		f.logger.Debug("Submit click failed.", zap.String("selector", selector), zap.Error(err))
		return schemas.SubmitResult{Success: false, Error: "form submission error: " + err.Error()}
	}

	settleCtx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()
	_ = f.driver.WaitNetworkIdle(settleCtx) // timeout is expected on chatty pages

	afterURL, _ := f.driver.CurrentURL(ctx)
	content, err := f.driver.PageHTML(ctx)
	if err != nil {
		content = ""
	}
	return AnalyzeOutcome(beforeURL, afterURL, content)
}

func (f *Filler) findSubmitControl(ctx context.Context) (schemas.ElementHandle, string) {
	for _, selector := range submitSelectors {
		handles, err := f.driver.QueryAll(ctx, selector)
		if err != nil || len(handles) == 0 {
			continue
		}
		return handles[0], selector
	}
	return nil, ""
}

// AnalyzeOutcome classifies the post-submit page content against the outcome
// keyword sets. Success requires a success phrase with no error phrase.
func AnalyzeOutcome(beforeURL, afterURL, content string) schemas.SubmitResult {
	lower := strings.ToLower(content)

	hasSuccess := false
	for _, kw := range successIndicators {
		if strings.Contains(lower, kw) {
			hasSuccess = true
			break
		}
	}
	hasError := false
	for _, kw := range errorIndicators {
		if strings.Contains(lower, kw) {
			hasError = true
			break
		}
	}

	analysis := "Form submission may have failed"
	if hasSuccess {
		analysis = "Form submitted successfully"
	}

	return schemas.SubmitResult{
		Success:           hasSuccess && !hasError,
		URLChanged:        beforeURL != afterURL,
		NewURL:            afterURL,
		HasSuccessMessage: hasSuccess,
		HasErrorMessage:   hasError,
		ResponseAnalysis:  analysis,
	}
}
