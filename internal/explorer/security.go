// internal/explorer/security.go
package explorer

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

// expectedSecurityHeaders is the checklist of response headers whose absence
// gets reported. Header names are matched lowercase.
var expectedSecurityHeaders = []string{
	"x-frame-options",
	"x-content-type-options",
	"x-xss-protection",
	"strict-transport-security",
	"content-security-policy",
}

// securityAnalysis runs two passive checks against the current page: missing
// response security headers and POST forms without an anti-CSRF token. Check
// failures become error findings, never aborts.
func (e *Engine) securityAnalysis(ctx context.Context) []schemas.SecurityFinding {
	var findings []schemas.SecurityFinding

	if finding, ok := e.checkSecurityHeaders(ctx); ok {
		findings = append(findings, finding)
	}

	var unprotected int
	if err := e.driver.Evaluate(ctx, csrfCountScript, &unprotected); err != nil {
		e.logger.Warn("CSRF check failed.", zap.Error(err))
		findings = append(findings, schemas.SecurityFinding{
			Type:  schemas.FindingSecurityAnalysisError,
			Error: err.Error(),
		})
	} else if unprotected > 0 {
		findings = append(findings, schemas.SecurityFinding{
			Type:     schemas.FindingFormsWithoutCSRF,
			Severity: "high",
			Count:    unprotected,
		})
	}

	return findings
}

// checkSecurityHeaders re-fetches the document in-page and diffs the response
// headers against the checklist. Returns ok=false when nothing is missing.
func (e *Engine) checkSecurityHeaders(ctx context.Context) (schemas.SecurityFinding, bool) {
	var result struct {
		OK      bool              `json:"ok"`
		Headers map[string]string `json:"headers"`
		Error   string            `json:"error"`
	}
	if err := e.driver.Evaluate(ctx, securityHeadersScript, &result); err != nil {
		e.logger.Warn("Security header check failed.", zap.Error(err))
		return schemas.SecurityFinding{
			Type:  schemas.FindingSecurityAnalysisError,
			Error: err.Error(),
		}, true
	}
	if !result.OK {
		return schemas.SecurityFinding{
			Type:  schemas.FindingSecurityAnalysisError,
			Error: result.Error,
		}, true
	}

	var missing []string
	for _, header := range expectedSecurityHeaders {
		if _, present := result.Headers[header]; !present {
			missing = append(missing, header)
		}
	}
	if len(missing) == 0 {
		return schemas.SecurityFinding{}, false
	}
	return schemas.SecurityFinding{
		Type:     schemas.FindingMissingSecurityHeaders,
		Severity: "medium",
		Headers:  missing,
	}, true
}
