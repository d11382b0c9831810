// internal/classify/classifier.go
// Package classify assigns a purpose label to discovered forms and maps form
// fields to test data slots. The deterministic pass is a strict priority
// ladder over keyword sets; an injected oracle is consulted only when every
// rule falls through to unknown.
package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

// Confidence levels attached to classification results depending on where the
// form was found.
const (
	ConfidenceDirect     = 0.8
	ConfidenceIndirect   = 0.9
	ConfidenceModeSwitch = 0.95
)

var validPurposes = map[schemas.FormPurpose]bool{
	schemas.PurposeRegistration: true,
	schemas.PurposeLogin:        true,
	schemas.PurposeContact:      true,
	schemas.PurposeSearch:       true,
	schemas.PurposeSubscription: true,
}

// Classifier labels forms. The zero value is not usable; construct with
// NewClassifier. Judge may be nil, in which case unknown stays unknown.
type Classifier struct {
	judge  schemas.Judge
	logger *zap.Logger
}

func NewClassifier(judge schemas.Judge, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{judge: judge, logger: logger}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Classify runs the deterministic ladder only. The rules are ordered; the
// first hit wins and later rules are never consulted.
func (c *Classifier) Classify(form schemas.FormDescriptor) schemas.ClassificationResult {
	purpose := classifyPurpose(form)
	conf := ConfidenceDirect
	if purpose == schemas.PurposeUnknown {
		conf = 0
	}
	return schemas.ClassificationResult{Purpose: purpose, Confidence: conf}
}

// ClassifyWithOracle runs the deterministic ladder, then escalates to the
// oracle when the result is unknown. Oracle answers outside the closed label
// set, malformed replies and transport errors all leave the form unknown.
func (c *Classifier) ClassifyWithOracle(ctx context.Context, form schemas.FormDescriptor) schemas.ClassificationResult {
	res := c.Classify(form)
	if res.Purpose != schemas.PurposeUnknown || c.judge == nil {
		return res
	}

	judgment, err := c.judge.Judge(ctx, buildOraclePrompt(form))
	if err != nil {
		c.logger.Debug("Oracle escalation failed; keeping unknown.", zap.Error(err))
		return res
	}
	purpose := schemas.FormPurpose(strings.ToLower(strings.TrimSpace(judgment.Purpose)))
	if !validPurposes[purpose] {
		return res
	}
	conf := judgment.Confidence
	if conf <= 0 || conf > 1 {
		conf = ConfidenceDirect
	}
	return schemas.ClassificationResult{Purpose: purpose, Confidence: conf}
}

func buildOraclePrompt(form schemas.FormDescriptor) string {
	var sb strings.Builder
	sb.WriteString("Classify the purpose of this HTML form. Respond with JSON: ")
	sb.WriteString(`{"purpose": "registration|login|contact|search|subscription|unknown", "confidence": 0.0}` + "\n")
	fmt.Fprintf(&sb, "Action: %s\nMethod: %s\nFields:\n", form.Action, form.Method)
	for _, f := range form.Fields {
		fmt.Fprintf(&sb, "- name=%q type=%q placeholder=%q required=%v\n", f.Name, f.Type, f.Placeholder, f.Required)
	}
	for _, b := range form.Buttons {
		fmt.Fprintf(&sb, "Button: %q (%s)\n", b.Text, b.Type)
	}
	fmt.Fprintf(&sb, "Form text: %s\nNearby text: %s\n", form.FormText, form.NearbyText)
	return sb.String()
}

func classifyPurpose(form schemas.FormDescriptor) schemas.FormPurpose {
	textLower := strings.ToLower(form.FormText + " " + form.NearbyText)

	switch {
	case containsAny(textLower, registrationKeywords):
		return schemas.PurposeRegistration
	case containsAny(textLower, loginKeywords):
		return schemas.PurposeLogin
	case containsAny(textLower, contactKeywords):
		return schemas.PurposeContact
	case containsAny(textLower, searchKeywords):
		return schemas.PurposeSearch
	case containsAny(textLower, subscriptionKeywords):
		return schemas.PurposeSubscription
	}

	// Field-level pass. The text told us nothing, so look at what the form
	// actually collects.
	var (
		types        = make(map[string]bool)
		nameAndPH    strings.Builder
		placeholders []string
	)
	for _, f := range form.Fields {
		ft := strings.ToLower(f.Type)
		types[ft] = true
		nameAndPH.WriteString(strings.ToLower(f.Name))
		nameAndPH.WriteString(" ")
		nameAndPH.WriteString(strings.ToLower(f.Placeholder))
		nameAndPH.WriteString(" ")
		placeholders = append(placeholders, strings.ToLower(f.Placeholder))
	}
	allInputText := nameAndPH.String()

	// A "create a password" placeholder is a registration form no matter
	// what else is on it.
	for _, ph := range placeholders {
		if containsAny(ph, passwordCreationPlaceholders) {
			return schemas.PurposeRegistration
		}
	}

	if types["password"] && (types["email"] || strings.Contains(allInputText, "email")) {
		registrationSignals := strings.Contains(allInputText, "confirm") ||
			strings.Contains(allInputText, "first") ||
			strings.Contains(allInputText, "last") ||
			strings.Contains(allInputText, "name") ||
			strings.Contains(allInputText, "phone") ||
			strings.Contains(allInputText, "birth") ||
			types["date"] ||
			strings.Contains(textLower, "agree") ||
			strings.Contains(textLower, "terms") ||
			len(form.Fields) > 2
		if registrationSignals {
			return schemas.PurposeRegistration
		}
		return schemas.PurposeLogin
	}

	if types["email"] && !types["password"] && containsAny(textLower, subscriptionContextKeywords) {
		return schemas.PurposeSubscription
	}

	return schemas.PurposeUnknown
}

// IsAuthPurpose reports whether the purpose counts as an authentication form.
func IsAuthPurpose(p schemas.FormPurpose) bool {
	return p == schemas.PurposeRegistration || p == schemas.PurposeLogin
}
