// internal/explorer/registration.go
package explorer

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/persona"
)

// attemptRegistration tries to register the persona on the first workable
// registration form. Forms are tried in discovery order; the first one that
// fills successfully produces the attempt and the rest are skipped.
func (e *Engine) attemptRegistration(ctx context.Context, authForms []schemas.AuthForm, p persona.Persona) (schemas.RegistrationAttempt, bool) {
	var registrationForms []schemas.AuthForm
	for _, af := range authForms {
		if af.Purpose == schemas.PurposeRegistration {
			registrationForms = append(registrationForms, af)
		}
	}
	if len(registrationForms) == 0 {
		return schemas.RegistrationAttempt{}, false
	}

	e.logger.Info("Attempting registration.", zap.String("persona", p.Name))

	for _, formData := range registrationForms {
		if ctx.Err() != nil {
			return schemas.RegistrationAttempt{}, false
		}

		if !e.bringFormIntoView(ctx, formData) {
			continue
		}

		// Every attempt gets fresh unique data so reruns never collide.
		testData := e.generator.Registration(p)

		fillResult := e.filler.Fill(ctx, formData.Form, testData)
		if !fillResult.Success {
			e.logger.Debug("Registration fill produced nothing; trying next form.",
				zap.String("persona", p.Name))
			continue
		}

		submitResult := e.filler.Submit(ctx)

		if formData.SourceURL == schemas.ModalSourceURL {
			e.navigator.Close(ctx)
		}

		formURL := formData.SourceURL
		if formURL == "" {
			formURL = "main_page"
		}

		return schemas.RegistrationAttempt{
			Persona:       p.Name,
			FormURL:       formURL,
			TriggerButton: formData.TriggerButton,
			SwitchButton:  formData.SwitchButton,
			TestData:      redactTestData(testData),
			FillResult:    fillResult,
			SubmitResult:  submitResult,
			Timestamp:     nowUTC(),
		}, true
	}
	return schemas.RegistrationAttempt{}, false
}

// bringFormIntoView makes the form reachable again: reopen its overlay or
// navigate back to its source page. Forms discovered on the current page
// need nothing.
func (e *Engine) bringFormIntoView(ctx context.Context, formData schemas.AuthForm) bool {
	switch {
	case formData.SourceURL == schemas.ModalSourceURL:
		state := e.navigator.Reopen(ctx, formData)
		if state == schemas.FlowFailed {
			e.logger.Debug("Could not reopen overlay for registration.",
				zap.String("trigger", formData.TriggerButton))
			return false
		}
		return true
	case formData.SourceURL != "":
		cur, err := e.driver.CurrentURL(ctx)
		if err == nil && sameURL(cur, formData.SourceURL) {
			return true
		}
		e.politeWait(ctx)
		snap, err := e.driver.Navigate(ctx, formData.SourceURL)
		if err != nil || snap == nil || len(snap.Errors) > 0 {
			e.logger.Debug("Could not revisit form source page.",
				zap.String("url", formData.SourceURL), zap.Error(err))
			return false
		}
		return true
	default:
		return true
	}
}

// redactTestData keeps the report free of reusable credentials while still
// showing what shape of data was typed.
func redactTestData(data map[string]string) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		if k == "password" || k == "password_confirm" {
			out[k] = "********"
			continue
		}
		out[k] = v
	}
	return out
}
