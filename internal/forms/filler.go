// internal/forms/filler.go
// Package forms fills discovered forms with matched test data and submits
// them, turning the page's reaction into a structured outcome.
package forms

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/classify"
)

const valuePreviewLen = 20

// Filler drives form interaction against a live page.
type Filler struct {
	driver schemas.PageDriver
	logger *zap.Logger
}

func NewFiller(driver schemas.PageDriver, logger *zap.Logger) *Filler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filler{driver: driver, logger: logger}
}

// Fill matches each field of the form against the test data and types the
// matched values into the live page. Per-field failures are collected and
// never stop the remaining fields; Success means at least one field landed.
func (f *Filler) Fill(ctx context.Context, form schemas.FormDescriptor, data map[string]string) schemas.FillResult {
	result := schemas.FillResult{
		FilledFields: []schemas.FilledField{},
		Errors:       []string{},
	}

	for _, field := range form.Fields {
		value, ok := classify.MatchValue(field, data)
		if !ok {
			continue
		}

		selector := fmt.Sprintf("input[name='%s']", field.Name)
		if field.Name == "" {
			selector = fmt.Sprintf("input[type='%s']", field.Type)
		}

		if err := f.driver.Fill(ctx, selector, value); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to fill field %q: %v", field.Name, err))
			continue
		}
		result.FilledFields = append(result.FilledFields, schemas.FilledField{
			Field:        field.Name,
			Type:         field.Type,
			ValuePreview: previewValue(value),
		})
	}

	result.Success = len(result.FilledFields) > 0
	f.logger.Debug("Form fill pass complete.",
		zap.Int("filled", len(result.FilledFields)),
		zap.Int("errors", len(result.Errors)))
	return result
}

// previewValue truncates values so credentials and long strings never appear
// in reports verbatim. Truncation is by runes; persona values carry
// non-ASCII text.
func previewValue(v string) string {
	runes := []rune(v)
	if len(runes) > valuePreviewLen {
		return string(runes[:valuePreviewLen]) + "..."
	}
	return v
}
