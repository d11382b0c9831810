// internal/oracle/nop.go
package oracle

import (
	"context"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

// NopJudge is used when no API key is configured. Every form stays with its
// deterministic label and the report carries no deep analysis.
type NopJudge struct{}

func (NopJudge) Judge(context.Context, string) (schemas.Judgment, error) {
	return schemas.Judgment{}, nil
}

func (NopJudge) AnalyzePage(context.Context, *schemas.PageSnapshot) (map[string]any, error) {
	return map[string]any{}, nil
}
