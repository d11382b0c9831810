// internal/explorer/performance.go
package explorer

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

// Advisory thresholds for the performance stage.
const (
	slowLoadThresholdMs = 3000
	manyResourcesLimit  = 50
	largeResourceBytes  = 1024 * 1024
)

// performanceAnalysis reads navigation-timing data from the current page and
// turns the numbers into plain-language recommendations.
func (e *Engine) performanceAnalysis(ctx context.Context) schemas.PerformanceInsights {
	var metrics schemas.PerformanceMetrics
	if err := e.driver.Evaluate(ctx, performanceScript, &metrics); err != nil {
		e.logger.Warn("Performance collection failed.", zap.Error(err))
		return schemas.PerformanceInsights{Error: err.Error()}
	}

	insights := schemas.PerformanceInsights{
		Metrics:  metrics,
		Analysis: "Performance analysis completed",
	}
	if metrics.PageLoadTimeMs > slowLoadThresholdMs {
		insights.Recommendations = append(insights.Recommendations,
			"Page load time is over 3 seconds - consider optimization")
	}
	if metrics.ResourcesCount > manyResourcesLimit {
		insights.Recommendations = append(insights.Recommendations,
			"High number of resources - consider bundling and minification")
	}
	if metrics.LargestResourceBytes > largeResourceBytes {
		insights.Recommendations = append(insights.Recommendations,
			"Large resources detected - consider compression and lazy loading")
	}
	return insights
}
