// internal/report/writer.go
package report

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	homedir "github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Writer persists assembled reports as pretty-printed JSON documents, one
// file per run.
type Writer struct {
	outputDir string
	logger    *zap.Logger
}

func NewWriter(outputDir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{outputDir: outputDir, logger: logger}
}

// Write saves the report and returns the path it landed at. The output
// directory is created on demand and a leading ~ is expanded.
func (w *Writer) Write(report *schemas.ExplorationReport) (string, error) {
	dir, err := homedir.Expand(w.outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to expand output directory %q: %w", w.outputDir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}

	name := fmt.Sprintf("webscout_%s.json", report.Timestamp.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	w.logger.Info("Exploration report saved.", zap.String("path", path))
	return path, nil
}
