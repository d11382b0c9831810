// internal/oracle/gemini.go
// Package oracle provides the classification judge consulted when the
// deterministic rules cannot label a form, plus the deep page analysis used
// in the final report. The Gemini client degrades hard: malformed model
// output becomes an empty judgment, never a failed exploration.
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const systemInstruction = "You are an expert web application security tester and UX researcher. " +
	"Provide detailed, actionable insights for comprehensive website exploration."

// -- Gemini API request/response structures (internal to this file) --

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"response_mime_type,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequestPayload struct {
	Contents          []geminiContent          `json:"contents"`
	SystemInstruction *geminiSystemInstruction `json:"system_instruction,omitempty"`
	GenerationConfig  geminiGenerationConfig   `json:"generationConfig,omitempty"`
}

type geminiResponsePayload struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// GeminiJudge talks to the Gemini generateContent endpoint.
type GeminiJudge struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	maxElapsed time.Duration
}

// NewGeminiJudge initializes the judge client.
func NewGeminiJudge(cfg config.OracleConfig, logger *zap.Logger) (*GeminiJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("oracle API key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", cfg.Model)
	}

	return &GeminiJudge{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: cfg.APITimeout,
		},
		logger:     logger.Named("oracle.gemini"),
		maxElapsed: 2 * time.Minute,
	}, nil
}

// Judge asks for a form purpose label. Transport failures surface as errors;
// a reply that is not the expected JSON shape yields an empty Judgment with a
// nil error so the caller just keeps its unknown label.
func (g *GeminiJudge) Judge(ctx context.Context, prompt string) (schemas.Judgment, error) {
	raw, err := g.generate(ctx, prompt, true)
	if err != nil {
		return schemas.Judgment{}, err
	}

	var judgment schemas.Judgment
	cleaned := stripJSONFences(raw)
	if err := json.Unmarshal([]byte(cleaned), &judgment); err != nil {
		g.logger.Debug("Oracle reply was not valid JSON; discarding.", zap.String("reply", truncate(raw, 200)))
		return schemas.Judgment{}, nil
	}
	return judgment, nil
}

// AnalyzePage requests a free-form structured page analysis. A non-JSON reply
// is still useful, so it is wrapped as plain text instead of dropped.
func (g *GeminiJudge) AnalyzePage(ctx context.Context, snapshot *schemas.PageSnapshot) (map[string]any, error) {
	prompt := buildAnalysisPrompt(snapshot)
	raw, err := g.generate(ctx, prompt, false)
	if err != nil {
		return nil, err
	}

	var analysis map[string]any
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &analysis); err != nil {
		return map[string]any{"analysis": raw, "format": "text"}, nil
	}
	return analysis, nil
}

func buildAnalysisPrompt(snapshot *schemas.PageSnapshot) string {
	var sb strings.Builder
	sb.WriteString("Analyze this webpage for exploration opportunities. Respond with JSON containing ")
	sb.WriteString(`"key_features", "interaction_points", "security_considerations" and "recommended_actions".` + "\n\n")
	fmt.Fprintf(&sb, "URL: %s\nTitle: %s\nForms: %d\nLinks: %d\n", snapshot.URL, snapshot.Title, len(snapshot.Forms), len(snapshot.Links))
	fmt.Fprintf(&sb, "Content excerpt:\n%s\n", truncate(snapshot.TextContent, 2000))
	return sb.String()
}

func (g *GeminiJudge) generate(ctx context.Context, prompt string, forceJSON bool) (string, error) {
	genConfig := geminiGenerationConfig{Temperature: 0.1, MaxOutputTokens: 2048}
	if forceJSON {
		genConfig.ResponseMimeType = "application/json"
	}

	payload := geminiRequestPayload{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		SystemInstruction: &geminiSystemInstruction{
			Parts: []geminiPart{{Text: systemInstruction}},
		},
		GenerationConfig: genConfig,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = g.maxElapsed
	b.MaxInterval = 30 * time.Second

	var responseContent string

	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewBuffer(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create HTTP request: %w", err))
		}

		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.httpClient.Do(httpReq)
		if err != nil {
			g.logger.Warn("Network error during oracle request, retrying...", zap.Error(err))
			return fmt.Errorf("failed to execute HTTP request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return g.handleAPIError(resp.StatusCode, respBody)
		}

		var responsePayload geminiResponsePayload
		if err := json.Unmarshal(respBody, &responsePayload); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response payload: %w", err))
		}

		if len(responsePayload.Candidates) == 0 {
			return backoff.Permanent(fmt.Errorf("oracle API returned no candidates"))
		}

		candidate := responsePayload.Candidates[0]
		if len(candidate.Content.Parts) == 0 {
			if candidate.FinishReason == "SAFETY" || candidate.FinishReason == "BLOCKLIST" {
				return backoff.Permanent(fmt.Errorf("oracle API blocked the request (Reason: %s)", candidate.FinishReason))
			}
			return fmt.Errorf("oracle API returned empty content parts (Reason: %s)", candidate.FinishReason)
		}

		responseContent = candidate.Content.Parts[0].Text
		return nil
	}

	if err = backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return responseContent, nil
}

func (g *GeminiJudge) handleAPIError(statusCode int, body []byte) error {
	g.logger.Error("Oracle API returned error status", zap.Int("status", statusCode), zap.String("response", string(body)))
	err := fmt.Errorf("oracle API error: status %d, body: %s", statusCode, string(body))

	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusInternalServerError:
		return err // Transient errors, retry.
	default:
		return backoff.Permanent(err) // Permanent errors.
	}
}

// stripJSONFences removes a surrounding markdown code fence if the model
// wrapped its JSON in one.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
