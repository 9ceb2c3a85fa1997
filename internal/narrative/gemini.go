package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/ventureboard/risklab/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// generateFunc sends a prompt to a model and returns its text answer.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// GeminiNarrator asks a Gemini model for the summary, seeded with the same facts the
// template narrator uses.
type GeminiNarrator struct {
	model    string
	generate generateFunc
	logger   *zap.Logger
}

// NewGeminiNarrator creates a Gemini-backed narrator.
func NewGeminiNarrator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiNarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	n := &GeminiNarrator{model: model, logger: logger}
	n.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, n.model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return n, nil
}

// Model returns the configured model name.
func (n *GeminiNarrator) Model() string { return n.model }

// Narrate implements Narrator.
func (n *GeminiNarrator) Narrate(ctx context.Context, startup domain.StartupProfile, report *domain.RiskReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("%w: report is required", domain.ErrInvalidArgument)
	}
	prompt := BuildPrompt(startup, report)
	text, err := n.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("GenAI narrative failed: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("GenAI narrative failed: empty response")
	}
	n.logger.Debug("narrative generated",
		zap.String("model", n.model),
		zap.String("scenario", report.Scenario),
		zap.Int("chars", len(text)))
	return text, nil
}

// BuildPrompt lists the simulated facts a model should summarize.
func BuildPrompt(startup domain.StartupProfile, report *domain.RiskReport) string {
	d := newSummaryData(startup, report)
	var b strings.Builder
	b.WriteString("Write a three-sentence investment narrative for a venture investor. ")
	b.WriteString("Use only the facts below and do not invent numbers.\n\n")
	fmt.Fprintf(&b, "Company: %s\n", d.Name)
	if d.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s\n", d.Sector)
	}
	fmt.Fprintf(&b, "Scenario: %s\n", d.Scenario)
	fmt.Fprintf(&b, "Current valuation: %s\n", d.Valuation)
	fmt.Fprintf(&b, "Median valuation after %d months: %s\n", d.Months, d.Median)
	fmt.Fprintf(&b, "5th to 95th percentile: %s to %s\n", d.P05, d.P95)
	fmt.Fprintf(&b, "Probability of exceeding 2x: %s\n", d.SuccessPct)
	fmt.Fprintf(&b, "Recommendation: %s (%d%% confidence)\n", d.Recommendation, d.Confidence)
	for _, o := range d.Opportunities {
		fmt.Fprintf(&b, "Opportunity: %s\n", o)
	}
	for _, r := range d.Risks {
		fmt.Fprintf(&b, "Risk: %s\n", r)
	}
	return b.String()
}

// Fallback wraps a primary narrator and falls back to a secondary one on error.
type Fallback struct {
	Primary   Narrator
	Secondary Narrator
	Logger    *zap.Logger
}

// Narrate implements Narrator.
func (f Fallback) Narrate(ctx context.Context, startup domain.StartupProfile, report *domain.RiskReport) (string, error) {
	text, err := f.Primary.Narrate(ctx, startup, report)
	if err == nil {
		return text, nil
	}
	if f.Logger != nil {
		f.Logger.Warn("primary narrator failed, using fallback", zap.Error(err))
	}
	return f.Secondary.Narrate(ctx, startup, report)
}
