// Package classifier assigns an educational-suitability verdict to a project
// by querying a generative completion endpoint with a fixed instruction
// template and validating the structured response.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eduscout/eduscout/internal/metrics"
	"github.com/eduscout/eduscout/internal/project"
)

// ErrNoCredential is returned when no AI credential is configured. It is the
// one classifier failure that propagates to the caller: without a credential
// no analysis can ever proceed, so the user has to be told.
var ErrNoCredential = errors.New("ai credential not configured")

// CompletionClient is the completion endpoint dependency. Implementations
// must request JSON-object-formatted output.
type CompletionClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

const promptTemplate = `You are an education specialist evaluating external projects for classroom use.

Project name: %s
Project description: %s

Assess this project's educational suitability and respond with a single JSON object containing exactly these fields:
  "suitabilityScore": an integer from 0 to 100,
  "category": one of "school", "adult", "both" or "unsuitable",
  "educationalPlan": a detailed plan for using this project in an educational setting,
  "recommendations": an ordered array of recommendation strings.

Return only the JSON object, with no surrounding text.`

// Classifier implements project.Classifier. A nil client represents the
// missing-credential state, checked on every call.
type Classifier struct {
	client CompletionClient
	model  string
	logger *zap.Logger
}

// New builds a Classifier. client may be nil when no credential is configured.
func New(client CompletionClient, model string, logger *zap.Logger) *Classifier {
	return &Classifier{
		client: client,
		model:  model,
		logger: logger,
	}
}

// completionPayload is the untyped intermediate shape the endpoint's text is
// decoded into before validation. Pointer fields distinguish absent from zero.
type completionPayload struct {
	SuitabilityScore *int     `json:"suitabilityScore"`
	Category         *string  `json:"category"`
	EducationalPlan  string   `json:"educationalPlan"`
	Recommendations  []string `json:"recommendations"`
}

// Classify invokes the completion endpoint once for the given project fields
// and parses the response into an AnalysisResult. ErrNoCredential is the only
// error returned; network, decode and validation failures are folded into a
// degraded result carrying the failure text in EducationalPlan.
func (c *Classifier) Classify(ctx context.Context, name, description string) (project.AnalysisResult, error) {
	if c.client == nil {
		return project.AnalysisResult{}, ErrNoCredential
	}

	prompt := fmt.Sprintf(promptTemplate, name, description)

	raw, err := c.client.Complete(ctx, c.model, prompt)
	if err != nil {
		c.logger.Warn("completion call failed",
			zap.String("project", name),
			zap.Error(err),
		)
		metrics.ObserveClassification(metrics.OutcomeFailed)
		return degraded(err.Error()), nil
	}

	result, err := parseResult(raw)
	if err != nil {
		c.logger.Warn("completion response rejected",
			zap.String("project", name),
			zap.Error(err),
		)
		metrics.ObserveClassification(metrics.OutcomeFailed)
		return degraded(err.Error()), nil
	}

	metrics.ObserveClassification(metrics.OutcomeOK)
	return result, nil
}

// parseResult decodes the endpoint's text and validates every field against
// the declared schema before constructing the domain result. The completion
// output crosses a trust boundary; nothing is merged unvalidated.
func parseResult(raw string) (project.AnalysisResult, error) {
	var payload completionPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return project.AnalysisResult{}, fmt.Errorf("decode completion response: %w", err)
	}

	if payload.SuitabilityScore == nil {
		return project.AnalysisResult{}, errors.New("completion response missing suitabilityScore")
	}
	score := *payload.SuitabilityScore
	if score < 0 || score > 100 {
		return project.AnalysisResult{}, fmt.Errorf("suitabilityScore %d outside [0,100]", score)
	}

	if payload.Category == nil {
		return project.AnalysisResult{}, errors.New("completion response missing category")
	}
	category := project.Category(*payload.Category)
	if !category.Valid() {
		return project.AnalysisResult{}, fmt.Errorf("unknown category %q", *payload.Category)
	}

	recommendations := payload.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return project.AnalysisResult{
		SuitabilityScore: score,
		Category:         category,
		EducationalPlan:  payload.EducationalPlan,
		Recommendations:  recommendations,
	}, nil
}

// degraded builds the well-typed failure result so the merge path never has
// to special-case a failed classification.
func degraded(message string) project.AnalysisResult {
	if message == "" {
		message = "Analysis failed"
	}
	return project.AnalysisResult{
		SuitabilityScore: 0,
		Category:         project.CategoryUnsuitable,
		EducationalPlan:  message,
		Recommendations:  []string{},
		Failed:           true,
	}
}
