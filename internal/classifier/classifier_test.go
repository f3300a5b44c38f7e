package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduscout/eduscout/internal/metrics"
	"github.com/eduscout/eduscout/internal/project"
)

type stubCompletion struct {
	response string
	err      error

	gotModel  string
	gotPrompt string
}

func (s *stubCompletion) Complete(_ context.Context, model, prompt string) (string, error) {
	s.gotModel = model
	s.gotPrompt = prompt
	return s.response, s.err
}

func TestClassifyNoCredential(t *testing.T) {
	metrics.Init()

	c := New(nil, "gemini-2.0-flash", zap.NewNop())
	_, err := c.Classify(context.Background(), "CleanSeas", "Ocean plastics education")

	require.ErrorIs(t, err, ErrNoCredential)
}

func TestClassifyWellFormedResponse(t *testing.T) {
	metrics.Init()

	stub := &stubCompletion{
		response: `{"suitabilityScore":82,"category":"school","educationalPlan":"Run a beach cleanup unit.","recommendations":["Use in grade 9 science"]}`,
	}
	c := New(stub, "gemini-2.0-flash", zap.NewNop())

	result, err := c.Classify(context.Background(), "CleanSeas", "Ocean plastics education")
	require.NoError(t, err)

	assert.Equal(t, 82, result.SuitabilityScore)
	assert.Equal(t, project.CategorySchool, result.Category)
	assert.Equal(t, "Run a beach cleanup unit.", result.EducationalPlan)
	assert.Equal(t, []string{"Use in grade 9 science"}, result.Recommendations)
	assert.False(t, result.Failed)

	assert.Equal(t, "gemini-2.0-flash", stub.gotModel)
	assert.Contains(t, stub.gotPrompt, "CleanSeas")
	assert.Contains(t, stub.gotPrompt, "Ocean plastics education")
	assert.Contains(t, stub.gotPrompt, `"suitabilityScore"`)
}

func TestClassifyDegradedPaths(t *testing.T) {
	metrics.Init()

	cases := []struct {
		name     string
		response string
		err      error
	}{
		{"network error", "", errors.New("connection reset")},
		{"malformed json", `{"suitabilityScore":`, nil},
		{"plain text response", "I cannot evaluate this project.", nil},
		{"missing score", `{"category":"school","educationalPlan":"x","recommendations":[]}`, nil},
		{"score out of range", `{"suitabilityScore":140,"category":"school","educationalPlan":"x","recommendations":[]}`, nil},
		{"negative score", `{"suitabilityScore":-3,"category":"school","educationalPlan":"x","recommendations":[]}`, nil},
		{"missing category", `{"suitabilityScore":50,"educationalPlan":"x","recommendations":[]}`, nil},
		{"unknown category", `{"suitabilityScore":50,"category":"toddler","educationalPlan":"x","recommendations":[]}`, nil},
		{"wrong recommendations type", `{"suitabilityScore":50,"category":"both","educationalPlan":"x","recommendations":[1,2]}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(&stubCompletion{response: tc.response, err: tc.err}, "gemini-2.0-flash", zap.NewNop())

			result, err := c.Classify(context.Background(), "CleanSeas", "desc")
			require.NoError(t, err, "degraded path must not return an error")

			assert.True(t, result.Failed)
			assert.Equal(t, 0, result.SuitabilityScore)
			assert.Equal(t, project.CategoryUnsuitable, result.Category)
			assert.NotEmpty(t, result.EducationalPlan)
			assert.Empty(t, result.Recommendations)
			assert.NotNil(t, result.Recommendations)
		})
	}
}

func TestClassifyCoercesOptionalFields(t *testing.T) {
	metrics.Init()

	// Plan and recommendations may be omitted; score and category may not.
	stub := &stubCompletion{response: `{"suitabilityScore":10,"category":"unsuitable"}`}
	c := New(stub, "gemini-2.0-flash", zap.NewNop())

	result, err := c.Classify(context.Background(), "Vague Project", "")
	require.NoError(t, err)

	assert.False(t, result.Failed)
	assert.Equal(t, 10, result.SuitabilityScore)
	assert.Equal(t, project.CategoryUnsuitable, result.Category)
	assert.Empty(t, result.EducationalPlan)
	assert.NotNil(t, result.Recommendations)
	assert.Empty(t, result.Recommendations)
}

func TestClassifyAcceptsFencedWhitespace(t *testing.T) {
	metrics.Init()

	stub := &stubCompletion{
		response: "\n  {\"suitabilityScore\":55,\"category\":\"adult\",\"educationalPlan\":\"p\",\"recommendations\":[]}\n",
	}
	c := New(stub, "gemini-2.0-flash", zap.NewNop())

	result, err := c.Classify(context.Background(), "NightOwl", "adult learning circles")
	require.NoError(t, err)
	assert.Equal(t, 55, result.SuitabilityScore)
	assert.Equal(t, project.CategoryAdult, result.Category)
}

func TestPromptTemplateNamesAllFields(t *testing.T) {
	for _, field := range []string{"suitabilityScore", "category", "educationalPlan", "recommendations"} {
		if !strings.Contains(promptTemplate, field) {
			t.Fatalf("prompt template does not name field %q", field)
		}
	}
}
