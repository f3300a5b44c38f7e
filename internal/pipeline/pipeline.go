// Package pipeline sequences discovery, enrichment and classification for
// project records.
package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eduscout/eduscout/internal/metrics"
	"github.com/eduscout/eduscout/internal/project"
)

// Pipeline orchestrates the listing fetcher, website resolver and
// suitability classifier. It holds no record state: the owner of the working
// set replaces entries by id with what these calls return.
type Pipeline struct {
	lister     project.Lister
	resolver   project.Resolver
	classifier project.Classifier
	clock      project.Clock
	logger     *zap.Logger
}

// New constructs a Pipeline.
func New(
	lister project.Lister,
	resolver project.Resolver,
	classifier project.Classifier,
	clock project.Clock,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		lister:     lister,
		resolver:   resolver,
		classifier: classifier,
		clock:      clock,
		logger:     logger,
	}
}

// LoadAll runs one listing fetch. The returned slice is the caller's new
// authoritative working set; an empty listing is an empty slice, not an error.
func (p *Pipeline) LoadAll(ctx context.Context) []project.Project {
	return p.lister.FetchListing(ctx)
}

// AnalyzeOne resolves the official website and classifies suitability for a
// single project, merging both outputs into a copy of the input. The two
// sub-calls are independent and run concurrently; the merge waits for both.
// The returned record keeps the input's id. Callers must not run two
// AnalyzeOne calls for the same id concurrently.
//
// The only error returned is the classifier's missing-credential error; a
// failed classification comes back as a record with Status failed and the
// failure text in EducationalPlan.
func (p *Pipeline) AnalyzeOne(ctx context.Context, in project.Project) (project.Project, error) {
	start := time.Now()

	var (
		website     string
		result      project.AnalysisResult
		classifyErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		website = p.resolver.ResolveWebsite(ctx, in.Name)
	}()
	go func() {
		defer wg.Done()
		result, classifyErr = p.classifier.Classify(ctx, in.Name, in.Description)
	}()
	wg.Wait()

	if classifyErr != nil {
		return project.Project{}, classifyErr
	}

	out := in
	if website != "" {
		out.OfficialWebsite = website
	}

	score := result.SuitabilityScore
	out.SuitabilityScore = &score
	out.Category = result.Category
	out.EducationalPlan = result.EducationalPlan
	out.Recommendations = result.Recommendations
	if result.Failed {
		out.Status = project.StatusFailed
	} else {
		out.Status = project.StatusAnalyzed
	}
	analyzedAt := p.clock.Now()
	out.AnalyzedAt = &analyzedAt

	p.logger.Info("project analyzed",
		zap.String("project_id", out.ID),
		zap.String("name", out.Name),
		zap.String("status", string(out.Status)),
		zap.Int("score", score),
	)
	metrics.ObserveAnalysisDuration(time.Since(start))

	return out, nil
}
