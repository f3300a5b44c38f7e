// Package project defines core types shared across subsystems.
package project

import "time"

// Category is the audience verdict assigned by a classification.
type Category string

// Category values produced by the classifier.
const (
	CategorySchool     Category = "school"
	CategoryAdult      Category = "adult"
	CategoryBoth       Category = "both"
	CategoryUnsuitable Category = "unsuitable"
)

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySchool, CategoryAdult, CategoryBoth, CategoryUnsuitable:
		return true
	}
	return false
}

// Status represents the processing state of a project record. It is kept
// separate from Category so an evaluated-as-unsuitable verdict is
// distinguishable from a record that was never analyzed.
type Status string

// Status values tracked in the working set.
const (
	StatusUnanalyzed Status = "unanalyzed"
	StatusAnalyzing  Status = "analyzing"
	StatusAnalyzed   Status = "analyzed"
	StatusFailed     Status = "failed"
)

// Project is one discovered external initiative. Name, Description and URL
// are whatever the listing markup yielded and may be empty. The analysis
// fields stay unset until a Resolver or Classifier run merges them in.
type Project struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	URL              string     `json:"url"`
	OfficialWebsite  string     `json:"official_website,omitempty"`
	SuitabilityScore *int       `json:"suitability_score,omitempty"`
	EducationalPlan  string     `json:"educational_plan,omitempty"`
	Recommendations  []string   `json:"recommendations,omitempty"`
	Category         Category   `json:"category"`
	Status           Status     `json:"status"`
	DiscoveredAt     time.Time  `json:"discovered_at"`
	AnalyzedAt       *time.Time `json:"analyzed_at,omitempty"`
}

// AnalysisResult is the transient outcome of one classification call. It is
// merged into a Project and never stored on its own. Failed marks the
// degraded path: the call did not produce a real verdict and EducationalPlan
// holds the failure description.
type AnalysisResult struct {
	SuitabilityScore int      `json:"suitability_score"`
	Category         Category `json:"category"`
	EducationalPlan  string   `json:"educational_plan"`
	Recommendations  []string `json:"recommendations"`
	Failed           bool     `json:"-"`
}
