package project

import (
	"context"
	"time"
)

// Lister discovers the raw project records from the external listing source.
// Transport and parse failures are absorbed: implementations log the cause
// and return an empty slice.
type Lister interface {
	FetchListing(ctx context.Context) []Project
}

// Resolver looks up a best-guess official website for a project name.
// Best-effort: any failure yields an empty string, never an error.
type Resolver interface {
	ResolveWebsite(ctx context.Context, name string) string
}

// Classifier produces an AnalysisResult for a project. The only error it
// returns is the missing-credential configuration error; every other failure
// is folded into a degraded result.
type Classifier interface {
	Classify(ctx context.Context, name, description string) (AnalysisResult, error)
}

// IDGenerator produces record IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
