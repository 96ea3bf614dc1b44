package slack

import "context"

// Service posts moderation notifications to the configured Slack channel
type Service interface {
	// PostDetectionSummary notifies the moderation channel that a
	// detection run finished, with counts of what it found
	PostDetectionSummary(ctx context.Context, summary *DetectionSummary) error

	// PostResolution notifies the moderation channel that a duplicate
	// pair was resolved
	PostResolution(ctx context.Context, notice *ResolutionNotice) error
}

// DetectionSummary describes the outcome of one detection run
type DetectionSummary struct {
	DetectedBy   string
	Threshold    float64
	CasesScanned int
	Comparisons  int
	PairsCreated int
	SkippedKnown int
	Failed       int
}

// ResolutionNotice describes a single pair resolution
type ResolutionNotice struct {
	PairID       string
	FirstCaseID  int64
	SecondCaseID int64
	Status       string
	ResolvedBy   string
	CaseDeleted  bool
}
