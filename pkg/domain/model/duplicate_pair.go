package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
)

// PairID is a UUID-based identifier for DuplicatePair
type PairID string

// NewPairID generates a new UUID v4 PairID
func NewPairID() PairID {
	return PairID(uuid.New().String())
}

// String returns the string representation of the pair ID
func (id PairID) String() string {
	return string(id)
}

// DuplicatePair records that two case records were flagged as likely
// duplicates of each other. FirstCaseID/SecondCaseID keep the order in
// which the detection pass encountered the records; at most one pair
// exists per ordered combination. SimilarityScore is fixed at detection
// time, and the resolution fields are written exactly once when a
// moderator closes the pair.
type DuplicatePair struct {
	ID              PairID
	FirstCaseID     int64
	SecondCaseID    int64
	SimilarityScore float64 // within [0, 1]
	Status          types.PairStatus
	DetectedBy      string // actor who triggered the detection pass, may be empty
	DetectedAt      time.Time
	ResolvedBy      string
	ResolvedAt      *time.Time
	ResolutionNotes string
}

// PairResolution carries the fields a resolution writes onto a pending pair.
type PairResolution struct {
	Status types.PairStatus
	By     string
	Notes  string
}
