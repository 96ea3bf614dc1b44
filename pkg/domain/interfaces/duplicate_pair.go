package interfaces

import (
	"context"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
)

// DuplicatePairRepository defines the interface for DuplicatePair data
// access. The ordered combination (FirstCaseID, SecondCaseID) is unique;
// a reversed combination is a distinct pair.
type DuplicatePairRepository interface {
	// Create persists a new pair and stamps DetectedAt. Returns
	// model.ErrPairAlreadyExists when the ordered combination is
	// already registered, including when two writers race.
	Create(ctx context.Context, pair *model.DuplicatePair) (*model.DuplicatePair, error)

	// Get retrieves a pair by ID
	Get(ctx context.Context, id model.PairID) (*model.DuplicatePair, error)

	// Exists checks whether the ordered combination is registered
	Exists(ctx context.Context, firstCaseID, secondCaseID int64) (bool, error)

	// List retrieves pairs ordered by similarity score, highest first,
	// optionally filtered by status.
	List(ctx context.Context, opts ...ListPairOption) ([]*model.DuplicatePair, error)

	// UpdateResolution moves a pending pair to a terminal status and
	// stamps the resolution fields. The check and the write happen in
	// one critical section, so of two concurrent resolutions exactly
	// one succeeds. Returns model.ErrPairNotPending when the pair has
	// already left PENDING.
	UpdateResolution(ctx context.Context, id model.PairID, res model.PairResolution) (*model.DuplicatePair, error)

	// CountByStatus returns the number of pairs per status
	CountByStatus(ctx context.Context) (map[types.PairStatus]int64, error)
}
