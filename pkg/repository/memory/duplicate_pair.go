package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/interfaces"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
)

type pairKey struct {
	first  int64
	second int64
}

// String matches the Firestore document ID for the same combination, so
// both backends share one tiebreak order in List.
func (k pairKey) String() string {
	return fmt.Sprintf("%d_%d", k.first, k.second)
}

type duplicatePairRepository struct {
	mu    sync.RWMutex
	pairs map[model.PairID]*model.DuplicatePair
	keys  map[pairKey]model.PairID
}

func newDuplicatePairRepository() *duplicatePairRepository {
	return &duplicatePairRepository{
		pairs: make(map[model.PairID]*model.DuplicatePair),
		keys:  make(map[pairKey]model.PairID),
	}
}

// copyPair creates a deep copy of a pair
func copyPair(p *model.DuplicatePair) *model.DuplicatePair {
	copied := *p
	if p.ResolvedAt != nil {
		resolvedAt := *p.ResolvedAt
		copied.ResolvedAt = &resolvedAt
	}
	return &copied
}

func (r *duplicatePairRepository) Create(ctx context.Context, pair *model.DuplicatePair) (*model.DuplicatePair, error) {
	if pair.FirstCaseID == pair.SecondCaseID {
		return nil, goerr.New("pair must reference two distinct cases", goerr.V(model.FirstCaseIDKey, pair.FirstCaseID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{first: pair.FirstCaseID, second: pair.SecondCaseID}
	if _, exists := r.keys[key]; exists {
		return nil, goerr.Wrap(model.ErrPairAlreadyExists, "pair already registered",
			goerr.V(model.FirstCaseIDKey, pair.FirstCaseID),
			goerr.V(model.SecondCaseIDKey, pair.SecondCaseID))
	}

	created := copyPair(pair)
	if created.ID == "" {
		created.ID = model.NewPairID()
	}
	if created.Status == "" {
		created.Status = types.PairStatusPending
	}
	created.DetectedAt = time.Now().UTC()

	r.pairs[created.ID] = created
	r.keys[key] = created.ID
	return copyPair(created), nil
}

func (r *duplicatePairRepository) Get(ctx context.Context, id model.PairID) (*model.DuplicatePair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.pairs[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "pair not found", goerr.V(model.PairIDKey, id))
	}

	return copyPair(p), nil
}

func (r *duplicatePairRepository) Exists(ctx context.Context, firstCaseID, secondCaseID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.keys[pairKey{first: firstCaseID, second: secondCaseID}]
	return exists, nil
}

func (r *duplicatePairRepository) List(ctx context.Context, opts ...interfaces.ListPairOption) ([]*model.DuplicatePair, error) {
	cfg := interfaces.BuildListPairConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	pairs := make([]*model.DuplicatePair, 0, len(r.pairs))
	for _, p := range r.pairs {
		if cfg.Status() != nil && p.Status != *cfg.Status() {
			continue
		}
		pairs = append(pairs, copyPair(p))
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].SimilarityScore != pairs[j].SimilarityScore {
			return pairs[i].SimilarityScore > pairs[j].SimilarityScore
		}
		ki := pairKey{first: pairs[i].FirstCaseID, second: pairs[i].SecondCaseID}
		kj := pairKey{first: pairs[j].FirstCaseID, second: pairs[j].SecondCaseID}
		return ki.String() < kj.String()
	})

	return pairs, nil
}

func (r *duplicatePairRepository) UpdateResolution(ctx context.Context, id model.PairID, res model.PairResolution) (*model.DuplicatePair, error) {
	if !res.Status.IsTerminal() {
		return nil, goerr.New("resolution status must be terminal", goerr.V("status", res.Status))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.pairs[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "pair not found", goerr.V(model.PairIDKey, id))
	}

	if !p.Status.CanTransitionTo(res.Status) {
		return nil, goerr.Wrap(model.ErrPairNotPending, "pair already resolved",
			goerr.V(model.PairIDKey, id),
			goerr.V("status", p.Status))
	}

	now := time.Now().UTC()
	p.Status = res.Status
	p.ResolvedBy = res.By
	p.ResolvedAt = &now
	p.ResolutionNotes = res.Notes

	return copyPair(p), nil
}

func (r *duplicatePairRepository) CountByStatus(ctx context.Context) (map[types.PairStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[types.PairStatus]int64, len(types.AllPairStatuses()))
	for _, status := range types.AllPairStatuses() {
		counts[status] = 0
	}
	for _, p := range r.pairs {
		counts[p.Status]++
	}

	return counts, nil
}
