package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/interfaces"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
)

// PairDetail is a pair together with its case records. A case pointer is
// nil when the record no longer exists, which is the normal state of the
// second case after a confirmed resolution deleted it.
type PairDetail struct {
	Pair       *model.DuplicatePair
	FirstCase  *model.Case
	SecondCase *model.Case
}

// ListPairs retrieves detected pairs ordered by similarity score,
// highest first. A non-nil status restricts the result to that status.
func (uc *DuplicateUseCase) ListPairs(ctx context.Context, status *types.PairStatus) ([]*PairDetail, error) {
	var opts []interfaces.ListPairOption
	if status != nil {
		opts = append(opts, interfaces.WithPairStatus(*status))
	}

	pairs, err := uc.repo.DuplicatePair().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(ErrStoreUnavailable, "failed to list pairs", goerr.V("cause", err.Error()))
	}

	return uc.attachCases(ctx, pairs)
}

// GetPair retrieves one pair with its case records
func (uc *DuplicateUseCase) GetPair(ctx context.Context, id model.PairID) (*PairDetail, error) {
	pair, err := uc.repo.DuplicatePair().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrPairNotFound, "no such pair", goerr.V(model.PairIDKey, id))
	}

	details, err := uc.attachCases(ctx, []*model.DuplicatePair{pair})
	if err != nil {
		return nil, err
	}

	return details[0], nil
}

// PairAuditTrail retrieves the audit entries recorded for one pair,
// newest first
func (uc *DuplicateUseCase) PairAuditTrail(ctx context.Context, id model.PairID) ([]*model.AuditEntry, error) {
	if _, err := uc.repo.DuplicatePair().Get(ctx, id); err != nil {
		return nil, goerr.Wrap(ErrPairNotFound, "no such pair", goerr.V(model.PairIDKey, id))
	}

	entries, err := uc.repo.AuditLog().ListByEntity(ctx, model.AuditEntityPair, id.String())
	if err != nil {
		return nil, goerr.Wrap(ErrStoreUnavailable, "failed to list audit entries",
			goerr.V(model.PairIDKey, id), goerr.V("cause", err.Error()))
	}

	return entries, nil
}

// Stats returns the number of pairs per status
func (uc *DuplicateUseCase) Stats(ctx context.Context) (map[types.PairStatus]int64, error) {
	counts, err := uc.repo.DuplicatePair().CountByStatus(ctx)
	if err != nil {
		return nil, goerr.Wrap(ErrStoreUnavailable, "failed to count pairs", goerr.V("cause", err.Error()))
	}

	return counts, nil
}

// attachCases loads the case records referenced by the pairs in one
// batch read. Missing records leave nil case pointers.
func (uc *DuplicateUseCase) attachCases(ctx context.Context, pairs []*model.DuplicatePair) ([]*PairDetail, error) {
	seen := map[int64]bool{}
	var ids []int64
	for _, pair := range pairs {
		for _, id := range []int64{pair.FirstCaseID, pair.SecondCaseID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	cases, err := uc.repo.Case().GetMulti(ctx, ids)
	if err != nil {
		return nil, goerr.Wrap(ErrStoreUnavailable, "failed to load cases for pairs", goerr.V("cause", err.Error()))
	}

	details := make([]*PairDetail, 0, len(pairs))
	for _, pair := range pairs {
		details = append(details, &PairDetail{
			Pair:       pair,
			FirstCase:  cases[pair.FirstCaseID],
			SecondCase: cases[pair.SecondCaseID],
		})
	}

	return details, nil
}
