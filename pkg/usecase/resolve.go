package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
	"github.com/DaoSolary/Desaparecidos/pkg/service/slack"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/async"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/errutil"
)

// ResolveInput carries one moderator decision on a pending pair
type ResolveInput struct {
	PairID     model.PairID
	Status     types.PairStatus
	ResolvedBy string
	Notes      string

	// DeleteSecondCase removes the second case record after a
	// confirmed resolution. Ignored for any other status.
	DeleteSecondCase bool
}

// ResolvePair moves a pending pair to the given terminal status. When a
// confirmation asks for it, the second case of the pair is deleted
// afterwards; a failed deletion is logged and audited but the resolution
// itself stands.
func (uc *DuplicateUseCase) ResolvePair(ctx context.Context, input ResolveInput) (*model.DuplicatePair, error) {
	if input.PairID == "" {
		return nil, goerr.Wrap(ErrInvalidResolution, "pair ID is required")
	}
	if !input.Status.IsTerminal() {
		return nil, goerr.Wrap(ErrInvalidResolution, "resolution status must be terminal",
			goerr.V("status", input.Status.String()))
	}
	if input.ResolvedBy == "" {
		return nil, goerr.Wrap(ErrInvalidResolution, "resolver is required",
			goerr.V(model.PairIDKey, input.PairID))
	}

	if _, err := uc.repo.DuplicatePair().Get(ctx, input.PairID); err != nil {
		return nil, goerr.Wrap(ErrPairNotFound, "no such pair", goerr.V(model.PairIDKey, input.PairID))
	}

	updated, err := uc.repo.DuplicatePair().UpdateResolution(ctx, input.PairID, model.PairResolution{
		Status: input.Status,
		By:     input.ResolvedBy,
		Notes:  input.Notes,
	})
	if err != nil {
		if errors.Is(err, model.ErrPairNotPending) {
			return nil, err
		}
		return nil, goerr.Wrap(ErrStoreUnavailable, "failed to update pair resolution",
			goerr.V(model.PairIDKey, input.PairID), goerr.V("cause", err.Error()))
	}

	caseDeleted := false
	if updated.Status == types.PairStatusConfirmed && input.DeleteSecondCase {
		caseDeleted = uc.deleteSecondCase(ctx, updated)
	}

	uc.recordResolution(ctx, updated, caseDeleted)
	uc.notifyResolution(ctx, updated, caseDeleted)

	return updated, nil
}

// deleteSecondCase removes the second case of a confirmed pair and
// reports whether the deletion went through. The pair is already
// resolved at this point, so a failure here is surfaced through the
// logs instead of unwinding the resolution.
func (uc *DuplicateUseCase) deleteSecondCase(ctx context.Context, pair *model.DuplicatePair) bool {
	if err := uc.repo.Case().Delete(ctx, pair.SecondCaseID); err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to delete confirmed duplicate case",
			goerr.V(model.PairIDKey, pair.ID),
			goerr.V(model.SecondCaseIDKey, pair.SecondCaseID),
		), "case deletion after confirmation failed")
		return false
	}

	entry := model.NewAuditEntry(pair.ResolvedBy, model.AuditActionCaseDeleted, model.AuditEntityCase,
		model.CaseEntityID(pair.SecondCaseID), map[string]any{
			"pair_id":       pair.ID.String(),
			"first_case_id": pair.FirstCaseID,
		})
	if err := uc.repo.AuditLog().Record(ctx, entry); err != nil {
		errutil.Handle(ctx, err, "failed to record case deletion audit entry")
	}

	return true
}

func (uc *DuplicateUseCase) recordResolution(ctx context.Context, pair *model.DuplicatePair, caseDeleted bool) {
	entry := model.NewAuditEntry(pair.ResolvedBy, model.AuditActionPairResolved, model.AuditEntityPair,
		pair.ID.String(), map[string]any{
			"status":         pair.Status.String(),
			"notes":          pair.ResolutionNotes,
			"first_case_id":  pair.FirstCaseID,
			"second_case_id": pair.SecondCaseID,
			"case_deleted":   caseDeleted,
		})
	if err := uc.repo.AuditLog().Record(ctx, entry); err != nil {
		errutil.Handle(ctx, err, "failed to record pair resolution audit entry")
	}
}

func (uc *DuplicateUseCase) notifyResolution(ctx context.Context, pair *model.DuplicatePair, caseDeleted bool) {
	if uc.notifier == nil {
		return
	}

	notice := &slack.ResolutionNotice{
		PairID:       pair.ID.String(),
		FirstCaseID:  pair.FirstCaseID,
		SecondCaseID: pair.SecondCaseID,
		Status:       pair.Status.String(),
		ResolvedBy:   pair.ResolvedBy,
		CaseDeleted:  caseDeleted,
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.notifier.PostResolution(ctx, notice)
	})
}
