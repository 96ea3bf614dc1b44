package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
	"github.com/DaoSolary/Desaparecidos/pkg/repository/memory"
	"github.com/DaoSolary/Desaparecidos/pkg/usecase"
)

func TestListPairs(t *testing.T) {
	t.Run("orders by similarity and attaches cases", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		a := seedApprovedCase(t, repo, "Maria Silva", intPtr(30), datePtr(2024, 1, 1), "Luanda")
		b := seedApprovedCase(t, repo, "Maria Silva", intPtr(31), datePtr(2024, 1, 10), "Luanda")
		c := seedApprovedCase(t, repo, "Rosa Neto", intPtr(19), datePtr(2024, 3, 2), "Benguela")

		_, err := repo.DuplicatePair().Create(ctx, &model.DuplicatePair{
			FirstCaseID: a.ID, SecondCaseID: c.ID, SimilarityScore: 0.72,
		})
		gt.NoError(t, err).Required()
		_, err = repo.DuplicatePair().Create(ctx, &model.DuplicatePair{
			FirstCaseID: b.ID, SecondCaseID: a.ID, SimilarityScore: 0.95,
		})
		gt.NoError(t, err).Required()

		details, err := uc.Duplicates.ListPairs(ctx, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, details).Length(2).Required()

		gt.Number(t, details[0].Pair.SimilarityScore).Equal(0.95)
		gt.Number(t, details[1].Pair.SimilarityScore).Equal(0.72)

		gt.Value(t, details[0].FirstCase).NotNil()
		gt.Value(t, details[0].SecondCase).NotNil()
		gt.Value(t, details[0].FirstCase.ID).Equal(b.ID)
		gt.Value(t, details[0].SecondCase.ID).Equal(a.ID)
		gt.Value(t, details[1].SecondCase.FullName).Equal("Rosa Neto")
	})

	t.Run("filters by status", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		a := seedApprovedCase(t, repo, "Maria Silva", intPtr(30), datePtr(2024, 1, 1), "Luanda")
		b := seedApprovedCase(t, repo, "Maria Silva", intPtr(31), datePtr(2024, 1, 10), "Luanda")
		c := seedApprovedCase(t, repo, "Rosa Neto", intPtr(19), datePtr(2024, 3, 2), "Benguela")

		kept, err := repo.DuplicatePair().Create(ctx, &model.DuplicatePair{
			FirstCaseID: a.ID, SecondCaseID: b.ID, SimilarityScore: 0.9,
		})
		gt.NoError(t, err).Required()
		_, err = repo.DuplicatePair().Create(ctx, &model.DuplicatePair{
			FirstCaseID: a.ID, SecondCaseID: c.ID, SimilarityScore: 0.75,
		})
		gt.NoError(t, err).Required()

		_, err = uc.Duplicates.ResolvePair(ctx, usecase.ResolveInput{
			PairID:     kept.ID,
			Status:     types.PairStatusConfirmed,
			ResolvedBy: "mod-1",
		})
		gt.NoError(t, err).Required()

		pending := types.PairStatusPending
		pendingDetails, err := uc.Duplicates.ListPairs(ctx, &pending)
		gt.NoError(t, err).Required()
		gt.Array(t, pendingDetails).Length(1).Required()
		gt.Number(t, pendingDetails[0].Pair.SimilarityScore).Equal(0.75)

		confirmed := types.PairStatusConfirmed
		confirmedDetails, err := uc.Duplicates.ListPairs(ctx, &confirmed)
		gt.NoError(t, err).Required()
		gt.Array(t, confirmedDetails).Length(1).Required()
		gt.Value(t, confirmedDetails[0].Pair.ID).Equal(kept.ID)

		all, err := uc.Duplicates.ListPairs(ctx, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)
	})

	t.Run("deleted case leaves a nil pointer", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		pair := seedPair(t, repo, 0.9)
		_, err := uc.Duplicates.ResolvePair(ctx, usecase.ResolveInput{
			PairID:           pair.ID,
			Status:           types.PairStatusConfirmed,
			ResolvedBy:       "mod-1",
			DeleteSecondCase: true,
		})
		gt.NoError(t, err).Required()

		details, err := uc.Duplicates.ListPairs(ctx, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, details).Length(1).Required()
		gt.Value(t, details[0].FirstCase).NotNil()
		gt.Value(t, details[0].SecondCase).Nil()
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)

		details, err := uc.Duplicates.ListPairs(context.Background(), nil)
		gt.NoError(t, err).Required()
		gt.Array(t, details).Length(0)
	})
}

func TestGetPair(t *testing.T) {
	t.Run("returns the pair with its cases", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		pair := seedPair(t, repo, 0.9)

		detail, err := uc.Duplicates.GetPair(ctx, pair.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, detail.Pair.ID).Equal(pair.ID)
		gt.Value(t, detail.FirstCase).NotNil()
		gt.Value(t, detail.SecondCase).NotNil()
		gt.Value(t, detail.FirstCase.ID).Equal(pair.FirstCaseID)
		gt.Value(t, detail.SecondCase.ID).Equal(pair.SecondCaseID)
	})

	t.Run("unknown pair returns not found", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)

		_, err := uc.Duplicates.GetPair(context.Background(), model.NewPairID())
		gt.Error(t, err).Is(usecase.ErrPairNotFound)
	})
}

func TestPairAuditTrail(t *testing.T) {
	t.Run("returns resolution entries", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		pair := seedPair(t, repo, 0.9)
		_, err := uc.Duplicates.ResolvePair(ctx, usecase.ResolveInput{
			PairID:     pair.ID,
			Status:     types.PairStatusRejected,
			ResolvedBy: "mod-1",
			Notes:      "different people",
		})
		gt.NoError(t, err).Required()

		trail, err := uc.Duplicates.PairAuditTrail(ctx, pair.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, trail).Length(1).Required()
		gt.Value(t, trail[0].Action).Equal(model.AuditActionPairResolved)
		gt.Value(t, trail[0].Metadata["notes"]).Equal("different people")
	})

	t.Run("unknown pair returns not found", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)

		_, err := uc.Duplicates.PairAuditTrail(context.Background(), model.NewPairID())
		gt.Error(t, err).Is(usecase.ErrPairNotFound)
	})
}

func TestStats(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	a := seedApprovedCase(t, repo, "Maria Silva", intPtr(30), datePtr(2024, 1, 1), "Luanda")
	b := seedApprovedCase(t, repo, "Maria Silva", intPtr(31), datePtr(2024, 1, 10), "Luanda")
	c := seedApprovedCase(t, repo, "Rosa Neto", intPtr(19), datePtr(2024, 3, 2), "Benguela")

	confirmed, err := repo.DuplicatePair().Create(ctx, &model.DuplicatePair{
		FirstCaseID: a.ID, SecondCaseID: b.ID, SimilarityScore: 0.9,
	})
	gt.NoError(t, err).Required()
	_, err = repo.DuplicatePair().Create(ctx, &model.DuplicatePair{
		FirstCaseID: a.ID, SecondCaseID: c.ID, SimilarityScore: 0.75,
	})
	gt.NoError(t, err).Required()

	_, err = uc.Duplicates.ResolvePair(ctx, usecase.ResolveInput{
		PairID:     confirmed.ID,
		Status:     types.PairStatusConfirmed,
		ResolvedBy: "mod-1",
	})
	gt.NoError(t, err).Required()

	counts, err := uc.Duplicates.Stats(ctx)
	gt.NoError(t, err).Required()

	gt.Number(t, counts[types.PairStatusPending]).Equal(int64(1))
	gt.Number(t, counts[types.PairStatusConfirmed]).Equal(int64(1))
	gt.Number(t, counts[types.PairStatusRejected]).Equal(int64(0))
	gt.Number(t, counts[types.PairStatusResolved]).Equal(int64(0))
}
