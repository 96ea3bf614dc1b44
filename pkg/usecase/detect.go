package usecase

import (
	"context"
	"errors"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model/config"
	"github.com/DaoSolary/Desaparecidos/pkg/service/similarity"
	"github.com/DaoSolary/Desaparecidos/pkg/service/slack"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/async"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/errutil"
)

// maxScoreWorkers bounds the number of goroutines scoring case rows
const maxScoreWorkers = 8

// DetectionResult summarizes one detection run
type DetectionResult struct {
	Pairs        []*model.DuplicatePair
	CasesScanned int
	Comparisons  int
	SkippedKnown int
	Failed       int
	Threshold    float64
}

// candidate is a scored case combination above the threshold
type candidate struct {
	first  *model.Case
	second *model.Case
	score  float64
}

// RunDetection compares every eligible case against every other eligible
// case and registers a pending pair for each combination whose similarity
// meets the threshold. A nil threshold uses the configured default.
//
// Combinations already registered are skipped, and a failure to persist
// one candidate is logged and does not abort the rest of the run, so a
// second run over the same records is safe.
func (uc *DuplicateUseCase) RunDetection(ctx context.Context, threshold *float64, detectedBy string) (*DetectionResult, error) {
	effective, err := uc.resolveThreshold(threshold)
	if err != nil {
		return nil, err
	}

	scorer, err := similarity.NewScorer(uc.scoringConfig)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid scoring configuration")
	}

	cases, err := uc.repo.Case().ListEligible(ctx)
	if err != nil {
		return nil, goerr.Wrap(ErrStoreUnavailable, "failed to list eligible cases", goerr.V("cause", err.Error()))
	}

	result := &DetectionResult{
		CasesScanned: len(cases),
		Comparisons:  len(cases) * (len(cases) - 1) / 2,
		Threshold:    effective,
	}

	// Score rows in parallel. Row i compares cases[i] against every later
	// case, so each combination is scored exactly once and the first case
	// of a pair is always the one detection reached first.
	rows := make([][]candidate, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxScoreWorkers)
	for i := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < len(cases); j++ {
				score := scorer.Compare(cases[i], cases[j])
				if !score.Comparable() {
					continue
				}
				if score.Value >= effective {
					rows[i] = append(rows[i], candidate{
						first:  cases[i],
						second: cases[j],
						score:  score.Value,
					})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, goerr.Wrap(err, "detection scoring aborted")
	}

	// Flush rows in scan order so pair creation order is deterministic
	for _, row := range rows {
		for _, cand := range row {
			created, ok := uc.registerCandidate(ctx, cand, detectedBy, result)
			if !ok {
				continue
			}
			result.Pairs = append(result.Pairs, created)
		}
	}

	uc.recordDetectionRun(ctx, detectedBy, result)
	uc.notifyDetectionRun(ctx, detectedBy, result)

	return result, nil
}

func (uc *DuplicateUseCase) resolveThreshold(override *float64) (float64, error) {
	threshold := config.DefaultScoringConfig().Threshold
	if uc.scoringConfig != nil {
		threshold = uc.scoringConfig.Threshold
	}
	if override != nil {
		threshold = *override
	}

	// A threshold above 1.0 is unsatisfiable but still a valid run; only
	// values that break the comparison itself are rejected.
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 {
		return 0, goerr.Wrap(ErrInvalidThreshold, "threshold must be a finite non-negative number",
			goerr.V(ThresholdKey, threshold))
	}

	return threshold, nil
}

// registerCandidate persists one scored combination as a pending pair.
// It reports false when the combination is already registered or could
// not be stored.
func (uc *DuplicateUseCase) registerCandidate(ctx context.Context, cand candidate, detectedBy string, result *DetectionResult) (*model.DuplicatePair, bool) {
	exists, err := uc.repo.DuplicatePair().Exists(ctx, cand.first.ID, cand.second.ID)
	if err != nil {
		errutil.Handle(ctx, err, "failed to check for existing pair")
		result.Failed++
		return nil, false
	}
	if exists {
		result.SkippedKnown++
		return nil, false
	}

	created, err := uc.repo.DuplicatePair().Create(ctx, &model.DuplicatePair{
		FirstCaseID:     cand.first.ID,
		SecondCaseID:    cand.second.ID,
		SimilarityScore: cand.score,
		DetectedBy:      detectedBy,
	})
	if err != nil {
		// A concurrent run may have registered the combination between
		// the existence check and the write
		if errors.Is(err, model.ErrPairAlreadyExists) {
			result.SkippedKnown++
			return nil, false
		}
		errutil.Handle(ctx, err, "failed to persist candidate pair")
		result.Failed++
		return nil, false
	}

	return created, true
}

func (uc *DuplicateUseCase) recordDetectionRun(ctx context.Context, detectedBy string, result *DetectionResult) {
	entry := model.NewAuditEntry(detectedBy, model.AuditActionDetectionRun, model.AuditEntityDetection, detectedBy, map[string]any{
		"threshold":     result.Threshold,
		"cases_scanned": result.CasesScanned,
		"comparisons":   result.Comparisons,
		"pairs_created": len(result.Pairs),
		"skipped_known": result.SkippedKnown,
		"failed":        result.Failed,
	})
	if err := uc.repo.AuditLog().Record(ctx, entry); err != nil {
		errutil.Handle(ctx, err, "failed to record detection run audit entry")
	}
}

func (uc *DuplicateUseCase) notifyDetectionRun(ctx context.Context, detectedBy string, result *DetectionResult) {
	if uc.notifier == nil {
		return
	}

	summary := &slack.DetectionSummary{
		DetectedBy:   detectedBy,
		Threshold:    result.Threshold,
		CasesScanned: result.CasesScanned,
		Comparisons:  result.Comparisons,
		PairsCreated: len(result.Pairs),
		SkippedKnown: result.SkippedKnown,
		Failed:       result.Failed,
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.notifier.PostDetectionSummary(ctx, summary)
	})
}
