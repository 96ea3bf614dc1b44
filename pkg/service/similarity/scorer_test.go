package similarity_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model/config"
	"github.com/DaoSolary/Desaparecidos/pkg/service/similarity"
)

func newCase(name string, age *int, missing *time.Time, province string) *model.Case {
	return &model.Case{
		FullName:    name,
		Age:         age,
		MissingDate: missing,
		Province:    province,
	}
}

func intPtr(v int) *int {
	return &v
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNewScorer(t *testing.T) {
	t.Run("nil config falls back to defaults", func(t *testing.T) {
		scorer, err := similarity.NewScorer(nil)
		gt.NoError(t, err)
		gt.Value(t, scorer).NotNil()
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		cfg := config.DefaultScoringConfig()
		cfg.Weights.Name = 0.9
		_, err := similarity.NewScorer(cfg)
		gt.Error(t, err)
	})
}

func TestScorer_Compare(t *testing.T) {
	scorer, err := similarity.NewScorer(nil)
	gt.NoError(t, err).Required()

	t.Run("identical full records score one", func(t *testing.T) {
		a := newCase("Maria Silva", intPtr(12), datePtr(2024, 1, 10), "Luanda")
		b := newCase("Maria Silva", intPtr(12), datePtr(2024, 1, 10), "Luanda")

		score := scorer.Compare(a, b)
		gt.Number(t, score.Value).Equal(1.0)
		gt.Number(t, score.AppliedWeight).Equal(1.0)
		gt.Bool(t, score.Comparable()).True()
		gt.Number(t, len(score.Factors)).Equal(4)
	})

	t.Run("all factors applicable", func(t *testing.T) {
		// name 1.0, date 1-9/30, province 1.0, age 1-1/5
		a := newCase("Maria Silva", intPtr(12), datePtr(2024, 1, 10), "Luanda")
		b := newCase("maria silva", intPtr(13), datePtr(2024, 1, 19), "Luanda")

		score := scorer.Compare(a, b)
		nearlyEqual(t, score.Value, 0.90)
		gt.Number(t, score.AppliedWeight).Equal(1.0)
		nearlyEqual(t, score.Factors[similarity.FactorName], 1.0)
		nearlyEqual(t, score.Factors[similarity.FactorMissingDate], 0.7)
		nearlyEqual(t, score.Factors[similarity.FactorProvince], 1.0)
		nearlyEqual(t, score.Factors[similarity.FactorAge], 0.8)
	})

	t.Run("missing ages renormalize the remaining weights", func(t *testing.T) {
		a := newCase("Maria Silva", nil, datePtr(2024, 1, 10), "Luanda")
		b := newCase("maria silva", nil, datePtr(2024, 1, 19), "Luanda")

		score := scorer.Compare(a, b)
		// (0.4*1.0 + 0.2*0.7 + 0.2*1.0) / 0.8
		nearlyEqual(t, score.Value, 0.925)
		nearlyEqual(t, score.AppliedWeight, 0.8)

		_, hasAge := score.Factors[similarity.FactorAge]
		gt.Bool(t, hasAge).False()
	})

	t.Run("name and province only", func(t *testing.T) {
		a := newCase("Maria Silva", nil, nil, "Luanda")
		b := newCase("Maria Silva", nil, nil, "Luanda")

		score := scorer.Compare(a, b)
		gt.Number(t, score.Value).Equal(1.0)
		nearlyEqual(t, score.AppliedWeight, 0.6)
	})

	t.Run("partial similarity renormalized", func(t *testing.T) {
		a := newCase("ana", nil, nil, "Luanda")
		b := newCase("and", nil, nil, "Benguela")

		score := scorer.Compare(a, b)
		// (0.4*(2/3) + 0.2*0) / 0.6
		nearlyEqual(t, score.Value, (0.4*(2.0/3.0))/0.6)
	})

	t.Run("name only when optional fields absent", func(t *testing.T) {
		a := newCase("Maria Silva", nil, nil, "")
		b := newCase("Maria Silva", nil, nil, "")

		score := scorer.Compare(a, b)
		gt.Number(t, score.Value).Equal(1.0)
		nearlyEqual(t, score.AppliedWeight, 0.4)
		gt.Number(t, len(score.Factors)).Equal(1)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := newCase("Maria Silva", intPtr(12), datePtr(2024, 1, 10), "Luanda")
		b := newCase("Marta Silva", intPtr(15), datePtr(2024, 2, 1), "Benguela")

		gt.Number(t, scorer.Compare(a, b).Value).Equal(scorer.Compare(b, a).Value)
	})

	t.Run("different provinces score zero on that factor", func(t *testing.T) {
		a := newCase("Maria Silva", nil, nil, "Luanda")
		b := newCase("Maria Silva", nil, nil, "Benguela")

		score := scorer.Compare(a, b)
		// (0.4*1.0 + 0.2*0.0) / 0.6
		nearlyEqual(t, score.Value, 0.4/0.6)
	})
}

func TestScorer_Compare_NoApplicableFactor(t *testing.T) {
	// A zero name weight plus records without optional fields leaves
	// nothing to compare.
	cfg := &config.ScoringConfig{
		Weights:   config.FactorWeights{MissingDate: 1.0},
		Threshold: 0.7,
	}
	scorer, err := similarity.NewScorer(cfg)
	gt.NoError(t, err).Required()

	a := newCase("Maria Silva", nil, nil, "")
	b := newCase("Maria Silva", nil, nil, "")

	score := scorer.Compare(a, b)
	gt.Number(t, score.Value).Equal(0.0)
	gt.Bool(t, score.Comparable()).False()
}
