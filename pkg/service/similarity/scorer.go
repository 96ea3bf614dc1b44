package similarity

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model/config"
)

// Factor identifies one scored case field
type Factor string

const (
	FactorName        Factor = "name"
	FactorMissingDate Factor = "missing_date"
	FactorProvince    Factor = "province"
	FactorAge         Factor = "age"
)

// ageSpanYears is the age difference at which age proximity reaches zero
const ageSpanYears = 5.0

// Score is the outcome of comparing two case records. Value is the
// weighted similarity over the applicable factors; AppliedWeight is the
// weight those factors carried. Factors holds the raw per-factor
// similarities for diagnostics and is never persisted.
type Score struct {
	Value         float64
	AppliedWeight float64
	Factors       map[Factor]float64
}

// Comparable reports whether at least one factor was applicable
func (s Score) Comparable() bool {
	return s.AppliedWeight > 0
}

// Scorer computes pairwise similarity between case records
type Scorer struct {
	weights config.FactorWeights
}

// NewScorer creates a Scorer from the given configuration, falling back
// to the defaults when cfg is nil. The configuration is validated here;
// a Scorer never exists with unusable weights.
func NewScorer(cfg *config.ScoringConfig) (*Scorer, error) {
	if cfg == nil {
		cfg = config.DefaultScoringConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid scoring configuration")
	}
	return &Scorer{weights: cfg.Weights}, nil
}

// Compare scores two case records. A factor applies only when both
// records carry its field; the name field is always present. Weights of
// inapplicable factors are excluded from the denominator, so partial
// records are scored on what they share. With nothing to compare the
// score is 0.
func (s *Scorer) Compare(a, b *model.Case) Score {
	factors := make(map[Factor]float64, 4)
	var weighted, applied float64

	apply := func(f Factor, weight, sim float64) {
		factors[f] = sim
		weighted += weight * sim
		applied += weight
	}

	apply(FactorName, s.weights.Name, TextSimilarity(a.FullName, b.FullName))

	if a.MissingDate != nil && b.MissingDate != nil {
		apply(FactorMissingDate, s.weights.MissingDate, DateProximity(*a.MissingDate, *b.MissingDate))
	}
	if a.Province != "" && b.Province != "" {
		apply(FactorProvince, s.weights.Province, ExactMatch(a.Province, b.Province))
	}
	if a.Age != nil && b.Age != nil {
		apply(FactorAge, s.weights.Age, NumberProximity(float64(*a.Age), float64(*b.Age), ageSpanYears))
	}

	var value float64
	if applied > 0 {
		value = weighted / applied
	}

	return Score{
		Value:         value,
		AppliedWeight: applied,
		Factors:       factors,
	}
}
