package config

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
)

const weightSumTolerance = 1e-9

// FactorWeights enumerates the four case fields the pairwise scorer
// compares and the fraction each contributes to the combined score.
// Weights of factors whose fields are missing on either record are
// redistributed across the remaining ones, so the weights must describe
// fractions of a whole.
type FactorWeights struct {
	Name        float64
	MissingDate float64
	Province    float64
	Age         float64
}

// Sum returns the total of all factor weights
func (w FactorWeights) Sum() float64 {
	return w.Name + w.MissingDate + w.Province + w.Age
}

// ScoringConfig holds the duplicate-scoring configuration
type ScoringConfig struct {
	Weights   FactorWeights
	Threshold float64 // default decision threshold for detection passes
}

// DefaultScoringConfig returns the stock configuration: name similarity
// dominates at 0.4, the remaining factors carry 0.2 each, and pairs
// scoring 0.7 or higher are flagged.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Weights: FactorWeights{
			Name:        0.4,
			MissingDate: 0.2,
			Province:    0.2,
			Age:         0.2,
		},
		Threshold: 0.7,
	}
}

// Validate checks the configuration. Every weight must be a finite
// non-negative number, the weights must sum to 1, and the default
// threshold must lie within [0, 1].
func (c *ScoringConfig) Validate() error {
	weights := map[string]float64{
		"name":         c.Weights.Name,
		"missing_date": c.Weights.MissingDate,
		"province":     c.Weights.Province,
		"age":          c.Weights.Age,
	}
	for name, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return goerr.New("factor weight must be a finite number", goerr.V("factor", name), goerr.V("weight", w))
		}
		if w < 0 {
			return goerr.New("factor weight must not be negative", goerr.V("factor", name), goerr.V("weight", w))
		}
	}

	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return goerr.New("factor weights must sum to 1", goerr.V("sum", sum))
	}

	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return goerr.New("default threshold must be within [0, 1]", goerr.V("threshold", c.Threshold))
	}

	return nil
}
