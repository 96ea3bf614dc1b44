package interfaces

import "github.com/DaoSolary/Desaparecidos/pkg/domain/types"

// ListPairOption is a functional option for filtering pairs in List
type ListPairOption func(*listPairConfig)

type listPairConfig struct {
	status *types.PairStatus
}

// WithPairStatus filters pairs by status
func WithPairStatus(status types.PairStatus) ListPairOption {
	return func(c *listPairConfig) {
		c.status = &status
	}
}

// BuildListPairConfig builds a listPairConfig from options
func BuildListPairConfig(opts ...ListPairOption) *listPairConfig {
	cfg := &listPairConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *listPairConfig) Status() *types.PairStatus {
	return c.status
}
