package interfaces

import (
	"context"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
)

// CaseRepository defines the interface for Case data access. Cases are
// written by the host platform; this service creates them only in tests
// and seeding, and deletes them when a confirmed resolution asks for it.
type CaseRepository interface {
	// Create creates a new case with auto-generated ID
	Create(ctx context.Context, c *model.Case) (*model.Case, error)

	// Get retrieves a case by ID
	Get(ctx context.Context, id int64) (*model.Case, error)

	// GetMulti retrieves the cases for the given IDs. IDs without a
	// stored case are simply absent from the result.
	GetMulti(ctx context.Context, ids []int64) (map[int64]*model.Case, error)

	// ListEligible retrieves the cases that participate in duplicate
	// detection (approved), newest first by registration time.
	ListEligible(ctx context.Context) ([]*model.Case, error)

	// Delete deletes a case by ID
	Delete(ctx context.Context, id int64) error
}
