package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
)

type caseRepository struct {
	mu     sync.RWMutex
	cases  map[int64]*model.Case
	nextID int64
}

func newCaseRepository() *caseRepository {
	return &caseRepository{
		cases:  make(map[int64]*model.Case),
		nextID: 1,
	}
}

// copyCase creates a deep copy of a case
func copyCase(c *model.Case) *model.Case {
	copied := *c
	if c.Age != nil {
		age := *c.Age
		copied.Age = &age
	}
	if c.MissingDate != nil {
		date := *c.MissingDate
		copied.MissingDate = &date
	}
	return &copied
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyCase(c)
	created.ID = r.nextID
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.cases[created.ID] = created
	return copyCase(created), nil
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.cases[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	return copyCase(c), nil
}

func (r *caseRepository) GetMulti(ctx context.Context, ids []int64) (map[int64]*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make(map[int64]*model.Case, len(ids))
	for _, id := range ids {
		if c, exists := r.cases[id]; exists {
			found[id] = copyCase(c)
		}
	}

	return found, nil
}

func (r *caseRepository) ListEligible(ctx context.Context) ([]*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eligible := make([]*model.Case, 0, len(r.cases))
	for _, c := range r.cases {
		if c.Status.IsEligible() {
			eligible = append(eligible, copyCase(c))
		}
	}

	// newest first; IDs grow with registration order, so they break
	// timestamp ties deterministically
	sort.Slice(eligible, func(i, j int) bool {
		if !eligible[i].CreatedAt.Equal(eligible[j].CreatedAt) {
			return eligible[i].CreatedAt.After(eligible[j].CreatedAt)
		}
		return eligible[i].ID > eligible[j].ID
	})

	return eligible, nil
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cases[id]; !exists {
		return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
	}

	delete(r.cases, id)
	return nil
}
