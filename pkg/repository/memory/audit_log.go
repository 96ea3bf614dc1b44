package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
)

type auditLogRepository struct {
	mu      sync.RWMutex
	entries []*model.AuditEntry
}

func newAuditLogRepository() *auditLogRepository {
	return &auditLogRepository{}
}

// copyAuditEntry creates a deep copy of an audit entry
func copyAuditEntry(e *model.AuditEntry) *model.AuditEntry {
	copied := *e
	if e.Metadata != nil {
		copied.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}

func (r *auditLogRepository) Record(ctx context.Context, entry *model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyAuditEntry(entry)
	if stored.ID == "" {
		stored.ID = model.NewAuditID()
	}
	stored.CreatedAt = time.Now().UTC()

	r.entries = append(r.entries, stored)
	return nil
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*model.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// entries append in time order, so walking backwards yields newest first
	matched := make([]*model.AuditEntry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.EntityType == entityType && e.EntityID == entityID {
			matched = append(matched, copyAuditEntry(e))
		}
	}

	return matched, nil
}
