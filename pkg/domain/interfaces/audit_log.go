package interfaces

import (
	"context"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
)

// AuditLogRepository defines the interface for append-only audit entries
type AuditLogRepository interface {
	// Record appends an entry and stamps CreatedAt
	Record(ctx context.Context, entry *model.AuditEntry) error

	// ListByEntity retrieves the entries for one entity, newest first
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*model.AuditEntry, error)
}
