package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
)

type auditLogRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAuditLogRepository(client *firestore.Client) *auditLogRepository {
	return &auditLogRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *auditLogRepository) auditCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_audit_logs"
	}
	return "audit_logs"
}

func (r *auditLogRepository) Record(ctx context.Context, entry *model.AuditEntry) error {
	stored := *entry
	if stored.ID == "" {
		stored.ID = model.NewAuditID()
	}
	stored.CreatedAt = time.Now().UTC()

	_, err := r.client.Collection(r.auditCollection()).Doc(stored.ID.String()).Set(ctx, &stored)
	if err != nil {
		return goerr.Wrap(err, "failed to record audit entry",
			goerr.V("action", stored.Action),
			goerr.V("entity_id", stored.EntityID))
	}

	return nil
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*model.AuditEntry, error) {
	iter := r.client.Collection(r.auditCollection()).
		Where("EntityType", "==", entityType).
		Where("EntityID", "==", entityID).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	entries := make([]*model.AuditEntry, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate audit entries",
				goerr.V("entity_type", entityType),
				goerr.V("entity_id", entityID))
		}

		var entry model.AuditEntry
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode audit entry", goerr.V("doc_id", docSnap.Ref.ID))
		}

		entries = append(entries, &entry)
	}

	return entries, nil
}
