package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditID is a UUID-based identifier for AuditEntry
type AuditID string

// NewAuditID generates a new UUID v4 AuditID
func NewAuditID() AuditID {
	return AuditID(uuid.New().String())
}

// String returns the string representation of the audit ID
func (id AuditID) String() string {
	return string(id)
}

// Audit actions recorded by this service
const (
	AuditActionDetectionRun = "duplicates.detect"
	AuditActionPairResolved = "duplicates.resolve"
	AuditActionCaseDeleted  = "case.delete"
)

// Audit entity types
const (
	AuditEntityPair      = "duplicate_pair"
	AuditEntityCase      = "case"
	AuditEntityDetection = "detection"
)

// AuditEntry is an append-only record of a moderation action. Entries are
// written after the action they describe; a failed write is logged and
// never blocks the action itself.
type AuditEntry struct {
	ID         AuditID
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
	CreatedAt  time.Time
}

// NewAuditEntry builds an entry with a fresh ID. CreatedAt is stamped by
// the repository on write.
func NewAuditEntry(actorID, action, entityType, entityID string, metadata map[string]any) *AuditEntry {
	return &AuditEntry{
		ID:         NewAuditID(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}
}
