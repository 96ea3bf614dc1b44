package model

import (
	"strconv"
	"time"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
)

// CaseEntityID renders a case ID in the form audit entries use for
// their EntityID field
func CaseEntityID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Case represents a missing-person case record. Intake, moderation and
// publication belong to the host platform; this service reads approved
// cases for duplicate detection and deletes redundant ones when a
// confirmed resolution requests it.
type Case struct {
	ID          int64
	FullName    string
	Age         *int       // years at disappearance, nil when not reported
	MissingDate *time.Time // nil when not reported
	Province    string     // empty when not reported
	Status      types.CaseStatus
	ReportedBy  string // host platform user ID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
