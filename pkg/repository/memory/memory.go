package memory

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = goerr.New("not found")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory Repository implementation for tests and
// development. All stores are safe for concurrent use.
type Memory struct {
	cases  *caseRepository
	pairs  *duplicatePairRepository
	audit  *auditLogRepository
	tokens *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		cases:  newCaseRepository(),
		pairs:  newDuplicatePairRepository(),
		audit:  newAuditLogRepository(),
		tokens: newTokenStore(),
	}
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.cases
}

func (m *Memory) DuplicatePair() interfaces.DuplicatePairRepository {
	return m.pairs
}

func (m *Memory) AuditLog() interfaces.AuditLogRepository {
	return m.audit
}

// Close implements interfaces.Repository; nothing to release
func (m *Memory) Close() error {
	return nil
}
