package types

import "fmt"

// CaseStatus represents the moderation status of a missing-person case
type CaseStatus string

const (
	CaseStatusPending  CaseStatus = "PENDING"
	CaseStatusApproved CaseStatus = "APPROVED"
	CaseStatusRejected CaseStatus = "REJECTED"
	CaseStatusArchived CaseStatus = "ARCHIVED"
)

// AllCaseStatuses returns all valid case statuses
func AllCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusPending,
		CaseStatusApproved,
		CaseStatusRejected,
		CaseStatusArchived,
	}
}

// IsValid checks if the case status is valid
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusPending,
		CaseStatusApproved,
		CaseStatusRejected,
		CaseStatusArchived:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as CaseStatusPending for backward compatibility.
func (s CaseStatus) Normalize() CaseStatus {
	if s == "" {
		return CaseStatusPending
	}
	return s
}

// IsEligible reports whether a case with this status participates in
// duplicate detection. Only approved cases are compared.
func (s CaseStatus) IsEligible() bool {
	return s == CaseStatusApproved
}

// String returns the string representation of the case status
func (s CaseStatus) String() string {
	return string(s)
}

// ParseCaseStatus parses a string into a CaseStatus
func ParseCaseStatus(s string) (CaseStatus, error) {
	status := CaseStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid case status: %s", s)
	}
	return status, nil
}
