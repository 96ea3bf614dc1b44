package types

import "fmt"

// PairStatus represents the lifecycle state of a duplicate pair
type PairStatus string

const (
	PairStatusPending   PairStatus = "PENDING"
	PairStatusConfirmed PairStatus = "CONFIRMED"
	PairStatusRejected  PairStatus = "REJECTED"
	PairStatusResolved  PairStatus = "RESOLVED"
)

// AllPairStatuses returns all valid pair statuses
func AllPairStatuses() []PairStatus {
	return []PairStatus{
		PairStatusPending,
		PairStatusConfirmed,
		PairStatusRejected,
		PairStatusResolved,
	}
}

// IsValid checks if the pair status is valid
func (s PairStatus) IsValid() bool {
	switch s {
	case PairStatusPending,
		PairStatusConfirmed,
		PairStatusRejected,
		PairStatusResolved:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends the pair lifecycle.
// Every status except PENDING is terminal.
func (s PairStatus) IsTerminal() bool {
	return s.IsValid() && s != PairStatusPending
}

// CanTransitionTo reports whether a pair in this status may move to next.
// The only legal transitions are PENDING to one of the terminal statuses.
func (s PairStatus) CanTransitionTo(next PairStatus) bool {
	return s == PairStatusPending && next.IsTerminal()
}

// String returns the string representation of the pair status
func (s PairStatus) String() string {
	return string(s)
}

// ParsePairStatus parses a string into a PairStatus
func ParsePairStatus(s string) (PairStatus, error) {
	status := PairStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid pair status: %s", s)
	}
	return status, nil
}
