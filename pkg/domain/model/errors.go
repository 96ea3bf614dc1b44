package model

import "github.com/m-mizutani/goerr/v2"

// Repository contract errors shared by all backends
var (
	ErrPairAlreadyExists = goerr.New("duplicate pair already registered for this ordered case combination")
	ErrPairNotPending    = goerr.New("duplicate pair is not pending")
)

// Context keys for error values
const (
	PairIDKey       = "pair_id"
	FirstCaseIDKey  = "first_case_id"
	SecondCaseIDKey = "second_case_id"
)
