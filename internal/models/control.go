// ABOUTME: Control-flow types for the self-correction controller
// ABOUTME: Defines validation outcomes and attempt decisions
package models

// ValidationOutcome is the opaque result of an external validate-SQL call
type ValidationOutcome struct {
	Success     bool   `json:"success"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// AttemptDecision is the controller's verdict after one validation attempt
type AttemptDecision string

const (
	// DecisionSuccess - validation passed, the turn can proceed to commit
	DecisionSuccess AttemptDecision = "success"

	// DecisionRetry - validation failed but another corrected draft is allowed
	DecisionRetry AttemptDecision = "retry"

	// DecisionCircuitOpen - a guard tripped; no further validation this turn
	DecisionCircuitOpen AttemptDecision = "circuit_open"

	// DecisionRejected - the proposed SQL was blocked before validation
	DecisionRejected AttemptDecision = "rejected"
)

// AttemptResult is returned for every recorded validation attempt
type AttemptResult struct {
	Decision    AttemptDecision `json:"decision"`
	Attempt     int             `json:"attempt"`
	Reason      string          `json:"reason,omitempty"`
	ErrorDetail string          `json:"error_detail,omitempty"`
}
