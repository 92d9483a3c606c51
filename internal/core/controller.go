// ABOUTME: Self-correction controller bounding SQL validation attempts
// ABOUTME: Attempt cap, repetition guard, circuit breaker, tool-call ceiling
package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/LuisDee/sqlscout/internal/models"
)

// CircuitOpenMessage is the fixed response once the breaker has tripped:
// the model should explain the failure instead of retrying. The MCP layer
// returns the same message when the session tool ceiling is exhausted.
const CircuitOpenMessage = "circuit open, explain the failure instead of retrying"

// Validator is the opaque external validate-SQL call. The controller
// governs only how often it may be invoked and when to stop.
type Validator interface {
	Validate(ctx context.Context, sqlText string) models.ValidationOutcome
}

// Controller is the bounded state machine around SQL validation. Three
// independent guards can stop a turn: the per-question attempt cap, the
// repetition guard (identical invocations are a stuck loop, not
// self-correction), and the session-wide tool-call ceiling.
type Controller struct {
	maxAttempts      int
	repetitionWindow int
	toolCallCap      int
	validator        Validator
}

// NewController creates a controller. validator may be nil when callers
// always report outcomes themselves.
func NewController(maxAttempts, repetitionWindow, toolCallCap int, validator Validator) *Controller {
	return &Controller{
		maxAttempts:      maxAttempts,
		repetitionWindow: repetitionWindow,
		toolCallCap:      toolCallCap,
		validator:        validator,
	}
}

// Fingerprint hashes an operation name and its normalized payload into
// a stable invocation identity for the repetition guard
func Fingerprint(operation, payload string) string {
	sum := sha256.Sum256([]byte(operation + "\n" + NormalizeQuestion(payload)))
	return hex.EncodeToString(sum[:])
}

// RecordAttempt runs one validation attempt through every guard. When
// outcome is nil the configured validator is invoked; a caller that
// validated externally passes the outcome instead. The returned error is
// reserved for programmer-error conditions (missing input, no validator).
func (c *Controller) RecordAttempt(ctx context.Context, sess *Session, question, sqlText string, outcome *models.ValidationOutcome) (models.AttemptResult, error) {
	if question == "" {
		return models.AttemptResult{}, fmt.Errorf("question must not be empty")
	}
	if sqlText == "" {
		return models.AttemptResult{}, fmt.Errorf("sql text must not be empty")
	}

	sess.BeginQuestion(NormalizeQuestion(question))

	if sess.CountToolCall(c.toolCallCap) {
		sess.TripCircuit(fmt.Sprintf("tool call ceiling of %d exceeded", c.toolCallCap))
		_, reason := sess.CircuitOpen()
		return models.AttemptResult{
			Decision: models.DecisionCircuitOpen,
			Attempt:  sess.Attempts(),
			Reason:   CircuitOpenMessage + ": " + reason,
		}, nil
	}

	if open, reason := sess.CircuitOpen(); open {
		return models.AttemptResult{
			Decision: models.DecisionCircuitOpen,
			Attempt:  sess.Attempts(),
			Reason:   CircuitOpenMessage + ": " + reason,
		}, nil
	}

	if err := EnsureReadOnly(sqlText); err != nil {
		return models.AttemptResult{
			Decision: models.DecisionRejected,
			Attempt:  sess.Attempts(),
			Reason:   err.Error(),
		}, nil
	}

	// An unchanging retry is a stuck loop; trip before spending the call
	fp := Fingerprint("validate_sql", sqlText)
	if sess.RecordFingerprint(fp, c.repetitionWindow) {
		sess.TripCircuit(fmt.Sprintf("%d identical validation attempts in a row", c.repetitionWindow))
		_, reason := sess.CircuitOpen()
		return models.AttemptResult{
			Decision: models.DecisionCircuitOpen,
			Attempt:  sess.Attempts(),
			Reason:   CircuitOpenMessage + ": " + reason,
		}, nil
	}

	if outcome == nil {
		if c.validator == nil {
			return models.AttemptResult{}, fmt.Errorf("no validator configured and no outcome provided")
		}
		result := c.validator.Validate(ctx, sqlText)
		outcome = &result
	}

	attempt := sess.IncrementAttempt()

	if outcome.Success {
		return models.AttemptResult{
			Decision: models.DecisionSuccess,
			Attempt:  attempt,
		}, nil
	}

	if attempt >= c.maxAttempts {
		sess.TripCircuit(fmt.Sprintf("%d validation attempts exhausted", c.maxAttempts))
		_, reason := sess.CircuitOpen()
		return models.AttemptResult{
			Decision:    models.DecisionCircuitOpen,
			Attempt:     attempt,
			Reason:      CircuitOpenMessage + ": " + reason,
			ErrorDetail: outcome.ErrorDetail,
		}, nil
	}

	return models.AttemptResult{
		Decision:    models.DecisionRetry,
		Attempt:     attempt,
		Reason:      fmt.Sprintf("attempt %d of %d failed", attempt, c.maxAttempts),
		ErrorDetail: outcome.ErrorDetail,
	}, nil
}
