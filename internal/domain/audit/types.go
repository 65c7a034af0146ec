// Package audit persists a log of tool invocations: which tool ran, whether
// it succeeded, how it failed, and how long it took. Records are immutable
// once written.
package audit

import "time"

// Outcome is the recorded result of an invocation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Record is one row of the invocation log.
type Record struct {
	ID         string    `json:"id"`
	Tool       string    `json:"tool"`
	Outcome    Outcome   `json:"outcome"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Message    string    `json:"message,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
