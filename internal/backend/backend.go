// Package backend defines the capability set an asynchronous query backend
// exposes to the poll orchestrator: submit a query, report its status, and
// hand back results once it has succeeded. Concrete backends are selected at
// construction time; the orchestrator only ever sees the Client interface.
package backend

import "context"

type QueryStatus int

const (
	StatusRunning QueryStatus = iota
	StatusSucceeded
	StatusFailed
)

func (s QueryStatus) String() string {
	switch s {
	case StatusRunning:
		return "RUNNING"
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the status can no longer change.
func (s QueryStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Row is a single result row keyed by column name.
type Row map[string]any

// Client is the contract any query backend adapter must satisfy.
//
// Submit assigns a fresh unique job id; no two calls may return the same id.
// Status must be monotonic (never RUNNING after a terminal state) and
// idempotent once terminal. FetchResults is side-effect free and only valid
// after Status has reported SUCCEEDED.
type Client interface {
	Submit(ctx context.Context, sql string) (string, error)
	Status(ctx context.Context, jobID string) (QueryStatus, error)
	FetchResults(ctx context.Context, jobID string) ([]Row, error)
}
