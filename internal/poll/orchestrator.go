// Package poll drives one query execution end to end: submit the query,
// poll its status on an interval until a terminal state or the attempt
// budget is spent, then fetch and materialize results on success.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmorrell/longquery/internal/backend"
	"github.com/jmorrell/longquery/internal/result"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
	OutcomeTimeout
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failed"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one orchestrated execution. Result is
// set only for OutcomeSuccess. Timeout means the orchestration gave up
// waiting; the remote job may still be running.
type Outcome struct {
	Kind     OutcomeKind
	JobID    string
	Attempts int
	Result   *result.Summary
}

// Options bounds one execution. Total polling time is at most
// MaxAttempts * Interval.
type Options struct {
	MaxAttempts int
	Interval    time.Duration
}

// Runner executes queries against an injected backend client. It holds no
// per-execution state, so one Runner may serve concurrent executions.
type Runner struct {
	client backend.Client
}

func NewRunner(client backend.Client) *Runner {
	return &Runner{client: client}
}

// Run performs one execution of the submit/poll/fetch state machine.
//
// Submission failures and unknown-job errors propagate as errors; every
// other ending is a terminal Outcome. MaxAttempts bounds status checks
// exactly: N attempts for MaxAttempts=N, and MaxAttempts=0 times out
// immediately after submission with zero checks. The first check happens
// right after submit; the wait only separates consecutive checks, and is
// cut short when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, sql string, opts Options) (*Outcome, error) {
	slog.Info("submitting query", "sql", sql)
	jobID, err := r.client.Submit(ctx, sql)
	if err != nil {
		var se *backend.SubmissionError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, &backend.SubmissionError{Message: fmt.Sprintf("submit query: %v", err), Err: err}
	}
	slog.Info("query submitted", "job_id", jobID)

	attempts := 0
	for {
		if ctx.Err() != nil {
			return r.cancelled(jobID, attempts), nil
		}
		if attempts >= opts.MaxAttempts {
			return r.timedOut(jobID, attempts, opts.MaxAttempts), nil
		}

		attempts++
		status, err := r.client.Status(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("status for query %s: %w", jobID, err)
		}
		slog.Info("query status", "job_id", jobID, "attempt", attempts, "status", status.String())

		switch status {
		case backend.StatusSucceeded:
			rows, err := r.client.FetchResults(ctx, jobID)
			if err != nil {
				return nil, fmt.Errorf("fetch results for query %s: %w", jobID, err)
			}
			summary := result.Materialize(rows)
			slog.Info("results fetched", "job_id", jobID, "rows", summary.RowCount)
			return &Outcome{Kind: OutcomeSuccess, JobID: jobID, Attempts: attempts, Result: &summary}, nil
		case backend.StatusFailed:
			slog.Info("query failed", "job_id", jobID, "attempts", attempts)
			return &Outcome{Kind: OutcomeFailure, JobID: jobID, Attempts: attempts}, nil
		}

		if attempts >= opts.MaxAttempts {
			return r.timedOut(jobID, attempts, opts.MaxAttempts), nil
		}

		select {
		case <-ctx.Done():
			return r.cancelled(jobID, attempts), nil
		case <-time.After(opts.Interval):
		}
	}
}

func (r *Runner) timedOut(jobID string, attempts, maxAttempts int) *Outcome {
	slog.Info("max attempts reached", "job_id", jobID, "max_attempts", maxAttempts)
	return &Outcome{Kind: OutcomeTimeout, JobID: jobID, Attempts: attempts}
}

func (r *Runner) cancelled(jobID string, attempts int) *Outcome {
	slog.Info("query run cancelled", "job_id", jobID, "attempts", attempts)
	return &Outcome{Kind: OutcomeCancelled, JobID: jobID, Attempts: attempts}
}
