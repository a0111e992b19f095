package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmorrell/longquery/internal/backend"
	"github.com/jmorrell/longquery/internal/config"
	"github.com/jmorrell/longquery/internal/observability"
	"github.com/jmorrell/longquery/internal/poll"
	"github.com/jmorrell/longquery/internal/result"
)

type runQueryRequest struct {
	SQL          string `json:"sql"`
	MaxAttempts  *int   `json:"max_attempts,omitempty"`
	PollInterval string `json:"poll_interval,omitempty"`
}

type runQueryResponse struct {
	Status  string          `json:"status"`
	QueryID string          `json:"query_id"`
	Polls   int             `json:"polls"`
	Result  *result.Summary `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (s *Server) handleRunQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req runQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := s.defaults
	if req.MaxAttempts != nil {
		if *req.MaxAttempts < 0 {
			writeError(w, http.StatusBadRequest, "max_attempts must be >= 0")
			return
		}
		opts.MaxAttempts = *req.MaxAttempts
	}
	if req.PollInterval != "" {
		d, err := config.ParseDuration(req.PollInterval)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "invalid poll_interval")
			return
		}
		opts.Interval = d
	}

	observability.QueriesSubmitted.Inc()

	// The request context cancels the poll loop if the caller disconnects.
	outcome, err := s.runner.Run(r.Context(), req.SQL, opts)
	if err != nil {
		observability.QueryOutcomes.WithLabelValues("error").Inc()
		var se *backend.SubmissionError
		if errors.As(err, &se) {
			writeError(w, http.StatusBadRequest, se.Error())
			return
		}
		var nf *backend.NotFoundError
		if errors.As(err, &nf) {
			writeError(w, http.StatusNotFound, nf.Error())
			return
		}
		slog.Error("query run failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	observability.PollAttempts.Add(float64(outcome.Attempts))
	observability.QueryOutcomes.WithLabelValues(outcome.Kind.String()).Inc()
	observability.QueryDuration.WithLabelValues(outcome.Kind.String()).Observe(time.Since(start).Seconds())

	resp := runQueryResponse{
		Status:  outcome.Kind.String(),
		QueryID: outcome.JobID,
		Polls:   outcome.Attempts,
	}
	switch outcome.Kind {
	case poll.OutcomeSuccess:
		resp.Result = outcome.Result
	case poll.OutcomeFailure:
		resp.Error = "query execution failed"
	case poll.OutcomeTimeout:
		resp.Error = fmt.Sprintf("query timed out after %d polling attempts", outcome.Attempts)
	case poll.OutcomeCancelled:
		resp.Error = "query run cancelled"
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Status: "error", Error: msg})
}
