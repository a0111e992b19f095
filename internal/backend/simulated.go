package backend

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xwb1989/sqlparser"
)

// DefaultQueryDuration is how long a simulated query runs when no scenario
// matches and no override is configured.
const DefaultQueryDuration = 10 * time.Second

var defaultRows = []Row{
	{"id": 1, "name": "Alice", "value": 100},
	{"id": 2, "name": "Bob", "value": 200},
	{"id": 3, "name": "Charlie", "value": 300},
}

// Scenario scripts how the simulated backend treats queries whose text
// contains Match. Completion is decided either by elapsed virtual time
// (Duration) or, when Checks > 0, after that many status calls.
type Scenario struct {
	Match    string
	Duration time.Duration
	Checks   int
	Fail     bool
	Rows     []Row
}

// Simulated is an in-memory query backend that stands in for a real
// asynchronous engine. It owns the job table and the ground truth of
// completion; jobs for different ids never interfere.
type Simulated struct {
	mu              sync.Mutex
	jobs            map[string]*simJob
	scenarios       []Scenario
	defaultDuration time.Duration
	now             func() time.Time
}

type simJob struct {
	sql         string
	status      QueryStatus
	submittedAt time.Time
	duration    time.Duration
	checksLeft  int
	countChecks bool
	fail        bool
	rows        []Row
}

type SimulatedOption func(*Simulated)

// WithScenarios scripts per-query behavior. The first scenario whose Match is
// contained in the submitted SQL wins.
func WithScenarios(scenarios []Scenario) SimulatedOption {
	return func(s *Simulated) { s.scenarios = scenarios }
}

// WithDefaultDuration overrides how long unmatched queries run.
func WithDefaultDuration(d time.Duration) SimulatedOption {
	return func(s *Simulated) { s.defaultDuration = d }
}

// WithClock injects a virtual clock so tests complete queries without
// real delay.
func WithClock(now func() time.Time) SimulatedOption {
	return func(s *Simulated) { s.now = now }
}

func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		jobs:            make(map[string]*simJob),
		defaultDuration: DefaultQueryDuration,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit parse-validates the SQL, assigns a fresh job id, and records the
// query as RUNNING.
func (s *Simulated) Submit(_ context.Context, sql string) (string, error) {
	if strings.TrimSpace(sql) == "" {
		return "", ErrSubmission("sql query is required")
	}
	if _, err := sqlparser.Parse(sql); err != nil {
		return "", &SubmissionError{Message: "invalid sql: " + err.Error(), Err: err}
	}

	job := &simJob{
		sql:      sql,
		status:   StatusRunning,
		duration: s.defaultDuration,
		rows:     defaultRows,
	}
	if sc := s.matchScenario(sql); sc != nil {
		if sc.Duration > 0 {
			job.duration = sc.Duration
		}
		if sc.Checks > 0 {
			job.countChecks = true
			job.checksLeft = sc.Checks
		}
		job.fail = sc.Fail
		if sc.Rows != nil {
			job.rows = sc.Rows
		}
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	job.submittedAt = s.now()
	s.jobs[id] = job
	return id, nil
}

// Status reports the current status of a job, flipping it to its terminal
// state once the completion condition is met. Terminal states are sticky.
func (s *Simulated) Status(_ context.Context, jobID string) (QueryStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return StatusRunning, ErrNotFound("query %s not found", jobID)
	}
	if job.status.Terminal() {
		return job.status, nil
	}

	done := false
	if job.countChecks {
		job.checksLeft--
		done = job.checksLeft <= 0
	} else {
		done = s.now().Sub(job.submittedAt) >= job.duration
	}
	if done {
		if job.fail {
			job.status = StatusFailed
		} else {
			job.status = StatusSucceeded
		}
	}
	return job.status, nil
}

// FetchResults returns the rows of a succeeded job. Repeated calls return
// the same rows.
func (s *Simulated) FetchResults(_ context.Context, jobID string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrNotFound("query %s not found", jobID)
	}
	if job.status != StatusSucceeded {
		return nil, ErrNotReady("query %s not yet completed", jobID)
	}

	rows := make([]Row, len(job.rows))
	copy(rows, job.rows)
	return rows, nil
}

func (s *Simulated) matchScenario(sql string) *Scenario {
	lowered := strings.ToLower(sql)
	for i := range s.scenarios {
		if strings.Contains(lowered, strings.ToLower(s.scenarios[i].Match)) {
			return &s.scenarios[i]
		}
	}
	return nil
}
