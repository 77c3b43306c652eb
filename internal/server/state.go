package server

import (
	"sync"
	"time"

	"github.com/danielpatrickdp/scriptloop/internal/metrics"
)

// #region state
// State is the loop's last published status, shared between the runner
// goroutine and HTTP handlers.
type State struct {
	mu sync.RWMutex
	s  Status
}

// Status is the JSON shape served by GET /status.
type Status struct {
	Running       bool           `json:"running"`
	Iteration     int            `json:"iteration"`
	ScriptVersion string         `json:"script_version"`
	LastReport    metrics.Report `json:"last_report"`
	StopReason    string         `json:"stop_reason,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewState starts in the not-running zero status.
func NewState() *State {
	return &State{}
}

// Update publishes one iteration's outcome.
func (st *State) Update(iteration int, version string, report metrics.Report) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Running = true
	st.s.Iteration = iteration
	st.s.ScriptVersion = version
	st.s.LastReport = report
	st.s.UpdatedAt = time.Now().UTC()
}

// Finish marks the loop complete.
func (st *State) Finish(reason string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Running = false
	st.s.StopReason = reason
	st.s.UpdatedAt = time.Now().UTC()
}

// Snapshot returns a copy of the current status.
func (st *State) Snapshot() Status {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// #endregion state
