package operations

import (
	"sync"
	"time"
)

// Analysis step identifiers, in execution order.
const (
	StepLoad     = "load"
	StepFilter   = "filter"
	StepTemporal = "temporal"
	StepStation  = "station"
	StepDuration = "duration"
	StepUser     = "user"
)

var stepNames = map[string]string{
	StepLoad:     "Loading trip data",
	StepFilter:   "Applying filters",
	StepTemporal: "Calculating The Most Frequent Times of Travel",
	StepStation:  "Calculating The Most Popular Stations and Trip",
	StepDuration: "Calculating Trip Duration",
	StepUser:     "Calculating User Stats",
}

// StepName returns the display name of a step, or the id itself for steps
// outside the analysis pipeline.
func StepName(id string) string {
	if name, ok := stepNames[id]; ok {
		return name
	}
	return id
}

// StepStatus represents the current status of a Step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState represents the runtime state of a Step
type StepState struct {
	mu        sync.RWMutex
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Error     error      `json:"-"`
}

// NewStepState creates a pending step
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the Step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.EndTime = nil
	s.Status = StepStatusActive
}

// Complete marks the Step as completed and sets the end time
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the Step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// GetStatus returns the current status
func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns the duration of the Step execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// Seconds returns the elapsed wall-clock time in seconds, as reported after
// each statistic group.
func (s *StepState) Seconds() float64 {
	return s.Duration().Seconds()
}
