package audit

import (
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Record captures the outcome of one login attempt.
type Record struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Outcome    string    `json:"outcome"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (r *Record) normalize() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Outcome != OutcomeSuccess {
		r.Outcome = OutcomeFailure
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
}
