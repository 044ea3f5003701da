package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission represents a single contact form submission. It is transient:
// created per request, relayed by email, and never persisted beyond an audit
// log line.
type Submission struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"user_agent"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmissionLogEntry is the append-only audit record written for every
// submission attempt that passed the rate limiter. Entries are write-once and
// never read back by the service.
type SubmissionLogEntry struct {
	Timestamp     string `json:"timestamp"`
	IP            string `json:"ip"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	MessageLength int    `json:"message_length"`
	Success       bool   `json:"success"`
	UserAgent     string `json:"user_agent"`
}

// NewLogEntry builds the audit record for a submission attempt.
func NewLogEntry(sub *Submission, success bool) SubmissionLogEntry {
	return SubmissionLogEntry{
		Timestamp:     sub.SubmittedAt.UTC().Format(time.RFC3339),
		IP:            sub.IP,
		Name:          sub.Name,
		Email:         sub.Email,
		MessageLength: len(sub.Message),
		Success:       success,
		UserAgent:     sub.UserAgent,
	}
}

// ResponseEnvelope is the uniform reply shape returned to the client for every
// outcome, success or failure.
type ResponseEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
