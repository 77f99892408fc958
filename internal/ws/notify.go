package ws

import (
	"encoding/json"
	"time"
)

const (
	EventJobsUpdated      = "jobs_updated"
	EventApplicantUpdated = "applicant_updated"
	EventDataRefreshed    = "data_refreshed"
	EventNotification     = "notification"
)

// Event is the JSON frame pushed to dashboard clients. Clients re-fetch
// the affected resource; the payload is a hint, not the data itself.
type Event struct {
	Type        string `json:"type"`
	JobID       string `json:"job_id,omitempty"`
	ApplicantID string `json:"applicant_id,omitempty"`
	Source      string `json:"source,omitempty"`
	Payload     any    `json:"payload,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// Publisher is what usecases depend on to announce changes.
type Publisher interface {
	Publish(evt Event)
}

func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.Timestamp == "" {
		evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := json.Marshal(evt)
	if err != nil {
		h.log.Warn("event marshal failed")
		return
	}
	h.Broadcast(b)
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

var (
	_ Publisher = (*Hub)(nil)
	_ Publisher = NopPublisher{}
)
