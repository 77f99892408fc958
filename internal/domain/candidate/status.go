package candidate

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusApplied     Status = "applied"
	StatusShortlisted Status = "shortlisted"
	StatusInterview   Status = "interview"
	StatusOffer       Status = "offer"
	StatusRejected    Status = "rejected"
)

var (
	ErrUnknownStatus        = errors.New("unknown status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrToggleNotAllowed     = errors.New("shortlist toggle not allowed")
)

// Statuses returns the pipeline stages in display order.
func Statuses() []Status {
	return []Status{StatusApplied, StatusShortlisted, StatusInterview, StatusOffer, StatusRejected}
}

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusInterview, StatusOffer, StatusRejected:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// ToggleShortlist flips applied and shortlisted. Any other stage moves to
// shortlisted, which is what the dashboard has always done.
func ToggleShortlist(current Status) Status {
	if current == StatusShortlisted {
		return StatusApplied
	}
	return StatusShortlisted
}

// Pipeline is the transition surface evaluated before status writes. A nil
// edge set means every stage may move to every other stage.
type Pipeline struct {
	edges map[Status]map[Status]bool
}

func PermissivePipeline() Pipeline {
	return Pipeline{}
}

// StrictPipeline allows forward progress one stage at a time, stepping back
// from shortlisted to applied, and rejection from any open stage.
func StrictPipeline() Pipeline {
	return Pipeline{edges: map[Status]map[Status]bool{
		StatusApplied:     {StatusShortlisted: true, StatusRejected: true},
		StatusShortlisted: {StatusApplied: true, StatusInterview: true, StatusRejected: true},
		StatusInterview:   {StatusOffer: true, StatusRejected: true},
		StatusOffer:       {StatusRejected: true},
		StatusRejected:    {},
	}}
}

func NewPipeline(strict bool) Pipeline {
	if strict {
		return StrictPipeline()
	}
	return PermissivePipeline()
}

func (p Pipeline) Strict() bool {
	return p.edges != nil
}

func (p Pipeline) CanTransition(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if p.edges == nil || from == to {
		return true
	}
	return p.edges[from][to]
}

func (p Pipeline) Transition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !p.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, to)
	}
	return nil
}

// ToggleShortlist applies the shortlist toggle under this pipeline. Strict
// pipelines refuse it once a candidate is past the shortlist stage.
func (p Pipeline) ToggleShortlist(current Status) (Status, error) {
	if p.Strict() {
		switch current {
		case StatusInterview, StatusOffer, StatusRejected:
			return current, fmt.Errorf("%w: candidate is %s", ErrToggleNotAllowed, current)
		}
	}
	return ToggleShortlist(current), nil
}
