package job

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
	StatusDraft  Status = "draft"
)

var ErrUnknownStatus = errors.New("unknown job status")

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusDraft:
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

type Job struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	HiringManager      string     `json:"hiring_manager"`
	Status             Status     `json:"status"`
	ClosingDate        *time.Time `json:"closing_date,omitempty"`
	Description        string     `json:"description"`
	Location           string     `json:"location"`
	ExperienceRequired string     `json:"experience_required"`
	JobDescriptionURL  string     `json:"job_description_url"`
	InterviewPackURL   string     `json:"interview_pack_url"`
	CreatedBy          string     `json:"created_by"`

	ApplicantCount   int `json:"applicant_count"`
	ShortlistedCount int `json:"shortlisted_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft is the input for a new posting, before any id is assigned.
type Draft struct {
	Title              string
	HiringManager      string
	Status             Status
	ClosingDate        *time.Time
	Description        string
	Location           string
	ExperienceRequired string
	JobDescriptionURL  string
	CreatedBy          string
}

// Patch carries a partial update; nil fields are left alone.
type Patch struct {
	Title              *string
	HiringManager      *string
	Status             *Status
	ClosingDate        *time.Time
	Description        *string
	Location           *string
	ExperienceRequired *string
	InterviewPackURL   *string
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.HiringManager == nil && p.Status == nil && p.ClosingDate == nil &&
		p.Description == nil && p.Location == nil && p.ExperienceRequired == nil && p.InterviewPackURL == nil
}
