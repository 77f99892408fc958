package dto

import (
	"fmt"
	"strings"
	"time"

	"recruit-dash/internal/domain/job"
)

// CreateJobRequest is accepted as JSON or as multipart form fields next to
// the jobDescription file.
type CreateJobRequest struct {
	Title              string `json:"title" form:"title"`
	HiringManager      string `json:"hiring_manager" form:"hiring_manager"`
	Status             string `json:"status" form:"status"`
	ClosingDate        string `json:"closing_date" form:"closing_date"`
	Description        string `json:"description" form:"description"`
	Location           string `json:"location" form:"location"`
	ExperienceRequired string `json:"experience_required" form:"experience_required"`
}

type UpdateJobRequest struct {
	Title              *string `json:"title"`
	HiringManager      *string `json:"hiring_manager"`
	Status             *string `json:"status"`
	ClosingDate        *string `json:"closing_date"`
	Description        *string `json:"description"`
	Location           *string `json:"location"`
	ExperienceRequired *string `json:"experience_required"`
}

// ParseDate accepts a plain date or an RFC 3339 timestamp. Empty is nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

func (r UpdateJobRequest) Patch() (job.Patch, error) {
	p := job.Patch{
		Title:              r.Title,
		HiringManager:      r.HiringManager,
		Description:        r.Description,
		Location:           r.Location,
		ExperienceRequired: r.ExperienceRequired,
	}
	if r.Status != nil {
		st, err := job.ParseStatus(*r.Status)
		if err != nil {
			return job.Patch{}, err
		}
		p.Status = &st
	}
	if r.ClosingDate != nil {
		d, err := ParseDate(*r.ClosingDate)
		if err != nil {
			return job.Patch{}, err
		}
		p.ClosingDate = d
	}
	return p, nil
}
