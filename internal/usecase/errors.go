package usecase

import (
	"errors"
	"fmt"

	"recruit-dash/internal/repository"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
	ErrInvalidInput        = errors.New("invalid input")
	ErrPermissionDenied    = errors.New("Permission denied")

	ErrJobNotFound       = errors.New("Job not found")
	ErrJobHasApplicants  = errors.New("Cannot delete a job that has applicants")
	ErrApplicantNotFound = errors.New("Applicant not found")
	ErrReportNotFound    = errors.New("Report not found")
	ErrWorkflowFailed    = errors.New("Workflow request failed")
)

// storeErr maps a repository failure onto the usecase vocabulary, keeping
// the cause reachable through errors.Unwrap.
func storeErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	switch repository.CodeOf(err) {
	case repository.CodeNotFound:
		return notFound
	case repository.CodePermissionDenied:
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
