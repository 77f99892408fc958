package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/infrastructure/cache"
	"recruit-dash/internal/logger"
	"recruit-dash/internal/repository"
	"recruit-dash/internal/ws"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const (
	EventApplicantReceived  = "applicant_received"
	EventScoringCompleted   = "scoring_completed"
	EventInterviewPackReady = "interview_pack_ready"
	EventShortlistEmailSent = "shortlist_email_sent"
)

// WorkflowEvent is posted by the external automation after it has written
// to the datastore.
type WorkflowEvent struct {
	Type        string         `mapstructure:"type" json:"type"`
	JobID       string         `mapstructure:"job_id" json:"job_id,omitempty"`
	ApplicantID string         `mapstructure:"applicant_id" json:"applicant_id,omitempty"`
	OccurredAt  string         `mapstructure:"occurred_at" json:"occurred_at,omitempty"`
	Data        map[string]any `mapstructure:"data" json:"data,omitempty"`
}

const workflowEventSchema = `{
	"type": "object",
	"required": ["type"],
	"properties": {
		"type": {"enum": ["applicant_received", "scoring_completed", "interview_pack_ready", "shortlist_email_sent"]},
		"job_id": {"type": "string", "minLength": 1},
		"applicant_id": {"type": "string", "minLength": 1},
		"occurred_at": {"type": "string"},
		"data": {"type": "object"}
	},
	"allOf": [
		{
			"if": {"properties": {"type": {"enum": ["applicant_received", "scoring_completed"]}}},
			"then": {"required": ["applicant_id"]}
		},
		{
			"if": {"properties": {"type": {"enum": ["interview_pack_ready", "shortlist_email_sent"]}}},
			"then": {"required": ["job_id"]}
		}
	]
}`

var workflowEventLoader = gojsonschema.NewStringLoader(workflowEventSchema)

// ParseWorkflowEvent validates body against the event schema and decodes it.
func ParseWorkflowEvent(body []byte) (WorkflowEvent, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return WorkflowEvent{}, fmt.Errorf("%w: body must be a json object", ErrInvalidInput)
	}

	result, err := gojsonschema.Validate(workflowEventLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return WorkflowEvent{}, fmt.Errorf("%w: validation error: %w", ErrInvalidInput, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return WorkflowEvent{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}

	var evt WorkflowEvent
	if err := mapstructure.Decode(raw, &evt); err != nil {
		return WorkflowEvent{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return evt, nil
}

type WorkflowEventUsecase interface {
	Handle(ctx context.Context, evt WorkflowEvent) error
}

// ApplicantLookup resolves the job an applicant-scoped event belongs to.
type ApplicantLookup interface {
	GetByID(ctx context.Context, id string) (candidate.Record, error)
}

// EventGuard claims an event delivery once. A false claim is a duplicate.
type EventGuard interface {
	ClaimOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type WorkflowEventOptions struct {
	Applicants ApplicantLookup
	Cache      CacheInvalidator
	Guard      EventGuard
	Publisher  ws.Publisher
	DedupeTTL  time.Duration
}

const defaultEventDedupeTTL = 10 * time.Minute

type WorkflowEvents struct {
	applicants ApplicantLookup
	guard      EventGuard
	dedupeTTL  time.Duration
	log        *zap.Logger
	changeNotifier
}

func NewWorkflowEventUsecase(opts WorkflowEventOptions, log *zap.Logger) *WorkflowEvents {
	log = logger.OrNop(log).Named("workflow_events")
	ttl := opts.DedupeTTL
	if ttl <= 0 {
		ttl = defaultEventDedupeTTL
	}
	return &WorkflowEvents{
		applicants:     opts.Applicants,
		guard:          opts.Guard,
		dedupeTTL:      ttl,
		log:            log,
		changeNotifier: newChangeNotifier(opts.Cache, opts.Publisher, log),
	}
}

// Handle drops cached aggregates and tells clients to re-fetch. Events that
// carry only an applicant are resolved to their job so that job's cached
// results go too. Redeliveries with the same occurred_at are acknowledged
// without a second broadcast.
func (u *WorkflowEvents) Handle(ctx context.Context, evt WorkflowEvent) error {
	switch evt.Type {
	case EventApplicantReceived, EventScoringCompleted, EventInterviewPackReady, EventShortlistEmailSent:
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, evt.Type)
	}

	if strings.TrimSpace(evt.JobID) == "" && strings.TrimSpace(evt.ApplicantID) != "" && u.applicants != nil {
		rec, err := u.applicants.GetByID(ctx, strings.TrimSpace(evt.ApplicantID))
		switch {
		case err == nil:
			evt.JobID = rec.JobID
		case repository.CodeOf(err) == repository.CodeNotFound:
			u.log.Warn("workflow event names unknown applicant", zap.String("applicant_id", evt.ApplicantID))
		default:
			return storeErr(err, ErrApplicantNotFound)
		}
	}

	if u.duplicate(ctx, evt) {
		u.log.Debug("duplicate workflow event ignored",
			zap.String("type", evt.Type),
			zap.String("occurred_at", evt.OccurredAt),
		)
		return nil
	}

	u.log.Info("workflow event received",
		zap.String("type", evt.Type),
		zap.String("job_id", evt.JobID),
		zap.String("applicant_id", evt.ApplicantID),
	)
	u.changed(ctx, ws.Event{
		Type:        ws.EventDataRefreshed,
		JobID:       evt.JobID,
		ApplicantID: evt.ApplicantID,
		Source:      evt.Type,
		Payload:     evt.Data,
	})
	return nil
}

func (u *WorkflowEvents) duplicate(ctx context.Context, evt WorkflowEvent) bool {
	if u.guard == nil || strings.TrimSpace(evt.OccurredAt) == "" {
		return false
	}
	key := cache.EventKey(evt.Type, evt.JobID, evt.ApplicantID, evt.OccurredAt)
	ok, err := u.guard.ClaimOnce(ctx, key, u.dedupeTTL)
	if err != nil {
		u.log.Warn("workflow event dedupe failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return !ok
}
