package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/infrastructure/cache"
	"recruit-dash/internal/repository"
	"recruit-dash/internal/ws"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorkflowEvent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    WorkflowEvent
	}{
		{
			name: "scoring completed",
			body: `{"type":"scoring_completed","applicant_id":"a1","job_id":"j1","data":{"overall":88}}`,
			want: WorkflowEvent{Type: EventScoringCompleted, ApplicantID: "a1", JobID: "j1", Data: map[string]any{"overall": float64(88)}},
		},
		{
			name: "interview pack ready",
			body: `{"type":"interview_pack_ready","job_id":"j1","occurred_at":"2026-03-01T10:00:00Z"}`,
			want: WorkflowEvent{Type: EventInterviewPackReady, JobID: "j1", OccurredAt: "2026-03-01T10:00:00Z"},
		},
		{name: "not json", body: `type=x`, wantErr: true},
		{name: "array", body: `[]`, wantErr: true},
		{name: "unknown type", body: `{"type":"applicant_deleted","applicant_id":"a1"}`, wantErr: true},
		{name: "applicant event without applicant", body: `{"type":"applicant_received","job_id":"j1"}`, wantErr: true},
		{name: "job event without job", body: `{"type":"shortlist_email_sent"}`, wantErr: true},
		{name: "wrong field type", body: `{"type":"scoring_completed","applicant_id":7}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWorkflowEvent([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkflowEvents_Handle(t *testing.T) {
	inv := &recordingInvalidator{}
	pub := &recordingPublisher{}
	uc := NewWorkflowEventUsecase(WorkflowEventOptions{Cache: inv, Publisher: pub}, nil)

	err := uc.Handle(context.Background(), WorkflowEvent{Type: EventApplicantReceived, JobID: "j1", ApplicantID: "a9"})
	require.NoError(t, err)
	assert.Equal(t, []string{"j1"}, inv.jobIDs)
	require.Len(t, pub.events, 1)
	assert.Equal(t, ws.EventDataRefreshed, pub.events[0].Type)
	assert.Equal(t, EventApplicantReceived, pub.events[0].Source)

	err = uc.Handle(context.Background(), WorkflowEvent{Type: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, pub.events, 1)
}

func TestWorkflowEvents_ScoringCompletedRefreshesJobResults(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.New(client, time.Minute, nil)

	repo := seededApplicants()
	applicants := NewApplicantUsecase(repo, ApplicantOptions{Results: c, Cache: c}, nil)
	pub := &recordingPublisher{}
	events := NewWorkflowEventUsecase(WorkflowEventOptions{Applicants: repo, Cache: c, Guard: c, Publisher: pub}, nil)
	ctx := context.Background()

	before, err := applicants.Results(ctx, "j1", false)
	require.NoError(t, err)
	require.Equal(t, "a2", before.Top[0].ID)
	require.True(t, mr.Exists(cache.JobKey("j1", "results")))

	i, ok := repo.find("a4")
	require.True(t, ok)
	repo.recs[i].Composite = []byte(`{"overall":97}`)

	require.NoError(t, events.Handle(ctx, WorkflowEvent{Type: EventScoringCompleted, ApplicantID: "a4"}))
	assert.False(t, mr.Exists(cache.JobKey("j1", "results")))
	require.Len(t, pub.events, 1)
	assert.Equal(t, "j1", pub.events[0].JobID)

	after, err := applicants.Results(ctx, "j1", false)
	require.NoError(t, err)
	assert.Equal(t, "a4", after.Top[0].ID)
	assert.InDelta(t, 97, after.Top[0].Scores.Overall, 1e-9)
}

type failingLookup struct{ err error }

func (f failingLookup) GetByID(context.Context, string) (candidate.Record, error) {
	return candidate.Record{}, f.err
}

func TestWorkflowEvents_ApplicantLookupFailures(t *testing.T) {
	t.Run("unknown applicant still refreshes", func(t *testing.T) {
		inv := &recordingInvalidator{}
		pub := &recordingPublisher{}
		uc := NewWorkflowEventUsecase(WorkflowEventOptions{
			Applicants: failingLookup{err: &repository.StoreError{Op: "get applicant", Code: repository.CodeNotFound}},
			Cache:      inv,
			Publisher:  pub,
		}, nil)

		require.NoError(t, uc.Handle(context.Background(), WorkflowEvent{Type: EventApplicantReceived, ApplicantID: "gone"}))
		assert.Equal(t, []string{""}, inv.jobIDs)
		assert.Len(t, pub.events, 1)
	})

	t.Run("store failure is returned so the workflow retries", func(t *testing.T) {
		pub := &recordingPublisher{}
		uc := NewWorkflowEventUsecase(WorkflowEventOptions{
			Applicants: failingLookup{err: errors.New("connection reset")},
			Publisher:  pub,
		}, nil)

		err := uc.Handle(context.Background(), WorkflowEvent{Type: EventScoringCompleted, ApplicantID: "a1"})
		assert.ErrorIs(t, err, ErrInternal)
		assert.Empty(t, pub.events)
	})
}

func TestWorkflowEvents_RedeliveryIsIgnored(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.New(client, time.Minute, nil)

	pub := &recordingPublisher{}
	uc := NewWorkflowEventUsecase(WorkflowEventOptions{Guard: c, Publisher: pub}, nil)
	ctx := context.Background()

	evt := WorkflowEvent{Type: EventShortlistEmailSent, JobID: "j1", OccurredAt: "2026-03-01T10:00:00Z"}
	require.NoError(t, uc.Handle(ctx, evt))
	require.NoError(t, uc.Handle(ctx, evt))
	assert.Len(t, pub.events, 1)

	evt.OccurredAt = "2026-03-01T10:05:00Z"
	require.NoError(t, uc.Handle(ctx, evt))
	assert.Len(t, pub.events, 2)

	undated := WorkflowEvent{Type: EventShortlistEmailSent, JobID: "j1"}
	require.NoError(t, uc.Handle(ctx, undated))
	require.NoError(t, uc.Handle(ctx, undated))
	assert.Len(t, pub.events, 4)
}
