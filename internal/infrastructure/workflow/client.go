package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"recruit-dash/internal/config"
	"recruit-dash/internal/logger"
	"recruit-dash/internal/metrics"

	"go.uber.org/zap"
)

const (
	OpCreateJob          = "create_job"
	OpInterviewPack      = "generate_interview_pack"
	OpSendShortlistEmail = "send_shortlist_email"

	apiKeyHeader = "hr_api"
	maxErrorBody = 4096
)

var (
	ErrNotConfigured = errors.New("workflow endpoint not configured")
	ErrNoDocument    = errors.New("job description document is required")
	ErrMissingJobID  = errors.New("workflow response carried no job id")
)

// StatusError is returned for any non-2xx webhook response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("workflow %s failed: status=%d body=%s", e.Op, e.StatusCode, e.Body)
}

type Client interface {
	CreateJob(ctx context.Context, details JobDetails, doc *Document) (string, error)
	GenerateInterviewPack(ctx context.Context, jobID string) (InterviewPack, error)
	SendShortlistEmail(ctx context.Context, jobID string) error
}

// JobDetails is serialized into the jobDetails multipart field.
type JobDetails struct {
	JobTitle      string `json:"jobTitle"`
	HiringManager string `json:"hiringManager"`
	Status        string `json:"status"`
	ClosingDate   string `json:"closingDate"`
}

type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

type InterviewPack struct {
	URL string
	Raw map[string]any
}

type HTTPClient struct {
	baseURL          string
	apiKey           string
	paths            config.WorkflowConfig
	client           *http.Client
	shortlistTimeout time.Duration
	log              *zap.Logger
}

// NewClient returns nil when no base URL is configured; a nil *HTTPClient
// fails every call with ErrNotConfigured.
func NewClient(cfg config.WorkflowConfig, log *zap.Logger) *HTTPClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	short := cfg.ShortlistTimeout
	if short <= 0 {
		short = 5 * time.Second
	}
	return &HTTPClient{
		baseURL:          baseURL,
		apiKey:           cfg.APIKey,
		paths:            cfg,
		client:           &http.Client{Timeout: timeout},
		shortlistTimeout: short,
		log:              logger.OrNop(log).Named("workflow"),
	}
}

func (c *HTTPClient) CreateJob(ctx context.Context, details JobDetails, doc *Document) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	if doc == nil || len(doc.Data) == 0 {
		return "", ErrNoDocument
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return "", err
	}
	if err := mw.WriteField("jobDetails", string(detailsJSON)); err != nil {
		return "", err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="jobDescription"; filename=%q`, fileName(doc.Filename)))
	ct := strings.TrimSpace(doc.ContentType)
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(doc.Data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	body, err := c.post(ctx, OpCreateJob, c.paths.CreateJobPath, mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	id := extractJobID(body)
	if id == "" {
		return "", ErrMissingJobID
	}
	return id, nil
}

func (c *HTTPClient) GenerateInterviewPack(ctx context.Context, jobID string) (InterviewPack, error) {
	if c == nil {
		return InterviewPack{}, ErrNotConfigured
	}
	b, err := jobIDBody(jobID)
	if err != nil {
		return InterviewPack{}, err
	}

	body, err := c.post(ctx, OpInterviewPack, c.paths.InterviewPackPath, "application/json", bytes.NewReader(b))
	if err != nil {
		return InterviewPack{}, err
	}

	var out InterviewPack
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out.Raw); err != nil {
		// Arrays and scalars carry nothing we read; the follow-up job read is
		// authoritative.
		c.log.Debug("interview pack response not an object", zap.String("body", logger.Truncate(string(body), 256)))
		return out, nil
	}
	out.URL = firstString(out.Raw, "interviewPackUrl", "interview_pack_url", "url")
	return out, nil
}

// SendShortlistEmail treats an empty or non-JSON 2xx body as success.
func (c *HTTPClient) SendShortlistEmail(ctx context.Context, jobID string) error {
	if c == nil {
		return ErrNotConfigured
	}
	b, err := jobIDBody(jobID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.shortlistTimeout)
	defer cancel()

	body, err := c.post(ctx, OpSendShortlistEmail, c.paths.ShortlistEmailPath, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
		c.log.Debug("shortlist email response not json", zap.String("body", logger.Truncate(string(body), 256)))
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, op, path, contentType string, body io.Reader) (out []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.WorkflowCalls.WithLabelValues(op, metrics.Outcome(err)).Inc()
		metrics.WorkflowDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("workflow request failed", zap.String("op", op), zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("workflow %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		bodyStr := strings.TrimSpace(string(rb))
		c.log.Warn("workflow non-2xx response",
			zap.String("op", op),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", bodyStr),
		)
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: bodyStr}
	}

	out, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("workflow %s: read body: %w", op, err)
	}
	return out, nil
}

func jobIDBody(jobID string) ([]byte, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, errors.New("job id is required")
	}
	return json.Marshal(map[string]string{"jobId": jobID})
}

func fileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "job-description"
	}
	return name
}

// extractJobID accepts {"id":..}, {"jobId":..}, {"job":{"id":..}} or an
// array whose first element has one of those shapes.
func extractJobID(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return ""
	}
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return ""
		}
		v = arr[0]
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if id := firstString(obj, "id", "jobId", "job_id"); id != "" {
		return id
	}
	if nested, ok := obj["job"].(map[string]any); ok {
		return firstString(nested, "id", "jobId", "job_id")
	}
	return ""
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		switch t := obj[k].(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return ""
}

var _ Client = (*HTTPClient)(nil)
