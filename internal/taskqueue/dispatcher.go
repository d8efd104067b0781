package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Task describes a deferred unit of work to hand off to the durable queue.
// The queue owns durability, delivery retries and at-least-once redelivery of
// the task's execution; handlers invoked through it must tolerate re-runs.
type Task struct {
	Queue     string          // queue name, e.g. "ls-reports"
	HandlerID string          // target handler identifier, e.g. "postLiveStreamReport"
	Payload   json.RawMessage // JSON-serializable task payload
	RunAfter  time.Duration   // earliest-execution delay from now; negative values are clamped to 0
}

// Config holds the fixed deployment namespace used to compute handler
// invocation URLs plus the queue service endpoint.
type Config struct {
	BaseURL       string // queue service API base URL
	APIKey        string
	Project       string
	Location      string
	InvokerDomain string // domain serving handler invocations, e.g. "taskrun.velvet.video"
}

// Dispatcher submits task descriptors to the queue service over its REST API.
// It has no retry logic of its own; a failure to reach the queue service is
// returned to the caller as-is.
type Dispatcher struct {
	logger     *slog.Logger
	httpClient *http.Client
	cfg        Config
}

func NewDispatcher(cfg Config, logger *slog.Logger, httpClient *http.Client) *Dispatcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Dispatcher{
		logger:     logger.With("component", "taskqueue_dispatcher"),
		httpClient: httpClient,
		cfg:        cfg,
	}
}

type httpRequestSpec struct {
	HTTPMethod string            `json:"http_method"`
	URL        string            `json:"url"`
	Body       string            `json:"body"` // base64-encoded request body
	Headers    map[string]string `json:"headers,omitempty"`
}

type scheduleTimeSpec struct {
	Seconds int64 `json:"seconds"`
}

// TaskDescriptor is the wire shape submitted to the queue service.
type TaskDescriptor struct {
	HTTPRequest  httpRequestSpec  `json:"http_request"`
	ScheduleTime scheduleTimeSpec `json:"schedule_time"`
}

type createTaskRequest struct {
	Task TaskDescriptor `json:"task"`
}

// InvocationURL computes the handler's target URL from the handler identifier
// and the fixed region/deployment namespace.
func (d *Dispatcher) InvocationURL(handlerID string) string {
	return fmt.Sprintf("https://%s-%s.%s/%s", d.cfg.Location, d.cfg.Project, d.cfg.InvokerDomain, handlerID)
}

// Schedule enqueues one task such that the handler is invoked via HTTP POST
// no earlier than now + task.RunAfter.
func (d *Dispatcher) Schedule(ctx context.Context, task Task) error {
	runAfter := task.RunAfter
	if runAfter < 0 {
		runAfter = 0
	}

	envelope, err := json.Marshal(map[string]json.RawMessage{"data": task.Payload})
	if err != nil {
		return fmt.Errorf("failed to marshal task payload envelope: %w", err)
	}

	descriptor := TaskDescriptor{
		HTTPRequest: httpRequestSpec{
			HTTPMethod: http.MethodPost,
			URL:        d.InvocationURL(task.HandlerID),
			Body:       base64.StdEncoding.EncodeToString(envelope),
			Headers:    map[string]string{"Content-Type": "application/json"},
		},
		ScheduleTime: scheduleTimeSpec{
			Seconds: time.Now().UTC().Add(runAfter).Unix(),
		},
	}

	reqBytes, err := json.Marshal(createTaskRequest{Task: descriptor})
	if err != nil {
		return fmt.Errorf("failed to marshal create-task request: %w", err)
	}

	queuePath := fmt.Sprintf("%s/v1/projects/%s/locations/%s/queues/%s/tasks",
		d.cfg.BaseURL, d.cfg.Project, d.cfg.Location, task.Queue)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, queuePath, bytes.NewBuffer(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to create queue service request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+d.cfg.APIKey)

	d.logger.DebugContext(ctx, "Submitting task to queue service",
		"queue", task.Queue, "handler", task.HandlerID, "schedule_seconds", descriptor.ScheduleTime.Seconds)

	httpResp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach queue service: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return fmt.Errorf("queue service rejected task (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	d.logger.InfoContext(ctx, "Task enqueued",
		"queue", task.Queue, "handler", task.HandlerID, "run_after", runAfter.String())
	return nil
}
