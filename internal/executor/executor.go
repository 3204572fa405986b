package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanketp27/travel-concierge/internal/observability"
	"github.com/sanketp27/travel-concierge/internal/task"
	"github.com/sanketp27/travel-concierge/internal/tool"
	"github.com/sanketp27/travel-concierge/internal/types"
)

const (
	// DefaultPoolSize bounds concurrent tool invocations.
	DefaultPoolSize = 10

	// DefaultRetryDelay is the pause between retry attempts after a
	// transport failure.
	DefaultRetryDelay = 500 * time.Millisecond
)

// Executor runs the pending tasks of a plan against a tool registry with
// bounded parallelism, per-run response caching, and transport retries.
// It mutates the task objects it is handed; no two workers ever touch
// the same task.
type Executor struct {
	registry    tool.Registry
	cache       Cache
	poolSize    int
	taskTimeout time.Duration
	retryDelay  time.Duration
	logger      *slog.Logger
	tracer      trace.Tracer
}

// Option is a functional option for configuring an Executor.
type Option func(*Executor)

// WithPoolSize sets the maximum number of tasks executing concurrently.
func WithPoolSize(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.poolSize = n
		}
	}
}

// WithTaskTimeout sets a per-task deadline. Zero means no deadline and a
// stuck tool call holds its worker slot for the run's duration.
func WithTaskTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.taskTimeout = d
	}
}

// WithRetryDelay sets the pause between transport retry attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d >= 0 {
			e.retryDelay = d
		}
	}
}

// WithCache replaces the per-executor response cache.
func WithCache(cache Cache) Option {
	return func(e *Executor) {
		if cache != nil {
			e.cache = cache
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithTracer sets the tracer that spans each task execution.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Executor) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// New creates an Executor over the given registry.
func New(registry tool.Registry, opts ...Option) *Executor {
	e := &Executor{
		registry:   registry,
		cache:      NewMemoryCache(),
		poolSize:   DefaultPoolSize,
		retryDelay: DefaultRetryDelay,
		logger:     slog.Default(),
		tracer:     trace.NewNoopTracerProvider().Tracer("executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every pending top-level task in the plan. Tasks are
// dispatched in descending priority order, ties keeping plan order, and
// may complete in any order. The call blocks until every dispatched task
// reaches completed or failed, then returns aggregate counts. The summed
// execution time reflects aggregate work, not wall clock.
func (e *Executor) Execute(ctx context.Context, plan task.Plan) (task.ExecutionSummary, error) {
	pending := plan.Pending()
	if len(pending) == 0 {
		return task.ExecutionSummary{}, nil
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Task.Priority > pending[j].Task.Priority
	})

	e.logger.Info("executing tasks",
		"pending", len(pending),
		"pool_size", e.poolSize,
	)

	sem := make(chan struct{}, e.poolSize)
	var wg sync.WaitGroup

	for _, pt := range pending {
		sem <- struct{}{}
		wg.Add(1)

		go func(category task.Category, t *task.Task) {
			defer wg.Done()
			defer func() { <-sem }()

			elapsed := e.executeOne(ctx, t)

			e.logger.Debug("task finished",
				"category", category.String(),
				"function", t.Function,
				"status", t.Status.String(),
				"cached", t.Cached,
				"elapsed", elapsed,
			)
		}(pt.Category, pt.Task)
	}

	wg.Wait()

	summary := task.ExecutionSummary{TotalCount: len(pending)}
	for _, pt := range pending {
		summary.TotalExecutionTime += pt.Task.ExecutionTime
		switch pt.Task.Status {
		case task.StatusCompleted:
			summary.CompletedCount++
		case task.StatusFailed:
			summary.FailedCount++
		}
	}

	e.logger.Info("execution round complete",
		"total", summary.TotalCount,
		"completed", summary.CompletedCount,
		"failed", summary.FailedCount,
		"total_execution_time", summary.TotalExecutionTime,
	)

	return summary, nil
}

// executeOne runs a single task: cache short-circuit, then the tool call
// with transport retries. Domain error payloads fail the task without
// retrying.
func (e *Executor) executeOne(ctx context.Context, t *task.Task) time.Duration {
	start := time.Now()
	t.Status = task.StatusInProgress

	ctx, span := e.tracer.Start(ctx, observability.SpanTaskExecute,
		trace.WithAttributes(observability.TaskAttributes(t)...))
	defer func() {
		span.SetAttributes(attribute.Bool(observability.ConciergeTaskCached, t.Cached))
		if t.Status == task.StatusFailed {
			span.SetStatus(codes.Error, t.Error)
		}
		span.End()
	}()

	cacheKey := fmt.Sprintf("task_%s", t.TaskID)
	if cached, ok := e.cache.Get(cacheKey); ok {
		t.Response = cached
		t.Status = task.StatusCompleted
		t.Cached = true
		t.ExecutionTime = time.Since(start)
		return t.ExecutionTime
	}

	taskCtx := ctx
	if e.taskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, e.taskTimeout)
		defer cancel()
	}

	for t.RetryCount < t.MaxRetries {
		result, err := e.registry.Execute(taskCtx, t.Function, t.Request)

		if err == nil {
			if tool.IsErrorPayload(result) {
				// Domain failure: the tool answered, the answer is a
				// refusal. Retrying will not change it.
				t.Error, _ = result["error"].(string)
				t.Status = task.StatusFailed
			} else {
				t.Response = result
				t.Status = task.StatusCompleted
				e.cache.Set(cacheKey, result)
			}
			break
		}

		t.Error = err.Error()

		if !types.IsRetryable(err) {
			t.Status = task.StatusFailed
			break
		}

		t.RetryCount++
		if t.RetryCount >= t.MaxRetries {
			t.Status = task.StatusFailed
			e.logger.Warn("max retries reached",
				"function", t.Function,
				"retry_count", t.RetryCount,
			)
			break
		}

		e.logger.Debug("retrying task",
			"function", t.Function,
			"retry_count", t.RetryCount,
			"max_retries", t.MaxRetries,
		)

		select {
		case <-time.After(e.retryDelay):
		case <-taskCtx.Done():
			t.Error = taskCtx.Err().Error()
			t.Status = task.StatusFailed
			t.ExecutionTime = time.Since(start)
			return t.ExecutionTime
		}
	}

	t.ExecutionTime = time.Since(start)
	return t.ExecutionTime
}
