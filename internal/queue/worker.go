package queue

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/lead-webhook/internal/config"
)

// Processor handles one finalize body. A returned error makes the queue
// retry the task.
type Processor interface {
	Process(ctx context.Context, body []byte) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, body []byte) error

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, body []byte) error { return f(ctx, body) }

// Worker drains the finalize queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	proc   Processor
}

// NewWorker builds a worker for cfg that hands every task to proc.
func NewWorker(cfg config.QueueConfig, proc Processor) (*Worker, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, ErrNotConfigured
	}

	opt, err := redisClientOpt(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.Name
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 4
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
		Logger:   asynqLogger{},
		LogLevel: asynq.WarnLevel,
	})

	mux := asynq.NewServeMux()
	w := &Worker{server: server, mux: mux, proc: proc}
	mux.HandleFunc(TaskFinalizeLead, w.handleFinalize)
	return w, nil
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		log.Error().Err(err).Msg("queue_worker_stopped")
	}
}

func (w *Worker) handleFinalize(ctx context.Context, task *asynq.Task) error {
	id, _ := asynq.GetTaskID(ctx)
	retry, _ := asynq.GetRetryCount(ctx)
	l := log.With().Str("task_id", id).Int("retry", retry).Logger()
	ctx = l.WithContext(ctx)

	if err := w.proc.Process(ctx, task.Payload()); err != nil {
		l.Warn().Err(err).Msg("queue_task_failed")
		return err
	}
	l.Info().Msg("queue_task_done")
	return nil
}

// asynqLogger routes asynq's internal logging through zerolog.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { log.Debug().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...any)  { log.Info().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...any)  { log.Warn().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...any) { log.Error().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...any) { log.Fatal().Msg(fmt.Sprint(args...)) }
