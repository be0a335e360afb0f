package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/tenantgate/tenantgate/internal/application/ports"
)

// Worker runs Asynq task handlers (audit trail consumption). Call Run() to
// start.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. emitter may be
// a NoopEmitter when no webhook sink is configured.
func NewWorker(redisOpt asynq.RedisClientOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, emitter: emitter, log: log}
	mux.HandleFunc(TypeAuthzAudit, w.handleAudit)
	return w
}

func (w *Worker) handleAudit(ctx context.Context, t *asynq.Task) error {
	var ev ports.AuditEvent
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		w.log.Error().Err(err).Msg("audit task payload invalid")
		return err
	}
	w.log.Info().
		Str("request_id", ev.RequestID).
		Str("stage", ev.Stage).
		Str("outcome", ev.Outcome).
		Str("reason", ev.Reason).
		Str("user_id", ev.UserID).
		Str("organization_id", ev.OrganizationID).
		Str("path", ev.Path).
		Msg("authorization audit event")
	if w.emitter != nil {
		// Returning the error lets asynq retry delivery to the sink.
		return w.emitter.Emit(ctx, ev)
	}
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
