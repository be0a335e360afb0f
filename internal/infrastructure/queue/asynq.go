package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/tenantgate/tenantgate/internal/application/ports"
)

const (
	TypeAuthzAudit = "authz:audit"
)

// AuditEnqueuer enqueues authorization audit events on asynq. Enqueue
// failures are logged and swallowed: the audit trail is best-effort and must
// never fail or delay the authorization decision itself.
type AuditEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) (*AuditEnqueuer, error) {
	client := asynq.NewClient(redisOpt)
	return &AuditEnqueuer{client: client, log: log}, nil
}

func (q *AuditEnqueuer) Close() error {
	return q.client.Close()
}

func (q *AuditEnqueuer) EnqueueAudit(ctx context.Context, ev ports.AuditEvent) error {
	payload, _ := json.Marshal(ev)
	task := asynq.NewTask(TypeAuthzAudit, payload)
	// Detached from the request context: the decision is already made, and
	// a client disconnect should not lose the audit record.
	_, err := q.client.Enqueue(task)
	if err != nil {
		q.log.Warn().Err(err).Str("stage", ev.Stage).Str("outcome", ev.Outcome).Msg("enqueue audit event failed")
		return err
	}
	return nil
}

var _ ports.AuditEnqueuer = (*AuditEnqueuer)(nil)
