package queue

import (
	"context"

	"github.com/tenantgate/tenantgate/internal/application/ports"
)

// NoopEnqueuer is a no-op enqueuer when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueAudit(ctx context.Context, ev ports.AuditEvent) error {
	return nil
}

var _ ports.AuditEnqueuer = (*NoopEnqueuer)(nil)
