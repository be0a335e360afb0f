package ports

import "context"

// WebhookEmitter ships audit events to an external security event sink.
type WebhookEmitter interface {
	Emit(ctx context.Context, event AuditEvent) error
}
