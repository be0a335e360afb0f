package ports

import "context"

// AuditEvent is a fire-and-forget record of one authorization decision.
type AuditEvent struct {
	RequestID      string `json:"request_id"`
	Stage          string `json:"stage"`
	Outcome        string `json:"outcome"`
	Reason         string `json:"reason,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	Path           string `json:"path"`
}

// AuditEnqueuer enqueues audit events for async processing. Enqueue failures
// must never fail the request.
type AuditEnqueuer interface {
	EnqueueAudit(ctx context.Context, ev AuditEvent) error
}
