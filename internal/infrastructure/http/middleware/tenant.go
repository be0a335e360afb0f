package middleware

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tenantgate/tenantgate/internal/application/authz"
	"github.com/tenantgate/tenantgate/internal/application/ports"
	domerrors "github.com/tenantgate/tenantgate/internal/domain/errors"
)

// OrganizationHeader names the organization a tenant-scoped request acts
// within. The resolved id is echoed back in the same response header for
// client and observability correlation.
const OrganizationHeader = "X-Organization-ID"

// TenantGuard is the tenant stage of the pipeline: it resolves the
// organization header against the caller's memberships and sets the tenant
// context (see TenantFromContext). Runs strictly after the identity stage;
// every tenant failure is 403 with the specific reason in the error list.
type TenantGuard struct {
	resolver    *authz.Resolver
	audit       ports.AuditEnqueuer
	log         zerolog.Logger
	development bool
}

func NewTenantGuard(resolver *authz.Resolver, audit ports.AuditEnqueuer, log zerolog.Logger, development bool) *TenantGuard {
	return &TenantGuard{
		resolver:    resolver,
		audit:       audit,
		log:         log,
		development: development,
	}
}

func (m *TenantGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity == nil {
			// The pipeline never runs this stage before the identity stage;
			// reaching here without one is a wiring bug, denied anyway.
			RecordDecision(StageTenant, "unauthorized")
			writeError(w, http.StatusUnauthorized, "missing or invalid credentials", domerrors.Reason(domerrors.ErrIdentityNotFound))
			return
		}

		rawOrgID := r.Header.Get(OrganizationHeader)
		tenant, err := m.resolver.Resolve(r.Context(), identity, rawOrgID)
		if err != nil {
			if domerrors.IsTenantError(err) {
				m.deny(w, r, identity.ID.String(), rawOrgID, domerrors.Reason(err))
				return
			}
			RecordDecision(StageTenant, "error")
			writeInternal(w, r, m.log, err, m.development)
			return
		}

		RecordDecision(StageTenant, "resolved")
		if m.audit != nil {
			_ = m.audit.EnqueueAudit(r.Context(), ports.AuditEvent{
				RequestID:      chimid.GetReqID(r.Context()),
				Stage:          StageTenant,
				Outcome:        "resolved",
				UserID:         identity.ID.String(),
				OrganizationID: tenant.OrganizationID.String(),
				Path:           r.URL.Path,
			})
		}
		w.Header().Set(OrganizationHeader, tenant.OrganizationID.String())
		ctx := WithTenant(r.Context(), tenant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *TenantGuard) deny(w http.ResponseWriter, r *http.Request, userID, rawOrgID, reason string) {
	RecordDecision(StageTenant, "forbidden")
	if m.audit != nil {
		_ = m.audit.EnqueueAudit(r.Context(), ports.AuditEvent{
			RequestID:      chimid.GetReqID(r.Context()),
			Stage:          StageTenant,
			Outcome:        "forbidden",
			Reason:         reason,
			UserID:         userID,
			OrganizationID: rawOrgID,
			Path:           r.URL.Path,
		})
	}
	writeError(w, http.StatusForbidden, "organization access denied", reason)
}
