package middleware

import (
	"net/http"

	"github.com/tenantgate/tenantgate/internal/domain"
)

// RequireCapability gates a tenant-scoped handler on the capability set of
// the resolved tenant context. Missing tenant context or a failed check
// denies with 403; there is no default grant.
func RequireCapability(check func(domain.CapabilitySet) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := TenantFromContext(r.Context())
			if tenant == nil || !check(tenant.Capabilities) {
				RecordDecision(StageCapability, "forbidden")
				writeError(w, http.StatusForbidden, "organization access denied", ReasonInsufficientCapabilities)
				return
			}
			RecordDecision(StageCapability, "allowed")
			next.ServeHTTP(w, r)
		})
	}
}
