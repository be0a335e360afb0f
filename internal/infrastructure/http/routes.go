package http

import (
	"net/http"

	"github.com/tenantgate/tenantgate/internal/domain"
)

// Trust is a route's trust level. The zero value is TrustTenantScoped so
// anything not explicitly marked otherwise fails closed, not open.
type Trust int

const (
	TrustTenantScoped Trust = iota
	TrustPublic
	TrustIdentityOnly
)

func (t Trust) String() string {
	switch t {
	case TrustPublic:
		return "public"
	case TrustIdentityOnly:
		return "identity_only"
	default:
		return "tenant_scoped"
	}
}

// Route is one declarative route entry. Capability, when set, additionally
// gates a tenant-scoped handler on the resolved capability set.
type Route struct {
	Method     string
	Pattern    string
	Trust      Trust
	Capability func(domain.CapabilitySet) bool
	Handler    http.Handler
}

// Classifier is the startup-built lookup from route to trust level,
// consulted by the pipeline instead of any per-request reflection. Routes
// absent from the table classify as tenant-scoped.
type Classifier struct {
	trusts map[string]Trust
}

// NewClassifier builds the lookup once from the declarative route metadata.
func NewClassifier(routes []Route) *Classifier {
	trusts := make(map[string]Trust, len(routes))
	for _, rt := range routes {
		trusts[routeKey(rt.Method, rt.Pattern)] = rt.Trust
	}
	return &Classifier{trusts: trusts}
}

// Classify returns the trust level for a route. Unknown routes are
// tenant-scoped.
func (c *Classifier) Classify(method, pattern string) Trust {
	return c.trusts[routeKey(method, pattern)]
}

func routeKey(method, pattern string) string {
	return method + " " + pattern
}
