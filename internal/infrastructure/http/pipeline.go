package http

import (
	"net/http"

	"github.com/tenantgate/tenantgate/internal/infrastructure/http/middleware"
)

// Pipeline orchestrates the per-request authorization stages in strict
// order: classify, identity, tenant, capability, handler. Classification
// happens once at startup when routes are wrapped; the remaining stages run
// per request and short-circuit on the first failure (401 from the identity
// stage, 403 from the tenant and capability stages). There are no backward
// transitions and nothing is persisted across requests.
type Pipeline struct {
	classifier *Classifier
	authn      *middleware.Authenticator
	tenant     *middleware.TenantGuard
	orgLimit   func(http.Handler) http.Handler
}

// NewPipeline creates the pipeline. orgLimit may be nil.
func NewPipeline(classifier *Classifier, authn *middleware.Authenticator, tenant *middleware.TenantGuard, orgLimit func(http.Handler) http.Handler) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		authn:      authn,
		tenant:     tenant,
		orgLimit:   orgLimit,
	}
}

// Wrap builds the stage chain for one route according to its classification.
// Public routes skip straight through; identity-only routes run the identity
// stage; everything else runs identity then tenant then the optional
// capability gate and per-organization limiter.
func (p *Pipeline) Wrap(rt Route) http.Handler {
	h := rt.Handler
	if rt.Capability != nil {
		h = middleware.RequireCapability(rt.Capability)(h)
	}
	switch p.classifier.Classify(rt.Method, rt.Pattern) {
	case TrustPublic:
		return h
	case TrustIdentityOnly:
		return p.authn.Handler(h)
	default:
		if p.orgLimit != nil {
			h = p.orgLimit(h)
		}
		return p.authn.Handler(p.tenant.Handler(h))
	}
}
