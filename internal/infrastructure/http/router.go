package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tenantgate/tenantgate/internal/application/authz"
	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/domain"
	"github.com/tenantgate/tenantgate/internal/infrastructure/http/handlers"
	"github.com/tenantgate/tenantgate/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	Verifier        ports.TokenVerifier
	IdentityStore   ports.IdentityStore
	IdentityCache   ports.IdentityCache
	MembershipStore ports.MembershipStore
	MembershipCache ports.MembershipCache
	Audit           ports.AuditEnqueuer
	HealthHandler   *handlers.HealthHandler
	AdminHandler    *handlers.AdminHandler
	AdminSecret     string
	Log             zerolog.Logger
	Secure          func(http.Handler) http.Handler
	CORS            func(http.Handler) http.Handler
	IPRateLimit     func(http.Handler) http.Handler
	OrgRateLimit    func(http.Handler) http.Handler
	Metrics         bool // expose /metrics
	APIVersion      string
	Development     bool
}

// NewRouter wires the declarative route table through the authorization
// pipeline onto a chi mux.
func NewRouter(cfg RouterConfig) http.Handler {
	resolver := authz.NewResolver(cfg.MembershipCache, cfg.MembershipStore)
	authn := middleware.NewAuthenticator(cfg.Verifier, cfg.IdentityCache, cfg.IdentityStore, cfg.Audit, cfg.Log, cfg.Development)
	tenant := middleware.NewTenantGuard(resolver, cfg.Audit, cfg.Log, cfg.Development)

	identityHandler := handlers.NewIdentityHandler()
	orgsHandler := handlers.NewOrganizationsHandler(cfg.MembershipCache, cfg.MembershipStore)
	authzHandler := handlers.NewAuthzHandler()

	routes := []Route{
		{Method: http.MethodGet, Pattern: "/health", Trust: TrustPublic, Handler: healthOrDefault(cfg.HealthHandler)},
		{Method: http.MethodGet, Pattern: "/me", Trust: TrustIdentityOnly, Handler: http.HandlerFunc(identityHandler.Me)},
		{Method: http.MethodGet, Pattern: "/organizations", Trust: TrustIdentityOnly, Handler: http.HandlerFunc(orgsHandler.List)},
		{Method: http.MethodGet, Pattern: "/organization", Trust: TrustTenantScoped,
			Capability: func(c domain.CapabilitySet) bool { return c.CanViewContent },
			Handler:    http.HandlerFunc(orgsHandler.Current)},
		{Method: http.MethodGet, Pattern: "/organization/members", Trust: TrustTenantScoped,
			Capability: func(c domain.CapabilitySet) bool { return c.CanManageUsers },
			Handler:    http.HandlerFunc(orgsHandler.Members)},
		{Method: http.MethodGet, Pattern: "/organization/members/export", Trust: TrustTenantScoped,
			Capability: func(c domain.CapabilitySet) bool { return c.CanExportContent },
			Handler:    http.HandlerFunc(orgsHandler.Export)},
		{Method: http.MethodPost, Pattern: "/authz/check", Trust: TrustTenantScoped, Handler: http.HandlerFunc(authzHandler.Check)},
	}
	if cfg.Metrics {
		routes = append(routes, Route{Method: http.MethodGet, Pattern: "/metrics", Trust: TrustPublic, Handler: promhttp.Handler()})
	}
	if cfg.AdminHandler != nil {
		// Explicit allow-list entry: public at the classifier, guarded by
		// the shared-secret middleware instead of the JWT pipeline.
		routes = append(routes, Route{
			Method:  http.MethodPost,
			Pattern: "/admin/cache/invalidate",
			Trust:   TrustPublic,
			Handler: middleware.RequireAdminSecret(cfg.AdminSecret)(http.HandlerFunc(cfg.AdminHandler.Invalidate)),
		})
	}

	classifier := NewClassifier(routes)
	pipeline := NewPipeline(classifier, authn, tenant, cfg.OrgRateLimit)

	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.APIVersion != "" {
		r.Use(middleware.APIVersion(cfg.APIVersion))
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	for _, rt := range routes {
		r.Method(rt.Method, rt.Pattern, pipeline.Wrap(rt))
	}

	return r
}

func healthOrDefault(h *handlers.HealthHandler) http.Handler {
	if h != nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
