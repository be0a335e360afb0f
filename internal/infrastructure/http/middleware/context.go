package middleware

import (
	"context"

	"github.com/tenantgate/tenantgate/internal/domain"
)

type identityContextKey struct{}
type tenantContextKey struct{}

// WithIdentity injects the verified identity into the context.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the verified identity from the context, or nil.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	v, _ := ctx.Value(identityContextKey{}).(*domain.Identity)
	return v
}

// WithTenant injects the resolved tenant context. Never call this without a
// verified identity already present.
func WithTenant(ctx context.Context, tenant *domain.TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenant)
}

// TenantFromContext returns the resolved tenant context, or nil on
// identity-only and public routes.
func TenantFromContext(ctx context.Context) *domain.TenantContext {
	v, _ := ctx.Value(tenantContextKey{}).(*domain.TenantContext)
	return v
}
