package middleware

import (
	"net/http"
	"strings"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	domerrors "github.com/tenantgate/tenantgate/internal/domain/errors"
)

// Authenticator is the identity stage of the pipeline: it verifies the
// bearer credential and resolves the identity through the cache, then sets
// it in context (see IdentityFromContext). Any failure is 401; the tenant
// stage is never reached.
type Authenticator struct {
	verifier    ports.TokenVerifier
	identities  ports.IdentityCache
	store       ports.IdentityStore
	audit       ports.AuditEnqueuer
	log         zerolog.Logger
	development bool
}

func NewAuthenticator(verifier ports.TokenVerifier, identities ports.IdentityCache, store ports.IdentityStore, audit ports.AuditEnqueuer, log zerolog.Logger, development bool) *Authenticator {
	return &Authenticator{
		verifier:    verifier,
		identities:  identities,
		store:       store,
		audit:       audit,
		log:         log,
		development: development,
	}
}

func (m *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			m.deny(w, r, "", ReasonAuthorizationHeaderMissing)
			return
		}
		tokenString := strings.TrimPrefix(auth, "Bearer ")

		claims, err := m.verifier.Verify(tokenString)
		if err != nil {
			m.deny(w, r, "", domerrors.Reason(err))
			return
		}

		identity, err := m.identities.Get(r.Context(), claims.UserID, m.store.GetByID)
		if err != nil {
			// Loader timeout or store failure: internal, never downgraded
			// to "unauthenticated".
			RecordDecision(StageIdentity, "error")
			writeInternal(w, r, m.log, err, m.development)
			return
		}
		if identity == nil {
			m.deny(w, r, claims.UserID.String(), domerrors.Reason(domerrors.ErrIdentityNotFound))
			return
		}
		if !identity.Active {
			m.deny(w, r, claims.UserID.String(), domerrors.Reason(domerrors.ErrIdentityInactive))
			return
		}

		RecordDecision(StageIdentity, "resolved")
		ctx := WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Authenticator) deny(w http.ResponseWriter, r *http.Request, userID, reason string) {
	RecordDecision(StageIdentity, "unauthorized")
	if m.audit != nil {
		_ = m.audit.EnqueueAudit(r.Context(), ports.AuditEvent{
			RequestID: chimid.GetReqID(r.Context()),
			Stage:     StageIdentity,
			Outcome:   "unauthorized",
			Reason:    reason,
			UserID:    userID,
			Path:      r.URL.Path,
		})
	}
	writeError(w, http.StatusUnauthorized, "missing or invalid credentials", reason)
}
