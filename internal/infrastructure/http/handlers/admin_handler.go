package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/domain"
	"github.com/tenantgate/tenantgate/internal/infrastructure/cache"
)

// AdminHandler exposes the cache invalidation hook the write-side
// collaborator calls after identity or membership mutations. Guarded by the
// admin secret middleware; if redis is configured the invalidation also fans
// out to peer instances.
type AdminHandler struct {
	identities  ports.IdentityCache
	memberships ports.MembershipCache
	redis       *redis.Client
	log         zerolog.Logger
}

func NewAdminHandler(identities ports.IdentityCache, memberships ports.MembershipCache, redisClient *redis.Client, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		identities:  identities,
		memberships: memberships,
		redis:       redisClient,
		log:         log,
	}
}

type invalidateRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=identity membership"`
	UserID string `json:"user_id" validate:"required,uuid"`
}

// Invalidate drops the cache entry for one user. Takes effect for requests
// issued after the call; in-flight requests keep the value they read.
func (h *AdminHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	var body invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_request")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", validationReasons(err)...)
		return
	}
	parsed, err := uuid.Parse(body.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "user_id: uuid")
		return
	}
	userID := domain.NewUserID(parsed)

	switch body.Kind {
	case "identity":
		h.identities.Invalidate(userID)
	case "membership":
		h.memberships.Invalidate(userID)
	}
	if h.redis != nil {
		if err := cache.Publish(r.Context(), h.redis, body.Kind, userID); err != nil {
			h.log.Warn().Err(err).Str("kind", body.Kind).Msg("invalidation fanout failed")
		}
	}
	h.log.Info().Str("kind", body.Kind).Str("user_id", userID.String()).Msg("cache invalidated")
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}
