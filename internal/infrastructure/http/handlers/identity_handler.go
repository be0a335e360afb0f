package handlers

import (
	"net/http"

	"github.com/tenantgate/tenantgate/internal/infrastructure/http/middleware"
)

// IdentityHandler serves identity-only endpoints: the caller is verified but
// no organization is in scope.
type IdentityHandler struct{}

func NewIdentityHandler() *IdentityHandler {
	return &IdentityHandler{}
}

// MeResponse is the JSON shape of the caller's own identity.
type MeResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Me returns the verified identity attached by the pipeline.
func (h *IdentityHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "missing or invalid credentials", "identity_not_found")
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{
		UserID:      identity.ID.String(),
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
	})
}
