package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tenantgate/tenantgate/internal/domain"
	"github.com/tenantgate/tenantgate/internal/infrastructure/http/middleware"
)

// AuthzHandler lets downstream services ask whether the caller holds a named
// capability in the resolved organization, without duplicating role logic.
type AuthzHandler struct{}

func NewAuthzHandler() *AuthzHandler {
	return &AuthzHandler{}
}

type checkRequest struct {
	Capability string `json:"capability" validate:"required,oneof=is_admin manage_users manage_content view_content export_content"`
}

type checkResponse struct {
	Capability string `json:"capability"`
	Allowed    bool   `json:"allowed"`
}

// Check evaluates one capability against the tenant context.
func (h *AuthzHandler) Check(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusForbidden, "organization access denied", "missing_or_invalid_organization_header")
		return
	}
	var body checkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_request")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", validationReasons(err)...)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{
		Capability: body.Capability,
		Allowed:    capabilityByName(tenant.Capabilities, body.Capability),
	})
}

func capabilityByName(caps domain.CapabilitySet, name string) bool {
	switch name {
	case "is_admin":
		return caps.IsAdmin
	case "manage_users":
		return caps.CanManageUsers
	case "manage_content":
		return caps.CanManageContent
	case "view_content":
		return caps.CanViewContent
	case "export_content":
		return caps.CanExportContent
	}
	return false
}
