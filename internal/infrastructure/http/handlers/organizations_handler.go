package handlers

import (
	"net/http"
	"time"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/infrastructure/http/middleware"
)

// OrganizationsHandler serves the caller's organization memberships and the
// tenant-scoped organization views. Reads go through the same cache-then-
// store path the resolver uses.
type OrganizationsHandler struct {
	cache ports.MembershipCache
	store ports.MembershipStore
}

func NewOrganizationsHandler(cache ports.MembershipCache, store ports.MembershipStore) *OrganizationsHandler {
	return &OrganizationsHandler{cache: cache, store: store}
}

// MembershipResponse is the JSON shape for one membership row.
type MembershipResponse struct {
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id,omitempty"`
	Role           string `json:"role"`
	Active         bool   `json:"active"`
	AcceptedAt     string `json:"accepted_at,omitempty"`
}

// List returns the caller's memberships. IdentityOnly: no organization
// header is required, so a user can discover which organization to act in.
func (h *OrganizationsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "missing or invalid credentials", "identity_not_found")
		return
	}
	memberships, err := h.cache.Get(r.Context(), identity.ID, h.store.LoadMembershipsForUser)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}
	items := make([]MembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, MembershipResponse{
			OrganizationID: m.OrganizationID.String(),
			Role:           string(m.Role),
			Active:         m.Active,
			AcceptedAt:     formatTime(m.InvitationAcceptedAt),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"organizations": items})
}

// CurrentResponse is the JSON shape of the resolved tenant context.
type CurrentResponse struct {
	OrganizationID string      `json:"organization_id"`
	Role           string      `json:"role"`
	Capabilities   interface{} `json:"capabilities"`
}

// Current returns the resolved organization, role and capability set.
func (h *OrganizationsHandler) Current(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusForbidden, "organization access denied", "missing_or_invalid_organization_header")
		return
	}
	writeJSON(w, http.StatusOK, CurrentResponse{
		OrganizationID: tenant.OrganizationID.String(),
		Role:           string(tenant.Role),
		Capabilities:   tenant.Capabilities,
	})
}

// Members lists the members of the resolved organization. Gated on
// CanManageUsers in the route table.
func (h *OrganizationsHandler) Members(w http.ResponseWriter, r *http.Request) {
	memberships, ok := h.loadMembers(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": memberships})
}

// Export returns the member list as a downloadable document. Gated on
// CanExportContent in the route table.
func (h *OrganizationsHandler) Export(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	memberships, ok := h.loadMembers(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="members-`+tenant.OrganizationID.String()+`.json"`)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"organization_id": tenant.OrganizationID.String(),
		"exported_at":     time.Now().UTC().Format(time.RFC3339),
		"members":         memberships,
	})
}

func (h *OrganizationsHandler) loadMembers(w http.ResponseWriter, r *http.Request) ([]MembershipResponse, bool) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusForbidden, "organization access denied", "missing_or_invalid_organization_header")
		return nil, false
	}
	memberships, err := h.store.ListForOrganization(r.Context(), tenant.OrganizationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return nil, false
	}
	items := make([]MembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, MembershipResponse{
			OrganizationID: m.OrganizationID.String(),
			UserID:         m.UserID.String(),
			Role:           string(m.Role),
			Active:         m.Active,
			AcceptedAt:     formatTime(m.InvitationAcceptedAt),
		})
	}
	return items, true
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
