package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/pforhan/teven-sub000/internal/access"
	"github.com/pforhan/teven-sub000/internal/audit"
)

type createInvitationRequest struct {
	RoleID         int64      `json:"role_id"`
	OrganizationID int64      `json:"organization_id,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Note           string     `json:"note,omitempty"`
}

type acceptInvitationRequest struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// handleInvitationsCollection serves POST /v1/invitations (generate) and
// GET /v1/invitations (pending invites for the caller's scope).
func (a *API) handleInvitationsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createInvitation(w, r)
	case http.MethodGet:
		a.listInvitations(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createInvitation(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req createInvitationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.RoleID <= 0 {
		writeError(w, r, http.StatusBadRequest, "role_id is required")
		return
	}

	in := access.CreateInvitationInput{
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
		Note:           req.Note,
	}
	if req.ExpiresAt != nil {
		in.ExpiresAt = req.ExpiresAt.UTC()
	}

	inv, err := a.access.CreateInvitation(r.Context(), ac, in)
	if err != nil {
		handleAccessError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "invitation.created", map[string]any{
		"invitation_id":   inv.ID,
		"organization_id": inv.OrganizationID,
		"role_id":         inv.RoleID,
		"expires_at":      inv.ExpiresAt.Format(time.RFC3339),
	})
	writeJSON(w, http.StatusCreated, inv)
}

func (a *API) listInvitations(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	orgID, err := parseOrgParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	invs, err := a.access.ListUnusedInvitations(r.Context(), ac, orgID)
	if err != nil {
		handleAccessError(w, r, err)
		return
	}
	if invs == nil {
		invs = []access.Invitation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"invitations": invs})
}

// handleInvitationResource routes /v1/invitations/{id}, plus the public
// sub-resources /v1/invitations/validate and /v1/invitations/accept.
func (a *API) handleInvitationResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/invitations/")
	switch rest {
	case "validate":
		a.validateInvitation(w, r)
		return
	case "accept":
		a.acceptInvitation(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	id, err := parseID(rest)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.access.DeleteInvitation(r.Context(), ac, id); err != nil {
		handleAccessError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "invitation.deleted", map[string]any{
		"invitation_id": id,
	})
	w.WriteHeader(http.StatusNoContent)
}

// validateInvitation is public: the anonymous holder of a token sees the
// organization and role it would grant, nothing more. All failure modes
// share one answer so probing reveals nothing.
func (a *API) validateInvitation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeError(w, r, http.StatusBadRequest, "invitation is invalid or expired")
		return
	}
	details, err := a.access.ValidateInvitation(r.Context(), token)
	if err != nil {
		handleAccessError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// acceptInvitation is public: it creates the account and consumes the
// token in one shot. A signed-in caller is refused.
func (a *API) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req acceptInvitationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.access.AcceptInvitation(r.Context(), access.AcceptInvitationInput{
		Token:       req.Token,
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		handleAccessError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "invitation.accepted", map[string]any{
		"user_id":         user.ID,
		"organization_id": user.OrganizationID,
	})
	writeJSON(w, http.StatusCreated, user)
}
