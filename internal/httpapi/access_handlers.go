package httpapi

import (
	"net/http"
	"strings"

	"github.com/pforhan/teven-sub000/internal/access"
	"github.com/pforhan/teven-sub000/internal/audit"
)

// --- organizations ---

type organizationRequest struct {
	Name string `json:"name"`
}

func (a *API) handleOrganizationsCollection(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req organizationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		org, err := a.access.CreateOrganization(r.Context(), ac, req.Name)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "organization.created", map[string]any{
			"organization_id": org.ID,
		})
		writeJSON(w, http.StatusCreated, org)
	case http.MethodGet:
		orgs, err := a.access.ListOrganizations(r.Context(), ac)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		if orgs == nil {
			orgs = []access.Organization{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"organizations": orgs})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleOrganizationResource(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	id, err := parseID(strings.TrimPrefix(r.URL.Path, "/v1/organizations/"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		org, err := a.access.GetOrganization(r.Context(), ac, id)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, org)
	case http.MethodPut:
		var req organizationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		org, err := a.access.UpdateOrganization(r.Context(), ac, id, req.Name)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, org)
	case http.MethodDelete:
		if err := a.access.DeleteOrganization(r.Context(), ac, id); err != nil {
			handleAccessError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "organization.deleted", map[string]any{
			"organization_id": id,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// --- roles ---

type roleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (a *API) handleRolesCollection(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req roleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		perms, err := access.ParsePermissions(req.Permissions)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		role, err := a.access.CreateRole(r.Context(), ac, req.Name, perms)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "role.created", map[string]any{
			"role_id": role.ID,
			"name":    role.Name,
		})
		writeJSON(w, http.StatusCreated, role)
	case http.MethodGet:
		roles, err := a.access.ListRoles(r.Context(), ac)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		if roles == nil {
			roles = []access.Role{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"roles": roles})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleRoleResource routes /v1/roles/{id} and /v1/roles/{id}/permissions.
func (a *API) handleRoleResource(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/roles/")
	idPart, sub, _ := strings.Cut(rest, "/")
	id, err := parseID(idPart)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if sub == "permissions" {
		a.setRolePermissions(w, r, ac, id)
		return
	}
	if sub != "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		role, err := a.access.GetRole(r.Context(), ac, id)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, role)
	case http.MethodPut:
		var req roleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		role, err := a.access.RenameRole(r.Context(), ac, id, req.Name)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, role)
	case http.MethodDelete:
		if err := a.access.DeleteRole(r.Context(), ac, id); err != nil {
			handleAccessError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "role.deleted", map[string]any{
			"role_id": id,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) setRolePermissions(w http.ResponseWriter, r *http.Request, ac access.AuthContext, roleID int64) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	var req struct {
		Permissions []string `json:"permissions"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	perms, err := access.ParsePermissions(req.Permissions)
	if err != nil {
		handleAccessError(w, r, err)
		return
	}
	if err := a.access.SetRolePermissions(r.Context(), ac, roleID, perms); err != nil {
		handleAccessError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "role.permissions_updated", map[string]any{
		"role_id": roleID,
		"count":   len(perms),
	})
	role, err := a.access.GetRole(r.Context(), ac, roleID)
	if err != nil {
		handleAccessError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// --- users ---

type createUserRequest struct {
	OrganizationID int64  `json:"organization_id,omitempty"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name,omitempty"`
}

type roleAssignmentRequest struct {
	RoleID int64 `json:"role_id"`
}

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req createUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		user, err := a.access.CreateUser(r.Context(), ac, access.CreateUserInput{
			OrganizationID: req.OrganizationID,
			Username:       req.Username,
			Password:       req.Password,
			Email:          req.Email,
			DisplayName:    req.DisplayName,
		})
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "user.created", map[string]any{
			"user_id":         user.ID,
			"organization_id": user.OrganizationID,
		})
		writeJSON(w, http.StatusCreated, user)
	case http.MethodGet:
		orgID, err := parseOrgParam(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		users, err := a.access.ListUsers(r.Context(), ac, orgID)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		if users == nil {
			users = []access.User{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleUserResource routes /v1/users/{id} and the role assignment
// sub-resource /v1/users/{id}/roles[/{roleId}].
func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	idPart, sub, _ := strings.Cut(rest, "/")

	// "me" resolves to the caller, for the self profile view.
	var (
		id  int64
		err error
	)
	if idPart == "me" {
		id = ac.UserID
	} else if id, err = parseID(idPart); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if sub != "" {
		a.handleUserRoles(w, r, ac, id, sub)
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	user, err := a.access.GetUser(r.Context(), ac, id)
	if err != nil {
		handleAccessError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleUserRoles(w http.ResponseWriter, r *http.Request, ac access.AuthContext, userID int64, sub string) {
	rolePart, trailing, _ := strings.Cut(sub, "/")
	if rolePart != "roles" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req roleAssignmentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if req.RoleID <= 0 {
			writeError(w, r, http.StatusBadRequest, "role_id is required")
			return
		}
		assignment, err := a.access.AssignRole(r.Context(), ac, userID, req.RoleID)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "role.assigned", map[string]any{
			"user_id": userID,
			"role_id": req.RoleID,
		})
		writeJSON(w, http.StatusCreated, assignment)
	case http.MethodDelete:
		roleID, err := parseID(trailing)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.access.RevokeRole(r.Context(), ac, userID, roleID); err != nil {
			handleAccessError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "role.revoked", map[string]any{
			"user_id": userID,
			"role_id": roleID,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodDelete)
	}
}
