package access

import (
	"fmt"
	"strings"
)

// Scope is the breadth of a permission: self < organization < global.
type Scope string

const (
	ScopeSelf         Scope = "self"
	ScopeOrganization Scope = "organization"
	ScopeGlobal       Scope = "global"
)

// Covers reports whether s satisfies a request that requires other.
// A broader scope always satisfies a narrower one for the same
// resource/action.
func (s Scope) Covers(other Scope) bool {
	return scopeRank(s) >= scopeRank(other)
}

func scopeRank(s Scope) int {
	switch s {
	case ScopeSelf:
		return 1
	case ScopeOrganization:
		return 2
	case ScopeGlobal:
		return 3
	default:
		return 0
	}
}

// Permission is a capability key of the form "resource.action.scope".
// The catalog is closed; values outside it never enter the system
// (ParsePermission rejects them at the API edge).
type Permission string

const (
	PermUsersViewSelf           Permission = "users.view.self"
	PermUsersManageSelf         Permission = "users.manage.self"
	PermUsersViewOrganization   Permission = "users.view.organization"
	PermUsersManageOrganization Permission = "users.manage.organization"
	PermUsersViewGlobal         Permission = "users.view.global"
	PermUsersManageGlobal       Permission = "users.manage.global"

	PermRolesViewGlobal   Permission = "roles.view.global"
	PermRolesManageGlobal Permission = "roles.manage.global"

	PermOrganizationsViewOrganization   Permission = "organizations.view.organization"
	PermOrganizationsManageOrganization Permission = "organizations.manage.organization"
	PermOrganizationsViewGlobal         Permission = "organizations.view.global"
	PermOrganizationsManageGlobal       Permission = "organizations.manage.global"

	PermCustomersViewOrganization   Permission = "customers.view.organization"
	PermCustomersManageOrganization Permission = "customers.manage.organization"
	PermCustomersViewGlobal         Permission = "customers.view.global"
	PermCustomersManageGlobal       Permission = "customers.manage.global"

	PermEventsViewSelf           Permission = "events.view.self"
	PermEventsViewOrganization   Permission = "events.view.organization"
	PermEventsManageOrganization Permission = "events.manage.organization"
	PermEventsViewGlobal         Permission = "events.view.global"
	PermEventsManageGlobal       Permission = "events.manage.global"

	PermInventoryViewOrganization   Permission = "inventory.view.organization"
	PermInventoryManageOrganization Permission = "inventory.manage.organization"
	PermInventoryViewGlobal         Permission = "inventory.view.global"
	PermInventoryManageGlobal       Permission = "inventory.manage.global"

	PermInvitationsManageOrganization Permission = "invitations.manage.organization"
	PermInvitationsManageGlobal       Permission = "invitations.manage.global"

	PermReportsViewOrganization Permission = "reports.view.organization"
	PermReportsViewGlobal       Permission = "reports.view.global"
)

// AllPermissions is the complete catalog. Order is stable for seeding.
var AllPermissions = []Permission{
	PermUsersViewSelf,
	PermUsersManageSelf,
	PermUsersViewOrganization,
	PermUsersManageOrganization,
	PermUsersViewGlobal,
	PermUsersManageGlobal,
	PermRolesViewGlobal,
	PermRolesManageGlobal,
	PermOrganizationsViewOrganization,
	PermOrganizationsManageOrganization,
	PermOrganizationsViewGlobal,
	PermOrganizationsManageGlobal,
	PermCustomersViewOrganization,
	PermCustomersManageOrganization,
	PermCustomersViewGlobal,
	PermCustomersManageGlobal,
	PermEventsViewSelf,
	PermEventsViewOrganization,
	PermEventsManageOrganization,
	PermEventsViewGlobal,
	PermEventsManageGlobal,
	PermInventoryViewOrganization,
	PermInventoryManageOrganization,
	PermInventoryViewGlobal,
	PermInventoryManageGlobal,
	PermInvitationsManageOrganization,
	PermInvitationsManageGlobal,
	PermReportsViewOrganization,
	PermReportsViewGlobal,
}

var catalog = func() map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(AllPermissions))
	for _, p := range AllPermissions {
		set[p] = struct{}{}
	}
	return set
}()

// Valid reports whether p belongs to the catalog.
func (p Permission) Valid() bool {
	_, ok := catalog[p]
	return ok
}

// Scope returns the trailing scope segment of the key.
func (p Permission) Scope() Scope {
	idx := strings.LastIndex(string(p), ".")
	if idx < 0 {
		return ""
	}
	return Scope(p[idx+1:])
}

// Resource returns the leading resource segment of the key.
func (p Permission) Resource() string {
	idx := strings.Index(string(p), ".")
	if idx < 0 {
		return string(p)
	}
	return string(p[:idx])
}

// ParsePermission validates a raw key against the catalog. Handlers call
// this once at the boundary and carry the typed value afterwards.
func ParsePermission(raw string) (Permission, error) {
	p := Permission(strings.TrimSpace(strings.ToLower(raw)))
	if p == "" {
		return "", fmt.Errorf("%w: permission key is required", ErrInvalidInput)
	}
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown permission %q", ErrInvalidInput, raw)
	}
	return p, nil
}

// ParsePermissions validates and deduplicates a raw key list.
func ParsePermissions(raw []string) ([]Permission, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	seen := make(map[Permission]struct{}, len(raw))
	result := make([]Permission, 0, len(raw))
	for _, key := range raw {
		p, err := ParsePermission(key)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result, nil
}

// Built-in role names seeded at bootstrap. The super administrator is an
// ordinary role that happens to hold the full catalog; nothing in the
// resolver special-cases it.
const (
	RoleSuperAdmin = "superadmin"
	RoleOrganizer  = "organizer"
	RoleStaff      = "staff"
)

// OrganizerPermissions is the default permission set for the built-in
// organizer role: full control inside the home organization.
var OrganizerPermissions = []Permission{
	PermUsersViewOrganization,
	PermUsersManageOrganization,
	PermOrganizationsViewOrganization,
	PermOrganizationsManageOrganization,
	PermCustomersViewOrganization,
	PermCustomersManageOrganization,
	PermEventsViewOrganization,
	PermEventsManageOrganization,
	PermInventoryViewOrganization,
	PermInventoryManageOrganization,
	PermInvitationsManageOrganization,
	PermReportsViewOrganization,
}

// StaffPermissions is the default permission set for the built-in staff
// role: read access plus self management.
var StaffPermissions = []Permission{
	PermUsersViewSelf,
	PermUsersManageSelf,
	PermEventsViewSelf,
	PermEventsViewOrganization,
	PermCustomersViewOrganization,
	PermInventoryViewOrganization,
}
