package access

import "fmt"

// OrgUnrestricted is the effective organization id returned to a global
// caller that did not name a target: the operation spans all
// organizations. Only read paths may act on it.
const OrgUnrestricted int64 = 0

// ResolveScope decides which organization an operation may touch.
//
// A caller holding the global permission may target any organization, or
// none at all (OrgUnrestricted) for list/read operations. A caller
// holding only the organization permission is pinned to their home
// organization: a differing requested id is a Conflict, never an
// override. A caller holding neither is denied.
//
// requestedOrgID of 0 means the caller supplied no target.
func ResolveScope(ac AuthContext, global, org Permission, requestedOrgID int64) (int64, error) {
	if ac.HasPermission(global) {
		return requestedOrgID, nil
	}
	if ac.HasPermission(org) {
		if requestedOrgID != 0 && requestedOrgID != ac.OrganizationID {
			return 0, fmt.Errorf("%w: cannot target organization %d from organization %d",
				ErrConflict, requestedOrgID, ac.OrganizationID)
		}
		return ac.OrganizationID, nil
	}
	return 0, fmt.Errorf("%w: requires %s or %s", ErrPermissionDenied, org, global)
}

// ResolveScopeForWrite is ResolveScope for operations that must persist
// an owning organization. A global caller creating a resource must say
// which organization owns it.
func ResolveScopeForWrite(ac AuthContext, global, org Permission, requestedOrgID int64) (int64, error) {
	effective, err := ResolveScope(ac, global, org, requestedOrgID)
	if err != nil {
		return 0, err
	}
	if effective == OrgUnrestricted {
		return 0, fmt.Errorf("%w: organization_id is required", ErrConflict)
	}
	return effective, nil
}

// ResolveScopeForResource authorizes a mutation of an existing resource
// against its actual owning organization, independent of whatever the
// request body claims.
func ResolveScopeForResource(ac AuthContext, global, org Permission, resourceOrgID int64) error {
	if ac.HasPermission(global) {
		return nil
	}
	if ac.HasPermission(org) {
		if resourceOrgID != ac.OrganizationID {
			return fmt.Errorf("%w: resource belongs to another organization", ErrPermissionDenied)
		}
		return nil
	}
	return fmt.Errorf("%w: requires %s or %s", ErrPermissionDenied, org, global)
}
