package access

import (
	"context"
	"time"
)

// stubStore implements Store with overridable function fields; unset
// operations report ErrNotFound.
type stubStore struct {
	createOrganizationFn func(ctx context.Context, name string) (Organization, error)
	getOrganizationFn    func(ctx context.Context, id int64) (Organization, error)
	listOrganizationsFn  func(ctx context.Context) ([]Organization, error)
	updateOrganizationFn func(ctx context.Context, id int64, name string) (Organization, error)
	deleteOrganizationFn func(ctx context.Context, id int64) error

	createUserFn        func(ctx context.Context, u User) (User, error)
	getUserFn           func(ctx context.Context, id int64) (User, error)
	getUserByUsernameFn func(ctx context.Context, username string) (User, error)
	listUsersFn         func(ctx context.Context, organizationID int64) ([]User, error)

	createRoleFn         func(ctx context.Context, name string, perms []Permission) (Role, error)
	getRoleFn            func(ctx context.Context, id int64) (Role, error)
	getRoleByNameFn      func(ctx context.Context, name string) (Role, error)
	listRolesFn          func(ctx context.Context) ([]Role, error)
	renameRoleFn         func(ctx context.Context, id int64, name string) (Role, error)
	setRolePermissionsFn func(ctx context.Context, id int64, perms []Permission) error
	deleteRoleFn         func(ctx context.Context, id int64) error

	assignRoleFn      func(ctx context.Context, userID, roleID int64) (RoleAssignment, error)
	revokeRoleFn      func(ctx context.Context, userID, roleID int64) error
	userPermissionsFn func(ctx context.Context, userID int64) ([]Permission, error)

	createInvitationFn      func(ctx context.Context, inv Invitation) (Invitation, error)
	getInvitationFn         func(ctx context.Context, id int64) (Invitation, error)
	getInvitationByTokenFn  func(ctx context.Context, token string) (Invitation, error)
	listUnusedInvitationsFn func(ctx context.Context, organizationID int64, now time.Time) ([]Invitation, error)
	deleteInvitationFn      func(ctx context.Context, id int64) error
	redeemInvitationFn      func(ctx context.Context, token string, u User, now time.Time) (User, Invitation, error)
}

var _ Store = (*stubStore)(nil)

func (s *stubStore) CreateOrganization(ctx context.Context, name string) (Organization, error) {
	if s.createOrganizationFn != nil {
		return s.createOrganizationFn(ctx, name)
	}
	return Organization{}, ErrNotFound
}

func (s *stubStore) GetOrganization(ctx context.Context, id int64) (Organization, error) {
	if s.getOrganizationFn != nil {
		return s.getOrganizationFn(ctx, id)
	}
	return Organization{}, ErrNotFound
}

func (s *stubStore) ListOrganizations(ctx context.Context) ([]Organization, error) {
	if s.listOrganizationsFn != nil {
		return s.listOrganizationsFn(ctx)
	}
	return nil, nil
}

func (s *stubStore) UpdateOrganization(ctx context.Context, id int64, name string) (Organization, error) {
	if s.updateOrganizationFn != nil {
		return s.updateOrganizationFn(ctx, id, name)
	}
	return Organization{}, ErrNotFound
}

func (s *stubStore) DeleteOrganization(ctx context.Context, id int64) error {
	if s.deleteOrganizationFn != nil {
		return s.deleteOrganizationFn(ctx, id)
	}
	return ErrNotFound
}

func (s *stubStore) CreateUser(ctx context.Context, u User) (User, error) {
	if s.createUserFn != nil {
		return s.createUserFn(ctx, u)
	}
	return User{}, ErrNotFound
}

func (s *stubStore) GetUser(ctx context.Context, id int64) (User, error) {
	if s.getUserFn != nil {
		return s.getUserFn(ctx, id)
	}
	return User{}, ErrNotFound
}

func (s *stubStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	if s.getUserByUsernameFn != nil {
		return s.getUserByUsernameFn(ctx, username)
	}
	return User{}, ErrNotFound
}

func (s *stubStore) ListUsers(ctx context.Context, organizationID int64) ([]User, error) {
	if s.listUsersFn != nil {
		return s.listUsersFn(ctx, organizationID)
	}
	return nil, nil
}

func (s *stubStore) CreateRole(ctx context.Context, name string, perms []Permission) (Role, error) {
	if s.createRoleFn != nil {
		return s.createRoleFn(ctx, name, perms)
	}
	return Role{}, ErrNotFound
}

func (s *stubStore) GetRole(ctx context.Context, id int64) (Role, error) {
	if s.getRoleFn != nil {
		return s.getRoleFn(ctx, id)
	}
	return Role{}, ErrNotFound
}

func (s *stubStore) GetRoleByName(ctx context.Context, name string) (Role, error) {
	if s.getRoleByNameFn != nil {
		return s.getRoleByNameFn(ctx, name)
	}
	return Role{}, ErrNotFound
}

func (s *stubStore) ListRoles(ctx context.Context) ([]Role, error) {
	if s.listRolesFn != nil {
		return s.listRolesFn(ctx)
	}
	return nil, nil
}

func (s *stubStore) RenameRole(ctx context.Context, id int64, name string) (Role, error) {
	if s.renameRoleFn != nil {
		return s.renameRoleFn(ctx, id, name)
	}
	return Role{}, ErrNotFound
}

func (s *stubStore) SetRolePermissions(ctx context.Context, id int64, perms []Permission) error {
	if s.setRolePermissionsFn != nil {
		return s.setRolePermissionsFn(ctx, id, perms)
	}
	return ErrNotFound
}

func (s *stubStore) DeleteRole(ctx context.Context, id int64) error {
	if s.deleteRoleFn != nil {
		return s.deleteRoleFn(ctx, id)
	}
	return ErrNotFound
}

func (s *stubStore) AssignRole(ctx context.Context, userID, roleID int64) (RoleAssignment, error) {
	if s.assignRoleFn != nil {
		return s.assignRoleFn(ctx, userID, roleID)
	}
	return RoleAssignment{}, ErrNotFound
}

func (s *stubStore) RevokeRole(ctx context.Context, userID, roleID int64) error {
	if s.revokeRoleFn != nil {
		return s.revokeRoleFn(ctx, userID, roleID)
	}
	return ErrNotFound
}

func (s *stubStore) UserPermissions(ctx context.Context, userID int64) ([]Permission, error) {
	if s.userPermissionsFn != nil {
		return s.userPermissionsFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubStore) CreateInvitation(ctx context.Context, inv Invitation) (Invitation, error) {
	if s.createInvitationFn != nil {
		return s.createInvitationFn(ctx, inv)
	}
	return Invitation{}, ErrNotFound
}

func (s *stubStore) GetInvitation(ctx context.Context, id int64) (Invitation, error) {
	if s.getInvitationFn != nil {
		return s.getInvitationFn(ctx, id)
	}
	return Invitation{}, ErrNotFound
}

func (s *stubStore) GetInvitationByToken(ctx context.Context, token string) (Invitation, error) {
	if s.getInvitationByTokenFn != nil {
		return s.getInvitationByTokenFn(ctx, token)
	}
	return Invitation{}, ErrNotFound
}

func (s *stubStore) ListUnusedInvitations(ctx context.Context, organizationID int64, now time.Time) ([]Invitation, error) {
	if s.listUnusedInvitationsFn != nil {
		return s.listUnusedInvitationsFn(ctx, organizationID, now)
	}
	return nil, nil
}

func (s *stubStore) DeleteInvitation(ctx context.Context, id int64) error {
	if s.deleteInvitationFn != nil {
		return s.deleteInvitationFn(ctx, id)
	}
	return ErrNotFound
}

func (s *stubStore) RedeemInvitation(ctx context.Context, token string, u User, now time.Time) (User, Invitation, error) {
	if s.redeemInvitationFn != nil {
		return s.redeemInvitationFn(ctx, token, u, now)
	}
	return User{}, Invitation{}, ErrInvitationInvalid
}
