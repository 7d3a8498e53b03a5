package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service provides authorization-context construction and the guarded
// organization, user and role operations. Every operation re-reads the
// caller's current role assignments through AuthContextFor; nothing is
// cached across requests.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("access store is required")
	}
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// AuthContextFor loads the caller's current roles and home organization
// and unions the permission sets. A credential whose subject no longer
// resolves to a user is an authentication failure, not authorization.
func (s *Service) AuthContextFor(ctx context.Context, userID int64) (AuthContext, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthContext{}, fmt.Errorf("%w: unknown user %d", ErrUnauthenticated, userID)
		}
		return AuthContext{}, err
	}
	perms, err := s.store.UserPermissions(ctx, user.ID)
	if err != nil {
		return AuthContext{}, err
	}
	return NewAuthContext(user.ID, user.OrganizationID, perms), nil
}

// Authenticate verifies username/password credentials for token issuance.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" || password == "" {
		return User{}, ErrUnauthenticated
	}
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUnauthenticated
		}
		return User{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return User{}, ErrUnauthenticated
	}
	return user, nil
}

// EnsureBuiltins seeds the built-in roles. The super administrator role
// is re-synced to the full catalog on every boot so a grown catalog is
// picked up at deploy time.
func (s *Service) EnsureBuiltins(ctx context.Context) error {
	builtins := []struct {
		name  string
		perms []Permission
	}{
		{RoleSuperAdmin, AllPermissions},
		{RoleOrganizer, OrganizerPermissions},
		{RoleStaff, StaffPermissions},
	}
	for _, b := range builtins {
		role, err := s.store.GetRoleByName(ctx, b.name)
		if errors.Is(err, ErrNotFound) {
			if _, err := s.store.CreateRole(ctx, b.name, b.perms); err != nil {
				return fmt.Errorf("seed role %s: %w", b.name, err)
			}
			continue
		}
		if err != nil {
			return err
		}
		if b.name == RoleSuperAdmin {
			if err := s.store.SetRolePermissions(ctx, role.ID, AllPermissions); err != nil {
				return fmt.Errorf("refresh role %s: %w", b.name, err)
			}
		}
	}
	return nil
}

// --- organizations ---

func (s *Service) CreateOrganization(ctx context.Context, ac AuthContext, name string) (Organization, error) {
	if !ac.HasPermission(PermOrganizationsManageGlobal) {
		return Organization{}, fmt.Errorf("%w: requires %s", ErrPermissionDenied, PermOrganizationsManageGlobal)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Organization{}, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
	}
	return s.store.CreateOrganization(ctx, name)
}

func (s *Service) GetOrganization(ctx context.Context, ac AuthContext, id int64) (Organization, error) {
	if err := ResolveScopeForResource(ac, PermOrganizationsViewGlobal, PermOrganizationsViewOrganization, id); err != nil {
		return Organization{}, err
	}
	return s.store.GetOrganization(ctx, id)
}

func (s *Service) ListOrganizations(ctx context.Context, ac AuthContext) ([]Organization, error) {
	if ac.HasPermission(PermOrganizationsViewGlobal) {
		return s.store.ListOrganizations(ctx)
	}
	if ac.HasPermission(PermOrganizationsViewOrganization) {
		org, err := s.store.GetOrganization(ctx, ac.OrganizationID)
		if err != nil {
			return nil, err
		}
		return []Organization{org}, nil
	}
	return nil, fmt.Errorf("%w: requires %s or %s", ErrPermissionDenied,
		PermOrganizationsViewOrganization, PermOrganizationsViewGlobal)
}

func (s *Service) UpdateOrganization(ctx context.Context, ac AuthContext, id int64, name string) (Organization, error) {
	if err := ResolveScopeForResource(ac, PermOrganizationsManageGlobal, PermOrganizationsManageOrganization, id); err != nil {
		return Organization{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Organization{}, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
	}
	return s.store.UpdateOrganization(ctx, id, name)
}

func (s *Service) DeleteOrganization(ctx context.Context, ac AuthContext, id int64) error {
	if !ac.HasPermission(PermOrganizationsManageGlobal) {
		return fmt.Errorf("%w: requires %s", ErrPermissionDenied, PermOrganizationsManageGlobal)
	}
	return s.store.DeleteOrganization(ctx, id)
}

// --- users ---

// CreateUserInput is an administrator-created account (as opposed to
// self-service creation through invitation redemption).
type CreateUserInput struct {
	OrganizationID int64
	Username       string
	Password       string
	Email          string
	DisplayName    string
}

func (s *Service) CreateUser(ctx context.Context, ac AuthContext, in CreateUserInput) (User, error) {
	orgID, err := ResolveScopeForWrite(ac, PermUsersManageGlobal, PermUsersManageOrganization, in.OrganizationID)
	if err != nil {
		return User{}, err
	}
	user, err := newUser(orgID, in.Username, in.Password, in.Email, in.DisplayName)
	if err != nil {
		return User{}, err
	}
	return s.store.CreateUser(ctx, user)
}

func (s *Service) GetUser(ctx context.Context, ac AuthContext, id int64) (User, error) {
	if id == ac.UserID && ac.HasPermission(PermUsersViewSelf) {
		return s.store.GetUser(ctx, id)
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err := ResolveScopeForResource(ac, PermUsersViewGlobal, PermUsersViewOrganization, user.OrganizationID); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, ac AuthContext, requestedOrgID int64) ([]User, error) {
	orgID, err := ResolveScope(ac, PermUsersViewGlobal, PermUsersViewOrganization, requestedOrgID)
	if err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx, orgID)
}

// --- roles ---

func (s *Service) CreateRole(ctx context.Context, ac AuthContext, name string, perms []Permission) (Role, error) {
	if !ac.HasPermission(PermRolesManageGlobal) {
		return Role{}, fmt.Errorf("%w: requires %s", ErrPermissionDenied, PermRolesManageGlobal)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	return s.store.CreateRole(ctx, name, perms)
}

func (s *Service) GetRole(ctx context.Context, ac AuthContext, id int64) (Role, error) {
	if !ac.HasPermission(PermRolesViewGlobal) {
		return Role{}, fmt.Errorf("%w: requires %s", ErrPermissionDenied, PermRolesViewGlobal)
	}
	return s.store.GetRole(ctx, id)
}

func (s *Service) ListRoles(ctx context.Context, ac AuthContext) ([]Role, error) {
	if !ac.HasPermission(PermRolesViewGlobal) {
		return nil, fmt.Errorf("%w: requires %s", ErrPermissionDenied, PermRolesViewGlobal)
	}
	return s.store.ListRoles(ctx)
}

func (s *Service) RenameRole(ctx context.Context, ac AuthContext, id int64, name string) (Role, error) {
	if !ac.HasPermission(PermRolesManageGlobal) {
		return Role{}, fmt.Errorf("%w: requires %s", ErrPermissionDenied, PermRolesManageGlobal)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	return s.store.RenameRole(ctx, id, name)
}

func (s *Service) SetRolePermissions(ctx context.Context, ac AuthContext, id int64, perms []Permission) error {
	if !ac.HasPermission(PermRolesManageGlobal) {
		return fmt.Errorf("%w: requires %s", ErrPermissionDenied, PermRolesManageGlobal)
	}
	return s.store.SetRolePermissions(ctx, id, perms)
}

// DeleteRole removes the role definition. Existing assignments are not
// cascade-revoked; that semantics is deliberate (see DESIGN.md).
func (s *Service) DeleteRole(ctx context.Context, ac AuthContext, id int64) error {
	if !ac.HasPermission(PermRolesManageGlobal) {
		return fmt.Errorf("%w: requires %s", ErrPermissionDenied, PermRolesManageGlobal)
	}
	return s.store.DeleteRole(ctx, id)
}

func (s *Service) AssignRole(ctx context.Context, ac AuthContext, userID, roleID int64) (RoleAssignment, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return RoleAssignment{}, err
	}
	if err := ResolveScopeForResource(ac, PermUsersManageGlobal, PermUsersManageOrganization, user.OrganizationID); err != nil {
		return RoleAssignment{}, err
	}
	return s.store.AssignRole(ctx, userID, roleID)
}

func (s *Service) RevokeRole(ctx context.Context, ac AuthContext, userID, roleID int64) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := ResolveScopeForResource(ac, PermUsersManageGlobal, PermUsersManageOrganization, user.OrganizationID); err != nil {
		return err
	}
	return s.store.RevokeRole(ctx, userID, roleID)
}

func newUser(orgID int64, username, password, email, displayName string) (User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(password) == "" {
		return User{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}
	return User{
		OrganizationID: orgID,
		Username:       username,
		Email:          email,
		DisplayName:    displayName,
		PasswordHash:   hash,
	}, nil
}
