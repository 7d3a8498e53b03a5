package access

import (
	"context"
	"time"
)

// Store describes persistence operations required by the access
// subsystem. The relational layer enforces uniqueness of role names and
// invitation tokens.
type Store interface {
	CreateOrganization(ctx context.Context, name string) (Organization, error)
	GetOrganization(ctx context.Context, id int64) (Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	UpdateOrganization(ctx context.Context, id int64, name string) (Organization, error)
	DeleteOrganization(ctx context.Context, id int64) error

	CreateUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context, organizationID int64) ([]User, error)

	CreateRole(ctx context.Context, name string, perms []Permission) (Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	GetRoleByName(ctx context.Context, name string) (Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	RenameRole(ctx context.Context, id int64, name string) (Role, error)
	SetRolePermissions(ctx context.Context, id int64, perms []Permission) error
	DeleteRole(ctx context.Context, id int64) error

	AssignRole(ctx context.Context, userID, roleID int64) (RoleAssignment, error)
	RevokeRole(ctx context.Context, userID, roleID int64) error
	UserPermissions(ctx context.Context, userID int64) ([]Permission, error)

	CreateInvitation(ctx context.Context, inv Invitation) (Invitation, error)
	GetInvitation(ctx context.Context, id int64) (Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (Invitation, error)
	ListUnusedInvitations(ctx context.Context, organizationID int64, now time.Time) ([]Invitation, error)
	DeleteInvitation(ctx context.Context, id int64) error

	// RedeemInvitation atomically verifies the invitation identified by
	// token is still active at now, creates the user, assigns the
	// invitation's role and marks the invitation used. A concurrent loser
	// observes ErrInvitationInvalid; no partial state survives a failure.
	RedeemInvitation(ctx context.Context, token string, u User, now time.Time) (User, Invitation, error)
}
