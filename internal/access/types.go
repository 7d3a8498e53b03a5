package access

import "time"

// Organization is a tenant. Every user, customer, event and inventory
// item belongs to exactly one.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is a human account operating inside a home organization.
type User struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Role is a named, system-owned bundle of permissions. Roles are not
// scoped to an organization.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RoleAssignment links a user to a role. A user may hold zero or many.
type RoleAssignment struct {
	UserID    int64     `json:"user_id"`
	RoleID    int64     `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Invitation is a single-use, time-limited onboarding token bound to one
// organization and one role. UsedByUserID transitions exactly once from
// nil to a user id and never reverts.
type Invitation struct {
	ID             int64     `json:"invitation_id"`
	OrganizationID int64     `json:"organization_id"`
	RoleID         int64     `json:"role_id"`
	RoleName       string    `json:"role_name"`
	Token          string    `json:"token"`
	Note           string    `json:"note,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
	UsedByUserID   *int64    `json:"used_by_user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Active reports whether the invitation is still redeemable at now.
func (i Invitation) Active(now time.Time) bool {
	return i.UsedByUserID == nil && now.Before(i.ExpiresAt)
}

// InvitationDetails is the narrow view shown to an anonymous party
// before redemption. It never includes the token owner or expiry.
type InvitationDetails struct {
	OrganizationID   int64  `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	RoleName         string `json:"role_name"`
}
