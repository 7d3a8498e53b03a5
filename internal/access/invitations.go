package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultInvitationTTL applies when the generating caller supplies no
// explicit expiration.
const DefaultInvitationTTL = 7 * 24 * time.Hour

// CreateInvitationInput describes a new invitation. OrganizationID of 0
// targets the caller's home organization; an explicit value is only
// honored for global callers (the resolver rejects anything else).
type CreateInvitationInput struct {
	RoleID         int64
	OrganizationID int64
	ExpiresAt      time.Time
	Note           string
}

// AcceptInvitationInput carries the anonymous party's redemption request.
type AcceptInvitationInput struct {
	Token       string
	Username    string
	Password    string
	Email       string
	DisplayName string
}

// CreateInvitation generates a single-use invitation bound to one role
// and one organization. The token is a UUIDv4: unguessable, not derivable
// from id, timestamp or role.
func (s *Service) CreateInvitation(ctx context.Context, ac AuthContext, in CreateInvitationInput) (Invitation, error) {
	orgID, err := ResolveScopeForWrite(ac, PermInvitationsManageGlobal, PermInvitationsManageOrganization, in.OrganizationID)
	if err != nil {
		return Invitation{}, err
	}
	role, err := s.store.GetRole(ctx, in.RoleID)
	if err != nil {
		return Invitation{}, err
	}
	now := s.now().UTC()
	expiresAt := in.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(DefaultInvitationTTL)
	}
	if !expiresAt.After(now) {
		return Invitation{}, fmt.Errorf("%w: expiration must be in the future", ErrInvalidInput)
	}
	inv := Invitation{
		OrganizationID: orgID,
		RoleID:         role.ID,
		RoleName:       role.Name,
		Token:          uuid.NewString(),
		Note:           in.Note,
		ExpiresAt:      expiresAt,
	}
	return s.store.CreateInvitation(ctx, inv)
}

// ValidateInvitation resolves a token to the organization and role it
// would grant, for display on the redemption form. Not-found, expired and
// already-used all collapse to ErrInvitationInvalid so the outcome never
// reveals whether a stale token once existed.
func (s *Service) ValidateInvitation(ctx context.Context, token string) (InvitationDetails, error) {
	inv, err := s.store.GetInvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return InvitationDetails{}, ErrInvitationInvalid
		}
		return InvitationDetails{}, err
	}
	if !inv.Active(s.now().UTC()) {
		return InvitationDetails{}, ErrInvitationInvalid
	}
	org, err := s.store.GetOrganization(ctx, inv.OrganizationID)
	if err != nil {
		return InvitationDetails{}, err
	}
	return InvitationDetails{
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		RoleName:         inv.RoleName,
	}, nil
}

// AcceptInvitation redeems a token: it creates the user, assigns the
// invitation's role and consumes the invitation as one atomic store
// transaction. The caller must be anonymous; a logged-in party may not
// redeem (guard against privilege confusion).
func (s *Service) AcceptInvitation(ctx context.Context, in AcceptInvitationInput) (User, error) {
	if _, ok := AuthFromContext(ctx); ok {
		return User{}, fmt.Errorf("%w: invitations can only be accepted while signed out", ErrConflict)
	}
	if in.Token == "" {
		return User{}, ErrInvitationInvalid
	}
	user, err := newUser(0, in.Username, in.Password, in.Email, in.DisplayName)
	if err != nil {
		return User{}, err
	}
	created, _, err := s.store.RedeemInvitation(ctx, in.Token, user, s.now().UTC())
	if err != nil {
		return User{}, err
	}
	return created, nil
}

// ListUnusedInvitations returns active invitations visible to the
// caller's scope, for the pending-invites admin view.
func (s *Service) ListUnusedInvitations(ctx context.Context, ac AuthContext, requestedOrgID int64) ([]Invitation, error) {
	orgID, err := ResolveScope(ac, PermInvitationsManageGlobal, PermInvitationsManageOrganization, requestedOrgID)
	if err != nil {
		return nil, err
	}
	return s.store.ListUnusedInvitations(ctx, orgID, s.now().UTC())
}

// DeleteInvitation removes an invitation. Deleting a consumed one is
// plain audit cleanup and does not touch the user or role it granted.
func (s *Service) DeleteInvitation(ctx context.Context, ac AuthContext, id int64) error {
	inv, err := s.store.GetInvitation(ctx, id)
	if err != nil {
		return err
	}
	if err := ResolveScopeForResource(ac, PermInvitationsManageGlobal, PermInvitationsManageOrganization, inv.OrganizationID); err != nil {
		return err
	}
	return s.store.DeleteInvitation(ctx, id)
}
