package access

import "errors"

var (
	// ErrUnauthenticated means no verifiable caller identity exists.
	ErrUnauthenticated = errors.New("access: unauthenticated")
	// ErrPermissionDenied means the caller lacks the required permission
	// or tried to act outside their organization scope.
	ErrPermissionDenied = errors.New("access: permission denied")
	// ErrInvitationInvalid deliberately collapses not-found, expired and
	// already-used invitations into one outcome.
	ErrInvitationInvalid = errors.New("access: invitation is invalid or expired")
	// ErrConflict marks a self-contradictory request, e.g. a global caller
	// omitting a required target organization.
	ErrConflict = errors.New("access: resource conflict")
	// ErrNotFound marks a missing role, user, organization or invitation.
	ErrNotFound = errors.New("access: not found")
	// ErrInvalidInput marks malformed caller input.
	ErrInvalidInput = errors.New("access: invalid input")
)
