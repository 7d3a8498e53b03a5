package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pforhan/teven-sub000/internal/access"
)

func (s *Store) CreateInvitation(ctx context.Context, inv access.Invitation) (access.Invitation, error) {
	if s.db == nil {
		return access.Invitation{}, errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `
		insert into invitations (organization_id, role_id, token, note, expires_at)
		values ($1, $2, $3, $4, $5)
		returning id, created_at
	`, inv.OrganizationID, inv.RoleID, inv.Token, nullIfEmpty(inv.Note), inv.ExpiresAt)
	if err := row.Scan(&inv.ID, &inv.CreatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return access.Invitation{}, access.ErrConflict
			case pgErrForeignKeyViolation:
				return access.Invitation{}, access.ErrNotFound
			}
		}
		return access.Invitation{}, err
	}
	return inv, nil
}

func (s *Store) GetInvitation(ctx context.Context, id int64) (access.Invitation, error) {
	if s.db == nil {
		return access.Invitation{}, errors.New("database connection unavailable")
	}
	return s.invitationBy(ctx, `i.id = $1`, id)
}

func (s *Store) GetInvitationByToken(ctx context.Context, token string) (access.Invitation, error) {
	if s.db == nil {
		return access.Invitation{}, errors.New("database connection unavailable")
	}
	return s.invitationBy(ctx, `i.token = $1`, token)
}

func (s *Store) invitationBy(ctx context.Context, where string, arg any) (access.Invitation, error) {
	var (
		inv  access.Invitation
		note sql.NullString
		used sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		select i.id, i.organization_id, i.role_id, r.name, i.token, i.note, i.expires_at, i.used_by_user_id, i.created_at
		from invitations i
		join roles r on r.id = i.role_id
		where `+where, arg).
		Scan(&inv.ID, &inv.OrganizationID, &inv.RoleID, &inv.RoleName, &inv.Token, &note, &inv.ExpiresAt, &used, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Invitation{}, access.ErrNotFound
	}
	if err != nil {
		return access.Invitation{}, err
	}
	if note.Valid {
		inv.Note = note.String
	}
	if used.Valid {
		inv.UsedByUserID = &used.Int64
	}
	return inv, nil
}

func (s *Store) ListUnusedInvitations(ctx context.Context, organizationID int64, now time.Time) ([]access.Invitation, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	query := `
		select i.id, i.organization_id, i.role_id, r.name, i.token, i.note, i.expires_at, i.used_by_user_id, i.created_at
		from invitations i
		join roles r on r.id = i.role_id
		where i.used_by_user_id is null and i.expires_at > $1
		order by i.created_at desc
	`
	args := []any{now}
	if organizationID != access.OrgUnrestricted {
		query = `
			select i.id, i.organization_id, i.role_id, r.name, i.token, i.note, i.expires_at, i.used_by_user_id, i.created_at
			from invitations i
			join roles r on r.id = i.role_id
			where i.used_by_user_id is null and i.expires_at > $1 and i.organization_id = $2
			order by i.created_at desc
		`
		args = append(args, organizationID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []access.Invitation
	for rows.Next() {
		var (
			inv  access.Invitation
			note sql.NullString
			used sql.NullInt64
		)
		if err := rows.Scan(&inv.ID, &inv.OrganizationID, &inv.RoleID, &inv.RoleName, &inv.Token, &note, &inv.ExpiresAt, &used, &inv.CreatedAt); err != nil {
			return nil, err
		}
		if note.Valid {
			inv.Note = note.String
		}
		if used.Valid {
			inv.UsedByUserID = &used.Int64
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) DeleteInvitation(ctx context.Context, id int64) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from invitations where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return access.ErrNotFound
	}
	return nil
}

// RedeemInvitation performs the entire redemption as one serializable
// transaction: re-check the invitation under lock, create the user,
// assign the role, and consume the token with a conditional update.
// Two racing redeemers serialize on the row lock; the loser re-reads a
// consumed invitation and observes ErrInvitationInvalid.
func (s *Store) RedeemInvitation(ctx context.Context, token string, u access.User, now time.Time) (access.User, access.Invitation, error) {
	if s.db == nil {
		return access.User{}, access.Invitation{}, errors.New("database connection unavailable")
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return access.User{}, access.Invitation{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		inv  access.Invitation
		used sql.NullInt64
	)
	err = tx.QueryRowContext(ctx, `
		select id, organization_id, role_id, expires_at, used_by_user_id
		from invitations
		where token = $1
		for update
	`, token).Scan(&inv.ID, &inv.OrganizationID, &inv.RoleID, &inv.ExpiresAt, &used)
	if errors.Is(err, sql.ErrNoRows) {
		return access.User{}, access.Invitation{}, access.ErrInvitationInvalid
	}
	if err != nil {
		return access.User{}, access.Invitation{}, err
	}
	if used.Valid || !now.Before(inv.ExpiresAt) {
		return access.User{}, access.Invitation{}, access.ErrInvitationInvalid
	}

	u.OrganizationID = inv.OrganizationID
	row := tx.QueryRowContext(ctx, `
		insert into users (organization_id, username, email, display_name, password_hash)
		values ($1, $2, $3, $4, $5)
		returning id, created_at, updated_at
	`, u.OrganizationID, u.Username, u.Email, u.DisplayName, u.PasswordHash)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return access.User{}, access.Invitation{}, access.ErrConflict
		}
		return access.User{}, access.Invitation{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		insert into user_roles (user_id, role_id)
		values ($1, $2)
	`, u.ID, inv.RoleID); err != nil {
		return access.User{}, access.Invitation{}, err
	}

	res, err := tx.ExecContext(ctx, `
		update invitations
		set used_by_user_id = $1
		where id = $2 and used_by_user_id is null
	`, u.ID, inv.ID)
	if err != nil {
		return access.User{}, access.Invitation{}, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return access.User{}, access.Invitation{}, err
	}
	if aff == 0 {
		return access.User{}, access.Invitation{}, access.ErrInvitationInvalid
	}

	if err := tx.Commit(); err != nil {
		return access.User{}, access.Invitation{}, err
	}
	inv.Token = token
	inv.UsedByUserID = &u.ID
	return u, inv, nil
}
