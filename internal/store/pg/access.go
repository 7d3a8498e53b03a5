package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pforhan/teven-sub000/internal/access"
)

func (s *Store) CreateOrganization(ctx context.Context, name string) (access.Organization, error) {
	if s.db == nil {
		return access.Organization{}, errors.New("database connection unavailable")
	}
	var org access.Organization
	row := s.db.QueryRowContext(ctx, `
		insert into organizations (name)
		values ($1)
		returning id, name, created_at, updated_at
	`, name)
	if err := row.Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return access.Organization{}, access.ErrConflict
		}
		return access.Organization{}, err
	}
	return org, nil
}

func (s *Store) GetOrganization(ctx context.Context, id int64) (access.Organization, error) {
	if s.db == nil {
		return access.Organization{}, errors.New("database connection unavailable")
	}
	var org access.Organization
	err := s.db.QueryRowContext(ctx, `
		select id, name, created_at, updated_at
		from organizations
		where id = $1
	`, id).Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Organization{}, access.ErrNotFound
	}
	if err != nil {
		return access.Organization{}, err
	}
	return org, nil
}

func (s *Store) ListOrganizations(ctx context.Context) ([]access.Organization, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, name, created_at, updated_at
		from organizations
		order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []access.Organization
	for rows.Next() {
		var org access.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, org)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) UpdateOrganization(ctx context.Context, id int64, name string) (access.Organization, error) {
	if s.db == nil {
		return access.Organization{}, errors.New("database connection unavailable")
	}
	var org access.Organization
	err := s.db.QueryRowContext(ctx, `
		update organizations
		set name = $2, updated_at = now()
		where id = $1
		returning id, name, created_at, updated_at
	`, id, name).Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Organization{}, access.ErrNotFound
	}
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return access.Organization{}, access.ErrConflict
		}
		return access.Organization{}, err
	}
	return org, nil
}

func (s *Store) DeleteOrganization(ctx context.Context, id int64) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from organizations where id = $1`, id)
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

func (s *Store) CreateUser(ctx context.Context, u access.User) (access.User, error) {
	if s.db == nil {
		return access.User{}, errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `
		insert into users (organization_id, username, email, display_name, password_hash)
		values ($1, $2, $3, $4, $5)
		returning id, created_at, updated_at
	`, u.OrganizationID, u.Username, u.Email, u.DisplayName, u.PasswordHash)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return access.User{}, access.ErrConflict
			case pgErrForeignKeyViolation:
				return access.User{}, access.ErrNotFound
			}
		}
		return access.User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (access.User, error) {
	if s.db == nil {
		return access.User{}, errors.New("database connection unavailable")
	}
	var u access.User
	err := s.db.QueryRowContext(ctx, `
		select id, organization_id, username, email, display_name, password_hash, created_at, updated_at
		from users
		where id = $1
	`, id).Scan(&u.ID, &u.OrganizationID, &u.Username, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return access.User{}, access.ErrNotFound
	}
	if err != nil {
		return access.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (access.User, error) {
	if s.db == nil {
		return access.User{}, errors.New("database connection unavailable")
	}
	var u access.User
	err := s.db.QueryRowContext(ctx, `
		select id, organization_id, username, email, display_name, password_hash, created_at, updated_at
		from users
		where username = $1
	`, username).Scan(&u.ID, &u.OrganizationID, &u.Username, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return access.User{}, access.ErrNotFound
	}
	if err != nil {
		return access.User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, organizationID int64) ([]access.User, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	query := `
		select id, organization_id, username, email, display_name, password_hash, created_at, updated_at
		from users
		order by username
	`
	args := []any{}
	if organizationID != access.OrgUnrestricted {
		query = `
			select id, organization_id, username, email, display_name, password_hash, created_at, updated_at
			from users
			where organization_id = $1
			order by username
		`
		args = append(args, organizationID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []access.User
	for rows.Next() {
		var u access.User
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.Username, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) CreateRole(ctx context.Context, name string, perms []access.Permission) (access.Role, error) {
	if s.db == nil {
		return access.Role{}, errors.New("database connection unavailable")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return access.Role{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var role access.Role
	row := tx.QueryRowContext(ctx, `
		insert into roles (name)
		values ($1)
		returning id, name, created_at, updated_at
	`, name)
	if err := row.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return access.Role{}, access.ErrConflict
		}
		return access.Role{}, err
	}
	for _, p := range perms {
		if _, err := tx.ExecContext(ctx, `
			insert into role_permissions (role_id, permission)
			values ($1, $2)
		`, role.ID, string(p)); err != nil {
			return access.Role{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return access.Role{}, err
	}
	role.Permissions = perms
	return role, nil
}

func (s *Store) GetRole(ctx context.Context, id int64) (access.Role, error) {
	if s.db == nil {
		return access.Role{}, errors.New("database connection unavailable")
	}
	var role access.Role
	err := s.db.QueryRowContext(ctx, `
		select id, name, created_at, updated_at
		from roles
		where id = $1
	`, id).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Role{}, access.ErrNotFound
	}
	if err != nil {
		return access.Role{}, err
	}
	perms, err := s.rolePermissions(ctx, role.ID)
	if err != nil {
		return access.Role{}, err
	}
	role.Permissions = perms
	return role, nil
}

func (s *Store) GetRoleByName(ctx context.Context, name string) (access.Role, error) {
	if s.db == nil {
		return access.Role{}, errors.New("database connection unavailable")
	}
	var role access.Role
	err := s.db.QueryRowContext(ctx, `
		select id, name, created_at, updated_at
		from roles
		where name = $1
	`, name).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Role{}, access.ErrNotFound
	}
	if err != nil {
		return access.Role{}, err
	}
	perms, err := s.rolePermissions(ctx, role.ID)
	if err != nil {
		return access.Role{}, err
	}
	role.Permissions = perms
	return role, nil
}

func (s *Store) ListRoles(ctx context.Context) ([]access.Role, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, name, created_at, updated_at
		from roles
		order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []access.Role
	for rows.Next() {
		var role access.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range roles {
		perms, err := s.rolePermissions(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Permissions = perms
	}
	return roles, nil
}

func (s *Store) RenameRole(ctx context.Context, id int64, name string) (access.Role, error) {
	if s.db == nil {
		return access.Role{}, errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `
		update roles set name = $2, updated_at = now() where id = $1
	`, id, name)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return access.Role{}, access.ErrConflict
		}
		return access.Role{}, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return access.Role{}, err
	}
	if aff == 0 {
		return access.Role{}, access.ErrNotFound
	}
	return s.GetRole(ctx, id)
}

func (s *Store) SetRolePermissions(ctx context.Context, id int64, perms []access.Permission) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `select 1 from roles where id = $1`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return access.ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `delete from role_permissions where role_id = $1`, id); err != nil {
		return err
	}
	for _, p := range perms {
		if _, err := tx.ExecContext(ctx, `
			insert into role_permissions (role_id, permission)
			values ($1, $2)
		`, id, string(p)); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `update roles set updated_at = now() where id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) DeleteRole(ctx context.Context, id int64) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from roles where id = $1`, id)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return fmt.Errorf("%w: role is still referenced", access.ErrConflict)
		}
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

func (s *Store) AssignRole(ctx context.Context, userID, roleID int64) (access.RoleAssignment, error) {
	if s.db == nil {
		return access.RoleAssignment{}, errors.New("database connection unavailable")
	}
	var a access.RoleAssignment
	err := s.db.QueryRowContext(ctx, `
		insert into user_roles (user_id, role_id)
		values ($1, $2)
		returning user_id, role_id, created_at
	`, userID, roleID).Scan(&a.UserID, &a.RoleID, &a.CreatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return access.RoleAssignment{}, access.ErrConflict
			case pgErrForeignKeyViolation:
				return access.RoleAssignment{}, access.ErrNotFound
			}
		}
		return access.RoleAssignment{}, err
	}
	return a, nil
}

func (s *Store) RevokeRole(ctx context.Context, userID, roleID int64) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `
		delete from user_roles
		where user_id = $1 and role_id = $2
	`, userID, roleID)
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

func (s *Store) UserPermissions(ctx context.Context, userID int64) ([]access.Permission, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select distinct rp.permission
		from user_roles ur
		join role_permissions rp on rp.role_id = ur.role_id
		where ur.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPermissions(rows)
}

func (s *Store) rolePermissions(ctx context.Context, roleID int64) ([]access.Permission, error) {
	rows, err := s.db.QueryContext(ctx, `
		select permission
		from role_permissions
		where role_id = $1
		order by permission
	`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// scanPermissions drops keys no longer in the catalog so stale rows from
// an older deployment cannot grant anything.
func scanPermissions(rows *sql.Rows) ([]access.Permission, error) {
	var perms []access.Permission
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		p := access.Permission(strings.TrimSpace(key))
		if !p.Valid() {
			continue
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}
