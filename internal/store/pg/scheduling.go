package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pforhan/teven-sub000/internal/access"
	"github.com/pforhan/teven-sub000/internal/scheduling"
)

func (s *Store) CreateEvent(ctx context.Context, ev scheduling.Event) (scheduling.Event, error) {
	if s.db == nil {
		return scheduling.Event{}, errors.New("database connection unavailable")
	}
	var customerID any
	if ev.CustomerID != 0 {
		customerID = ev.CustomerID
	}
	row := s.db.QueryRowContext(ctx, `
		insert into events (organization_id, customer_id, title, location, starts_at, ends_at, notes)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning id, created_at, updated_at
	`, ev.OrganizationID, customerID, ev.Title, nullIfEmpty(ev.Location), ev.StartsAt, ev.EndsAt, nullIfEmpty(ev.Notes))
	if err := row.Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return scheduling.Event{}, access.ErrNotFound
		}
		return scheduling.Event{}, err
	}
	return ev, nil
}

func (s *Store) GetEvent(ctx context.Context, id int64) (scheduling.Event, error) {
	if s.db == nil {
		return scheduling.Event{}, errors.New("database connection unavailable")
	}
	var (
		ev         scheduling.Event
		customerID sql.NullInt64
		location   sql.NullString
		notes      sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select id, organization_id, customer_id, title, location, starts_at, ends_at, notes, created_at, updated_at
		from events
		where id = $1
	`, id).Scan(&ev.ID, &ev.OrganizationID, &customerID, &ev.Title, &location, &ev.StartsAt, &ev.EndsAt, &notes, &ev.CreatedAt, &ev.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduling.Event{}, access.ErrNotFound
	}
	if err != nil {
		return scheduling.Event{}, err
	}
	if customerID.Valid {
		ev.CustomerID = customerID.Int64
	}
	if location.Valid {
		ev.Location = location.String
	}
	if notes.Valid {
		ev.Notes = notes.String
	}
	return ev, nil
}

func (s *Store) ListEvents(ctx context.Context, organizationID int64) ([]scheduling.Event, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	query := `
		select id, organization_id, customer_id, title, location, starts_at, ends_at, notes, created_at, updated_at
		from events
		order by starts_at
	`
	args := []any{}
	if organizationID != access.OrgUnrestricted {
		query = `
			select id, organization_id, customer_id, title, location, starts_at, ends_at, notes, created_at, updated_at
			from events
			where organization_id = $1
			order by starts_at
		`
		args = append(args, organizationID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []scheduling.Event
	for rows.Next() {
		var (
			ev         scheduling.Event
			customerID sql.NullInt64
			location   sql.NullString
			notes      sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.OrganizationID, &customerID, &ev.Title, &location, &ev.StartsAt, &ev.EndsAt, &notes, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, err
		}
		if customerID.Valid {
			ev.CustomerID = customerID.Int64
		}
		if location.Valid {
			ev.Location = location.String
		}
		if notes.Valid {
			ev.Notes = notes.String
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) UpdateEvent(ctx context.Context, ev scheduling.Event) (scheduling.Event, error) {
	if s.db == nil {
		return scheduling.Event{}, errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `
		update events
		set title = $2, location = $3, starts_at = $4, ends_at = $5, notes = $6, updated_at = now()
		where id = $1
	`, ev.ID, ev.Title, nullIfEmpty(ev.Location), ev.StartsAt, ev.EndsAt, nullIfEmpty(ev.Notes))
	if err != nil {
		return scheduling.Event{}, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return scheduling.Event{}, err
	}
	if aff == 0 {
		return scheduling.Event{}, access.ErrNotFound
	}
	return s.GetEvent(ctx, ev.ID)
}

func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from events where id = $1`, id)
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

func (s *Store) CreateCustomer(ctx context.Context, c scheduling.Customer) (scheduling.Customer, error) {
	if s.db == nil {
		return scheduling.Customer{}, errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `
		insert into customers (organization_id, name, email, phone, notes)
		values ($1, $2, $3, $4, $5)
		returning id, created_at, updated_at
	`, c.OrganizationID, c.Name, nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Notes))
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return scheduling.Customer{}, access.ErrNotFound
		}
		return scheduling.Customer{}, err
	}
	return c, nil
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (scheduling.Customer, error) {
	if s.db == nil {
		return scheduling.Customer{}, errors.New("database connection unavailable")
	}
	var (
		c     scheduling.Customer
		email sql.NullString
		phone sql.NullString
		notes sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select id, organization_id, name, email, phone, notes, created_at, updated_at
		from customers
		where id = $1
	`, id).Scan(&c.ID, &c.OrganizationID, &c.Name, &email, &phone, &notes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduling.Customer{}, access.ErrNotFound
	}
	if err != nil {
		return scheduling.Customer{}, err
	}
	if email.Valid {
		c.Email = email.String
	}
	if phone.Valid {
		c.Phone = phone.String
	}
	if notes.Valid {
		c.Notes = notes.String
	}
	return c, nil
}

func (s *Store) ListCustomers(ctx context.Context, organizationID int64) ([]scheduling.Customer, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	query := `
		select id, organization_id, name, email, phone, notes, created_at, updated_at
		from customers
		order by name
	`
	args := []any{}
	if organizationID != access.OrgUnrestricted {
		query = `
			select id, organization_id, name, email, phone, notes, created_at, updated_at
			from customers
			where organization_id = $1
			order by name
		`
		args = append(args, organizationID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []scheduling.Customer
	for rows.Next() {
		var (
			c     scheduling.Customer
			email sql.NullString
			phone sql.NullString
			notes sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &email, &phone, &notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if email.Valid {
			c.Email = email.String
		}
		if phone.Valid {
			c.Phone = phone.String
		}
		if notes.Valid {
			c.Notes = notes.String
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c scheduling.Customer) (scheduling.Customer, error) {
	if s.db == nil {
		return scheduling.Customer{}, errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `
		update customers
		set name = $2, email = $3, phone = $4, notes = $5, updated_at = now()
		where id = $1
	`, c.ID, c.Name, nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Notes))
	if err != nil {
		return scheduling.Customer{}, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return scheduling.Customer{}, err
	}
	if aff == 0 {
		return scheduling.Customer{}, access.ErrNotFound
	}
	return s.GetCustomer(ctx, c.ID)
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from customers where id = $1`, id)
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

func (s *Store) CreateInventoryItem(ctx context.Context, it scheduling.InventoryItem) (scheduling.InventoryItem, error) {
	if s.db == nil {
		return scheduling.InventoryItem{}, errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `
		insert into inventory_items (organization_id, name, quantity, notes)
		values ($1, $2, $3, $4)
		returning id, created_at, updated_at
	`, it.OrganizationID, it.Name, it.Quantity, nullIfEmpty(it.Notes))
	if err := row.Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return scheduling.InventoryItem{}, access.ErrNotFound
		}
		return scheduling.InventoryItem{}, err
	}
	return it, nil
}

func (s *Store) GetInventoryItem(ctx context.Context, id int64) (scheduling.InventoryItem, error) {
	if s.db == nil {
		return scheduling.InventoryItem{}, errors.New("database connection unavailable")
	}
	var (
		it    scheduling.InventoryItem
		notes sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select id, organization_id, name, quantity, notes, created_at, updated_at
		from inventory_items
		where id = $1
	`, id).Scan(&it.ID, &it.OrganizationID, &it.Name, &it.Quantity, &notes, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduling.InventoryItem{}, access.ErrNotFound
	}
	if err != nil {
		return scheduling.InventoryItem{}, err
	}
	if notes.Valid {
		it.Notes = notes.String
	}
	return it, nil
}

func (s *Store) ListInventoryItems(ctx context.Context, organizationID int64) ([]scheduling.InventoryItem, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	query := `
		select id, organization_id, name, quantity, notes, created_at, updated_at
		from inventory_items
		order by name
	`
	args := []any{}
	if organizationID != access.OrgUnrestricted {
		query = `
			select id, organization_id, name, quantity, notes, created_at, updated_at
			from inventory_items
			where organization_id = $1
			order by name
		`
		args = append(args, organizationID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []scheduling.InventoryItem
	for rows.Next() {
		var (
			it    scheduling.InventoryItem
			notes sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.OrganizationID, &it.Name, &it.Quantity, &notes, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		if notes.Valid {
			it.Notes = notes.String
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateInventoryItem(ctx context.Context, it scheduling.InventoryItem) (scheduling.InventoryItem, error) {
	if s.db == nil {
		return scheduling.InventoryItem{}, errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `
		update inventory_items
		set name = $2, quantity = $3, notes = $4, updated_at = now()
		where id = $1
	`, it.ID, it.Name, it.Quantity, nullIfEmpty(it.Notes))
	if err != nil {
		return scheduling.InventoryItem{}, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return scheduling.InventoryItem{}, err
	}
	if aff == 0 {
		return scheduling.InventoryItem{}, access.ErrNotFound
	}
	return s.GetInventoryItem(ctx, it.ID)
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id int64) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	res, err := s.db.ExecContext(ctx, `delete from inventory_items where id = $1`, id)
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
