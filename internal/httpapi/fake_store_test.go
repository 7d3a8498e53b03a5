package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pforhan/teven-sub000/internal/access"
	"github.com/pforhan/teven-sub000/internal/scheduling"
)

// memStore is an in-memory implementation of both store interfaces so
// handler tests exercise the real services end to end.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	orgs        map[int64]access.Organization
	users       map[int64]access.User
	roles       map[int64]access.Role
	userRoles   map[int64]map[int64]bool
	invitations map[int64]access.Invitation
	events      map[int64]scheduling.Event
	customers   map[int64]scheduling.Customer
	items       map[int64]scheduling.InventoryItem
}

var (
	_ access.Store     = (*memStore)(nil)
	_ scheduling.Store = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		orgs:        make(map[int64]access.Organization),
		users:       make(map[int64]access.User),
		roles:       make(map[int64]access.Role),
		userRoles:   make(map[int64]map[int64]bool),
		invitations: make(map[int64]access.Invitation),
		events:      make(map[int64]scheduling.Event),
		customers:   make(map[int64]scheduling.Customer),
		items:       make(map[int64]scheduling.InventoryItem),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateOrganization(_ context.Context, name string) (access.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, org := range m.orgs {
		if org.Name == name {
			return access.Organization{}, access.ErrConflict
		}
	}
	org := access.Organization{ID: m.id(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.orgs[org.ID] = org
	return org, nil
}

func (m *memStore) GetOrganization(_ context.Context, id int64) (access.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return access.Organization{}, access.ErrNotFound
	}
	return org, nil
}

func (m *memStore) ListOrganizations(_ context.Context) ([]access.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []access.Organization
	for _, org := range m.orgs {
		result = append(result, org)
	}
	return result, nil
}

func (m *memStore) UpdateOrganization(_ context.Context, id int64, name string) (access.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return access.Organization{}, access.ErrNotFound
	}
	org.Name = name
	org.UpdatedAt = time.Now()
	m.orgs[id] = org
	return org, nil
}

func (m *memStore) DeleteOrganization(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orgs[id]; !ok {
		return access.ErrNotFound
	}
	delete(m.orgs, id)
	return nil
}

func (m *memStore) CreateUser(_ context.Context, u access.User) (access.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createUserLocked(u)
}

func (m *memStore) createUserLocked(u access.User) (access.User, error) {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return access.User{}, access.ErrConflict
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (access.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return access.User{}, access.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (access.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return access.User{}, access.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context, organizationID int64) ([]access.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []access.User
	for _, u := range m.users {
		if organizationID == access.OrgUnrestricted || u.OrganizationID == organizationID {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *memStore) CreateRole(_ context.Context, name string, perms []access.Permission) (access.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == name {
			return access.Role{}, access.ErrConflict
		}
	}
	role := access.Role{ID: m.id(), Name: name, Permissions: perms, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.roles[role.ID] = role
	return role, nil
}

func (m *memStore) GetRole(_ context.Context, id int64) (access.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[id]
	if !ok {
		return access.Role{}, access.ErrNotFound
	}
	return role, nil
}

func (m *memStore) GetRoleByName(_ context.Context, name string) (access.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return access.Role{}, access.ErrNotFound
}

func (m *memStore) ListRoles(_ context.Context) ([]access.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []access.Role
	for _, r := range m.roles {
		result = append(result, r)
	}
	return result, nil
}

func (m *memStore) RenameRole(_ context.Context, id int64, name string) (access.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[id]
	if !ok {
		return access.Role{}, access.ErrNotFound
	}
	role.Name = name
	role.UpdatedAt = time.Now()
	m.roles[id] = role
	return role, nil
}

func (m *memStore) SetRolePermissions(_ context.Context, id int64, perms []access.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[id]
	if !ok {
		return access.ErrNotFound
	}
	role.Permissions = perms
	m.roles[id] = role
	return nil
}

func (m *memStore) DeleteRole(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return access.ErrNotFound
	}
	for _, assigned := range m.userRoles {
		if assigned[id] {
			return fmt.Errorf("%w: role is still referenced", access.ErrConflict)
		}
	}
	delete(m.roles, id)
	return nil
}

func (m *memStore) AssignRole(_ context.Context, userID, roleID int64) (access.RoleAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return access.RoleAssignment{}, access.ErrNotFound
	}
	if _, ok := m.roles[roleID]; !ok {
		return access.RoleAssignment{}, access.ErrNotFound
	}
	if m.userRoles[userID] == nil {
		m.userRoles[userID] = make(map[int64]bool)
	}
	if m.userRoles[userID][roleID] {
		return access.RoleAssignment{}, access.ErrConflict
	}
	m.userRoles[userID][roleID] = true
	return access.RoleAssignment{UserID: userID, RoleID: roleID, CreatedAt: time.Now()}, nil
}

func (m *memStore) RevokeRole(_ context.Context, userID, roleID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.userRoles[userID][roleID] {
		return access.ErrNotFound
	}
	delete(m.userRoles[userID], roleID)
	return nil
}

func (m *memStore) UserPermissions(_ context.Context, userID int64) ([]access.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[access.Permission]bool)
	var perms []access.Permission
	for roleID := range m.userRoles[userID] {
		for _, p := range m.roles[roleID].Permissions {
			if !seen[p] {
				seen[p] = true
				perms = append(perms, p)
			}
		}
	}
	return perms, nil
}

func (m *memStore) CreateInvitation(_ context.Context, inv access.Invitation) (access.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.invitations {
		if existing.Token == inv.Token {
			return access.Invitation{}, access.ErrConflict
		}
	}
	inv.ID = m.id()
	inv.CreatedAt = time.Now()
	m.invitations[inv.ID] = inv
	return inv, nil
}

func (m *memStore) GetInvitation(_ context.Context, id int64) (access.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invitations[id]
	if !ok {
		return access.Invitation{}, access.ErrNotFound
	}
	return inv, nil
}

func (m *memStore) GetInvitationByToken(_ context.Context, token string) (access.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return access.Invitation{}, access.ErrNotFound
}

func (m *memStore) ListUnusedInvitations(_ context.Context, organizationID int64, now time.Time) ([]access.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []access.Invitation
	for _, inv := range m.invitations {
		if !inv.Active(now) {
			continue
		}
		if organizationID == access.OrgUnrestricted || inv.OrganizationID == organizationID {
			result = append(result, inv)
		}
	}
	return result, nil
}

func (m *memStore) DeleteInvitation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invitations[id]; !ok {
		return access.ErrNotFound
	}
	delete(m.invitations, id)
	return nil
}

func (m *memStore) RedeemInvitation(_ context.Context, token string, u access.User, now time.Time) (access.User, access.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var inv access.Invitation
	found := false
	for _, candidate := range m.invitations {
		if candidate.Token == token {
			inv = candidate
			found = true
			break
		}
	}
	if !found || !inv.Active(now) {
		return access.User{}, access.Invitation{}, access.ErrInvitationInvalid
	}
	u.OrganizationID = inv.OrganizationID
	created, err := m.createUserLocked(u)
	if err != nil {
		return access.User{}, access.Invitation{}, err
	}
	if m.userRoles[created.ID] == nil {
		m.userRoles[created.ID] = make(map[int64]bool)
	}
	m.userRoles[created.ID][inv.RoleID] = true
	inv.UsedByUserID = &created.ID
	m.invitations[inv.ID] = inv
	return created, inv, nil
}

func (m *memStore) CreateEvent(_ context.Context, ev scheduling.Event) (scheduling.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev.ID = m.id()
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = ev.CreatedAt
	m.events[ev.ID] = ev
	return ev, nil
}

func (m *memStore) GetEvent(_ context.Context, id int64) (scheduling.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return scheduling.Event{}, access.ErrNotFound
	}
	return ev, nil
}

func (m *memStore) ListEvents(_ context.Context, organizationID int64) ([]scheduling.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []scheduling.Event
	for _, ev := range m.events {
		if organizationID == access.OrgUnrestricted || ev.OrganizationID == organizationID {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (m *memStore) UpdateEvent(_ context.Context, ev scheduling.Event) (scheduling.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[ev.ID]; !ok {
		return scheduling.Event{}, access.ErrNotFound
	}
	ev.UpdatedAt = time.Now()
	m.events[ev.ID] = ev
	return ev, nil
}

func (m *memStore) DeleteEvent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return access.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memStore) CreateCustomer(_ context.Context, c scheduling.Customer) (scheduling.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.customers[c.ID] = c
	return c, nil
}

func (m *memStore) GetCustomer(_ context.Context, id int64) (scheduling.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return scheduling.Customer{}, access.ErrNotFound
	}
	return c, nil
}

func (m *memStore) ListCustomers(_ context.Context, organizationID int64) ([]scheduling.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []scheduling.Customer
	for _, c := range m.customers {
		if organizationID == access.OrgUnrestricted || c.OrganizationID == organizationID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *memStore) UpdateCustomer(_ context.Context, c scheduling.Customer) (scheduling.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID]; !ok {
		return scheduling.Customer{}, access.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	m.customers[c.ID] = c
	return c, nil
}

func (m *memStore) DeleteCustomer(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return access.ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *memStore) CreateInventoryItem(_ context.Context, it scheduling.InventoryItem) (scheduling.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = m.id()
	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	m.items[it.ID] = it
	return it, nil
}

func (m *memStore) GetInventoryItem(_ context.Context, id int64) (scheduling.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return scheduling.InventoryItem{}, access.ErrNotFound
	}
	return it, nil
}

func (m *memStore) ListInventoryItems(_ context.Context, organizationID int64) ([]scheduling.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []scheduling.InventoryItem
	for _, it := range m.items {
		if organizationID == access.OrgUnrestricted || it.OrganizationID == organizationID {
			result = append(result, it)
		}
	}
	return result, nil
}

func (m *memStore) UpdateInventoryItem(_ context.Context, it scheduling.InventoryItem) (scheduling.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[it.ID]; !ok {
		return scheduling.InventoryItem{}, access.ErrNotFound
	}
	it.UpdatedAt = time.Now()
	m.items[it.ID] = it
	return it, nil
}

func (m *memStore) DeleteInventoryItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return access.ErrNotFound
	}
	delete(m.items, id)
	return nil
}
