package scheduling

import (
	"context"

	"github.com/pforhan/teven-sub000/internal/access"
)

// stubStore implements Store with overridable function fields; unset
// operations report ErrNotFound.
type stubStore struct {
	createEventFn func(ctx context.Context, ev Event) (Event, error)
	getEventFn    func(ctx context.Context, id int64) (Event, error)
	listEventsFn  func(ctx context.Context, organizationID int64) ([]Event, error)
	updateEventFn func(ctx context.Context, ev Event) (Event, error)
	deleteEventFn func(ctx context.Context, id int64) error

	createCustomerFn func(ctx context.Context, c Customer) (Customer, error)
	getCustomerFn    func(ctx context.Context, id int64) (Customer, error)
	listCustomersFn  func(ctx context.Context, organizationID int64) ([]Customer, error)
	updateCustomerFn func(ctx context.Context, c Customer) (Customer, error)
	deleteCustomerFn func(ctx context.Context, id int64) error

	createInventoryItemFn func(ctx context.Context, it InventoryItem) (InventoryItem, error)
	getInventoryItemFn    func(ctx context.Context, id int64) (InventoryItem, error)
	listInventoryItemsFn  func(ctx context.Context, organizationID int64) ([]InventoryItem, error)
	updateInventoryItemFn func(ctx context.Context, it InventoryItem) (InventoryItem, error)
	deleteInventoryItemFn func(ctx context.Context, id int64) error
}

var _ Store = (*stubStore)(nil)

func (s *stubStore) CreateEvent(ctx context.Context, ev Event) (Event, error) {
	if s.createEventFn != nil {
		return s.createEventFn(ctx, ev)
	}
	return Event{}, access.ErrNotFound
}

func (s *stubStore) GetEvent(ctx context.Context, id int64) (Event, error) {
	if s.getEventFn != nil {
		return s.getEventFn(ctx, id)
	}
	return Event{}, access.ErrNotFound
}

func (s *stubStore) ListEvents(ctx context.Context, organizationID int64) ([]Event, error) {
	if s.listEventsFn != nil {
		return s.listEventsFn(ctx, organizationID)
	}
	return nil, nil
}

func (s *stubStore) UpdateEvent(ctx context.Context, ev Event) (Event, error) {
	if s.updateEventFn != nil {
		return s.updateEventFn(ctx, ev)
	}
	return Event{}, access.ErrNotFound
}

func (s *stubStore) DeleteEvent(ctx context.Context, id int64) error {
	if s.deleteEventFn != nil {
		return s.deleteEventFn(ctx, id)
	}
	return access.ErrNotFound
}

func (s *stubStore) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	if s.createCustomerFn != nil {
		return s.createCustomerFn(ctx, c)
	}
	return Customer{}, access.ErrNotFound
}

func (s *stubStore) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	if s.getCustomerFn != nil {
		return s.getCustomerFn(ctx, id)
	}
	return Customer{}, access.ErrNotFound
}

func (s *stubStore) ListCustomers(ctx context.Context, organizationID int64) ([]Customer, error) {
	if s.listCustomersFn != nil {
		return s.listCustomersFn(ctx, organizationID)
	}
	return nil, nil
}

func (s *stubStore) UpdateCustomer(ctx context.Context, c Customer) (Customer, error) {
	if s.updateCustomerFn != nil {
		return s.updateCustomerFn(ctx, c)
	}
	return Customer{}, access.ErrNotFound
}

func (s *stubStore) DeleteCustomer(ctx context.Context, id int64) error {
	if s.deleteCustomerFn != nil {
		return s.deleteCustomerFn(ctx, id)
	}
	return access.ErrNotFound
}

func (s *stubStore) CreateInventoryItem(ctx context.Context, it InventoryItem) (InventoryItem, error) {
	if s.createInventoryItemFn != nil {
		return s.createInventoryItemFn(ctx, it)
	}
	return InventoryItem{}, access.ErrNotFound
}

func (s *stubStore) GetInventoryItem(ctx context.Context, id int64) (InventoryItem, error) {
	if s.getInventoryItemFn != nil {
		return s.getInventoryItemFn(ctx, id)
	}
	return InventoryItem{}, access.ErrNotFound
}

func (s *stubStore) ListInventoryItems(ctx context.Context, organizationID int64) ([]InventoryItem, error) {
	if s.listInventoryItemsFn != nil {
		return s.listInventoryItemsFn(ctx, organizationID)
	}
	return nil, nil
}

func (s *stubStore) UpdateInventoryItem(ctx context.Context, it InventoryItem) (InventoryItem, error) {
	if s.updateInventoryItemFn != nil {
		return s.updateInventoryItemFn(ctx, it)
	}
	return InventoryItem{}, access.ErrNotFound
}

func (s *stubStore) DeleteInventoryItem(ctx context.Context, id int64) error {
	if s.deleteInventoryItemFn != nil {
		return s.deleteInventoryItemFn(ctx, id)
	}
	return access.ErrNotFound
}
