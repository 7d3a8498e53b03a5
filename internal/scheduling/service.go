// Package scheduling holds the event, customer and inventory feature
// services. Each operation resolves its effective organization through
// the access package before touching storage; none of them re-derives
// scope logic of its own, and resolver failures propagate unchanged.
package scheduling

import (
	"context"
	"errors"
)

// Store describes persistence for events, customers and inventory.
// Listing with organization id 0 spans all organizations (global reads).
type Store interface {
	CreateEvent(ctx context.Context, ev Event) (Event, error)
	GetEvent(ctx context.Context, id int64) (Event, error)
	ListEvents(ctx context.Context, organizationID int64) ([]Event, error)
	UpdateEvent(ctx context.Context, ev Event) (Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	CreateCustomer(ctx context.Context, c Customer) (Customer, error)
	GetCustomer(ctx context.Context, id int64) (Customer, error)
	ListCustomers(ctx context.Context, organizationID int64) ([]Customer, error)
	UpdateCustomer(ctx context.Context, c Customer) (Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	CreateInventoryItem(ctx context.Context, it InventoryItem) (InventoryItem, error)
	GetInventoryItem(ctx context.Context, id int64) (InventoryItem, error)
	ListInventoryItems(ctx context.Context, organizationID int64) ([]InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, it InventoryItem) (InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id int64) error
}

// Service is the guarded CRUD layer over Store.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("scheduling store is required")
	}
	return &Service{store: store}, nil
}
