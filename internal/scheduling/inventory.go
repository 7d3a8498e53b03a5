package scheduling

import (
	"context"
	"fmt"
	"strings"

	"github.com/pforhan/teven-sub000/internal/access"
)

// CreateInventoryItemInput describes a new inventory record.
type CreateInventoryItemInput struct {
	OrganizationID int64
	Name           string
	Quantity       int
	Notes          string
}

// UpdateInventoryItemInput carries optional field updates.
type UpdateInventoryItemInput struct {
	Name     *string
	Quantity *int
	Notes    *string
}

func (s *Service) CreateInventoryItem(ctx context.Context, ac access.AuthContext, in CreateInventoryItemInput) (InventoryItem, error) {
	orgID, err := access.ResolveScopeForWrite(ac, access.PermInventoryManageGlobal, access.PermInventoryManageOrganization, in.OrganizationID)
	if err != nil {
		return InventoryItem{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return InventoryItem{}, fmt.Errorf("%w: item name is required", access.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return InventoryItem{}, fmt.Errorf("%w: quantity must be >= 0", access.ErrInvalidInput)
	}
	return s.store.CreateInventoryItem(ctx, InventoryItem{
		OrganizationID: orgID,
		Name:           in.Name,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
	})
}

func (s *Service) GetInventoryItem(ctx context.Context, ac access.AuthContext, id int64) (InventoryItem, error) {
	it, err := s.store.GetInventoryItem(ctx, id)
	if err != nil {
		return InventoryItem{}, err
	}
	if err := access.ResolveScopeForResource(ac, access.PermInventoryViewGlobal, access.PermInventoryViewOrganization, it.OrganizationID); err != nil {
		return InventoryItem{}, err
	}
	return it, nil
}

func (s *Service) ListInventoryItems(ctx context.Context, ac access.AuthContext, requestedOrgID int64) ([]InventoryItem, error) {
	orgID, err := access.ResolveScope(ac, access.PermInventoryViewGlobal, access.PermInventoryViewOrganization, requestedOrgID)
	if err != nil {
		return nil, err
	}
	return s.store.ListInventoryItems(ctx, orgID)
}

func (s *Service) UpdateInventoryItem(ctx context.Context, ac access.AuthContext, id int64, in UpdateInventoryItemInput) (InventoryItem, error) {
	it, err := s.store.GetInventoryItem(ctx, id)
	if err != nil {
		return InventoryItem{}, err
	}
	if err := access.ResolveScopeForResource(ac, access.PermInventoryManageGlobal, access.PermInventoryManageOrganization, it.OrganizationID); err != nil {
		return InventoryItem{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return InventoryItem{}, fmt.Errorf("%w: item name is required", access.ErrInvalidInput)
		}
		it.Name = name
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return InventoryItem{}, fmt.Errorf("%w: quantity must be >= 0", access.ErrInvalidInput)
		}
		it.Quantity = *in.Quantity
	}
	if in.Notes != nil {
		it.Notes = *in.Notes
	}
	return s.store.UpdateInventoryItem(ctx, it)
}

func (s *Service) DeleteInventoryItem(ctx context.Context, ac access.AuthContext, id int64) error {
	it, err := s.store.GetInventoryItem(ctx, id)
	if err != nil {
		return err
	}
	if err := access.ResolveScopeForResource(ac, access.PermInventoryManageGlobal, access.PermInventoryManageOrganization, it.OrganizationID); err != nil {
		return err
	}
	return s.store.DeleteInventoryItem(ctx, id)
}
