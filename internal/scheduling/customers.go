package scheduling

import (
	"context"
	"fmt"
	"strings"

	"github.com/pforhan/teven-sub000/internal/access"
)

// CreateCustomerInput describes a new customer record.
type CreateCustomerInput struct {
	OrganizationID int64
	Name           string
	Email          string
	Phone          string
	Notes          string
}

// UpdateCustomerInput carries optional field updates.
type UpdateCustomerInput struct {
	Name  *string
	Email *string
	Phone *string
	Notes *string
}

func (s *Service) CreateCustomer(ctx context.Context, ac access.AuthContext, in CreateCustomerInput) (Customer, error) {
	orgID, err := access.ResolveScopeForWrite(ac, access.PermCustomersManageGlobal, access.PermCustomersManageOrganization, in.OrganizationID)
	if err != nil {
		return Customer{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Customer{}, fmt.Errorf("%w: customer name is required", access.ErrInvalidInput)
	}
	return s.store.CreateCustomer(ctx, Customer{
		OrganizationID: orgID,
		Name:           in.Name,
		Email:          strings.TrimSpace(strings.ToLower(in.Email)),
		Phone:          strings.TrimSpace(in.Phone),
		Notes:          in.Notes,
	})
}

func (s *Service) GetCustomer(ctx context.Context, ac access.AuthContext, id int64) (Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	if err := access.ResolveScopeForResource(ac, access.PermCustomersViewGlobal, access.PermCustomersViewOrganization, c.OrganizationID); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (s *Service) ListCustomers(ctx context.Context, ac access.AuthContext, requestedOrgID int64) ([]Customer, error) {
	orgID, err := access.ResolveScope(ac, access.PermCustomersViewGlobal, access.PermCustomersViewOrganization, requestedOrgID)
	if err != nil {
		return nil, err
	}
	return s.store.ListCustomers(ctx, orgID)
}

func (s *Service) UpdateCustomer(ctx context.Context, ac access.AuthContext, id int64, in UpdateCustomerInput) (Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	if err := access.ResolveScopeForResource(ac, access.PermCustomersManageGlobal, access.PermCustomersManageOrganization, c.OrganizationID); err != nil {
		return Customer{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Customer{}, fmt.Errorf("%w: customer name is required", access.ErrInvalidInput)
		}
		c.Name = name
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(strings.ToLower(*in.Email))
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	return s.store.UpdateCustomer(ctx, c)
}

func (s *Service) DeleteCustomer(ctx context.Context, ac access.AuthContext, id int64) error {
	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	if err := access.ResolveScopeForResource(ac, access.PermCustomersManageGlobal, access.PermCustomersManageOrganization, c.OrganizationID); err != nil {
		return err
	}
	return s.store.DeleteCustomer(ctx, id)
}
