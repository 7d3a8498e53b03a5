package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pforhan/teven-sub000/internal/access"
)

// CreateEventInput describes a new event. OrganizationID of 0 targets
// the caller's home organization.
type CreateEventInput struct {
	OrganizationID int64
	CustomerID     int64
	Title          string
	Location       string
	StartsAt       time.Time
	EndsAt         time.Time
	Notes          string
}

// UpdateEventInput carries optional field updates.
type UpdateEventInput struct {
	Title    *string
	Location *string
	StartsAt *time.Time
	EndsAt   *time.Time
	Notes    *string
}

func (s *Service) CreateEvent(ctx context.Context, ac access.AuthContext, in CreateEventInput) (Event, error) {
	orgID, err := access.ResolveScopeForWrite(ac, access.PermEventsManageGlobal, access.PermEventsManageOrganization, in.OrganizationID)
	if err != nil {
		return Event{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Event{}, fmt.Errorf("%w: event title is required", access.ErrInvalidInput)
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() {
		return Event{}, fmt.Errorf("%w: starts_at and ends_at are required", access.ErrInvalidInput)
	}
	if !in.EndsAt.After(in.StartsAt) {
		return Event{}, fmt.Errorf("%w: ends_at must follow starts_at", access.ErrInvalidInput)
	}
	if in.CustomerID != 0 {
		customer, err := s.store.GetCustomer(ctx, in.CustomerID)
		if err != nil {
			return Event{}, err
		}
		if customer.OrganizationID != orgID {
			return Event{}, fmt.Errorf("%w: customer belongs to another organization", access.ErrConflict)
		}
	}
	return s.store.CreateEvent(ctx, Event{
		OrganizationID: orgID,
		CustomerID:     in.CustomerID,
		Title:          in.Title,
		Location:       strings.TrimSpace(in.Location),
		StartsAt:       in.StartsAt.UTC(),
		EndsAt:         in.EndsAt.UTC(),
		Notes:          in.Notes,
	})
}

func (s *Service) GetEvent(ctx context.Context, ac access.AuthContext, id int64) (Event, error) {
	ev, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if err := access.ResolveScopeForResource(ac, access.PermEventsViewGlobal, access.PermEventsViewOrganization, ev.OrganizationID); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (s *Service) ListEvents(ctx context.Context, ac access.AuthContext, requestedOrgID int64) ([]Event, error) {
	orgID, err := access.ResolveScope(ac, access.PermEventsViewGlobal, access.PermEventsViewOrganization, requestedOrgID)
	if err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, orgID)
}

func (s *Service) UpdateEvent(ctx context.Context, ac access.AuthContext, id int64, in UpdateEventInput) (Event, error) {
	ev, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if err := access.ResolveScopeForResource(ac, access.PermEventsManageGlobal, access.PermEventsManageOrganization, ev.OrganizationID); err != nil {
		return Event{}, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Event{}, fmt.Errorf("%w: event title is required", access.ErrInvalidInput)
		}
		ev.Title = title
	}
	if in.Location != nil {
		ev.Location = strings.TrimSpace(*in.Location)
	}
	if in.StartsAt != nil {
		ev.StartsAt = in.StartsAt.UTC()
	}
	if in.EndsAt != nil {
		ev.EndsAt = in.EndsAt.UTC()
	}
	if !ev.EndsAt.After(ev.StartsAt) {
		return Event{}, fmt.Errorf("%w: ends_at must follow starts_at", access.ErrInvalidInput)
	}
	if in.Notes != nil {
		ev.Notes = *in.Notes
	}
	return s.store.UpdateEvent(ctx, ev)
}

func (s *Service) DeleteEvent(ctx context.Context, ac access.AuthContext, id int64) error {
	ev, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := access.ResolveScopeForResource(ac, access.PermEventsManageGlobal, access.PermEventsManageOrganization, ev.OrganizationID); err != nil {
		return err
	}
	return s.store.DeleteEvent(ctx, id)
}
