package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pforhan/teven-sub000/internal/access"
)

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func orgManager(orgID int64) access.AuthContext {
	return access.NewAuthContext(1, orgID, []access.Permission{
		access.PermEventsViewOrganization,
		access.PermEventsManageOrganization,
		access.PermCustomersViewOrganization,
		access.PermCustomersManageOrganization,
		access.PermInventoryViewOrganization,
		access.PermInventoryManageOrganization,
	})
}

func globalManager() access.AuthContext {
	return access.NewAuthContext(2, 1, []access.Permission{
		access.PermEventsViewGlobal,
		access.PermEventsManageGlobal,
	})
}

func TestCreateEventPinnedToHomeOrganization(t *testing.T) {
	var stored Event
	store := &stubStore{
		createEventFn: func(ctx context.Context, ev Event) (Event, error) {
			stored = ev
			ev.ID = 1
			return ev, nil
		},
	}
	svc := newTestService(t, store)

	start := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	ev, err := svc.CreateEvent(context.Background(), orgManager(5), CreateEventInput{
		Title:    " Launch party ",
		StartsAt: start,
		EndsAt:   start.Add(4 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if stored.OrganizationID != 5 {
		t.Fatalf("expected home organization, got %d", stored.OrganizationID)
	}
	if ev.Title != "Launch party" {
		t.Fatalf("title not trimmed: %q", ev.Title)
	}
}

func TestCreateEventCrossOrgRequestConflicts(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	start := time.Now().UTC()
	_, err := svc.CreateEvent(context.Background(), orgManager(5), CreateEventInput{
		OrganizationID: 9,
		Title:          "Party",
		StartsAt:       start,
		EndsAt:         start.Add(time.Hour),
	})
	if !errors.Is(err, access.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateEventRejectsForeignCustomer(t *testing.T) {
	store := &stubStore{
		getCustomerFn: func(ctx context.Context, id int64) (Customer, error) {
			return Customer{ID: id, OrganizationID: 9}, nil
		},
	}
	svc := newTestService(t, store)

	start := time.Now().UTC()
	_, err := svc.CreateEvent(context.Background(), orgManager(5), CreateEventInput{
		CustomerID: 3,
		Title:      "Party",
		StartsAt:   start,
		EndsAt:     start.Add(time.Hour),
	})
	if !errors.Is(err, access.ErrConflict) {
		t.Fatalf("expected ErrConflict for foreign customer, got %v", err)
	}
}

func TestCreateEventValidatesTimes(t *testing.T) {
	svc := newTestService(t, &stubStore{})
	start := time.Now().UTC()

	cases := []CreateEventInput{
		{Title: "Party"},
		{Title: "Party", StartsAt: start, EndsAt: start},
		{Title: "Party", StartsAt: start, EndsAt: start.Add(-time.Hour)},
		{StartsAt: start, EndsAt: start.Add(time.Hour)},
	}
	for i, in := range cases {
		if _, err := svc.CreateEvent(context.Background(), orgManager(5), in); !errors.Is(err, access.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestGetEventCrossOrgDenied(t *testing.T) {
	store := &stubStore{
		getEventFn: func(ctx context.Context, id int64) (Event, error) {
			return Event{ID: id, OrganizationID: 9}, nil
		},
	}
	svc := newTestService(t, store)

	if _, err := svc.GetEvent(context.Background(), orgManager(5), 1); !errors.Is(err, access.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, err := svc.GetEvent(context.Background(), globalManager(), 1); err != nil {
		t.Fatalf("global read failed: %v", err)
	}
}

func TestListEventsScope(t *testing.T) {
	var requested int64 = -1
	store := &stubStore{
		listEventsFn: func(ctx context.Context, organizationID int64) ([]Event, error) {
			requested = organizationID
			return nil, nil
		},
	}
	svc := newTestService(t, store)

	if _, err := svc.ListEvents(context.Background(), orgManager(5), 0); err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if requested != 5 {
		t.Fatalf("org caller should list home organization, got %d", requested)
	}

	if _, err := svc.ListEvents(context.Background(), globalManager(), 0); err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if requested != access.OrgUnrestricted {
		t.Fatalf("global caller with no target should list all, got %d", requested)
	}

	if _, err := svc.ListEvents(context.Background(), orgManager(5), 9); !errors.Is(err, access.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateEventGuardsActualOwner(t *testing.T) {
	store := &stubStore{
		getEventFn: func(ctx context.Context, id int64) (Event, error) {
			start := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
			return Event{ID: id, OrganizationID: 9, Title: "Party", StartsAt: start, EndsAt: start.Add(time.Hour)}, nil
		},
		updateEventFn: func(ctx context.Context, ev Event) (Event, error) {
			return ev, nil
		},
	}
	svc := newTestService(t, store)

	title := "Renamed"
	if _, err := svc.UpdateEvent(context.Background(), orgManager(5), 1, UpdateEventInput{Title: &title}); !errors.Is(err, access.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	ev, err := svc.UpdateEvent(context.Background(), globalManager(), 1, UpdateEventInput{Title: &title})
	if err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	if ev.Title != "Renamed" {
		t.Fatalf("title not applied: %q", ev.Title)
	}
}

func TestUpdateEventRejectsInvertedTimes(t *testing.T) {
	store := &stubStore{
		getEventFn: func(ctx context.Context, id int64) (Event, error) {
			start := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
			return Event{ID: id, OrganizationID: 5, Title: "Party", StartsAt: start, EndsAt: start.Add(time.Hour)}, nil
		},
	}
	svc := newTestService(t, store)

	bad := time.Date(2026, 4, 1, 17, 0, 0, 0, time.UTC)
	if _, err := svc.UpdateEvent(context.Background(), orgManager(5), 1, UpdateEventInput{EndsAt: &bad}); !errors.Is(err, access.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteEventScoped(t *testing.T) {
	deleted := false
	store := &stubStore{
		getEventFn: func(ctx context.Context, id int64) (Event, error) {
			return Event{ID: id, OrganizationID: 5}, nil
		},
		deleteEventFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(t, store)

	if err := svc.DeleteEvent(context.Background(), orgManager(5), 1); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected store delete")
	}
}
