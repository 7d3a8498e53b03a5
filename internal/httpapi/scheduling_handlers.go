package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/pforhan/teven-sub000/internal/audit"
	"github.com/pforhan/teven-sub000/internal/scheduling"
)

// --- events ---

type createEventRequest struct {
	OrganizationID int64     `json:"organization_id,omitempty"`
	CustomerID     int64     `json:"customer_id,omitempty"`
	Title          string    `json:"title"`
	Location       string    `json:"location,omitempty"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Notes          string    `json:"notes,omitempty"`
}

type updateEventRequest struct {
	Title    *string    `json:"title,omitempty"`
	Location *string    `json:"location,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

func (a *API) handleEventsCollection(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req createEventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		ev, err := a.scheduling.CreateEvent(r.Context(), ac, scheduling.CreateEventInput{
			OrganizationID: req.OrganizationID,
			CustomerID:     req.CustomerID,
			Title:          req.Title,
			Location:       req.Location,
			StartsAt:       req.StartsAt,
			EndsAt:         req.EndsAt,
			Notes:          req.Notes,
		})
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "event.created", map[string]any{
			"event_id":        ev.ID,
			"organization_id": ev.OrganizationID,
		})
		writeJSON(w, http.StatusCreated, ev)
	case http.MethodGet:
		orgID, err := parseOrgParam(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		events, err := a.scheduling.ListEvents(r.Context(), ac, orgID)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		if events == nil {
			events = []scheduling.Event{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": events})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleEventResource(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	id, err := parseID(strings.TrimPrefix(r.URL.Path, "/v1/events/"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		ev, err := a.scheduling.GetEvent(r.Context(), ac, id)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ev)
	case http.MethodPut:
		var req updateEventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		ev, err := a.scheduling.UpdateEvent(r.Context(), ac, id, scheduling.UpdateEventInput{
			Title:    req.Title,
			Location: req.Location,
			StartsAt: req.StartsAt,
			EndsAt:   req.EndsAt,
			Notes:    req.Notes,
		})
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ev)
	case http.MethodDelete:
		if err := a.scheduling.DeleteEvent(r.Context(), ac, id); err != nil {
			handleAccessError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "event.deleted", map[string]any{
			"event_id": id,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// --- customers ---

type createCustomerRequest struct {
	OrganizationID int64  `json:"organization_id,omitempty"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

type updateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

func (a *API) handleCustomersCollection(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req createCustomerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		c, err := a.scheduling.CreateCustomer(r.Context(), ac, scheduling.CreateCustomerInput{
			OrganizationID: req.OrganizationID,
			Name:           req.Name,
			Email:          req.Email,
			Phone:          req.Phone,
			Notes:          req.Notes,
		})
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	case http.MethodGet:
		orgID, err := parseOrgParam(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		customers, err := a.scheduling.ListCustomers(r.Context(), ac, orgID)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		if customers == nil {
			customers = []scheduling.Customer{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleCustomerResource(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	id, err := parseID(strings.TrimPrefix(r.URL.Path, "/v1/customers/"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		c, err := a.scheduling.GetCustomer(r.Context(), ac, id)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodPut:
		var req updateCustomerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		c, err := a.scheduling.UpdateCustomer(r.Context(), ac, id, scheduling.UpdateCustomerInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
			Notes: req.Notes,
		})
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodDelete:
		if err := a.scheduling.DeleteCustomer(r.Context(), ac, id); err != nil {
			handleAccessError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// --- inventory ---

type createInventoryRequest struct {
	OrganizationID int64  `json:"organization_id,omitempty"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	Notes          string `json:"notes,omitempty"`
}

type updateInventoryRequest struct {
	Name     *string `json:"name,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (a *API) handleInventoryCollection(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req createInventoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		it, err := a.scheduling.CreateInventoryItem(r.Context(), ac, scheduling.CreateInventoryItemInput{
			OrganizationID: req.OrganizationID,
			Name:           req.Name,
			Quantity:       req.Quantity,
			Notes:          req.Notes,
		})
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, it)
	case http.MethodGet:
		orgID, err := parseOrgParam(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		items, err := a.scheduling.ListInventoryItems(r.Context(), ac, orgID)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		if items == nil {
			items = []scheduling.InventoryItem{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleInventoryResource(w http.ResponseWriter, r *http.Request) {
	ac, ok := requireAuth(w, r)
	if !ok {
		return
	}
	id, err := parseID(strings.TrimPrefix(r.URL.Path, "/v1/inventory/"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		it, err := a.scheduling.GetInventoryItem(r.Context(), ac, id)
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, it)
	case http.MethodPut:
		var req updateInventoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		it, err := a.scheduling.UpdateInventoryItem(r.Context(), ac, id, scheduling.UpdateInventoryItemInput{
			Name:     req.Name,
			Quantity: req.Quantity,
			Notes:    req.Notes,
		})
		if err != nil {
			handleAccessError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, it)
	case http.MethodDelete:
		if err := a.scheduling.DeleteInventoryItem(r.Context(), ac, id); err != nil {
			handleAccessError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
