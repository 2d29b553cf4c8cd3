package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slotify-dev/booking-platform/internal/catalog"
	"github.com/slotify-dev/booking-platform/internal/identity"
)

// requirePrincipal is a belt-and-braces read of the auth context; the router
// only mounts these handlers behind AuthMiddleware.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (identity.Principal, bool) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing principal")
	}
	return p, ok
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func createBusinessHandler(svc *catalog.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var req CreateBusinessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		business, err := svc.CreateBusiness(r.Context(), p, req.Name, req.Description, req.Location)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBusinessResponse(business))
	}
}

func getBusinessHandler(svc *catalog.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		business, err := svc.GetBusiness(r.Context(), id)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBusinessResponse(business))
	}
}

func listBusinessesHandler(svc *catalog.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businesses, err := svc.ListBusinesses(r.Context())
		if err != nil {
			handleCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBusinessResponses(businesses))
	}
}

func listMyBusinessesHandler(svc *catalog.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		businesses, err := svc.ListMyBusinesses(r.Context(), p)
		if err != nil {
			handleCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBusinessResponses(businesses))
	}
}

func searchBusinessesHandler(svc *catalog.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		location := r.URL.Query().Get("location")

		businesses, err := svc.SearchBusinesses(r.Context(), name, location)
		if err != nil {
			handleCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBusinessResponses(businesses))
	}
}

func updateBusinessHandler(svc *catalog.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdateBusinessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		business, err := svc.UpdateBusiness(r.Context(), p, id, catalog.BusinessUpdate{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
		})
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBusinessResponse(business))
	}
}

func deleteBusinessHandler(svc *catalog.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeleteBusiness(r.Context(), p, id); err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusNoContent, nil)
	}
}

func handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrBusinessNotFound):
		writeError(w, http.StatusNotFound, "business_not_found", err.Error())
	case errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, catalog.ErrBusinessRoleRequired),
		errors.Is(err, catalog.ErrNotOwner):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrInvalidDuration),
		errors.Is(err, catalog.ErrNegativePrice):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
