package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/slotify-dev/booking-platform/internal/catalog"
)

func createServiceHandler(svc *catalog.OfferingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var req CreateServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		businessID, err := uuid.Parse(req.BusinessID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_business_id", "business_id must be a valid UUID")
			return
		}

		service, err := svc.CreateService(r.Context(), p, businessID, req.Name, req.DurationMinutes, req.Price)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toServiceResponse(service))
	}
}

func getServiceHandler(svc *catalog.OfferingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		service, err := svc.GetService(r.Context(), id)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toServiceResponse(service))
	}
}

func listServicesHandler(svc *catalog.OfferingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := svc.ListServices(r.Context())
		if err != nil {
			handleCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toServiceResponses(services))
	}
}

func listServicesByBusinessHandler(svc *catalog.OfferingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID, ok := parseIDParam(w, r, "businessId")
		if !ok {
			return
		}

		services, err := svc.ListServicesByBusiness(r.Context(), businessID)
		if err != nil {
			handleCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toServiceResponses(services))
	}
}

func listMyServicesHandler(svc *catalog.OfferingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		services, err := svc.ListMyServices(r.Context(), p)
		if err != nil {
			handleCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toServiceResponses(services))
	}
}

func searchServicesHandler(svc *catalog.OfferingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := svc.SearchServicesByName(r.Context(), r.URL.Query().Get("name"))
		if err != nil {
			handleCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toServiceResponses(services))
	}
}

func updateServiceHandler(svc *catalog.OfferingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdateServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		service, err := svc.UpdateService(r.Context(), p, id, catalog.ServiceUpdate{
			Name:            req.Name,
			DurationMinutes: req.DurationMinutes,
			Price:           req.Price,
		})
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toServiceResponse(service))
	}
}

func deleteServiceHandler(svc *catalog.OfferingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeleteService(r.Context(), p, id); err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusNoContent, nil)
	}
}
