package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/slotify-dev/booking-platform/internal/availability"
)

func parseDate(w http.ResponseWriter, field, value string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+field, field+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

func createSlotHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var req CreateSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		businessID, err := uuid.Parse(req.BusinessID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_business_id", "business_id must be a valid UUID")
			return
		}

		startDate, ok := parseDate(w, "start_date", req.StartDate)
		if !ok {
			return
		}
		endDate, ok := parseDate(w, "end_date", req.EndDate)
		if !ok {
			return
		}

		slot, err := svc.CreateSlot(r.Context(), p, availability.Slot{
			BusinessID: businessID,
			StartDate:  startDate,
			EndDate:    endDate,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
		})
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSlotResponse(slot))
	}
}

func getSlotHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		slot, err := svc.GetSlot(r.Context(), id)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSlotResponse(slot))
	}
}

func listSlotsHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slots, err := svc.ListSlots(r.Context())
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSlotResponses(slots))
	}
}

func listSlotsByBusinessHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID, ok := parseIDParam(w, r, "businessId")
		if !ok {
			return
		}

		slots, err := svc.ListSlotsByBusiness(r.Context(), businessID)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSlotResponses(slots))
	}
}

func listMySlotsHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		slots, err := svc.ListMySlots(r.Context(), p)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSlotResponses(slots))
	}
}

func updateSlotHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdateSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var upd availability.SlotUpdate
		if req.StartDate != nil {
			d, ok := parseDate(w, "start_date", *req.StartDate)
			if !ok {
				return
			}
			upd.StartDate = &d
		}
		if req.EndDate != nil {
			d, ok := parseDate(w, "end_date", *req.EndDate)
			if !ok {
				return
			}
			upd.EndDate = &d
		}
		upd.StartTime = req.StartTime
		upd.EndTime = req.EndTime

		slot, err := svc.UpdateSlot(r.Context(), p, id, upd)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSlotResponse(slot))
	}
}

func deleteSlotHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeleteSlot(r.Context(), p, id); err != nil {
			handleAvailabilityError(w, err)
			return
		}

		writeJSON(w, http.StatusNoContent, nil)
	}
}

func handleAvailabilityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, availability.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	case errors.Is(err, availability.ErrBadDateRange),
		errors.Is(err, availability.ErrBadTimeRange),
		errors.Is(err, availability.ErrBadTimeOfDay):
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
	default:
		handleCatalogError(w, err)
	}
}
