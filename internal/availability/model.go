package availability

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a published open-hours window: a date range crossed with a daily
// time range. Slots are informational; booking admission never consults them
// (see the appointment package).
type Slot struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	StartDate  time.Time // date only
	EndDate    time.Time // date only, >= StartDate
	StartTime  string    // "09:00"
	EndTime    string    // "18:00", > StartTime
}

// SlotUpdate carries the mutable slot fields. Nil means "leave as is".
type SlotUpdate struct {
	StartDate *time.Time
	EndDate   *time.Time
	StartTime *string
	EndTime   *string
}

// parseTimeOfDay accepts "HH:MM" wall-clock times.
func parseTimeOfDay(s string) (time.Time, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
