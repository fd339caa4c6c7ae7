package model

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRule is one row of a provider's recurring weekly template:
// on the given weekday the provider is bookable between StartTime and
// EndTime. Times are wall-clock HH:mm strings with no date or zone
// attached. A provider has at most one rule per weekday; the full rule
// set is only ever replaced as a whole.
type AvailabilityRule struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProviderID uuid.UUID `json:"provider_id" db:"provider_id"`
	DayOfWeek  int       `json:"day_of_week" db:"day_of_week"`
	StartTime  string    `json:"start_time" db:"start_time"`
	EndTime    string    `json:"end_time" db:"end_time"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ScheduleRuleInput is one entry of a schedule replacement payload.
type ScheduleRuleInput struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

type ReplaceScheduleRequest struct {
	Schedule []ScheduleRuleInput `json:"schedule" binding:"required,dive"`
}

type ReplaceScheduleResponse struct {
	Count int `json:"count"`
}

// ResolvedSlot marks the start of a bookable interval of fixed duration.
// Slots are derived on every query and never persisted.
type ResolvedSlot struct {
	Slot time.Time `json:"slot"`
}
