package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/repository"
)

// DefaultSlotDuration is the booking granularity used when no duration
// is configured.
const DefaultSlotDuration = 30 * time.Minute

var (
	// ErrNoSchedule means the provider has never set up an availability
	// template. Distinct from a provider with rules but no free slots,
	// which resolves to an empty sequence.
	ErrNoSchedule = errors.New("provider has no availability schedule")

	// ErrInvalidSchedule marks a schedule payload that violates the
	// template invariants (start >= end, duplicate weekday).
	ErrInvalidSchedule = errors.New("invalid schedule")
)

type Config struct {
	// SlotDuration is the fixed length of every bookable slot.
	SlotDuration time.Duration
	// Location is the wall-clock zone the HH:mm rule times are
	// interpreted in. Defaults to the server's local zone.
	Location *time.Location
}

type Service struct {
	availRepo    repository.AvailabilityRepository
	apptRepo     repository.AppointmentRepository
	slotDuration time.Duration
	location     *time.Location
}

func NewService(availRepo repository.AvailabilityRepository, apptRepo repository.AppointmentRepository, cfg Config) *Service {
	if cfg.SlotDuration <= 0 {
		cfg.SlotDuration = DefaultSlotDuration
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		availRepo:    availRepo,
		apptRepo:     apptRepo,
		slotDuration: cfg.SlotDuration,
		location:     cfg.Location,
	}
}

// Location is the wall-clock zone slots are resolved in. Date inputs
// must be anchored in this zone or day truncation shifts them.
func (s *Service) Location() *time.Location {
	return s.location
}

// Resolve computes the provider's bookable slots between startDate and
// endDate: for every calendar day in the range, the weekly rule for that
// weekday (if any) is expanded into fixed-duration slot starts, and
// starts falling inside a booked appointment are dropped. The result is
// strictly ordered and fully materialized; an inverted range yields an
// empty sequence.
func (s *Service) Resolve(ctx context.Context, providerID uuid.UUID, startDate, endDate time.Time) ([]model.ResolvedSlot, error) {
	firstDay := dayOf(startDate.In(s.location))
	lastDay := dayOf(endDate.In(s.location))

	var (
		rules        []*model.AvailabilityRule
		appointments []*model.Appointment
	)

	// The two reads are independent, fetch them concurrently. The
	// blocking window is half-open and extends past the last day's
	// midnight so appointments on the final day still count.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rules, err = s.availRepo.ListForProvider(gctx, providerID)
		return err
	})
	g.Go(func() error {
		var err error
		appointments, err = s.apptRepo.ListBlocking(gctx, providerID, firstDay, lastDay.AddDate(0, 0, 1))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load availability data: %w", err)
	}

	if len(rules) == 0 {
		return nil, ErrNoSchedule
	}

	// First rule per weekday wins; the write path rejects duplicates, so
	// this only matters for rows predating that check.
	byWeekday := make(map[int]*model.AvailabilityRule, len(rules))
	for _, rule := range rules {
		if _, ok := byWeekday[rule.DayOfWeek]; !ok {
			byWeekday[rule.DayOfWeek] = rule
		}
	}

	slots := []model.ResolvedSlot{}

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		rule, ok := byWeekday[int(day.Weekday())]
		if !ok {
			continue
		}

		open, err := combine(day, rule.StartTime)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		closeAt, err := combine(day, rule.EndTime)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}

		for current := open; current.Before(closeAt); current = current.Add(s.slotDuration) {
			if isBooked(current, appointments) {
				continue
			}
			slots = append(slots, model.ResolvedSlot{Slot: current})
		}
	}

	return slots, nil
}

// ReplaceSchedule atomically swaps the provider's entire weekly template
// for the given rule set and returns the number of rules written. The
// empty set is a valid template ("provider takes no bookings").
func (s *Service) ReplaceSchedule(ctx context.Context, providerID uuid.UUID, inputs []model.ScheduleRuleInput) (int, error) {
	if err := validateSchedule(inputs); err != nil {
		return 0, err
	}

	rules := make([]*model.AvailabilityRule, 0, len(inputs))
	for _, in := range inputs {
		rules = append(rules, &model.AvailabilityRule{
			DayOfWeek: in.DayOfWeek,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		})
	}

	count, err := s.availRepo.ReplaceAll(ctx, providerID, rules)
	if err != nil {
		return 0, fmt.Errorf("failed to replace schedule: %w", err)
	}
	return count, nil
}

func validateSchedule(inputs []model.ScheduleRuleInput) error {
	seen := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			return fmt.Errorf("%w: day_of_week %d out of range", ErrInvalidSchedule, in.DayOfWeek)
		}
		if seen[in.DayOfWeek] {
			return fmt.Errorf("%w: duplicate rule for day_of_week %d", ErrInvalidSchedule, in.DayOfWeek)
		}
		seen[in.DayOfWeek] = true

		start, err := parseHHMM(in.StartTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		end, err := parseHHMM(in.EndTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		if start >= end {
			return fmt.Errorf("%w: start_time %s must be before end_time %s", ErrInvalidSchedule, in.StartTime, in.EndTime)
		}
	}
	return nil
}

// isBooked reports whether a slot start falls inside any appointment's
// [start, end) interval. A slot starting exactly at an appointment's
// start is booked; one starting exactly at its end is not.
func isBooked(slot time.Time, appointments []*model.Appointment) bool {
	for _, appt := range appointments {
		if !slot.Before(appt.StartTime) && slot.Before(appt.EndTime) {
			return true
		}
	}
	return false
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// combine anchors a wall-clock HH:mm value on a calendar day.
func combine(day time.Time, hhmm string) (time.Time, error) {
	minutes, err := parseHHMM(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location()), nil
}

// parseHHMM converts a fixed-width 24-hour "HH:mm" string to minutes
// since midnight.
func parseHHMM(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
