package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/telehealth-api/internal/model"
)

// 2025-01-06 is a Monday.
var (
	monday  = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	sunday  = time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	weekEnd = time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
)

type fakeAvailabilityRepo struct {
	rules       []*model.AvailabilityRule
	replaceErr  error
	replaceCall int
}

func (f *fakeAvailabilityRepo) ListForProvider(_ context.Context, providerID uuid.UUID) ([]*model.AvailabilityRule, error) {
	var out []*model.AvailabilityRule
	for _, r := range f.rules {
		if r.ProviderID == providerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) ReplaceAll(_ context.Context, providerID uuid.UUID, rules []*model.AvailabilityRule) (int, error) {
	f.replaceCall++
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	var kept []*model.AvailabilityRule
	for _, r := range f.rules {
		if r.ProviderID != providerID {
			kept = append(kept, r)
		}
	}
	for _, r := range rules {
		r.ProviderID = providerID
		kept = append(kept, r)
	}
	f.rules = kept
	return len(rules), nil
}

type fakeAppointmentRepo struct {
	appointments []*model.Appointment
}

func (f *fakeAppointmentRepo) Create(context.Context, *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) Get(context.Context, uuid.UUID) (*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) UpdateStatus(context.Context, uuid.UUID, model.AppointmentStatus) error {
	return nil
}
func (f *fakeAppointmentRepo) ListForProvider(context.Context, uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) ListForPatient(context.Context, uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) HasOverlap(context.Context, uuid.UUID, time.Time, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeAppointmentRepo) ListBlocking(_ context.Context, providerID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.ProviderID != providerID || a.Status == model.AppointmentStatusCanceled {
			continue
		}
		if a.StartTime.Before(to) && a.EndTime.After(from) {
			out = append(out, a)
		}
	}
	return out, nil
}

func newTestService(rules []*model.AvailabilityRule, appointments []*model.Appointment) (*Service, *fakeAvailabilityRepo) {
	availRepo := &fakeAvailabilityRepo{rules: rules}
	apptRepo := &fakeAppointmentRepo{appointments: appointments}
	svc := NewService(availRepo, apptRepo, Config{Location: time.UTC})
	return svc, availRepo
}

func mondayRule(providerID uuid.UUID, start, end string) *model.AvailabilityRule {
	return &model.AvailabilityRule{
		ID:         uuid.New(),
		ProviderID: providerID,
		DayOfWeek:  1,
		StartTime:  start,
		EndTime:    end,
	}
}

func at(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, time.UTC)
}

func TestResolveSingleMonday(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService([]*model.AvailabilityRule{mondayRule(providerID, "09:00", "10:00")}, nil)

	slots, err := svc.Resolve(context.Background(), providerID, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, at(monday, 9, 0), slots[0].Slot)
	assert.Equal(t, at(monday, 9, 30), slots[1].Slot)
}

func TestResolveFullDayBlock(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService(
		[]*model.AvailabilityRule{mondayRule(providerID, "09:00", "10:00")},
		[]*model.Appointment{{
			ProviderID: providerID,
			StartTime:  at(monday, 9, 0),
			EndTime:    at(monday, 10, 0),
			Status:     model.AppointmentStatusScheduled,
		}},
	)

	slots, err := svc.Resolve(context.Background(), providerID, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolvePartialBlock(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService(
		[]*model.AvailabilityRule{mondayRule(providerID, "09:00", "10:00")},
		[]*model.Appointment{{
			ProviderID: providerID,
			StartTime:  at(monday, 9, 30),
			EndTime:    at(monday, 10, 0),
			Status:     model.AppointmentStatusScheduled,
		}},
	)

	slots, err := svc.Resolve(context.Background(), providerID, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 9, 0), slots[0].Slot)
}

func TestResolveSlotFreeAtAppointmentEnd(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService(
		[]*model.AvailabilityRule{mondayRule(providerID, "09:00", "10:00")},
		[]*model.Appointment{{
			ProviderID: providerID,
			StartTime:  at(monday, 9, 0),
			EndTime:    at(monday, 9, 30),
			Status:     model.AppointmentStatusScheduled,
		}},
	)

	slots, err := svc.Resolve(context.Background(), providerID, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	// 09:00 coincides with the appointment start and is booked; 09:30
	// coincides with its end and is free.
	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 9, 30), slots[0].Slot)
}

func TestResolveCanceledAppointmentDoesNotBlock(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService(
		[]*model.AvailabilityRule{mondayRule(providerID, "09:00", "10:00")},
		[]*model.Appointment{{
			ProviderID: providerID,
			StartTime:  at(monday, 9, 0),
			EndTime:    at(monday, 10, 0),
			Status:     model.AppointmentStatusCanceled,
		}},
	)

	slots, err := svc.Resolve(context.Background(), providerID, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestResolveNoRuleDayYieldsNothing(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService([]*model.AvailabilityRule{mondayRule(providerID, "09:00", "10:00")}, nil)

	// Sunday has no rule: the day contributes zero slots, without error.
	slots, err := svc.Resolve(context.Background(), providerID, sunday, sunday.AddDate(0, 0, 1).Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveNoScheduleAtAll(t *testing.T) {
	svc, _ := newTestService(nil, nil)

	slots, err := svc.Resolve(context.Background(), uuid.New(), monday, weekEnd)
	assert.ErrorIs(t, err, ErrNoSchedule)
	assert.Nil(t, slots)
}

func TestResolveInvertedRangeIsEmpty(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService([]*model.AvailabilityRule{mondayRule(providerID, "09:00", "10:00")}, nil)

	slots, err := svc.Resolve(context.Background(), providerID, weekEnd, monday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveOrderingContainmentExclusion(t *testing.T) {
	providerID := uuid.New()
	rules := []*model.AvailabilityRule{
		mondayRule(providerID, "09:00", "17:00"),
		{ID: uuid.New(), ProviderID: providerID, DayOfWeek: 3, StartTime: "10:00", EndTime: "14:00"},
	}
	appointments := []*model.Appointment{
		{
			ProviderID: providerID,
			StartTime:  at(monday, 11, 0),
			EndTime:    at(monday, 12, 0),
			Status:     model.AppointmentStatusScheduled,
		},
		{
			ProviderID: providerID,
			StartTime:  at(monday.AddDate(0, 0, 2), 10, 30),
			EndTime:    at(monday.AddDate(0, 0, 2), 11, 30),
			Status:     model.AppointmentStatusScheduled,
		},
	}
	svc, _ := newTestService(rules, appointments)

	slots, err := svc.Resolve(context.Background(), providerID, monday, weekEnd)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	ruleWindows := map[time.Weekday][2]int{
		time.Monday:    {9 * 60, 17 * 60},
		time.Wednesday: {10 * 60, 14 * 60},
	}

	for i, slot := range slots {
		if i > 0 {
			assert.True(t, slots[i-1].Slot.Before(slot.Slot), "slots must be strictly increasing")
		}

		window, ok := ruleWindows[slot.Slot.Weekday()]
		require.True(t, ok, "slot %s falls on a day without a rule", slot.Slot)
		minutes := slot.Slot.Hour()*60 + slot.Slot.Minute()
		assert.GreaterOrEqual(t, minutes, window[0])
		assert.Less(t, minutes, window[1])

		for _, appt := range appointments {
			inside := !slot.Slot.Before(appt.StartTime) && slot.Slot.Before(appt.EndTime)
			assert.False(t, inside, "slot %s overlaps appointment %s-%s", slot.Slot, appt.StartTime, appt.EndTime)
		}
	}

	// Monday 09:00-17:00 has 16 half-hour slots minus 2 booked; Wednesday
	// 10:00-14:00 has 8 minus 2 booked.
	assert.Len(t, slots, 14+6)
}

func TestResolveSlotCannotStartAtClose(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService([]*model.AvailabilityRule{mondayRule(providerID, "09:00", "09:30")}, nil)

	slots, err := svc.Resolve(context.Background(), providerID, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 9, 0), slots[0].Slot)
}

func TestResolveCustomSlotDuration(t *testing.T) {
	providerID := uuid.New()
	availRepo := &fakeAvailabilityRepo{rules: []*model.AvailabilityRule{mondayRule(providerID, "09:00", "10:00")}}
	svc := NewService(availRepo, &fakeAppointmentRepo{}, Config{
		SlotDuration: 15 * time.Minute,
		Location:     time.UTC,
	})

	slots, err := svc.Resolve(context.Background(), providerID, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, slots, 4)
}

func TestReplaceScheduleRejectsDuplicateWeekday(t *testing.T) {
	svc, repo := newTestService(nil, nil)

	_, err := svc.ReplaceSchedule(context.Background(), uuid.New(), []model.ScheduleRuleInput{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
		{DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	assert.Zero(t, repo.replaceCall, "invalid schedules must not reach the store")
}

func TestReplaceScheduleRejectsInvertedWindow(t *testing.T) {
	svc, _ := newTestService(nil, nil)

	_, err := svc.ReplaceSchedule(context.Background(), uuid.New(), []model.ScheduleRuleInput{
		{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestReplaceScheduleRejectsMalformedTime(t *testing.T) {
	svc, _ := newTestService(nil, nil)

	_, err := svc.ReplaceSchedule(context.Background(), uuid.New(), []model.ScheduleRuleInput{
		{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestReplaceScheduleSwapsTemplateWholesale(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService([]*model.AvailabilityRule{mondayRule(providerID, "09:00", "17:00")}, nil)

	count, err := svc.ReplaceSchedule(context.Background(), providerID, []model.ScheduleRuleInput{
		{DayOfWeek: 2, StartTime: "08:00", EndTime: "09:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Resolution reflects only the new template: Monday is gone, Tuesday
	// has two slots.
	slots, err := svc.Resolve(context.Background(), providerID, monday, weekEnd)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	for _, slot := range slots {
		assert.Equal(t, time.Tuesday, slot.Slot.Weekday())
	}
}

func TestReplaceScheduleIdempotent(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService(nil, nil)

	input := []model.ScheduleRuleInput{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 4, StartTime: "13:00", EndTime: "15:00"},
	}

	for i := 0; i < 2; i++ {
		count, err := svc.ReplaceSchedule(context.Background(), providerID, input)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	}

	slots, err := svc.Resolve(context.Background(), providerID, monday, weekEnd)
	require.NoError(t, err)
	assert.Len(t, slots, 2+4)
}

func TestReplaceScheduleEmptySetIsValid(t *testing.T) {
	providerID := uuid.New()
	svc, _ := newTestService([]*model.AvailabilityRule{mondayRule(providerID, "09:00", "17:00")}, nil)

	count, err := svc.ReplaceSchedule(context.Background(), providerID, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.Resolve(context.Background(), providerID, monday, weekEnd)
	assert.ErrorIs(t, err, ErrNoSchedule)
}
