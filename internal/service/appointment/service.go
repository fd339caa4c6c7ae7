package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/telehealth-api/internal/email"
	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/repository"
	"github.com/jwalitptl/telehealth-api/internal/service/event"
)

var (
	// ErrConflict means the requested interval overlaps an existing
	// non-canceled appointment for the provider.
	ErrConflict = errors.New("appointment conflicts with existing booking")

	// ErrForbidden means the acting user is neither the patient nor the
	// provider of the appointment.
	ErrForbidden = errors.New("not a participant of this appointment")

	// ErrProviderNotFound means the target user does not exist or is not
	// a provider.
	ErrProviderNotFound = errors.New("provider not found")
)

type Service struct {
	repo     repository.AppointmentRepository
	userRepo repository.UserRepository
	eventSvc *event.Service
	emailSvc email.Service
}

func NewService(repo repository.AppointmentRepository, userRepo repository.UserRepository, eventSvc *event.Service, emailSvc email.Service) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		eventSvc: eventSvc,
		emailSvc: emailSvc,
	}
}

// Book creates a scheduled appointment for the patient. The slot is
// re-checked against existing bookings here: the availability the
// patient saw may be stale by the time they confirm.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	provider, err := s.userRepo.Get(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to look up provider: %w", err)
	}
	if provider.Role != model.RoleProvider {
		return nil, ErrProviderNotFound
	}

	overlaps, err := s.repo.HasOverlap(ctx, req.ProviderID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check for conflicts: %w", err)
	}
	if overlaps {
		return nil, ErrConflict
	}

	appt := &model.Appointment{
		ProviderID: req.ProviderID,
		PatientID:  patientID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     model.AppointmentStatusScheduled,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, event.TypeAppointmentBooked, appt); err != nil {
		log.Error().Err(err).Str("appointment_id", appt.ID.String()).Msg("failed to emit booking event")
	}

	s.notifyBooked(ctx, appt)

	return appt, nil
}

// ListForUser returns the user's appointments: providers see their
// provider-side bookings, everyone else their patient-side ones.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, role string) ([]*model.Appointment, error) {
	var (
		appointments []*model.Appointment
		err          error
	)
	if role == model.RoleProvider {
		appointments, err = s.repo.ListForProvider(ctx, userID)
	} else {
		appointments, err = s.repo.ListForPatient(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus transitions an appointment's status. Only the patient or
// the provider of the appointment may do this.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, actorID uuid.UUID) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if appt.PatientID != actorID && appt.ProviderID != actorID {
		return nil, ErrForbidden
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	appt.Status = status
	appt.UpdatedAt = time.Now()

	if err := s.eventSvc.Emit(ctx, event.TypeAppointmentStatusChanged, appt); err != nil {
		log.Error().Err(err).Str("appointment_id", id.String()).Msg("failed to emit status event")
	}

	return appt, nil
}

// notifyBooked emails both participants. Failures are logged, never
// fatal: the booking already committed.
func (s *Service) notifyBooked(ctx context.Context, appt *model.Appointment) {
	patient, err := s.userRepo.Get(ctx, appt.PatientID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load patient for booking notification")
		return
	}
	provider, err := s.userRepo.Get(ctx, appt.ProviderID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load provider for booking notification")
		return
	}

	for _, recipient := range []*model.User{patient, provider} {
		if err := s.emailSvc.SendAppointmentConfirmation(ctx, recipient.Email, recipient.Name, appt.StartTime); err != nil {
			log.Error().Err(err).Str("email", recipient.Email).Msg("failed to send booking confirmation")
		}
	}
}
