package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/telehealth-api/internal/model"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		ListByRole(ctx context.Context, role string) ([]*model.User, error)
	}

	// AvailabilityRepository stores recurring weekly templates. The rule
	// set for a provider is only ever written as a whole, inside one
	// transaction.
	AvailabilityRepository interface {
		ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.AvailabilityRule, error)
		ReplaceAll(ctx context.Context, providerID uuid.UUID, rules []*model.AvailabilityRule) (int, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
		ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Appointment, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
		// ListBlocking returns the provider's appointments overlapping
		// the half-open window [from, to) that occupy bookable time.
		// Canceled appointments do not block.
		ListBlocking(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		HasOverlap(ctx context.Context, providerID uuid.UUID, startTime, endTime time.Time) (bool, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
	}

	EHRRepository interface {
		Create(ctx context.Context, record *model.EHRRecord) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.EHRRecord, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
