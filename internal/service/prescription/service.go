package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/repository"
)

// ErrForbidden means a patient tried to read another patient's
// prescriptions.
var ErrForbidden = errors.New("not authorized to view these prescriptions")

type Service struct {
	repo repository.PrescriptionRepository
}

func NewService(repo repository.PrescriptionRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, providerID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	prescription := &model.Prescription{
		PatientID:     req.PatientID,
		ProviderID:    providerID,
		AppointmentID: req.AppointmentID,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		Frequency:     req.Frequency,
		DurationDays:  req.DurationDays,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, prescription); err != nil {
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}
	return prescription, nil
}

// ListForPatient returns a patient's prescriptions, newest first.
// Patients may only read their own.
func (s *Service) ListForPatient(ctx context.Context, patientID, actorID uuid.UUID, actorRole string) ([]*model.Prescription, error) {
	if actorRole == model.RolePatient && actorID != patientID {
		return nil, ErrForbidden
	}

	prescriptions, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}
