package ehr

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/repository"
)

// ErrForbidden means a patient tried to read another patient's records.
var ErrForbidden = errors.New("not authorized to view these records")

type Service struct {
	repo repository.EHRRepository
}

func NewService(repo repository.EHRRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, providerID uuid.UUID, req *model.CreateEHRRecordRequest) (*model.EHRRecord, error) {
	record := &model.EHRRecord{
		PatientID:  req.PatientID,
		ProviderID: providerID,
		RecordType: req.RecordType,
		Content:    req.Content,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create EHR record: %w", err)
	}
	return record, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID, actorID uuid.UUID, actorRole string) ([]*model.EHRRecord, error) {
	if actorRole == model.RolePatient && actorID != patientID {
		return nil, ErrForbidden
	}

	records, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list EHR records: %w", err)
	}
	return records, nil
}
