package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/telehealth-api/internal/model"
)

func (r *ehrRepository) Create(ctx context.Context, record *model.EHRRecord) error {
	query := `
		INSERT INTO ehr_records (
			id, patient_id, provider_id, record_type, content,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.ProviderID,
		record.RecordType,
		record.Content,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create EHR record: %w", err)
	}
	return nil
}

func (r *ehrRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.EHRRecord, error) {
	query := `
		SELECT id, patient_id, provider_id, record_type, content,
			   created_at, updated_at
		FROM ehr_records
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	var records []*model.EHRRecord
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list EHR records: %w", err)
	}
	return records, nil
}
