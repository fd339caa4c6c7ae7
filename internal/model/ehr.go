package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// EHR record type constants
const (
	EHRRecordTypeConsultationNote = "consultation_note"
	EHRRecordTypeLabResult        = "lab_result"
	EHRRecordTypeImaging          = "imaging"
	EHRRecordTypeDiagnosis        = "diagnosis"
)

type EHRRecord struct {
	Base
	PatientID  uuid.UUID       `db:"patient_id" json:"patient_id"`
	ProviderID uuid.UUID       `db:"provider_id" json:"provider_id"`
	RecordType string          `db:"record_type" json:"record_type"`
	Content    json.RawMessage `db:"content" json:"content"`
}

type CreateEHRRecordRequest struct {
	PatientID  uuid.UUID       `json:"patient_id" binding:"required"`
	RecordType string          `json:"record_type" binding:"required,oneof=consultation_note lab_result imaging diagnosis"`
	Content    json.RawMessage `json:"content" binding:"required"`
}
