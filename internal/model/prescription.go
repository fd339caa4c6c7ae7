package model

import "github.com/google/uuid"

type Prescription struct {
	Base
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	ProviderID    uuid.UUID `db:"provider_id" json:"provider_id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Medication    string    `db:"medication" json:"medication"`
	Dosage        string    `db:"dosage" json:"dosage"`
	Frequency     string    `db:"frequency" json:"frequency"`
	DurationDays  string    `db:"duration_days" json:"duration_days"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
}

type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	Medication    string    `json:"medication" binding:"required"`
	Dosage        string    `json:"dosage" binding:"required"`
	Frequency     string    `json:"frequency" binding:"required"`
	DurationDays  string    `json:"duration_days" binding:"required"`
	Notes         string    `json:"notes"`
}
