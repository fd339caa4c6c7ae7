package model

import "github.com/google/uuid"

type UploadURLRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Filename  string    `json:"filename" binding:"required"`
	FileType  string    `json:"file_type" binding:"required"`
}

type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}
