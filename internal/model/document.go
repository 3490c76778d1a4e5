package model

import "github.com/google/uuid"

// Upload is a raw file received with a registration form.
type Upload struct {
	FileName string
	Data     []byte
}

// IdentificationDocument is a scanned copy of a patient's identification.
// Data is encrypted at rest.
type IdentificationDocument struct {
	Base
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	Size        int64     `db:"size" json:"size"`
	Data        []byte    `db:"data" json:"-"`
}
