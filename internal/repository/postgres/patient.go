package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/repository"
)

const patientColumns = `
	id, user_id, name, email, phone, birth_date, gender, address, occupation,
	emergency_contact_name, emergency_contact_number, primary_physician,
	insurance_provider, insurance_policy_number, allergies, current_medication,
	family_medical_history, past_medical_history, identification_type,
	identification_number, identification_document_id, treatment_consent,
	disclosure_consent, privacy_consent, created_at, updated_at`

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient, doc *model.IdentificationDocument, events ...*model.OutboxEvent) error {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		// patients.identification_document_id is a deferred foreign key, so
		// the patient row can go in before its document.
		if doc != nil {
			if doc.ID == uuid.Nil {
				doc.ID = uuid.New()
			}
			doc.PatientID = patient.ID
			doc.CreatedAt = now
			doc.UpdatedAt = now
			patient.IdentificationDocumentID = &doc.ID
		}

		query := `INSERT INTO patients (` + patientColumns + `) VALUES (
			:id, :user_id, :name, :email, :phone, :birth_date, :gender, :address, :occupation,
			:emergency_contact_name, :emergency_contact_number, :primary_physician,
			:insurance_provider, :insurance_policy_number, :allergies, :current_medication,
			:family_medical_history, :past_medical_history, :identification_type,
			:identification_number, :identification_document_id, :treatment_consent,
			:disclosure_consent, :privacy_consent, :created_at, :updated_at
		)`
		if _, err := tx.NamedExecContext(ctx, query, patient); err != nil {
			return fmt.Errorf("failed to create patient: %w", mapError(err))
		}

		if doc != nil {
			docQuery := `
				INSERT INTO identification_documents (
					id, patient_id, file_name, content_type, size, data, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`
			if _, err := tx.ExecContext(ctx, docQuery,
				doc.ID,
				doc.PatientID,
				doc.FileName,
				doc.ContentType,
				doc.Size,
				doc.Data,
				doc.CreatedAt,
				doc.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to store identification document: %w", mapError(err))
			}
		}

		return insertOutboxEvents(ctx, tx, events)
	})
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", mapError(err))
	}
	return &patient, nil
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE user_id = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get patient by user: %w", mapError(err))
	}
	return &patient, nil
}
