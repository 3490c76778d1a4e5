package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/intake-api/internal/document"
	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/repository"
	"github.com/jwalitptl/intake-api/pkg/security"
	"github.com/jwalitptl/intake-api/pkg/validator"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPatientNotFound   = errors.New("patient not found")
	ErrAlreadyRegistered = errors.New("user already registered as a patient")
	ErrDocumentNotFound  = errors.New("identification document not found")
	ErrDocumentCorrupted = errors.New("identification document cannot be decrypted")
)

type PatientService interface {
	Register(ctx context.Context, userID uuid.UUID, req *model.RegisterPatientRequest, upload *model.Upload) (*model.RegistrationResult, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
	Document(ctx context.Context, patientID uuid.UUID) (*model.IdentificationDocument, error)
}

// UserLookup is the part of the user store patient registration needs.
type UserLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type Service struct {
	repo      repository.PatientRepository
	docs      repository.DocumentRepository
	users     UserLookup
	inspector *document.Inspector
	sealer    security.Encryptor
	validator *validator.Validator
	logger    zerolog.Logger
}

func NewService(
	repo repository.PatientRepository,
	docs repository.DocumentRepository,
	users UserLookup,
	inspector *document.Inspector,
	sealer security.Encryptor,
	v *validator.Validator,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		docs:      docs,
		users:     users,
		inspector: inspector,
		sealer:    sealer,
		validator: v,
		logger:    logger,
	}
}

// AppointmentRedirect is where a newly registered patient books a first visit.
func AppointmentRedirect(userID uuid.UUID) string {
	return fmt.Sprintf("/patients/%s/new-appointment", userID)
}

// Register stores the patient form of userID. upload may be nil.
func (s *Service) Register(ctx context.Context, userID uuid.UUID, req *model.RegisterPatientRequest, upload *model.Upload) (*model.RegistrationResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check patient: %w", err)
	}

	var doc *model.IdentificationDocument
	if upload != nil {
		inspected, err := s.inspector.Inspect(upload)
		if err != nil {
			return nil, err
		}
		sealed, err := s.sealer.Encrypt(inspected.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt identification document: %w", err)
		}
		inspected.Data = sealed
		doc = inspected
	}

	patient := newPatient(userID, req)

	event, err := model.NewOutboxEvent(model.EventPatientRegistered, model.PatientRegisteredPayload{
		PatientID:        patient.ID,
		UserID:           userID,
		PrimaryPhysician: patient.PrimaryPhysician,
		HasDocument:      doc != nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build outbox event: %w", err)
	}

	if err := s.repo.Create(ctx, patient, doc, event); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.logger.Info().
		Str("patient_id", patient.ID.String()).
		Str("user_id", userID.String()).
		Bool("has_document", doc != nil).
		Msg("patient registered")

	return &model.RegistrationResult{
		Data:     patient,
		Redirect: AppointmentRedirect(userID),
	}, nil
}

func newPatient(userID uuid.UUID, req *model.RegisterPatientRequest) *model.Patient {
	return &model.Patient{
		Base:                   model.Base{ID: uuid.New()},
		UserID:                 userID,
		Name:                   req.Name,
		Email:                  req.Email,
		Phone:                  req.Phone,
		BirthDate:              dateOnly(req.BirthDate),
		Gender:                 req.Gender,
		Address:                req.Address,
		Occupation:             req.Occupation,
		EmergencyContactName:   req.EmergencyContactName,
		EmergencyContactNumber: req.EmergencyContactNumber,
		PrimaryPhysician:       req.PrimaryPhysician,
		InsuranceProvider:      req.InsuranceProvider,
		InsurancePolicyNumber:  req.InsurancePolicyNumber,
		Allergies:              req.Allergies,
		CurrentMedication:      req.CurrentMedication,
		FamilyMedicalHistory:   req.FamilyMedicalHistory,
		PastMedicalHistory:     req.PastMedicalHistory,
		IdentificationType:     req.IdentificationType,
		IdentificationNumber:   req.IdentificationNumber,
		TreatmentConsent:       bool(req.TreatmentConsent),
		DisclosureConsent:      bool(req.DisclosureConsent),
		PrivacyConsent:         bool(req.PrivacyConsent),
	}
}

// dateOnly keeps the calendar date as written by the client.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

// Document returns the decrypted identification document of a patient.
func (s *Service) Document(ctx context.Context, patientID uuid.UUID) (*model.IdentificationDocument, error) {
	patient, err := s.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient.IdentificationDocumentID == nil {
		return nil, ErrDocumentNotFound
	}

	doc, err := s.docs.Get(ctx, *patient.IdentificationDocumentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get identification document: %w", err)
	}

	plain, err := s.sealer.Decrypt(doc.Data)
	if err != nil {
		s.logger.Error().Err(err).Str("document_id", doc.ID.String()).Msg("failed to decrypt identification document")
		return nil, ErrDocumentCorrupted
	}
	doc.Data = plain
	return doc, nil
}
