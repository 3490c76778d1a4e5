package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	UserID                   uuid.UUID  `db:"user_id" json:"user_id"`
	Name                     string     `db:"name" json:"name"`
	Email                    string     `db:"email" json:"email"`
	Phone                    string     `db:"phone" json:"phone"`
	BirthDate                time.Time  `db:"birth_date" json:"birth_date"`
	Gender                   Gender     `db:"gender" json:"gender"`
	Address                  string     `db:"address" json:"address"`
	Occupation               string     `db:"occupation" json:"occupation"`
	EmergencyContactName     string     `db:"emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactNumber   string     `db:"emergency_contact_number" json:"emergency_contact_number"`
	PrimaryPhysician         string     `db:"primary_physician" json:"primary_physician"`
	InsuranceProvider        string     `db:"insurance_provider" json:"insurance_provider"`
	InsurancePolicyNumber    string     `db:"insurance_policy_number" json:"insurance_policy_number"`
	Allergies                string     `db:"allergies" json:"allergies,omitempty"`
	CurrentMedication        string     `db:"current_medication" json:"current_medication,omitempty"`
	FamilyMedicalHistory     string     `db:"family_medical_history" json:"family_medical_history,omitempty"`
	PastMedicalHistory       string     `db:"past_medical_history" json:"past_medical_history,omitempty"`
	IdentificationType       string     `db:"identification_type" json:"identification_type,omitempty"`
	IdentificationNumber     string     `db:"identification_number" json:"identification_number,omitempty"`
	IdentificationDocumentID *uuid.UUID `db:"identification_document_id" json:"identification_document_id,omitempty"`
	TreatmentConsent         bool       `db:"treatment_consent" json:"treatment_consent"`
	DisclosureConsent        bool       `db:"disclosure_consent" json:"disclosure_consent"`
	PrivacyConsent           bool       `db:"privacy_consent" json:"privacy_consent"`
}

// RegisterPatientRequest carries the patient registration form. Field names
// follow the form field names so validation errors point at the right input.
type RegisterPatientRequest struct {
	Name                   string    `json:"name" form:"name" validate:"required,min=2,max=50"`
	Email                  string    `json:"email" form:"email" validate:"required,email"`
	Phone                  string    `json:"phone" form:"phone" validate:"required,phone"`
	BirthDate              time.Time `json:"birthDate" form:"birthDate" time_format:"2006-01-02" validate:"required,notfuture"`
	Gender                 Gender    `json:"gender" form:"gender" validate:"required,gender"`
	Address                string    `json:"address" form:"address" validate:"required,min=5,max=500"`
	Occupation             string    `json:"occupation" form:"occupation" validate:"required,min=2,max=500"`
	EmergencyContactName   string    `json:"emergencyContactName" form:"emergencyContactName" validate:"required,min=2,max=50"`
	EmergencyContactNumber string    `json:"emergencyContactNumber" form:"emergencyContactNumber" validate:"required,phone"`
	PrimaryPhysician       string    `json:"primaryPhysician" form:"primaryPhysician" validate:"required,min=2,physician"`
	InsuranceProvider      string    `json:"insuranceProvider" form:"insuranceProvider" validate:"required,min=2,max=50"`
	InsurancePolicyNumber  string    `json:"insurancePolicyNumber" form:"insurancePolicyNumber" validate:"required,min=2,max=50"`
	Allergies              string    `json:"allergies" form:"allergies" validate:"max=2000"`
	CurrentMedication      string    `json:"currentMedication" form:"currentMedication" validate:"max=2000"`
	FamilyMedicalHistory   string    `json:"familyMedicalHistory" form:"familyMedicalHistory" validate:"max=2000"`
	PastMedicalHistory     string    `json:"pastMedicalHistory" form:"pastMedicalHistory" validate:"max=2000"`
	IdentificationType     string    `json:"identificationType" form:"identificationType" validate:"omitempty,idtype"`
	IdentificationNumber   string    `json:"identificationNumber" form:"identificationNumber" validate:"max=50"`
	TreatmentConsent       Consent   `json:"treatmentConsent" form:"treatmentConsent" validate:"accepted"`
	DisclosureConsent      Consent   `json:"disclosureConsent" form:"disclosureConsent" validate:"accepted"`
	PrivacyConsent         Consent   `json:"privacyConsent" form:"privacyConsent" validate:"accepted"`
}

// PatientFormDefaults returns the initial values of the patient registration form.
func PatientFormDefaults(now time.Time) RegisterPatientRequest {
	return RegisterPatientRequest{
		BirthDate:          now,
		Gender:             GenderMale,
		IdentificationType: DefaultIdentificationType,
	}
}

// Consent is a checkbox answer. Form posts carry "on" for a ticked box, which
// strconv.ParseBool rejects.
type Consent bool

// UnmarshalParam is used by gin form binding.
func (c *Consent) UnmarshalParam(param string) error {
	return c.UnmarshalText([]byte(param))
}

// UnmarshalJSON takes a JSON bool, or a string in the form encoding.
func (c *Consent) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return c.UnmarshalText([]byte(s))
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*c = Consent(b)
	return nil
}

func (c *Consent) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "on", "true", "1", "yes":
		*c = true
	case "", "off", "false", "0", "no":
		*c = false
	default:
		return fmt.Errorf("invalid consent value %q", text)
	}
	return nil
}
