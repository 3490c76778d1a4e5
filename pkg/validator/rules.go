package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/pkg/security"
)

var phonePattern = regexp.MustCompile(`^\+\d{10,15}$`)

var rules = map[string]validator.Func{
	"phone": func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	},
	// bcryptlen counts bytes, not runes: bcrypt only reads the first 72.
	"bcryptlen": func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= security.MaxPasswordLen
	},
	"accepted": func(fl validator.FieldLevel) bool {
		return fl.Field().Bool()
	},
	"gender": func(fl validator.FieldLevel) bool {
		return model.Gender(fl.Field().String()).Valid()
	},
	"idtype": func(fl validator.FieldLevel) bool {
		return model.IsIdentificationType(fl.Field().String())
	},
	"physician": func(fl validator.FieldLevel) bool {
		return model.IsDoctor(fl.Field().String())
	},
	// notfuture allows any instant up to the end of the current UTC day, so a
	// birth date picked in a timezone ahead of UTC still passes.
	"notfuture": func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		endOfToday := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		return t.Before(endOfToday)
	},
}

var defaultMessages = map[string]string{
	"name.required":                   "Name must be at least 2 characters",
	"name.min":                        "Name must be at least 2 characters",
	"name.max":                        "Name must be at most 50 characters",
	"email.required":                  "Invalid email address",
	"email.email":                     "Invalid email address",
	"phone.required":                  "Invalid phone number",
	"phone.phone":                     "Invalid phone number",
	"birthDate.required":              "Date of birth is required",
	"birthDate.notfuture":             "Date of birth cannot be in the future",
	"gender.required":                 "Select a gender",
	"gender.gender":                   "Select a gender",
	"address.required":                "Address must be at least 5 characters",
	"address.min":                     "Address must be at least 5 characters",
	"address.max":                     "Address must be at most 500 characters",
	"occupation.required":             "Occupation must be at least 2 characters",
	"occupation.min":                  "Occupation must be at least 2 characters",
	"occupation.max":                  "Occupation must be at most 500 characters",
	"emergencyContactName.required":   "Contact name must be at least 2 characters",
	"emergencyContactName.min":        "Contact name must be at least 2 characters",
	"emergencyContactName.max":        "Contact name must be at most 50 characters",
	"emergencyContactNumber.required": "Invalid phone number",
	"emergencyContactNumber.phone":    "Invalid phone number",
	"primaryPhysician.required":       "Select at least one doctor",
	"primaryPhysician.min":            "Select at least one doctor",
	"primaryPhysician.physician":      "Select at least one doctor",
	"insuranceProvider.required":      "Insurance name must be at least 2 characters",
	"insuranceProvider.min":           "Insurance name must be at least 2 characters",
	"insuranceProvider.max":           "Insurance name must be at most 50 characters",
	"insurancePolicyNumber.required":  "Policy number must be at least 2 characters",
	"insurancePolicyNumber.min":       "Policy number must be at least 2 characters",
	"insurancePolicyNumber.max":       "Policy number must be at most 50 characters",
	"identificationType.idtype":       "Select a valid identification type",
	"identificationNumber.max":        "Identification number must be at most 50 characters",
	"treatmentConsent.accepted":       "You must consent to treatment in order to proceed",
	"disclosureConsent.accepted":      "You must consent to disclosure in order to proceed",
	"privacyConsent.accepted":         "You must consent to privacy in order to proceed",
	"password.required":               "Password must be at least 8 characters",
	"password.min":                    "Password must be at least 8 characters",
	"password.bcryptlen":              "Password must be at most 72 bytes",
	"confirmPassword.required":        "Passwords don't match",
	"confirmPassword.eqfield":         "Passwords don't match",
}
