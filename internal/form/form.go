// Package form describes the intake forms as data so clients can render them
// and submit values back for validation.
package form

import (
	"errors"
	"strings"
	"time"

	"github.com/jwalitptl/intake-api/internal/model"
)

var ErrUnknownForm = errors.New("unknown form")

const (
	NamePatient = "patient"
	NameUser    = "user"
)

type FieldType string

const (
	FieldInput      FieldType = "input"
	FieldTextarea   FieldType = "textarea"
	FieldPhoneInput FieldType = "phone_input"
	FieldCheckbox   FieldType = "checkbox"
	FieldDatePicker FieldType = "date_picker"
	FieldSelect     FieldType = "select"
	FieldSkeleton   FieldType = "skeleton"
	FieldPassword   FieldType = "password"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Image string `json:"image,omitempty"`
}

type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Placeholder string    `json:"placeholder,omitempty"`
	IconSrc     string    `json:"icon_src,omitempty"`
	IconAlt     string    `json:"icon_alt,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	Required    bool      `json:"required"`
	// Control names the widget a skeleton field renders: radio_group or file_uploader.
	Control string `json:"control,omitempty"`
	// Row groups fields that are laid out side by side.
	Row int `json:"row,omitempty"`
}

type Section struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

type Definition struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	SubmitLabel string      `json:"submit_label"`
	Sections    []Section   `json:"sections"`
	Defaults    interface{} `json:"defaults"`
}

// Fields returns every field of d in display order.
func (d Definition) Fields() []Field {
	var out []Field
	for _, s := range d.Sections {
		out = append(out, s.Fields...)
	}
	return out
}

// Lookup returns the definition registered under name.
func Lookup(name string, now time.Time) (Definition, error) {
	switch name {
	case NamePatient:
		return PatientRegistration(now), nil
	case NameUser:
		return UserRegistration(), nil
	}
	return Definition{}, ErrUnknownForm
}

func UserRegistration() Definition {
	return Definition{
		Name:        NameUser,
		Title:       "Hi There",
		Subtitle:    "Schedule your first appointment.",
		SubmitLabel: "Register",
		Sections: []Section{{
			Fields: []Field{
				{Name: "email", Label: "Email", Type: FieldInput, Placeholder: "johndoe@gmail.com", IconSrc: "/assets/icons/email.svg", IconAlt: "email", Required: true},
				{Name: "password", Label: "Password", Type: FieldPassword, Placeholder: "Password", IconSrc: "/assets/icons/password.svg", IconAlt: "user", Required: true},
				{Name: "confirmPassword", Label: "Confirm Password", Type: FieldPassword, Placeholder: "Confirm Password", IconSrc: "/assets/icons/password.svg", IconAlt: "user", Required: true},
			},
		}},
		Defaults: model.RegisterUserRequest{},
	}
}

func PatientRegistration(now time.Time) Definition {
	return Definition{
		Name:        NamePatient,
		Title:       "Welcome",
		Subtitle:    "Let us know more about yourself",
		SubmitLabel: "Get Started",
		Sections: []Section{
			{
				Title: "Personal Information",
				Fields: []Field{
					{Name: "name", Label: "Full name", Type: FieldInput, Placeholder: "John Doe", IconSrc: "/assets/icons/user.svg", IconAlt: "user", Required: true},
					{Name: "email", Label: "Email", Type: FieldInput, Placeholder: "johndoe@gmail.com", IconSrc: "/assets/icons/email.svg", IconAlt: "email", Required: true, Row: 1},
					{Name: "phone", Label: "Phone number", Type: FieldPhoneInput, Placeholder: "(604)789-1012", Required: true, Row: 1},
					{Name: "birthDate", Label: "Date of Birth", Type: FieldDatePicker, Required: true, Row: 2},
					{Name: "gender", Label: "Gender", Type: FieldSkeleton, Control: "radio_group", Options: genderOptions(), Required: true, Row: 2},
					{Name: "address", Label: "Address", Type: FieldInput, Placeholder: "309 Lougheed Hwy, Vancouver", Required: true, Row: 3},
					{Name: "occupation", Label: "Occupation", Type: FieldInput, Placeholder: "Software Engineer", Required: true, Row: 3},
					{Name: "emergencyContactName", Label: "Emergency Contact Name", Type: FieldInput, Placeholder: "Guardian's name", Required: true, Row: 4},
					{Name: "emergencyContactNumber", Label: "Emergency Contact Number", Type: FieldPhoneInput, Placeholder: "(604)789-1012", Required: true, Row: 4},
				},
			},
			{
				Title: "Medical Information",
				Fields: []Field{
					{Name: "primaryPhysician", Label: "Primary Physician", Type: FieldSelect, Placeholder: "Select a physician", Options: doctorOptions(), Required: true},
					{Name: "insuranceProvider", Label: "Insurance Provider", Type: FieldInput, Placeholder: "BlueCross BlueShield", Required: true, Row: 5},
					{Name: "insurancePolicyNumber", Label: "Insurance Policy Number", Type: FieldInput, Placeholder: "ABC123456789", Required: true, Row: 5},
					{Name: "allergies", Label: "Allergies (if any)", Type: FieldTextarea, Placeholder: "Peanuts, Penicillin, Pollen", Row: 6},
					{Name: "currentMedication", Label: "Current Medication (if any)", Type: FieldTextarea, Placeholder: "Ibuprofen 200mg, Paracetamol 500mg", Row: 6},
					{Name: "familyMedicalHistory", Label: "Family Medical History", Type: FieldTextarea, Placeholder: "Brain cancer, heart attack", Row: 7},
					{Name: "pastMedicalHistory", Label: "Past Medical History", Type: FieldTextarea, Placeholder: "Appendectomy, Tonsillectomy", Row: 7},
				},
			},
			{
				Title: "Identification and Verification",
				Fields: []Field{
					{Name: "identificationType", Label: "Identification Type", Type: FieldSelect, Placeholder: "Select an identification type", Options: identificationOptions()},
					{Name: "identificationNumber", Label: "Identification Number", Type: FieldInput, Placeholder: "123456789"},
					{Name: "identificationDocument", Label: "Scanned copy of identification document", Type: FieldSkeleton, Control: "file_uploader"},
				},
			},
			{
				Title: "Consent and Privacy",
				Fields: []Field{
					{Name: "treatmentConsent", Label: "I consent to treatment", Type: FieldCheckbox, Required: true},
					{Name: "disclosureConsent", Label: "I consent to disclosure of information", Type: FieldCheckbox, Required: true},
					{Name: "privacyConsent", Label: "I consent to privacy policy", Type: FieldCheckbox, Required: true},
				},
			},
		},
		Defaults: model.PatientFormDefaults(now),
	}
}

func genderOptions() []Option {
	opts := make([]Option, 0, len(model.GenderOptions))
	for _, g := range model.GenderOptions {
		s := string(g)
		opts = append(opts, Option{Value: s, Label: strings.ToUpper(s[:1]) + s[1:]})
	}
	return opts
}

func doctorOptions() []Option {
	opts := make([]Option, 0, len(model.Doctors))
	for _, d := range model.Doctors {
		opts = append(opts, Option{Value: d.Name, Label: d.Name, Image: d.Image})
	}
	return opts
}

func identificationOptions() []Option {
	opts := make([]Option, 0, len(model.IdentificationTypes))
	for _, t := range model.IdentificationTypes {
		opts = append(opts, Option{Value: t, Label: t})
	}
	return opts
}
