package form

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/intake-api/internal/model"
)

func jsonNames(v interface{}) map[string]bool {
	names := map[string]bool{}
	t := reflect.TypeOf(v)
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		names[name] = true
	}
	return names
}

func TestPatientRegistrationFieldsMatchRequest(t *testing.T) {
	def := PatientRegistration(time.Now())
	names := jsonNames(model.RegisterPatientRequest{})

	for _, f := range def.Fields() {
		if f.Name == "identificationDocument" {
			continue
		}
		assert.True(t, names[f.Name], "field %s has no request counterpart", f.Name)
	}
	assert.Len(t, def.Fields(), len(names)+1)
}

func TestPatientRegistrationSections(t *testing.T) {
	def := PatientRegistration(time.Now())

	titles := make([]string, 0, len(def.Sections))
	for _, s := range def.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		"Personal Information",
		"Medical Information",
		"Identification and Verification",
		"Consent and Privacy",
	}, titles)
	assert.Equal(t, "Get Started", def.SubmitLabel)
}

func TestPatientRegistrationOptions(t *testing.T) {
	def := PatientRegistration(time.Now())

	byName := map[string]Field{}
	for _, f := range def.Fields() {
		byName[f.Name] = f
	}

	assert.Len(t, byName["primaryPhysician"].Options, len(model.Doctors))
	assert.Equal(t, "/assets/images/dr-green.png", byName["primaryPhysician"].Options[0].Image)
	assert.Len(t, byName["identificationType"].Options, len(model.IdentificationTypes))
	assert.Equal(t, []Option{
		{Value: "male", Label: "Male"},
		{Value: "female", Label: "Female"},
		{Value: "other", Label: "Other"},
	}, byName["gender"].Options)
	assert.Equal(t, "file_uploader", byName["identificationDocument"].Control)
}

func TestPatientRegistrationDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	def := PatientRegistration(now)

	defaults, ok := def.Defaults.(model.RegisterPatientRequest)
	require.True(t, ok)
	assert.Equal(t, model.GenderMale, defaults.Gender)
	assert.Equal(t, now, defaults.BirthDate)
	assert.Equal(t, "Birth Certificate", defaults.IdentificationType)
	assert.False(t, bool(defaults.TreatmentConsent))
	assert.False(t, bool(defaults.PrivacyConsent))
}

func TestLookup(t *testing.T) {
	def, err := Lookup(NameUser, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Register", def.SubmitLabel)
	assert.Len(t, def.Fields(), 3)

	_, err = Lookup("survey", time.Now())
	assert.ErrorIs(t, err, ErrUnknownForm)
}
