package model

// RegistrationResult is returned by a successful form submission. Redirect is
// the path the client navigates to next.
type RegistrationResult struct {
	Data     interface{} `json:"data"`
	Redirect string      `json:"redirect"`
}
