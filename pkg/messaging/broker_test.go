package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelFor(t *testing.T) {
	assert.Equal(t, "intake.patient_registered", ChannelFor("PATIENT_REGISTERED"))
	assert.Equal(t, "intake.user_registered", ChannelFor("USER_REGISTERED"))
}
