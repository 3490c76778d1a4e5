package status

import (
	"errors"
	"fmt"

	"github.com/jwalitptl/intake-api/internal/model"
)

var ErrUnknownStatus = errors.New("unknown appointment status")

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Badge resolves a status name in any letter case to its badge.
func (s *Service) Badge(status string) (model.Badge, error) {
	parsed, err := model.ParseAppointmentStatus(status)
	if err != nil {
		return model.Badge{}, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return parsed.Badge(), nil
}

func (s *Service) List() []model.Badge {
	return model.AllBadges()
}
