package model

import (
	"fmt"
	"strings"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists every status in display order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusPending,
	AppointmentStatusCancelled,
}

// Badge is the presentational form of an appointment status.
type Badge struct {
	Status     AppointmentStatus `json:"status"`
	Label      string            `json:"label"`
	ColorClass string            `json:"color_class"`
	Icon       string            `json:"icon"`
}

var statusColors = map[AppointmentStatus]string{
	AppointmentStatusScheduled: "bg-green-600",
	AppointmentStatusPending:   "bg-blue-600",
	AppointmentStatusCancelled: "bg-red-600",
}

var statusIcons = map[AppointmentStatus]string{
	AppointmentStatusScheduled: "/assets/icons/check.svg",
	AppointmentStatusPending:   "/assets/icons/pending.svg",
	AppointmentStatusCancelled: "/assets/icons/cancelled.svg",
}

// ParseAppointmentStatus accepts a status in any letter case.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statusColors[status]; !ok {
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
	return status, nil
}

func (s AppointmentStatus) Valid() bool {
	_, ok := statusColors[s]
	return ok
}

// Badge returns the badge for s. Unknown statuses get an empty color and icon.
func (s AppointmentStatus) Badge() Badge {
	label := string(s)
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return Badge{
		Status:     s,
		Label:      label,
		ColorClass: statusColors[s],
		Icon:       statusIcons[s],
	}
}

func AllBadges() []Badge {
	badges := make([]Badge, 0, len(AppointmentStatuses))
	for _, s := range AppointmentStatuses {
		badges = append(badges, s.Badge())
	}
	return badges
}
