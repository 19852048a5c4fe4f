package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending             Status = "pending"
	StatusApproved            Status = "approved"
	StatusRejected            Status = "rejected"
	StatusCancelled           Status = "cancelled"
	StatusRescheduleRequested Status = "reschedule_requested"
)

// ParseStatus maps the wire representation to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusRescheduleRequested:
		return StatusRescheduleRequested, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
}

// Holds reports whether an appointment in this status occupies its slot and
// blocks new bookings against it. A reschedule request keeps holding the
// original slot until it is resolved; cancelled and rejected appointments
// never block.
func (s Status) Holds() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRescheduleRequested:
		return true
	default:
		return false
	}
}

// Appointment is a booking of one doctor slot by one patient. Rows are never
// physically deleted; cancellation is a status.
type Appointment struct {
	ID              uuid.UUID
	Date            string // YYYY-MM-DD
	Time            string // HH:MM
	DoctorName      string
	DoctorSpecialty string
	PatientName     string
	PatientEmail    string
	Status          Status
	CreatedAt       time.Time
}

// SlotKey identifies the bookable unit of time: one doctor, one date, one
// time. It doubles as the advisory lock key.
func SlotKey(doctorName, date, timeOfDay string) string {
	return fmt.Sprintf("%s|%s|%s", strings.ToLower(doctorName), date, timeOfDay)
}
