package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// Repository is the slot ledger contract: the durable store of appointment
// records, queryable by slot key, patient, doctor and status.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindBySlot(ctx context.Context, doctorName, date, timeOfDay string) ([]Appointment, error)
	FindByPatientEmailOrdered(ctx context.Context, email string) ([]Appointment, error)
	FindByDoctorName(ctx context.Context, name string) ([]Appointment, error)
	FindByStatus(ctx context.Context, status Status) ([]Appointment, error)
	FindAll(ctx context.Context) ([]Appointment, error)

	// Create persists a new appointment. Stores backed by the partial unique
	// slot index report ErrSlotConflict when a holding appointment already
	// occupies the key.
	Create(ctx context.Context, a *Appointment) error

	// UpdateStatus overwrites the status unconditionally; UpdateStatusFrom is
	// a compare-and-swap that only fires when the current status matches.
	// Both report ErrAppointmentNotFound when no row was touched.
	UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error)
}

// Locker guards the check-then-insert critical section per slot key.
type Locker interface {
	WithSlotLock(ctx context.Context, slotKey string, fn func(ctx context.Context) error) error
}
