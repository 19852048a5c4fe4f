package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Luisxcv/neuro-insight-agenda/internal/account"
	redisclient "github.com/Luisxcv/neuro-insight-agenda/internal/redis"
)

var (
	ErrSlotConflict = errors.New("an appointment already exists for this doctor, date and time")
	ErrSlotBusy     = errors.New("slot is currently being booked, please retry")
	ErrNotPending   = errors.New("only pending appointments can be approved or rejected")
	ErrInvalidSlot  = errors.New("invalid appointment slot")
)

// Service is the booking engine: it allocates slots and drives the
// appointment status state machine. Callers arrive with an already
// authenticated identity; the capability check runs before each operation
// body so the state machine itself stays free of authorization concerns.
type Service struct {
	repo   Repository
	locker Locker
}

func NewService(repo Repository, locker Locker) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
	}
}

type CreateInput struct {
	Date            string
	Time            string
	DoctorName      string
	DoctorSpecialty string
	PatientName     string
}

func validateCreate(in CreateInput) error {
	if in.DoctorName == "" {
		return fmt.Errorf("%w: doctor name is required", ErrInvalidSlot)
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidSlot)
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidSlot)
	}
	return nil
}

// Create books a slot for the calling patient. The conflict check and the
// insert run inside a per slot-key lock so concurrent bookers for the same
// doctor/date/time cannot both observe a free slot. The patient email on the
// record always comes from the authenticated caller, never from the payload.
func (s *Service) Create(ctx context.Context, in CreateInput, caller account.Identity) (*Appointment, error) {
	if err := account.Authorize(caller, account.Requirement{
		AnyRole: []account.Role{account.RolePatient, account.RoleAdmin},
	}); err != nil {
		return nil, err
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	var created *Appointment

	key := SlotKey(in.DoctorName, in.Date, in.Time)
	err := s.locker.WithSlotLock(ctx, key, func(lockCtx context.Context) error {
		existing, err := s.repo.FindBySlot(lockCtx, in.DoctorName, in.Date, in.Time)
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		for _, a := range existing {
			if a.Status.Holds() {
				return ErrSlotConflict
			}
		}

		appt := &Appointment{
			ID:              uuid.New(),
			Date:            in.Date,
			Time:            in.Time,
			DoctorName:      in.DoctorName,
			DoctorSpecialty: in.DoctorSpecialty,
			PatientName:     in.PatientName,
			PatientEmail:    account.NormalizeEmail(caller.Email),
			Status:          StatusPending,
			CreatedAt:       time.Now(),
		}

		// The store's partial unique index on the slot key is the second
		// line of defense; it also reports ErrSlotConflict.
		if err := s.repo.Create(lockCtx, appt); err != nil {
			return err
		}

		created = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	return created, nil
}

// Cancel moves an appointment to cancelled. Allowed for the owning patient or
// an admin, from any source status.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, caller account.Identity) (*Appointment, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := account.Authorize(caller, account.Requirement{
		AnyRole: []account.Role{account.RoleAdmin},
		Owner:   appt.PatientEmail,
	}); err != nil {
		return nil, err
	}

	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}

// Approve moves a pending appointment to approved. Admin only.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, caller account.Identity) (*Appointment, error) {
	return s.adminTransition(ctx, id, caller, StatusApproved)
}

// Reject moves a pending appointment to rejected, releasing its slot. Admin
// only.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, caller account.Identity) (*Appointment, error) {
	return s.adminTransition(ctx, id, caller, StatusRejected)
}

func (s *Service) adminTransition(ctx context.Context, id uuid.UUID, caller account.Identity, to Status) (*Appointment, error) {
	if err := account.Authorize(caller, account.Requirement{
		AnyRole: []account.Role{account.RoleAdmin},
	}); err != nil {
		return nil, err
	}

	appt, err := s.repo.UpdateStatusFrom(ctx, id, StatusPending, to)
	if err == nil {
		return appt, nil
	}
	if !errors.Is(err, ErrAppointmentNotFound) {
		return nil, err
	}

	// No pending row matched: distinguish a missing appointment from one
	// that already left the pending state.
	if _, lookupErr := s.repo.FindByID(ctx, id); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, ErrNotPending
}

// RequestReschedule moves an appointment to reschedule_requested. Only the
// owning patient may request it, from any source status: rescheduling a
// rejected or cancelled appointment is the documented recovery path, and the
// new status holds the original slot until an admin resolves it. If the slot
// was rebooked in the meantime, re-holding it fails with ErrSlotConflict.
func (s *Service) RequestReschedule(ctx context.Context, id uuid.UUID, caller account.Identity) (*Appointment, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := account.Authorize(caller, account.Requirement{
		Owner: appt.PatientEmail,
	}); err != nil {
		return nil, err
	}

	return s.repo.UpdateStatus(ctx, id, StatusRescheduleRequested)
}

// ForPatient lists the caller's own appointments, newest first by date then
// time.
func (s *Service) ForPatient(ctx context.Context, email string) ([]Appointment, error) {
	return s.repo.FindByPatientEmailOrdered(ctx, account.NormalizeEmail(email))
}

// ForDoctor lists every appointment booked with the named doctor.
func (s *Service) ForDoctor(ctx context.Context, doctorName string) ([]Appointment, error) {
	return s.repo.FindByDoctorName(ctx, doctorName)
}

// ByStatus feeds the admin queues for pending and reschedule_requested.
func (s *Service) ByStatus(ctx context.Context, status Status) ([]Appointment, error) {
	return s.repo.FindByStatus(ctx, status)
}

// All is the admin overview of every appointment.
func (s *Service) All(ctx context.Context) ([]Appointment, error) {
	return s.repo.FindAll(ctx)
}
