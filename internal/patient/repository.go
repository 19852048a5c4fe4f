package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrPatientNotFound = errors.New("patient not found")

// Stats are the dashboard counters the directory exposes.
type Stats struct {
	ActivePatients       int64
	PendingAnalyses      int64
	UpcomingAppointments int64
}

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	FindByEmail(ctx context.Context, email string) (*Patient, error)
	FindAll(ctx context.Context) ([]Patient, error)
	Search(ctx context.Context, term string) ([]Patient, error)
	Create(ctx context.Context, p *Patient) error
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountStats(ctx context.Context) (Stats, error)
}
