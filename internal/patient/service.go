package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service wraps the directory store. It carries no authorization logic; the
// HTTP layer gates every route to doctors and admins.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type UpsertInput struct {
	Name  string
	Email string
	Phone string
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	return s.repo.FindAll(ctx)
}

// Search returns the whole directory for a blank term, mirroring the list
// view the search box starts from.
func (s *Service) Search(ctx context.Context, term string) ([]Patient, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.repo.FindAll(ctx)
	}
	return s.repo.Search(ctx, term)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *Service) Create(ctx context.Context, in UpsertInput) (*Patient, error) {
	if in.Name == "" || in.Email == "" {
		return nil, errors.New("name and email are required")
	}

	now := time.Now()
	p := &Patient{
		ID:                 uuid.New(),
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		Status:             StatusActive,
		LastAnalysisResult: AnalysisPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpsertInput) (*Patient, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Email != "" {
		p.Email = in.Email
	}
	if in.Phone != "" {
		p.Phone = in.Phone
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) DashboardStats(ctx context.Context) (Stats, error) {
	return s.repo.CountStats(ctx)
}
