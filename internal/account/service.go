package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Luisxcv/neuro-insight-agenda/internal/token"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled, contact an administrator")
	ErrPendingApproval    = errors.New("doctor account is pending approval")
	ErrNotADoctor         = errors.New("account is not a doctor")
	ErrAdminRegistration  = errors.New("admin accounts cannot be self-registered")
)

const minPasswordLength = 6

// TokenIssuer is the credential contract the gate depends on. The concrete
// implementation lives in internal/token.
type TokenIssuer interface {
	Issue(email string) (string, error)
	Verify(raw string) (string, error)
}

// Service is the account directory plus the authentication gate: it owns
// registration, login, token resolution and the admin account workflow.
type Service struct {
	repo       Repository
	tokens     TokenIssuer
	bcryptCost int
}

func NewService(repo Repository, tokens TokenIssuer, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string // blank defaults to patient
	Specialty       string // doctors only
}

// Register creates an account and issues a token for it. Patients are
// auto-approved; doctors start unapproved and cannot log in until an admin
// approves them. Admins are provisioned out of band (cmd/seed), never here.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, string, error) {
	role, err := ParseRole(in.Role)
	if err != nil {
		return nil, "", err
	}
	if role == RoleAdmin {
		return nil, "", ErrAdminRegistration
	}

	if in.Password != in.ConfirmPassword {
		return nil, "", ErrPasswordMismatch
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, "", ErrDuplicateAccount
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	acct := &Account{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.Name,
		Specialty:    in.Specialty,
		Role:         role,
		IsApproved:   role == RolePatient,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	// Create reports ErrDuplicateAccount on the store's unique constraint,
	// which also covers the race between the existence check and the insert.
	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, "", err
	}

	tok, err := s.tokens.Issue(NormalizeEmail(acct.Email))
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return acct, tok, nil
}

// Login verifies credentials and issues a fresh token. The gates run in a
// fixed order: unknown account, disabled account, unapproved doctor, then the
// password check. Unknown email and wrong password collapse to the same error
// so callers cannot probe which addresses exist.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, error) {
	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load account: %w", err)
	}

	if !acct.IsActive {
		return nil, "", ErrAccountDisabled
	}
	if acct.Role == RoleDoctor && !acct.IsApproved {
		return nil, "", ErrPendingApproval
	}

	if !checkPassword(acct.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(NormalizeEmail(acct.Email))
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return acct, tok, nil
}

// Authenticate resolves a bearer token to a fresh session identity. A token
// for an account that no longer exists is just as invalid as a forged one.
func (s *Service) Authenticate(ctx context.Context, raw string) (Identity, error) {
	email, err := s.tokens.Verify(raw)
	if err != nil {
		return Identity{}, token.ErrInvalidToken
	}

	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Identity{}, token.ErrInvalidToken
		}
		return Identity{}, fmt.Errorf("load account: %w", err)
	}

	return Identity{Email: NormalizeEmail(acct.Email), Role: acct.Role}, nil
}

// ApproveDoctor marks a doctor account approved. Approving an already
// approved doctor is a no-op; approving a non-doctor is an error.
func (s *Service) ApproveDoctor(ctx context.Context, id uuid.UUID) (*Account, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct.Role != RoleDoctor {
		return nil, ErrNotADoctor
	}

	acct.IsApproved = true
	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, fmt.Errorf("approve doctor: %w", err)
	}
	return acct, nil
}

// ToggleActive flips the active flag on any account.
func (s *Service) ToggleActive(ctx context.Context, id uuid.UUID) (*Account, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	acct.IsActive = !acct.IsActive
	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, fmt.Errorf("toggle active: %w", err)
	}
	return acct, nil
}

// DeleteAccount removes the account permanently. This is a hard delete, not a
// soft flag.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) PendingDoctors(ctx context.Context) ([]Account, error) {
	return s.repo.FindByRoleAndApproval(ctx, RoleDoctor, false)
}

// DoctorRoster lists approved, active doctors for the booking form.
func (s *Service) DoctorRoster(ctx context.Context) ([]Account, error) {
	return s.repo.FindApprovedActiveDoctors(ctx)
}

func (s *Service) Profile(ctx context.Context, email string) (*Account, error) {
	return s.repo.FindByEmail(ctx, email)
}

// UpdateProfile changes self-service profile fields only, never role or
// status flags.
func (s *Service) UpdateProfile(ctx context.Context, email, displayName string) (*Account, error) {
	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if displayName != "" {
		acct.DisplayName = displayName
	}
	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return acct, nil
}
