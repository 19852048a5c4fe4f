package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("an account with this email already exists")
)

// Repository is the credential store contract. Email lookups are
// case-insensitive; Create reports ErrDuplicateAccount when the email is
// already taken.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindAll(ctx context.Context) ([]Account, error)
	FindByRoleAndApproval(ctx context.Context, role Role, approved bool) ([]Account, error)
	FindApprovedActiveDoctors(ctx context.Context) ([]Account, error)
}
