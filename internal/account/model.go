package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole maps the wire representation to a Role. A blank role defaults to
// patient, matching the registration contract.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return RolePatient, nil
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownRole, s)
	}
}

// Account is the durable identity record. Email keeps the case the user
// registered with; lookups always compare case-insensitively.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	Specialty    string // doctors only, shown on the booking roster
	Role         Role
	IsApproved   bool
	IsActive     bool
	CreatedAt    time.Time
}

// Identity is the per-request session identity resolved from a bearer token.
// It is never persisted.
type Identity struct {
	Email string
	Role  Role
}

// NormalizeEmail is the canonical form used for lookups, token subjects and
// ownership comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
