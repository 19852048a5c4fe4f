package account

import "errors"

var ErrForbidden = errors.New("insufficient permissions")

// Requirement describes who may perform an operation: any of the listed roles,
// or the owner of the targeted resource.
type Requirement struct {
	AnyRole []Role
	Owner   string // resource-owning email, compared case-insensitively
}

// Authorize is the single capability check invoked before every role-gated
// operation. Services receive identities that already passed it, which keeps
// the booking state machine free of authorization concerns.
func Authorize(id Identity, req Requirement) error {
	for _, r := range req.AnyRole {
		if id.Role == r {
			return nil
		}
	}
	if req.Owner != "" && NormalizeEmail(id.Email) == NormalizeEmail(req.Owner) {
		return nil
	}
	return ErrForbidden
}
