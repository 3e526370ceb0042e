package entities

import (
	"errors"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

// Identity is the authenticated user held by the session
type Identity struct {
	ID       string            `json:"id"`
	Username string            `json:"username,omitempty"`
	Name     string            `json:"name"`
	Role     valueobjects.Role `json:"role"`
	Email    string            `json:"email,omitempty"`
	Avatar   string            `json:"avatar,omitempty"`
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == valueobjects.RoleAdmin
}

// Validate rejects identities that cannot be restored into a session
func (i Identity) Validate() error {
	if i.ID == "" {
		return errors.New("identity id is required")
	}
	if !i.Role.IsValid() {
		return errors.New("identity role is invalid")
	}
	return nil
}
