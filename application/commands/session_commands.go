package commands

import (
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

// LoginCommand checks credentials and opens the session
type LoginCommand struct {
	Credentials ports.Credentials
}

func (c LoginCommand) Validate() error {
	return validateStruct(c.Credentials)
}

// LogoutCommand closes the session and revokes the token it was sent with
type LogoutCommand struct {
	TokenID   string
	ExpiresAt time.Time
}

func (c LogoutCommand) Validate() error { return nil }

// RegisterCommand signs up a new account
type RegisterCommand struct {
	Registration ports.Registration
}

func (c RegisterCommand) Validate() error {
	return validateStruct(c.Registration)
}

// RefreshTokenCommand reissues a token for the signed-in user
type RefreshTokenCommand struct {
	User entities.Identity
}

func (c RefreshTokenCommand) Validate() error {
	return requireID("user", c.User.ID)
}
