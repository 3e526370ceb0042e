package handlers

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/services"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	GenerateToken(user entities.Identity) (string, error)
}

// SessionHandler handles login, logout, registration and token refresh
type SessionHandler struct {
	backend ports.Backend
	session *services.SessionService
	issuer  TokenIssuer
	logger  *zap.Logger
}

// NewSessionHandler creates a new session handler. Without an issuer the
// backend's own token is handed out.
func NewSessionHandler(backend ports.Backend, session *services.SessionService, issuer TokenIssuer, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		backend: backend,
		session: session,
		issuer:  issuer,
		logger:  logger,
	}
}

// Handle executes a session command
func (h *SessionHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case commands.LoginCommand:
		return h.login(ctx, c)
	case commands.LogoutCommand:
		return nil, h.logout(ctx, c)
	case commands.RegisterCommand:
		res, err := h.backend.Register(ctx, c.Registration)
		if err != nil {
			return nil, apperrors.NewExternalError("backend", err)
		}
		h.logger.Info("User registered", zap.String("userID", res.UserID))
		return res, nil
	case commands.RefreshTokenCommand:
		return h.refresh(ctx, c)
	}
	return nil, fmt.Errorf("%w: %T", bus.ErrInvalidCommandType, cmd)
}

func (h *SessionHandler) login(ctx context.Context, c commands.LoginCommand) (ports.LoginResult, error) {
	res, err := h.backend.Login(ctx, c.Credentials)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidCredentials) {
			return ports.LoginResult{}, apperrors.NewInvalidCredentialsError(err.Error())
		}
		return ports.LoginResult{}, apperrors.NewExternalError("backend", err)
	}

	if err := h.session.Login(ctx, res.User); err != nil {
		return ports.LoginResult{}, apperrors.Wrap(err, "failed to open session")
	}

	if h.issuer != nil {
		token, err := h.issuer.GenerateToken(res.User)
		if err != nil {
			return ports.LoginResult{}, apperrors.Wrap(err, "failed to issue token")
		}
		res.Token = token
	}
	return res, nil
}

// logout always closes the local session; a backend failure is only logged
func (h *SessionHandler) logout(ctx context.Context, c commands.LogoutCommand) error {
	if err := h.backend.Logout(ctx); err != nil {
		h.logger.Warn("Backend logout failed", zap.Error(err))
	}
	if err := h.session.Revoke(ctx, c.TokenID, c.ExpiresAt); err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	if err := h.session.Logout(ctx); err != nil {
		return apperrors.Wrap(err, "failed to close session")
	}
	return nil
}

func (h *SessionHandler) refresh(ctx context.Context, c commands.RefreshTokenCommand) (string, error) {
	token, err := h.backend.RefreshToken(ctx)
	if err != nil {
		return "", apperrors.NewExternalError("backend", err)
	}
	if h.issuer == nil {
		return token, nil
	}
	token, err = h.issuer.GenerateToken(c.User)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to issue token")
	}
	return token, nil
}
