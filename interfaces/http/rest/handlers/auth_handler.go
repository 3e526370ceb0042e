package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/auth"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// AuthHandler handles login, logout and token refresh
type AuthHandler struct {
	responder
	commandBus *bus.CommandBus
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(commandBus *bus.CommandBus, errs *apperrors.ErrorHandler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		responder:  responder{errs: errs, logger: logger},
		commandBus: commandBus,
	}
}

// TokenResponse carries a refreshed token
type TokenResponse struct {
	Token string `json:"token"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds ports.Credentials
	if err := h.decode(r, &creds, false); err != nil {
		h.respondError(w, r, err)
		return
	}

	out, err := h.commandBus.Send(r.Context(), commands.LoginCommand{Credentials: creds})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	res := out.(ports.LoginResult)
	h.logger.Info("User logged in", zap.String("user_id", res.User.ID), zap.String("role", string(res.User.Role)))
	h.respondJSON(w, http.StatusOK, res)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg ports.Registration
	if err := h.decode(r, &reg, false); err != nil {
		h.respondError(w, r, err)
		return
	}

	out, err := h.commandBus.Send(r.Context(), commands.RegisterCommand{Registration: reg})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

// Logout handles POST /auth/logout. The token the request carried stops
// being accepted.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := auth.GetTokenFromContext(r.Context())
	cmd := commands.LogoutCommand{TokenID: token.ID, ExpiresAt: token.ExpiresAt}
	if _, err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out, err := h.commandBus.Send(r.Context(), commands.RefreshTokenCommand{User: user})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, TokenResponse{Token: out.(string)})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, user)
}
