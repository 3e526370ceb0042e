// Package handlers holds the HTTP handlers of the /api/v1 surface. Each
// handler translates a request into a command or query and renders the result.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/auth"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

const maxBodyBytes = 1 << 20

// responder is shared by every handler
type responder struct {
	errs   *apperrors.ErrorHandler
	logger *zap.Logger
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h responder) respondError(w http.ResponseWriter, r *http.Request, err error) {
	h.errs.Handle(w, r, err)
}

// decode reads a JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func (h responder) decode(r *http.Request, dst interface{}, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return apperrors.NewValidationError("Invalid request body: " + err.Error())
	}
	return nil
}

// currentUser returns the identity placed in the context by the auth middleware
func currentUser(r *http.Request) (entities.Identity, error) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		return entities.Identity{}, apperrors.NewUnauthorizedError("Unauthorized")
	}
	return user, nil
}
