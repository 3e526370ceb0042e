package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries"
	querybus "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// AdminHandler serves the admin-only endpoints
type AdminHandler struct {
	responder
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	seed       ports.SeedData
}

// NewAdminHandler creates a new admin handler. seed is what a reset with
// "seed": true restores.
func NewAdminHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	seed ports.SeedData,
	errs *apperrors.ErrorHandler,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		responder:  responder{errs: errs, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
		seed:       seed,
	}
}

// ResetRequest controls what the store is reset to
type ResetRequest struct {
	Seed bool `json:"seed"`
}

// Overview handles GET /admin/overview
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	out, err := h.queryBus.Ask(r.Context(), queries.AdminOverviewQuery{})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

// Reset handles POST /admin/reset. An empty body empties the store.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := h.decode(r, &req, true); err != nil {
		h.respondError(w, r, err)
		return
	}

	cmd := commands.ResetStoreCommand{}
	if req.Seed {
		cmd.Seed = h.seed
	}
	out, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.logger.Warn("Entity store reset", zap.Bool("seeded", req.Seed))
	h.respondJSON(w, http.StatusOK, out)
}
