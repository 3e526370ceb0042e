package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/interfaces/navigation"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/auth"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// AppPrefix is where the dashboard routes are mounted
const AppPrefix = "/app"

// AppHandler resolves dashboard routes for the caller
type AppHandler struct {
	responder
}

// NewAppHandler creates a new app handler
func NewAppHandler(errs *apperrors.ErrorHandler, logger *zap.Logger) *AppHandler {
	return &AppHandler{responder: responder{errs: errs, logger: logger}}
}

// Resolve handles GET /app/*. Redirects carry a Location under AppPrefix
// and the decision as body.
func (h *AppHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, AppPrefix)
	viewer := navigation.ViewerFor(auth.GetUserFromContext(r.Context()))

	decision := navigation.Resolve(path, viewer)
	if decision.IsRedirect() {
		w.Header().Set("Location", AppPrefix+decision.Redirect)
	}
	h.respondJSON(w, decision.Status, decision)
}
