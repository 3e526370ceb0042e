package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries"
	querybus "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// EmotionHandler serves text analysis, emotion state and reports
type EmotionHandler struct {
	responder
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
}

// NewEmotionHandler creates a new emotion handler
func NewEmotionHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	logger *zap.Logger,
) *EmotionHandler {
	return &EmotionHandler{
		responder:  responder{errs: errs, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

// AnalyzeRequest is text to classify
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// ClassifyRequest files a memory under a sentiment bucket
type ClassifyRequest struct {
	MemoryID       string                 `json:"memoryId"`
	Classification valueobjects.Sentiment `json:"classification"`
}

// Analyze handles POST /emotion/analyze
func (h *EmotionHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := h.decode(r, &req, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.send(w, r, commands.AnalyzeTextCommand{Text: req.Text})
}

// Current handles GET /emotion/current
func (h *EmotionHandler) Current(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.EmotionStateQuery{})
}

// History handles GET /emotion/history
func (h *EmotionHandler) History(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.EmotionHistoryQuery{})
}

// ClearHistory handles DELETE /emotion/history
func (h *EmotionHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if _, err := h.commandBus.Send(r.Context(), commands.ClearEmotionHistoryCommand{}); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Classify handles POST /emotion/classify
func (h *EmotionHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := h.decode(r, &req, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.send(w, r, commands.ClassifyMemoryCommand{MemoryID: req.MemoryID, Classification: req.Classification})
}

// AddPADPoint handles POST /emotion/pad
func (h *EmotionHandler) AddPADPoint(w http.ResponseWriter, r *http.Request) {
	var point entities.PADPoint
	if err := h.decode(r, &point, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.send(w, r, commands.AddPADPointCommand{Point: point})
}

// Report handles GET /reports/{kind}?period=week|month for the caller
func (h *EmotionHandler) Report(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.ask(w, r, queries.ReportQuery{
		Kind:   queries.ReportKind(chi.URLParam(r, "kind")),
		UserID: user.ID,
		Period: r.URL.Query().Get("period"),
	})
}

func (h *EmotionHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	out, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *EmotionHandler) ask(w http.ResponseWriter, r *http.Request, q querybus.Query) {
	out, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}
