package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries"
	querybus "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// ChatHandler serves the conversation with the active persona
type ChatHandler struct {
	responder
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		responder:  responder{errs: errs, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

// SwitchPersonaRequest selects the persona to talk to
type SwitchPersonaRequest struct {
	PersonaID string `json:"personaId"`
}

// SendMessageRequest is a user chat message
type SendMessageRequest struct {
	Content string `json:"content"`
}

// ListPersonas handles GET /chat/personas
func (h *ChatHandler) ListPersonas(w http.ResponseWriter, r *http.Request) {
	out, err := h.queryBus.Ask(r.Context(), queries.ListPersonasQuery{})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

// SwitchPersona handles PUT /chat/persona
func (h *ChatHandler) SwitchPersona(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req SwitchPersonaRequest
	if err := h.decode(r, &req, false); err != nil {
		h.respondError(w, r, err)
		return
	}

	out, err := h.commandBus.Send(r.Context(), commands.SwitchPersonaCommand{User: user, PersonaID: req.PersonaID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

// Messages handles GET /chat/messages; personaId narrows the log
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	out, err := h.queryBus.Ask(r.Context(), queries.ConversationQuery{PersonaID: r.URL.Query().Get("personaId")})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

// Send handles POST /chat/messages and answers with the user message and
// the reply that followed it
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req SendMessageRequest
	if err := h.decode(r, &req, false); err != nil {
		h.respondError(w, r, err)
		return
	}

	out, err := h.commandBus.Send(r.Context(), commands.SendMessageCommand{User: user, Content: req.Content})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

// Clear handles DELETE /chat/messages
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if _, err := h.commandBus.Send(r.Context(), commands.ClearConversationCommand{}); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
