package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries"
	querybus "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/utils"
)

// EntityHandler serves characters, relationships and memories
type EntityHandler struct {
	responder
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	logger *zap.Logger,
) *EntityHandler {
	return &EntityHandler{
		responder:  responder{errs: errs, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

// Characters

// ListCharacters handles GET /characters
func (h *EntityHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	filter, err := characterFilterFrom(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.ask(w, r, queries.ListCharactersQuery{Filter: filter})
}

// CreateCharacter handles POST /characters
func (h *EntityHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var draft entities.CharacterDraft
	if err := h.decode(r, &draft, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.create(w, r, commands.CreateCharacterCommand{Draft: draft})
}

// GetCharacter handles GET /characters/{id}
func (h *EntityHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetCharacterQuery{ID: chi.URLParam(r, "id")})
}

// UpdateCharacter handles PUT /characters/{id}
func (h *EntityHandler) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	var patch entities.CharacterPatch
	if err := h.decode(r, &patch, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.update(w, r, "character", commands.UpdateCharacterCommand{ID: chi.URLParam(r, "id"), Patch: patch})
}

// DeleteCharacter handles DELETE /characters/{id}; the response lists the
// relationships and memories removed with it
func (h *EntityHandler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "character", commands.DeleteCharacterCommand{ID: chi.URLParam(r, "id")})
}

// CharacterRelationships handles GET /characters/{id}/relationships
func (h *EntityHandler) CharacterRelationships(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.ask(w, r, queries.ListRelationshipsQuery{CharacterID: chi.URLParam(r, "id"), Viewer: user})
}

// CharacterMemories handles GET /characters/{id}/memories
func (h *EntityHandler) CharacterMemories(w http.ResponseWriter, r *http.Request) {
	filter, err := memoryFilterFrom(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	filter.CharacterID = chi.URLParam(r, "id")
	h.ask(w, r, queries.ListMemoriesQuery{Filter: filter})
}

// Relationships

// ListRelationships handles GET /relationships
func (h *EntityHandler) ListRelationships(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.ask(w, r, queries.ListRelationshipsQuery{CharacterID: r.URL.Query().Get("characterId"), Viewer: user})
}

// CreateRelationship handles POST /relationships
func (h *EntityHandler) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	var draft entities.RelationshipDraft
	if err := h.decode(r, &draft, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.create(w, r, commands.CreateRelationshipCommand{Draft: draft})
}

// GetRelationship handles GET /relationships/{id}
func (h *EntityHandler) GetRelationship(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.ask(w, r, queries.GetRelationshipQuery{ID: chi.URLParam(r, "id"), Viewer: user})
}

// UpdateRelationship handles PUT /relationships/{id}
func (h *EntityHandler) UpdateRelationship(w http.ResponseWriter, r *http.Request) {
	var patch entities.RelationshipPatch
	if err := h.decode(r, &patch, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.update(w, r, "relationship", commands.UpdateRelationshipCommand{ID: chi.URLParam(r, "id"), Patch: patch})
}

// DeleteRelationship handles DELETE /relationships/{id}
func (h *EntityHandler) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "relationship", commands.DeleteRelationshipCommand{ID: chi.URLParam(r, "id")})
}

// Memories

// ListMemories handles GET /memories
func (h *EntityHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	filter, err := memoryFilterFrom(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.ask(w, r, queries.ListMemoriesQuery{Filter: filter})
}

// CreateMemory handles POST /memories. The owner defaults to the caller.
func (h *EntityHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	var draft entities.MemoryDraft
	if err := h.decode(r, &draft, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	if draft.UserID == "" {
		if user, err := currentUser(r); err == nil {
			draft.UserID = user.ID
		}
	}
	h.create(w, r, commands.CreateMemoryCommand{Draft: draft})
}

// GetMemory handles GET /memories/{id}
func (h *EntityHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetMemoryQuery{ID: chi.URLParam(r, "id")})
}

// UpdateMemory handles PUT /memories/{id}
func (h *EntityHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	var patch entities.MemoryPatch
	if err := h.decode(r, &patch, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.update(w, r, "memory", commands.UpdateMemoryCommand{ID: chi.URLParam(r, "id"), Patch: patch})
}

// DeleteMemory handles DELETE /memories/{id}
func (h *EntityHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "memory", commands.DeleteMemoryCommand{ID: chi.URLParam(r, "id")})
}

func (h *EntityHandler) ask(w http.ResponseWriter, r *http.Request, q querybus.Query) {
	out, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *EntityHandler) create(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	out, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

// update and remove turn a store no-op on an unknown id into 404
func (h *EntityHandler) update(w http.ResponseWriter, r *http.Request, kind string, cmd bus.Command) {
	out, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	res, _ := out.(commands.UpdateResult)
	if !res.Found {
		h.respondError(w, r, apperrors.NewNotFoundError(kind+" "+chi.URLParam(r, "id")))
		return
	}
	h.respondJSON(w, http.StatusOK, res.Record)
}

func (h *EntityHandler) remove(w http.ResponseWriter, r *http.Request, kind string, cmd bus.Command) {
	out, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	res, _ := out.(commands.DeleteResult)
	if !res.Found {
		h.respondError(w, r, apperrors.NewNotFoundError(kind+" "+chi.URLParam(r, "id")))
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func characterFilterFrom(r *http.Request) (queries.CharacterFilter, error) {
	q := r.URL.Query()
	filter := queries.CharacterFilter{
		Search:     q.Get("search"),
		MBTIType:   q.Get("mbtiType"),
		ZodiacSign: q.Get("zodiacSign"),
	}
	if raw := q.Get("isPublic"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("isPublic must be true or false")
		}
		filter.IsPublic = &v
	}
	return filter, nil
}

func memoryFilterFrom(r *http.Request) (queries.MemoryFilter, error) {
	q := r.URL.Query()
	filter := queries.MemoryFilter{
		CharacterID: q.Get("characterId"),
		Type:        q.Get("type"),
	}
	if raw := q.Get("importance"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("importance must be an integer")
		}
		filter.Importance = &v
	}

	start, err := utils.ParseOptionalTime(q.Get("start"))
	if err != nil {
		return filter, apperrors.NewValidationError(err.Error())
	}
	end, err := utils.ParseOptionalTime(q.Get("end"))
	if err != nil {
		return filter, apperrors.NewValidationError(err.Error())
	}
	if start != nil || end != nil {
		filter.DateRange = &queries.DateRange{Start: start, End: end}
	}
	return filter, nil
}
