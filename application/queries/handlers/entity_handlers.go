package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// EntityQueryHandler answers character, relationship and memory reads.
// Every answer is computed from a fresh snapshot of the store.
type EntityQueryHandler struct {
	store  ports.EntityStore
	logger *zap.Logger
}

// NewEntityQueryHandler creates a new entity query handler
func NewEntityQueryHandler(store ports.EntityStore, logger *zap.Logger) *EntityQueryHandler {
	return &EntityQueryHandler{store: store, logger: logger}
}

// Handle executes an entity query
func (h *EntityQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.ListCharactersQuery:
		return queries.FilterCharacters(h.store.Characters(), q.Filter), nil

	case queries.GetCharacterQuery:
		c, ok := h.store.Character(q.ID)
		if !ok {
			return nil, apperrors.NewNotFoundError("character " + q.ID)
		}
		return c, nil

	case queries.ListRelationshipsQuery:
		rels := h.store.Relationships()
		if q.CharacterID != "" {
			rels = h.store.RelationshipsByCharacter(q.CharacterID)
		}
		return h.relationshipViews(rels, q.Viewer), nil

	case queries.GetRelationshipQuery:
		r, ok := h.store.Relationship(q.ID)
		if !ok {
			return nil, apperrors.NewNotFoundError("relationship " + q.ID)
		}
		return h.relationshipViews([]entities.Relationship{r}, q.Viewer)[0], nil

	case queries.ListMemoriesQuery:
		return h.memoryViews(queries.FilterMemories(h.store.Memories(), q.Filter)), nil

	case queries.GetMemoryQuery:
		m, ok := h.store.Memory(q.ID)
		if !ok {
			return nil, apperrors.NewNotFoundError("memory " + q.ID)
		}
		return h.memoryViews([]entities.Memory{m})[0], nil
	}
	return nil, fmt.Errorf("unsupported query type %T", query)
}

func (h *EntityQueryHandler) names() map[string]string {
	chars := h.store.Characters()
	names := make(map[string]string, len(chars))
	for _, c := range chars {
		names[c.ID] = c.Name
	}
	return names
}

// relationshipViews resolves each end against the viewer and the characters;
// anything else is a dangling reference shown as unknown
func (h *EntityQueryHandler) relationshipViews(rels []entities.Relationship, viewer entities.Identity) []queries.RelationshipView {
	names := h.names()
	resolve := func(id string) string {
		if viewer.ID != "" && id == viewer.ID {
			return viewer.Name
		}
		if name, ok := names[id]; ok {
			return name
		}
		return queries.UnknownEntityName
	}

	out := make([]queries.RelationshipView, len(rels))
	for i, r := range rels {
		out[i] = queries.RelationshipView{Relationship: r, FromName: resolve(r.FromID), ToName: resolve(r.ToID)}
	}
	return out
}

func (h *EntityQueryHandler) memoryViews(mems []entities.Memory) []queries.MemoryView {
	names := h.names()
	out := make([]queries.MemoryView, len(mems))
	for i, m := range mems {
		name, ok := names[m.CharacterID]
		if !ok {
			name = queries.UnknownCharacterName
		}
		out[i] = queries.MemoryView{Memory: m, CharacterName: name}
	}
	return out
}
