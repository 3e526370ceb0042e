package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
)

// MutationRecorder counts store mutations
type MutationRecorder interface {
	EntityCreated(kind string)
	EntityDeleted(kind string, n int)
}

type nopRecorder struct{}

func (nopRecorder) EntityCreated(string)      {}
func (nopRecorder) EntityDeleted(string, int) {}

// CharacterHandler handles character create, update and delete
type CharacterHandler struct {
	store   ports.EntityStore
	metrics MutationRecorder
	logger  *zap.Logger
}

// NewCharacterHandler creates a new character handler; metrics may be nil
func NewCharacterHandler(store ports.EntityStore, metrics MutationRecorder, logger *zap.Logger) *CharacterHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &CharacterHandler{store: store, metrics: metrics, logger: logger}
}

// Handle executes a character command
func (h *CharacterHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case commands.CreateCharacterCommand:
		created := h.store.CreateCharacter(c.Draft)
		h.metrics.EntityCreated("character")
		h.logger.Info("Character created", zap.String("characterID", created.ID), zap.String("name", created.Name))
		return created, nil

	case commands.UpdateCharacterCommand:
		updated, found := h.store.UpdateCharacter(c.ID, c.Patch)
		if !found {
			h.logger.Debug("Character not found; update is a no-op", zap.String("characterID", c.ID))
			return commands.UpdateResult{}, nil
		}
		return commands.UpdateResult{Found: true, Record: updated}, nil

	case commands.DeleteCharacterCommand:
		cascade, found := h.store.DeleteCharacter(c.ID)
		if !found {
			h.logger.Debug("Character not found; delete is a no-op", zap.String("characterID", c.ID))
			return commands.DeleteResult{}, nil
		}
		h.metrics.EntityDeleted("character", 1)
		h.metrics.EntityDeleted("relationship", len(cascade.RelationshipIDs))
		h.metrics.EntityDeleted("memory", len(cascade.MemoryIDs))
		h.logger.Info("Character deleted",
			zap.String("characterID", c.ID),
			zap.Int("relationships", len(cascade.RelationshipIDs)),
			zap.Int("memories", len(cascade.MemoryIDs)),
		)
		return commands.DeleteResult{Found: true, Cascade: &cascade}, nil
	}
	return nil, fmt.Errorf("%w: %T", bus.ErrInvalidCommandType, cmd)
}

// RelationshipHandler handles relationship create, update and delete
type RelationshipHandler struct {
	store   ports.EntityStore
	metrics MutationRecorder
	logger  *zap.Logger
}

// NewRelationshipHandler creates a new relationship handler; metrics may be nil
func NewRelationshipHandler(store ports.EntityStore, metrics MutationRecorder, logger *zap.Logger) *RelationshipHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &RelationshipHandler{store: store, metrics: metrics, logger: logger}
}

// Handle executes a relationship command
func (h *RelationshipHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case commands.CreateRelationshipCommand:
		created := h.store.CreateRelationship(c.Draft)
		h.metrics.EntityCreated("relationship")
		return created, nil

	case commands.UpdateRelationshipCommand:
		updated, found := h.store.UpdateRelationship(c.ID, c.Patch)
		if !found {
			h.logger.Debug("Relationship not found; update is a no-op", zap.String("relationshipID", c.ID))
			return commands.UpdateResult{}, nil
		}
		return commands.UpdateResult{Found: true, Record: updated}, nil

	case commands.DeleteRelationshipCommand:
		if !h.store.DeleteRelationship(c.ID) {
			h.logger.Debug("Relationship not found; delete is a no-op", zap.String("relationshipID", c.ID))
			return commands.DeleteResult{}, nil
		}
		h.metrics.EntityDeleted("relationship", 1)
		return commands.DeleteResult{Found: true}, nil
	}
	return nil, fmt.Errorf("%w: %T", bus.ErrInvalidCommandType, cmd)
}

// MemoryHandler handles memory create, update and delete
type MemoryHandler struct {
	store   ports.EntityStore
	metrics MutationRecorder
	logger  *zap.Logger
}

// NewMemoryHandler creates a new memory handler; metrics may be nil
func NewMemoryHandler(store ports.EntityStore, metrics MutationRecorder, logger *zap.Logger) *MemoryHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &MemoryHandler{store: store, metrics: metrics, logger: logger}
}

// Handle executes a memory command
func (h *MemoryHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case commands.CreateMemoryCommand:
		created := h.store.CreateMemory(c.Draft)
		h.metrics.EntityCreated("memory")
		return created, nil

	case commands.UpdateMemoryCommand:
		updated, found := h.store.UpdateMemory(c.ID, c.Patch)
		if !found {
			h.logger.Debug("Memory not found; update is a no-op", zap.String("memoryID", c.ID))
			return commands.UpdateResult{}, nil
		}
		return commands.UpdateResult{Found: true, Record: updated}, nil

	case commands.DeleteMemoryCommand:
		if !h.store.DeleteMemory(c.ID) {
			h.logger.Debug("Memory not found; delete is a no-op", zap.String("memoryID", c.ID))
			return commands.DeleteResult{}, nil
		}
		h.metrics.EntityDeleted("memory", 1)
		return commands.DeleteResult{Found: true}, nil
	}
	return nil, fmt.Errorf("%w: %T", bus.ErrInvalidCommandType, cmd)
}

// ResetStoreHandler replaces the store content with seed data
type ResetStoreHandler struct {
	store  ports.EntityStore
	logger *zap.Logger
}

// NewResetStoreHandler creates a new reset handler
func NewResetStoreHandler(store ports.EntityStore, logger *zap.Logger) *ResetStoreHandler {
	return &ResetStoreHandler{store: store, logger: logger}
}

// Handle executes ResetStoreCommand
func (h *ResetStoreHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.ResetStoreCommand)
	if !ok {
		return nil, fmt.Errorf("%w: %T", bus.ErrInvalidCommandType, cmd)
	}
	h.store.Reset(c.Seed)
	counts := h.store.Counts()
	h.logger.Info("Entity store reset",
		zap.Int("characters", counts.Characters),
		zap.Int("relationships", counts.Relationships),
		zap.Int("memories", counts.Memories),
	)
	return counts, nil
}
