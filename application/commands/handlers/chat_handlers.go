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
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// ChatHandler handles conversation commands
type ChatHandler struct {
	conversation *services.ConversationService
	logger       *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(conversation *services.ConversationService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{conversation: conversation, logger: logger}
}

// Handle executes a chat command
func (h *ChatHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case commands.SendMessageCommand:
		res, err := h.conversation.Send(ctx, c.User, c.Content)
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			return nil, apperrors.NewValidationError(err.Error())
		case errors.Is(err, services.ErrNoPersonaAvailable):
			return nil, apperrors.NewUnavailableError("persona")
		case err != nil:
			return nil, err
		}
		return res, nil

	case commands.SwitchPersonaCommand:
		persona, err := h.conversation.SwitchPersona(ctx, c.PersonaID, c.User)
		if errors.Is(err, services.ErrPersonaNotFound) {
			return nil, apperrors.NewNotFoundError("persona " + c.PersonaID)
		}
		if err != nil {
			return nil, err
		}
		return persona, nil

	case commands.ClearConversationCommand:
		h.conversation.Clear()
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %T", bus.ErrInvalidCommandType, cmd)
}

// EmotionHandler handles text analysis and emotion bookkeeping
type EmotionHandler struct {
	backend  ports.Backend
	store    ports.EntityStore
	emotions *services.EmotionService
	logger   *zap.Logger
}

// NewEmotionHandler creates a new emotion handler
func NewEmotionHandler(backend ports.Backend, store ports.EntityStore, emotions *services.EmotionService, logger *zap.Logger) *EmotionHandler {
	return &EmotionHandler{
		backend:  backend,
		store:    store,
		emotions: emotions,
		logger:   logger,
	}
}

// Handle executes an emotion command
func (h *EmotionHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case commands.AnalyzeTextCommand:
		reading, err := h.backend.AnalyzeText(ctx, c.Text)
		if err != nil {
			return nil, apperrors.NewExternalError("backend", err)
		}
		reading.Text = c.Text
		return h.emotions.Record(reading), nil

	case commands.ClassifyMemoryCommand:
		memory, ok := h.store.Memory(c.MemoryID)
		if !ok {
			return nil, apperrors.NewNotFoundError("memory " + c.MemoryID)
		}
		h.emotions.ClassifyMemory(memory, c.Classification)
		return h.emotions.Classification(), nil

	case commands.AddPADPointCommand:
		h.emotions.AddPADTrend(c.Point)
		return h.emotions.PADTrend(), nil

	case commands.ClearEmotionHistoryCommand:
		h.emotions.Clear()
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %T", bus.ErrInvalidCommandType, cmd)
}
