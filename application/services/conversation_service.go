package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/random"
)

// DefaultPersonaID is selected when a message is sent before any switch
const DefaultPersonaID = "char_001"

// ReplyUnavailable is appended when the backend call fails
const ReplyUnavailable = "抱歉，我现在无法回复您的消息，请稍后再试。"

var fallbackReplies = []string{
	"我理解您的感受，能告诉我更多关于这件事的细节吗？",
	"这听起来很有意思，您当时是什么感觉呢？",
	"谢谢您和我分享这些，这对您来说一定很重要。",
	"我能感受到您的情绪，让我们一起回忆一些美好的时光吧。",
	"您说得很对，那个时候的经历确实很珍贵。",
}

var (
	ErrEmptyMessage       = errors.New("message content is empty")
	ErrPersonaNotFound    = errors.New("persona not found")
	ErrNoPersonaAvailable = errors.New("no persona available")
)

// SendResult is the pair of messages one send appends
type SendResult struct {
	Message entities.Message `json:"message"`
	Reply   entities.Message `json:"reply"`
}

// ConversationService drives the chat: persona switching, sending and replies.
// Concurrent sends are not serialised; replies land in completion order.
type ConversationService struct {
	log      ports.ConversationLog
	store    ports.EntityStore
	backend  ports.Backend
	emotions *EmotionService
	rng      random.Source
	logger   *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	log ports.ConversationLog,
	store ports.EntityStore,
	backend ports.Backend,
	emotions *EmotionService,
	rng random.Source,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		log:      log,
		store:    store,
		backend:  backend,
		emotions: emotions,
		rng:      rng,
		logger:   logger,
	}
}

// RefreshPersonas merges stored characters and backend summaries into the roster.
// Stored characters win over summaries with the same id.
func (s *ConversationService) RefreshPersonas(ctx context.Context) []entities.Persona {
	for _, c := range s.store.Characters() {
		p := entities.PersonaFromCharacter(c)
		if !s.log.UpdatePersona(p) {
			s.log.AddPersona(p)
		}
	}

	summaries, err := s.backend.GetCharacters(ctx)
	if err != nil {
		s.logger.Warn("Failed to load characters from backend", zap.Error(err))
		return s.log.Personas()
	}
	for _, sum := range summaries {
		s.log.AddPersona(entities.Persona{
			ID:          sum.ID,
			Name:        sum.Name,
			Avatar:      sum.Avatar,
			Description: sum.Description,
		})
	}
	return s.log.Personas()
}

func (s *ConversationService) findPersona(ctx context.Context, id string) (entities.Persona, bool) {
	if c, ok := s.store.Character(id); ok {
		return entities.PersonaFromCharacter(c), true
	}
	for _, p := range s.log.Personas() {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range s.RefreshPersonas(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return entities.Persona{}, false
}

// SwitchPersona makes the persona current, announces the switch and, when the
// persona has an opening line, greets the user with it.
func (s *ConversationService) SwitchPersona(ctx context.Context, personaID string, user entities.Identity) (entities.Persona, error) {
	persona, ok := s.findPersona(ctx, personaID)
	if !ok {
		return entities.Persona{}, fmt.Errorf("%w: %s", ErrPersonaNotFound, personaID)
	}

	s.log.SetCurrentPersona(&persona)
	s.log.Append(entities.Message{
		Sender:    valueobjects.SenderSystem,
		Content:   "已切换到角色：" + persona.Name,
		PersonaID: persona.ID,
		UserID:    user.ID,
	})
	if persona.OpeningLine != "" {
		s.log.Append(entities.Message{
			Sender:    valueobjects.SenderAssistant,
			Content:   persona.OpeningLine,
			PersonaID: persona.ID,
			UserID:    user.ID,
		})
	}

	s.logger.Debug("Persona switched", zap.String("personaID", persona.ID), zap.String("userID", user.ID))
	return persona, nil
}

// CurrentPersona returns the active persona, choosing the default one
// (char_001, else the first known) when none is set yet.
func (s *ConversationService) CurrentPersona(ctx context.Context) (entities.Persona, error) {
	if p, ok := s.log.CurrentPersona(); ok {
		return p, nil
	}

	roster := s.log.Personas()
	if len(roster) == 0 {
		roster = s.RefreshPersonas(ctx)
	}
	if len(roster) == 0 {
		return entities.Persona{}, ErrNoPersonaAvailable
	}

	chosen := roster[0]
	for _, p := range roster {
		if p.ID == DefaultPersonaID {
			chosen = p
			break
		}
	}
	s.log.SetCurrentPersona(&chosen)
	return chosen, nil
}

// Send appends the user's message, records its emotion reading and appends
// the assistant reply. Backend failures never surface as errors; they turn
// into a fallback reply instead.
func (s *ConversationService) Send(ctx context.Context, user entities.Identity, content string) (SendResult, error) {
	if strings.TrimSpace(content) == "" {
		return SendResult{}, ErrEmptyMessage
	}

	persona, err := s.CurrentPersona(ctx)
	if err != nil {
		return SendResult{}, err
	}

	sent := s.log.Append(entities.Message{
		Sender:    valueobjects.SenderUser,
		Content:   content,
		PersonaID: persona.ID,
		UserID:    user.ID,
	})

	if reading, err := s.backend.AnalyzeText(ctx, content); err != nil {
		s.logger.Warn("Emotion analysis failed", zap.Error(err))
	} else {
		reading.Text = content
		s.emotions.Record(reading)
	}

	s.log.SetTyping(true)
	defer s.log.SetTyping(false)

	reply, err := s.backend.SendMessage(ctx, ports.ChatRequest{
		UserID:      user.ID,
		CharacterID: persona.ID,
		Content:     content,
		Sender:      string(valueobjects.SenderUser),
	})

	var text string
	switch {
	case err != nil:
		s.logger.Warn("Failed to send message", zap.String("personaID", persona.ID), zap.Error(err))
		text = ReplyUnavailable
	case reply.AIResponse != nil:
		text = reply.AIResponse.Content
	default:
		text = s.fallbackReply(persona)
	}

	answer := s.log.Append(entities.Message{
		Sender:    valueobjects.SenderAssistant,
		Content:   text,
		PersonaID: persona.ID,
		UserID:    user.ID,
	})

	return SendResult{Message: sent, Reply: answer}, nil
}

func (s *ConversationService) fallbackReply(persona entities.Persona) string {
	pool := append([]string(nil), fallbackReplies...)
	pool = append(pool, persona.Emotions[valueobjects.EmotionHappy]...)
	pool = append(pool, persona.Emotions[valueobjects.EmotionSad]...)

	reply, _ := random.Pick(s.rng, pool)
	return reply
}

// LoadHistory replaces the log with the backend's stored history
func (s *ConversationService) LoadHistory(ctx context.Context, user entities.Identity, personaID string) ([]entities.Message, error) {
	msgs, err := s.backend.GetChatHistory(ctx, user.ID, personaID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	s.log.Load(msgs)
	return s.log.Messages(), nil
}

// Messages returns the log, optionally only the entries of one persona
func (s *ConversationService) Messages(personaID string) []entities.Message {
	if personaID == "" {
		return s.log.Messages()
	}
	return s.log.MessagesFor(personaID)
}

// Typing reports whether a reply is being composed
func (s *ConversationService) Typing() bool {
	return s.log.Typing()
}

// Clear empties the message log; the current persona is kept
func (s *ConversationService) Clear() {
	s.log.Clear()
}
