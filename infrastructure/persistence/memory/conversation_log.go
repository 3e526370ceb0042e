package memory

import (
	"sync"
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"

	"go.uber.org/atomic"
)

// ConversationLog holds the chat history, the persona roster and the
// "assistant is composing" flag. History is shared across personas.
type ConversationLog struct {
	log    *BoundedLog[entities.Message]
	typing atomic.Bool

	mu       sync.RWMutex
	current  *entities.Persona
	personas []entities.Persona

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(entities.Message)

	clock func() time.Time
}

// NewConversationLog creates a log; limit <= 0 keeps every message
func NewConversationLog(limit int) *ConversationLog {
	return &ConversationLog{
		log:   NewBoundedLog[entities.Message](limit),
		subs:  make(map[int]func(entities.Message)),
		clock: time.Now,
	}
}

var _ ports.ConversationLog = (*ConversationLog)(nil)

// Append stores msg, filling in id and timestamp when missing, and notifies subscribers
func (c *ConversationLog) Append(msg entities.Message) entities.Message {
	if msg.ID == "" {
		msg.ID = valueobjects.NewEntityID(valueobjects.MessagePrefix)
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = c.clock()
	}
	if msg.MessageType == "" {
		msg.MessageType = valueobjects.KindText
	}
	c.log.Push(msg)

	c.subMu.Lock()
	subs := make([]func(entities.Message), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, fn := range subs {
		fn(msg)
	}
	return msg
}

func (c *ConversationLog) Messages() []entities.Message {
	return c.log.Items()
}

// MessagesFor filters the shared history down to one persona
func (c *ConversationLog) MessagesFor(personaID string) []entities.Message {
	out := []entities.Message{}
	for _, m := range c.log.Items() {
		if m.PersonaID == personaID {
			out = append(out, m)
		}
	}
	return out
}

// Load replaces the history wholesale
func (c *ConversationLog) Load(msgs []entities.Message) {
	c.log.Replace(msgs)
}

func (c *ConversationLog) Clear() {
	c.log.Clear()
}

func (c *ConversationLog) SetTyping(typing bool) {
	c.typing.Store(typing)
}

func (c *ConversationLog) Typing() bool {
	return c.typing.Load()
}

// SetCurrentPersona swaps the active persona; nil clears it. History is kept.
func (c *ConversationLog) SetCurrentPersona(p *entities.Persona) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p == nil {
		c.current = nil
		return
	}
	cp := p.Clone()
	c.current = &cp
}

func (c *ConversationLog) CurrentPersona() (entities.Persona, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return entities.Persona{}, false
	}
	return c.current.Clone(), true
}

// AddPersona registers p unless a persona with the same id is already known
func (c *ConversationLog) AddPersona(p entities.Persona) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.personas {
		if existing.ID == p.ID {
			return
		}
	}
	c.personas = append(c.personas, p.Clone())
}

// UpdatePersona replaces the persona with the same id
func (c *ConversationLog) UpdatePersona(p entities.Persona) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.personas {
		if c.personas[i].ID == p.ID {
			c.personas[i] = p.Clone()
			if c.current != nil && c.current.ID == p.ID {
				cp := p.Clone()
				c.current = &cp
			}
			return true
		}
	}
	return false
}

func (c *ConversationLog) Personas() []entities.Persona {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entities.Persona, len(c.personas))
	for i, p := range c.personas {
		out[i] = p.Clone()
	}
	return out
}

// Subscribe registers fn to be called after every Append
func (c *ConversationLog) Subscribe(fn func(entities.Message)) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}
