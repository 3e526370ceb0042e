package entities

import (
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

// Message is one entry of the conversation log
type Message struct {
	ID          string                   `json:"id"`
	Sender      valueobjects.Sender      `json:"type"`
	Content     string                   `json:"content"`
	MessageType valueobjects.MessageKind `json:"messageType"`
	PersonaID   string                   `json:"personaId,omitempty"`
	UserID      string                   `json:"userId,omitempty"`
	Timestamp   time.Time                `json:"timestamp"`
	Emotion     *EmotionReading          `json:"emotion,omitempty"`
}

// Persona is the character currently speaking in the conversation
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar,omitempty"`
	Description string   `json:"description,omitempty"`
	OpeningLine string   `json:"openingLine,omitempty"`
	Emotions    Emotions `json:"emotions,omitempty"`
}

// PersonaFromCharacter projects a stored character into a persona
func PersonaFromCharacter(c Character) Persona {
	return Persona{
		ID:          c.ID,
		Name:        c.Name,
		Avatar:      c.Avatar,
		Description: c.Personality,
		OpeningLine: c.OpeningLine,
		Emotions:    c.Emotions.Clone(),
	}
}

// Clone returns a deep copy
func (p Persona) Clone() Persona {
	p.Emotions = p.Emotions.Clone()
	return p
}
