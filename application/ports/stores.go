package ports

import (
	"context"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

// CascadeResult reports what a character deletion removed
type CascadeResult struct {
	CharacterID     string   `json:"characterId"`
	RelationshipIDs []string `json:"relationshipIds"`
	MemoryIDs       []string `json:"memoryIds"`
}

// StoreCounts is a size snapshot of the entity collections
type StoreCounts struct {
	Characters    int `json:"characters"`
	Relationships int `json:"relationships"`
	Memories      int `json:"memories"`
}

// SeedData is a full replacement state for the entity store
type SeedData struct {
	Characters    []entities.Character    `yaml:"characters"`
	Relationships []entities.Relationship `yaml:"relationships"`
	Memories      []entities.Memory       `yaml:"memories"`
}

// EntityStore owns the character, relationship and memory collections.
// Every read returns copies in insertion order. Updates and deletes on an
// unknown id change nothing and report found=false.
type EntityStore interface {
	CreateCharacter(draft entities.CharacterDraft) entities.Character
	UpdateCharacter(id string, patch entities.CharacterPatch) (entities.Character, bool)
	// DeleteCharacter removes the character and every relationship and memory
	// referencing it as one step.
	DeleteCharacter(id string) (CascadeResult, bool)
	Character(id string) (entities.Character, bool)
	Characters() []entities.Character

	CreateRelationship(draft entities.RelationshipDraft) entities.Relationship
	UpdateRelationship(id string, patch entities.RelationshipPatch) (entities.Relationship, bool)
	DeleteRelationship(id string) bool
	Relationship(id string) (entities.Relationship, bool)
	Relationships() []entities.Relationship
	RelationshipsByCharacter(characterID string) []entities.Relationship

	CreateMemory(draft entities.MemoryDraft) entities.Memory
	UpdateMemory(id string, patch entities.MemoryPatch) (entities.Memory, bool)
	DeleteMemory(id string) bool
	Memory(id string) (entities.Memory, bool)
	Memories() []entities.Memory
	MemoriesByCharacter(characterID string) []entities.Memory

	Counts() StoreCounts
	Reset(seed SeedData)
}

// KeyValueStore is the durable slot the session identity is written to
type KeyValueStore interface {
	// Get returns found=false when the key is absent
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ConversationLog is the append-only message log plus the composing flag
type ConversationLog interface {
	Append(msg entities.Message) entities.Message
	Messages() []entities.Message
	MessagesFor(personaID string) []entities.Message
	Load(msgs []entities.Message)
	Clear()
	SetTyping(typing bool)
	Typing() bool
	SetCurrentPersona(p *entities.Persona)
	CurrentPersona() (entities.Persona, bool)
	AddPersona(p entities.Persona)
	UpdatePersona(p entities.Persona) bool
	Personas() []entities.Persona
	Subscribe(fn func(entities.Message)) (unsubscribe func())
}

// Log is an append-only sequence that may drop its oldest entries
type Log[T any] interface {
	Push(item T)
	Items() []T
	Last() (T, bool)
	Len() int
	Clear()
}
