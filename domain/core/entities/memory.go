package entities

import (
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

// Memory is a recollection the patient recorded, optionally tied to a character.
// Timestamp is when the remembered event happened; CreatedAt is when it was entered.
type Memory struct {
	ID          string                  `json:"id" yaml:"id"`
	UserID      string                  `json:"userId" yaml:"userId"`
	CharacterID string                  `json:"characterId" yaml:"characterId"`
	Content     string                  `json:"content" yaml:"content"`
	Timestamp   time.Time               `json:"timestamp" yaml:"timestamp"`
	Importance  int                     `json:"importance" yaml:"importance"`
	Type        valueobjects.MemoryType `json:"type" yaml:"type"`
	Tags        []string                `json:"tags" yaml:"tags"`
	CreatedAt   time.Time               `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt" yaml:"updatedAt"`
}

// Clone returns a deep copy
func (m Memory) Clone() Memory {
	m.Tags = cloneStrings(m.Tags)
	return m
}

// MemoryDraft carries the fields of a new memory
type MemoryDraft struct {
	UserID      string                  `json:"userId"`
	CharacterID string                  `json:"characterId"`
	Content     string                  `json:"content" validate:"required,max=5000"`
	Timestamp   time.Time               `json:"timestamp"`
	Importance  int                     `json:"importance" validate:"min=1,max=10"`
	Type        valueobjects.MemoryType `json:"type" validate:"required,oneof=happy sad important daily nostalgic fearful"`
	Tags        []string                `json:"tags" validate:"max=30,dive,min=1,max=30"`
}

// Build turns the draft into a record. Tags are deduplicated here and only here.
func (d MemoryDraft) Build(id string, now time.Time) Memory {
	ts := d.Timestamp
	if ts.IsZero() {
		ts = now
	}
	return Memory{
		ID:          id,
		UserID:      d.UserID,
		CharacterID: d.CharacterID,
		Content:     d.Content,
		Timestamp:   ts,
		Importance:  d.Importance,
		Type:        d.Type,
		Tags:        DedupTags(d.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MemoryPatch lists the fields to overwrite; nil fields are kept.
// Tags given here replace the list as-is, duplicates included.
type MemoryPatch struct {
	UserID      *string                  `json:"userId,omitempty"`
	CharacterID *string                  `json:"characterId,omitempty"`
	Content     *string                  `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Timestamp   *time.Time               `json:"timestamp,omitempty"`
	Importance  *int                     `json:"importance,omitempty" validate:"omitempty,min=1,max=10"`
	Type        *valueobjects.MemoryType `json:"type,omitempty" validate:"omitempty,oneof=happy sad important daily nostalgic fearful"`
	Tags        *[]string                `json:"tags,omitempty"`
}

// ApplyTo merges the patch over m
func (p MemoryPatch) ApplyTo(m *Memory) {
	setString(&m.UserID, p.UserID)
	setString(&m.CharacterID, p.CharacterID)
	setString(&m.Content, p.Content)
	if p.Timestamp != nil {
		m.Timestamp = *p.Timestamp
	}
	if p.Importance != nil {
		m.Importance = *p.Importance
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.Tags != nil {
		m.Tags = cloneStrings(*p.Tags)
	}
}

// DedupTags keeps the first occurrence of each tag, preserving order
func DedupTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
