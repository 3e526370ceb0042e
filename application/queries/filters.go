package queries

import (
	"strings"
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

// CharacterFilter narrows the character list. Empty strings and nil mean
// "no constraint"; all set criteria must hold.
type CharacterFilter struct {
	Search     string `json:"search"`
	MBTIType   string `json:"mbtiType"`
	ZodiacSign string `json:"zodiacSign"`
	IsPublic   *bool  `json:"isPublic"`
}

// Matches reports whether c passes every set criterion.
// Search is a case-insensitive substring match on the name.
func (f CharacterFilter) Matches(c entities.Character) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.MBTIType != "" && c.MBTIType != f.MBTIType {
		return false
	}
	if f.ZodiacSign != "" && c.ZodiacSign != f.ZodiacSign {
		return false
	}
	if f.IsPublic != nil && c.IsPublic != *f.IsPublic {
		return false
	}
	return true
}

// DateRange bounds a timestamp inclusively; a nil side is open
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Contains reports whether t lies within the range
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// MemoryFilter narrows the memory list. Importance is a lower bound only.
type MemoryFilter struct {
	CharacterID string     `json:"characterId"`
	Type        string     `json:"type"`
	Importance  *int       `json:"importance"`
	DateRange   *DateRange `json:"dateRange"`
}

// Matches reports whether m passes every set criterion
func (f MemoryFilter) Matches(m entities.Memory) bool {
	if f.CharacterID != "" && m.CharacterID != f.CharacterID {
		return false
	}
	if f.Type != "" && string(m.Type) != f.Type {
		return false
	}
	if f.Importance != nil && m.Importance < *f.Importance {
		return false
	}
	if f.DateRange != nil && !f.DateRange.Contains(m.Timestamp) {
		return false
	}
	return true
}

// FilterCharacters returns the matching characters in their original order.
// The input is not modified.
func FilterCharacters(all []entities.Character, f CharacterFilter) []entities.Character {
	out := make([]entities.Character, 0, len(all))
	for _, c := range all {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// FilterMemories returns the matching memories in their original order
func FilterMemories(all []entities.Memory, f MemoryFilter) []entities.Memory {
	out := make([]entities.Memory, 0, len(all))
	for _, m := range all {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}
