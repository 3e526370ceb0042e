package memory

import (
	"sync"
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

// EntityStore keeps characters, relationships and memories in insertion order.
// A single RWMutex serialises writers; readers always receive deep copies.
type EntityStore struct {
	mu            sync.RWMutex
	characters    []entities.Character
	relationships []entities.Relationship
	memories      []entities.Memory

	clock func() time.Time
	newID valueobjects.IDGenerator
}

// StoreOption customises an EntityStore
type StoreOption func(*EntityStore)

// WithClock replaces time.Now
func WithClock(clock func() time.Time) StoreOption {
	return func(s *EntityStore) {
		s.clock = clock
	}
}

// WithIDGenerator replaces the random id source
func WithIDGenerator(gen valueobjects.IDGenerator) StoreOption {
	return func(s *EntityStore) {
		s.newID = gen
	}
}

// NewEntityStore creates an empty store
func NewEntityStore(opts ...StoreOption) *EntityStore {
	s := &EntityStore{
		clock: time.Now,
		newID: valueobjects.NewEntityID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.EntityStore = (*EntityStore)(nil)

// touch returns a timestamp strictly after prev
func (s *EntityStore) touch(prev time.Time) time.Time {
	now := s.clock()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

// Characters

// CreateCharacter stores a new character under a fresh char_ id and returns it
func (s *EntityStore) CreateCharacter(draft entities.CharacterDraft) entities.Character {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := draft.Build(s.newID(valueobjects.CharacterPrefix), s.clock())
	s.characters = append(s.characters, c)
	return c.Clone()
}

// UpdateCharacter merges patch over the character. Unknown ids report false.
func (s *EntityStore) UpdateCharacter(id string, patch entities.CharacterPatch) (entities.Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.characters {
		if s.characters[i].ID != id {
			continue
		}
		patch.ApplyTo(&s.characters[i])
		s.characters[i].UpdatedAt = s.touch(s.characters[i].UpdatedAt)
		return s.characters[i].Clone(), true
	}
	return entities.Character{}, false
}

// DeleteCharacter removes the character together with every relationship that
// has it at either end and every memory attached to it. Unknown ids report false.
func (s *EntityStore) DeleteCharacter(id string) (ports.CascadeResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.characters {
		if s.characters[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ports.CascadeResult{}, false
	}

	result := ports.CascadeResult{
		CharacterID:     id,
		RelationshipIDs: []string{},
		MemoryIDs:       []string{},
	}
	s.characters = append(s.characters[:idx:idx], s.characters[idx+1:]...)

	keptRels := s.relationships[:0:0]
	for _, r := range s.relationships {
		if r.Touches(id) {
			result.RelationshipIDs = append(result.RelationshipIDs, r.ID)
			continue
		}
		keptRels = append(keptRels, r)
	}
	s.relationships = keptRels

	keptMems := s.memories[:0:0]
	for _, m := range s.memories {
		if m.CharacterID == id {
			result.MemoryIDs = append(result.MemoryIDs, m.ID)
			continue
		}
		keptMems = append(keptMems, m)
	}
	s.memories = keptMems

	return result, true
}

// Character returns a copy of the character with id
func (s *EntityStore) Character(id string) (entities.Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.characters {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return entities.Character{}, false
}

// Characters returns a copy of all characters in creation order
func (s *EntityStore) Characters() []entities.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Character, len(s.characters))
	for i, c := range s.characters {
		out[i] = c.Clone()
	}
	return out
}

// Relationships

// CreateRelationship stores a new relationship under a fresh rel_ id
func (s *EntityStore) CreateRelationship(draft entities.RelationshipDraft) entities.Relationship {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := draft.Build(s.newID(valueobjects.RelationshipPrefix), s.clock())
	s.relationships = append(s.relationships, r)
	return r
}

// UpdateRelationship merges patch over the relationship. Unknown ids report false.
func (s *EntityStore) UpdateRelationship(id string, patch entities.RelationshipPatch) (entities.Relationship, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.relationships {
		if s.relationships[i].ID != id {
			continue
		}
		patch.ApplyTo(&s.relationships[i])
		s.relationships[i].UpdatedAt = s.touch(s.relationships[i].UpdatedAt)
		return s.relationships[i], true
	}
	return entities.Relationship{}, false
}

// DeleteRelationship removes one relationship
func (s *EntityStore) DeleteRelationship(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.relationships {
		if s.relationships[i].ID == id {
			s.relationships = append(s.relationships[:i:i], s.relationships[i+1:]...)
			return true
		}
	}
	return false
}

// Relationship returns a copy of the relationship with id
func (s *EntityStore) Relationship(id string) (entities.Relationship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.relationships {
		if r.ID == id {
			return r, true
		}
	}
	return entities.Relationship{}, false
}

// Relationships returns a copy of all relationships in creation order
func (s *EntityStore) Relationships() []entities.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Relationship, len(s.relationships))
	copy(out, s.relationships)
	return out
}

// RelationshipsByCharacter returns relationships with characterID at either end
func (s *EntityStore) RelationshipsByCharacter(characterID string) []entities.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []entities.Relationship{}
	for _, r := range s.relationships {
		if r.Touches(characterID) {
			out = append(out, r)
		}
	}
	return out
}

// Memories

// CreateMemory stores a new memory under a fresh mem_ id
func (s *EntityStore) CreateMemory(draft entities.MemoryDraft) entities.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := draft.Build(s.newID(valueobjects.MemoryPrefix), s.clock())
	s.memories = append(s.memories, m)
	return m.Clone()
}

// UpdateMemory merges patch over the memory. Unknown ids report false.
func (s *EntityStore) UpdateMemory(id string, patch entities.MemoryPatch) (entities.Memory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.memories {
		if s.memories[i].ID != id {
			continue
		}
		patch.ApplyTo(&s.memories[i])
		s.memories[i].UpdatedAt = s.touch(s.memories[i].UpdatedAt)
		return s.memories[i].Clone(), true
	}
	return entities.Memory{}, false
}

// DeleteMemory removes one memory
func (s *EntityStore) DeleteMemory(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.memories {
		if s.memories[i].ID == id {
			s.memories = append(s.memories[:i:i], s.memories[i+1:]...)
			return true
		}
	}
	return false
}

// Memory returns a copy of the memory with id
func (s *EntityStore) Memory(id string) (entities.Memory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.memories {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return entities.Memory{}, false
}

// Memories returns a copy of all memories in creation order
func (s *EntityStore) Memories() []entities.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Memory, len(s.memories))
	for i, m := range s.memories {
		out[i] = m.Clone()
	}
	return out
}

// MemoriesByCharacter returns memories attached to characterID
func (s *EntityStore) MemoriesByCharacter(characterID string) []entities.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []entities.Memory{}
	for _, m := range s.memories {
		if m.CharacterID == characterID {
			out = append(out, m.Clone())
		}
	}
	return out
}

// Counts returns the current collection sizes
func (s *EntityStore) Counts() ports.StoreCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ports.StoreCounts{
		Characters:    len(s.characters),
		Relationships: len(s.relationships),
		Memories:      len(s.memories),
	}
}

// Reset replaces the whole state with seed. Seeded records keep their ids and timestamps.
func (s *EntityStore) Reset(seed ports.SeedData) {
	chars := make([]entities.Character, len(seed.Characters))
	for i, c := range seed.Characters {
		chars[i] = c.Clone()
	}
	rels := make([]entities.Relationship, len(seed.Relationships))
	copy(rels, seed.Relationships)
	mems := make([]entities.Memory, len(seed.Memories))
	for i, m := range seed.Memories {
		mems[i] = m.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters, s.relationships, s.memories = chars, rels, mems
}
