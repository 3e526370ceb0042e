package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozen = time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)

func newTestStore() *EntityStore {
	n := 0
	return NewEntityStore(
		WithClock(func() time.Time { return frozen }),
		WithIDGenerator(func(p valueobjects.IDPrefix) string {
			n++
			return fmt.Sprintf("%s%03d", p, n)
		}),
	)
}

func TestEntityStore_DeleteCharacter_Cascades(t *testing.T) {
	// Arrange
	store := newTestStore()
	a := store.CreateCharacter(entities.CharacterDraft{Name: "A", Talkativeness: 5})
	b := store.CreateCharacter(entities.CharacterDraft{Name: "B", Talkativeness: 5})
	relFrom := store.CreateRelationship(entities.RelationshipDraft{FromID: a.ID, ToID: "user_001", Type: "朋友", Strength: 5})
	relTo := store.CreateRelationship(entities.RelationshipDraft{FromID: "user_001", ToID: a.ID, Type: "家人", Strength: 6})
	relOther := store.CreateRelationship(entities.RelationshipDraft{FromID: b.ID, ToID: "user_001", Type: "朋友", Strength: 4})
	memA := store.CreateMemory(entities.MemoryDraft{CharacterID: a.ID, Content: "x", Importance: 3, Type: valueobjects.MemoryDaily})
	memB := store.CreateMemory(entities.MemoryDraft{CharacterID: b.ID, Content: "y", Importance: 3, Type: valueobjects.MemoryDaily})

	// Act
	result, found := store.DeleteCharacter(a.ID)

	// Assert
	require.True(t, found)
	assert.ElementsMatch(t, []string{relFrom.ID, relTo.ID}, result.RelationshipIDs)
	assert.Equal(t, []string{memA.ID}, result.MemoryIDs)

	_, ok := store.Character(a.ID)
	assert.False(t, ok)
	for _, r := range store.Relationships() {
		assert.False(t, r.Touches(a.ID))
	}
	for _, m := range store.Memories() {
		assert.NotEqual(t, a.ID, m.CharacterID)
	}
	assert.Equal(t, []entities.Relationship{relOther}, store.Relationships())
	assert.Equal(t, []string{memB.ID}, ids(store.Memories()))
	assert.Equal(t, ports.StoreCounts{Characters: 1, Relationships: 1, Memories: 1}, store.Counts())
}

func TestEntityStore_UpdateCharacter_MergesAndAdvancesUpdatedAt(t *testing.T) {
	// Arrange
	store := newTestStore()
	c := store.CreateCharacter(entities.CharacterDraft{Name: "老王", Talkativeness: 8, MBTIType: "ISFJ"})
	talk := 3

	// Act
	first, ok := store.UpdateCharacter(c.ID, entities.CharacterPatch{Talkativeness: &talk})
	second, _ := store.UpdateCharacter(c.ID, entities.CharacterPatch{})

	// Assert
	require.True(t, ok)
	assert.Equal(t, 3, first.Talkativeness)
	assert.Equal(t, "老王", first.Name)
	assert.Equal(t, "ISFJ", first.MBTIType)
	assert.Equal(t, c.CreatedAt, first.CreatedAt)
	assert.True(t, first.UpdatedAt.After(c.UpdatedAt), "clock is frozen but updatedAt must still advance")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestEntityStore_UnknownIDsAreNoOps(t *testing.T) {
	store := newTestStore()
	store.CreateCharacter(entities.CharacterDraft{Name: "A", Talkativeness: 1})
	before := store.Characters()
	name := "ghost"

	_, updated := store.UpdateCharacter("char_missing", entities.CharacterPatch{Name: &name})
	_, deleted := store.DeleteCharacter("char_missing")

	assert.False(t, updated)
	assert.False(t, deleted)
	assert.False(t, store.DeleteRelationship("rel_missing"))
	assert.False(t, store.DeleteMemory("mem_missing"))
	_, ok := store.UpdateMemory("mem_missing", entities.MemoryPatch{})
	assert.False(t, ok)
	_, ok = store.UpdateRelationship("rel_missing", entities.RelationshipPatch{})
	assert.False(t, ok)
	assert.Equal(t, before, store.Characters())
}

func TestEntityStore_ReadsAreCopies(t *testing.T) {
	store := newTestStore()
	c := store.CreateCharacter(entities.CharacterDraft{Name: "A", Talkativeness: 1, EmotionalTriggers: []string{"回忆"}})
	m := store.CreateMemory(entities.MemoryDraft{Content: "m", Importance: 1, Type: valueobjects.MemoryHappy, Tags: []string{"t"}})

	got, _ := store.Character(c.ID)
	got.EmotionalTriggers[0] = "mutated"
	list := store.Memories()
	list[0].Tags[0] = "mutated"

	again, _ := store.Character(c.ID)
	assert.Equal(t, "回忆", again.EmotionalTriggers[0])
	mem, _ := store.Memory(m.ID)
	assert.Equal(t, "t", mem.Tags[0])
}

func TestEntityStore_CreateMemory_DedupsOnlyOnCreate(t *testing.T) {
	store := newTestStore()

	m := store.CreateMemory(entities.MemoryDraft{Content: "c", Importance: 5, Type: valueobjects.MemoryDaily, Tags: []string{"a", "a", "b"}})
	tags := []string{"x", "x"}
	updated, _ := store.UpdateMemory(m.ID, entities.MemoryPatch{Tags: &tags})

	assert.Equal(t, []string{"a", "b"}, m.Tags)
	assert.Equal(t, []string{"x", "x"}, updated.Tags)
}

func TestEntityStore_ByCharacterViews(t *testing.T) {
	store := newTestStore()
	a := store.CreateCharacter(entities.CharacterDraft{Name: "A", Talkativeness: 1})
	store.CreateRelationship(entities.RelationshipDraft{FromID: "user_001", ToID: a.ID, Type: "朋友", Strength: 1})
	store.CreateRelationship(entities.RelationshipDraft{FromID: "user_001", ToID: "char_x", Type: "朋友", Strength: 1})
	store.CreateMemory(entities.MemoryDraft{CharacterID: a.ID, Content: "c", Importance: 1, Type: valueobjects.MemoryDaily})

	assert.Len(t, store.RelationshipsByCharacter(a.ID), 1)
	assert.Len(t, store.MemoriesByCharacter(a.ID), 1)
	assert.Empty(t, store.MemoriesByCharacter("char_x"))
}

func TestEntityStore_Reset(t *testing.T) {
	store := newTestStore()
	store.CreateCharacter(entities.CharacterDraft{Name: "old", Talkativeness: 1})

	store.Reset(ports.SeedData{
		Characters: []entities.Character{{ID: "char_001", Name: "小慧"}},
		Memories:   []entities.Memory{{ID: "mem_001", CharacterID: "char_001"}},
	})

	assert.Equal(t, ports.StoreCounts{Characters: 1, Relationships: 0, Memories: 1}, store.Counts())
	c, ok := store.Character("char_001")
	require.True(t, ok)
	assert.Equal(t, "小慧", c.Name)
}

func TestEntityStore_ConcurrentWritersAndReaders(t *testing.T) {
	store := NewEntityStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c := store.CreateCharacter(entities.CharacterDraft{Name: fmt.Sprintf("c%d", i), Talkativeness: 1})
			store.CreateMemory(entities.MemoryDraft{CharacterID: c.ID, Content: "m", Importance: 1, Type: valueobjects.MemoryDaily})
			store.DeleteCharacter(c.ID)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Characters()
			_ = store.Memories()
		}()
	}
	wg.Wait()

	assert.Equal(t, ports.StoreCounts{}, store.Counts())
}

func ids(ms []entities.Memory) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}
