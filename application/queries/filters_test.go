package queries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func day(d int) time.Time {
	return time.Date(2025, 7, d, 12, 0, 0, 0, time.UTC)
}

func sampleCharacters() []entities.Character {
	return []entities.Character{
		{ID: "char_1", Name: "Alice", MBTIType: "ENFP", ZodiacSign: "狮子座", IsPublic: true},
		{ID: "char_2", Name: "小明", MBTIType: "ISTJ", ZodiacSign: "处女座", IsPublic: false},
		{ID: "char_3", Name: "alicia", MBTIType: "ENFP", ZodiacSign: "处女座", IsPublic: false},
	}
}

func sampleMemories() []entities.Memory {
	return []entities.Memory{
		{ID: "mem_1", CharacterID: "char_1", Importance: 5, Type: valueobjects.MemoryHappy, Timestamp: day(1)},
		{ID: "mem_2", CharacterID: "char_2", Importance: 4, Type: valueobjects.MemorySad, Timestamp: day(5)},
		{ID: "mem_3", CharacterID: "char_1", Importance: 9, Type: valueobjects.MemoryImportant, Timestamp: day(10)},
	}
}

func characterIDs(cs []entities.Character) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func memoryIDs(ms []entities.Memory) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestFilterCharacters_EmptyCriteriaReturnsAllInOrder(t *testing.T) {
	all := sampleCharacters()

	got := FilterCharacters(all, CharacterFilter{})

	assert.Equal(t, all, got)
}

func TestFilterCharacters_Criteria(t *testing.T) {
	cases := []struct {
		name   string
		filter CharacterFilter
		want   []string
	}{
		{"search is case-insensitive substring", CharacterFilter{Search: "ALI"}, []string{"char_1", "char_3"}},
		{"mbti exact", CharacterFilter{MBTIType: "ENFP"}, []string{"char_1", "char_3"}},
		{"zodiac exact", CharacterFilter{ZodiacSign: "处女座"}, []string{"char_2", "char_3"}},
		{"public true", CharacterFilter{IsPublic: boolPtr(true)}, []string{"char_1"}},
		{"public false", CharacterFilter{IsPublic: boolPtr(false)}, []string{"char_2", "char_3"}},
		{"conjunctive", CharacterFilter{MBTIType: "ENFP", ZodiacSign: "处女座"}, []string{"char_3"}},
		{"no match", CharacterFilter{Search: "bob"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, characterIDs(FilterCharacters(sampleCharacters(), tc.filter)))
		})
	}
}

func TestFilterMemories_ImportanceIsInclusiveLowerBound(t *testing.T) {
	all := sampleMemories()

	got := FilterMemories(all, MemoryFilter{Importance: intPtr(5)})

	assert.Equal(t, []string{"mem_1", "mem_3"}, memoryIDs(got), "importance 5 included, 4 excluded")
}

func TestFilterMemories_Criteria(t *testing.T) {
	start, end := day(5), day(10)
	cases := []struct {
		name   string
		filter MemoryFilter
		want   []string
	}{
		{"all", MemoryFilter{}, []string{"mem_1", "mem_2", "mem_3"}},
		{"character", MemoryFilter{CharacterID: "char_1"}, []string{"mem_1", "mem_3"}},
		{"type", MemoryFilter{Type: "sad"}, []string{"mem_2"}},
		{"closed range is inclusive", MemoryFilter{DateRange: &DateRange{Start: &start, End: &end}}, []string{"mem_2", "mem_3"}},
		{"open start", MemoryFilter{DateRange: &DateRange{End: &start}}, []string{"mem_1", "mem_2"}},
		{"open end", MemoryFilter{DateRange: &DateRange{Start: &end}}, []string{"mem_3"}},
		{"conjunctive", MemoryFilter{CharacterID: "char_1", Importance: intPtr(6)}, []string{"mem_3"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, memoryIDs(FilterMemories(sampleMemories(), tc.filter)))
		})
	}
}

func TestFilter_IdempotentAndNonMutating(t *testing.T) {
	all := sampleMemories()
	before := sampleMemories()
	f := MemoryFilter{CharacterID: "char_1"}

	first := FilterMemories(all, f)
	second := FilterMemories(all, f)

	assert.Equal(t, first, second)
	assert.Equal(t, before, all)
}
