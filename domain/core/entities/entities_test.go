package entities

import (
	"testing"
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterPatch_ApplyTo_MergesOnlySetFields(t *testing.T) {
	// Arrange
	now := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)
	c := CharacterDraft{
		Name:          "小慧",
		Talkativeness: 7,
		Emotions:      Emotions{valueobjects.EmotionHappy: {"真为您感到高兴！"}},
		IsPublic:      true,
	}.Build("char_001", now)
	name := "小慧二号"
	public := false

	// Act
	CharacterPatch{Name: &name, IsPublic: &public}.ApplyTo(&c)

	// Assert
	assert.Equal(t, "小慧二号", c.Name)
	assert.False(t, c.IsPublic)
	assert.Equal(t, 7, c.Talkativeness)
	assert.Equal(t, "char_001", c.ID)
	assert.Equal(t, now, c.CreatedAt)
}

func TestCharacter_CloneIsIndependent(t *testing.T) {
	c := Character{
		EmotionalTriggers: []string{"孤独"},
		Emotions:          Emotions{valueobjects.EmotionSad: {"我理解您的感受..."}},
	}

	cp := c.Clone()
	cp.EmotionalTriggers[0] = "家人"
	cp.Emotions[valueobjects.EmotionSad][0] = "changed"

	assert.Equal(t, "孤独", c.EmotionalTriggers[0])
	assert.Equal(t, "我理解您的感受...", c.Emotions[valueobjects.EmotionSad][0])
}

func TestMemoryDraft_Build_DeduplicatesTags(t *testing.T) {
	now := time.Now()

	m := MemoryDraft{
		Content:    "放风筝",
		Importance: 9,
		Type:       valueobjects.MemoryHappy,
		Tags:       []string{"童年", "爷爷", "童年", "风筝", "爷爷"},
	}.Build("mem_001", now)

	assert.Equal(t, []string{"童年", "爷爷", "风筝"}, m.Tags)
	assert.Equal(t, now, m.Timestamp, "zero timestamp defaults to creation time")
}

func TestMemoryPatch_ApplyTo_KeepsDuplicateTags(t *testing.T) {
	m := Memory{ID: "mem_001", Tags: []string{"a"}}
	tags := []string{"b", "b"}

	MemoryPatch{Tags: &tags}.ApplyTo(&m)

	assert.Equal(t, []string{"b", "b"}, m.Tags)
}

func TestRelationship_Touches(t *testing.T) {
	r := Relationship{FromID: "user_001", ToID: "char_001"}

	assert.True(t, r.Touches("user_001"))
	assert.True(t, r.Touches("char_001"))
	assert.False(t, r.Touches("char_002"))
}

func TestIdentity_Validate(t *testing.T) {
	require.NoError(t, Identity{ID: "user_patient_001", Role: valueobjects.RolePatient}.Validate())
	assert.Error(t, Identity{Role: valueobjects.RolePatient}.Validate())
	assert.Error(t, Identity{ID: "x", Role: "guest"}.Validate())
	assert.True(t, Identity{ID: "x", Role: valueobjects.RoleAdmin}.IsAdmin())
}

func TestPersonaFromCharacter(t *testing.T) {
	c := Character{ID: "char_002", Name: "老王", Personality: "慈祥的老邻居", OpeningLine: "来来来"}

	p := PersonaFromCharacter(c)

	assert.Equal(t, "char_002", p.ID)
	assert.Equal(t, "慈祥的老邻居", p.Description)
	assert.Equal(t, "来来来", p.OpeningLine)
}
