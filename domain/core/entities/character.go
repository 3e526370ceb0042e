package entities

import (
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

// Emotions maps an emotion tag to the expressions a character uses for it
type Emotions map[valueobjects.EmotionTag][]string

// Clone returns a deep copy
func (e Emotions) Clone() Emotions {
	if e == nil {
		return nil
	}
	out := make(Emotions, len(e))
	for tag, lines := range e {
		out[tag] = cloneStrings(lines)
	}
	return out
}

// Character is an AI persona the patient talks to
type Character struct {
	ID                string    `json:"id" yaml:"id"`
	Name              string    `json:"name" yaml:"name"`
	Avatar            string    `json:"avatar,omitempty" yaml:"avatar"`
	MBTIType          string    `json:"mbtiType,omitempty" yaml:"mbtiType"`
	ZodiacSign        string    `json:"zodiacSign,omitempty" yaml:"zodiacSign"`
	Personality       string    `json:"personality" yaml:"personality"`
	SpeakingStyle     string    `json:"speakingStyle" yaml:"speakingStyle"`
	EmotionalTriggers []string  `json:"emotionalTriggers" yaml:"emotionalTriggers"`
	Talkativeness     int       `json:"talkativeness" yaml:"talkativeness"`
	Emotions          Emotions  `json:"emotions" yaml:"emotions"`
	OpeningLine       string    `json:"openingLine" yaml:"openingLine"`
	SkillIDs          []string  `json:"skillIds" yaml:"skillIds"`
	DefaultScene      string    `json:"defaultScene,omitempty" yaml:"defaultScene"`
	DefaultScript     string    `json:"defaultScript,omitempty" yaml:"defaultScript"`
	IsPublic          bool      `json:"isPublic" yaml:"isPublic"`
	CreatedAt         time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Clone returns a deep copy so callers never share slices or maps with the store
func (c Character) Clone() Character {
	c.EmotionalTriggers = cloneStrings(c.EmotionalTriggers)
	c.SkillIDs = cloneStrings(c.SkillIDs)
	c.Emotions = c.Emotions.Clone()
	return c
}

// Expressions returns the lines configured for an emotion tag
func (c Character) Expressions(tag valueobjects.EmotionTag) []string {
	return cloneStrings(c.Emotions[tag])
}

// CharacterDraft carries the user-entered fields of a new character
type CharacterDraft struct {
	Name              string   `json:"name" validate:"required,max=100"`
	Avatar            string   `json:"avatar,omitempty"`
	MBTIType          string   `json:"mbtiType,omitempty" validate:"omitempty,len=4"`
	ZodiacSign        string   `json:"zodiacSign,omitempty"`
	Personality       string   `json:"personality" validate:"max=2000"`
	SpeakingStyle     string   `json:"speakingStyle" validate:"max=2000"`
	EmotionalTriggers []string `json:"emotionalTriggers" validate:"max=50"`
	Talkativeness     int      `json:"talkativeness" validate:"min=1,max=10"`
	Emotions          Emotions `json:"emotions" validate:"omitempty,dive,keys,oneof=happy sad angry fearful jealous nervous,endkeys"`
	OpeningLine       string   `json:"openingLine" validate:"max=1000"`
	SkillIDs          []string `json:"skillIds"`
	DefaultScene      string   `json:"defaultScene,omitempty"`
	DefaultScript     string   `json:"defaultScript,omitempty"`
	IsPublic          bool     `json:"isPublic"`
}

// Build turns the draft into a record with the given id and creation time
func (d CharacterDraft) Build(id string, now time.Time) Character {
	return Character{
		ID:                id,
		Name:              d.Name,
		Avatar:            d.Avatar,
		MBTIType:          d.MBTIType,
		ZodiacSign:        d.ZodiacSign,
		Personality:       d.Personality,
		SpeakingStyle:     d.SpeakingStyle,
		EmotionalTriggers: cloneStrings(d.EmotionalTriggers),
		Talkativeness:     d.Talkativeness,
		Emotions:          d.Emotions.Clone(),
		OpeningLine:       d.OpeningLine,
		SkillIDs:          cloneStrings(d.SkillIDs),
		DefaultScene:      d.DefaultScene,
		DefaultScript:     d.DefaultScript,
		IsPublic:          d.IsPublic,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// CharacterPatch lists the fields to overwrite; nil fields are kept
type CharacterPatch struct {
	Name              *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Avatar            *string   `json:"avatar,omitempty"`
	MBTIType          *string   `json:"mbtiType,omitempty" validate:"omitempty,len=4"`
	ZodiacSign        *string   `json:"zodiacSign,omitempty"`
	Personality       *string   `json:"personality,omitempty" validate:"omitempty,max=2000"`
	SpeakingStyle     *string   `json:"speakingStyle,omitempty" validate:"omitempty,max=2000"`
	EmotionalTriggers *[]string `json:"emotionalTriggers,omitempty" validate:"omitempty,max=50"`
	Talkativeness     *int      `json:"talkativeness,omitempty" validate:"omitempty,min=1,max=10"`
	Emotions          *Emotions `json:"emotions,omitempty" validate:"omitempty,dive,keys,oneof=happy sad angry fearful jealous nervous,endkeys"`
	OpeningLine       *string   `json:"openingLine,omitempty" validate:"omitempty,max=1000"`
	SkillIDs          *[]string `json:"skillIds,omitempty"`
	DefaultScene      *string   `json:"defaultScene,omitempty"`
	DefaultScript     *string   `json:"defaultScript,omitempty"`
	IsPublic          *bool     `json:"isPublic,omitempty"`
}

// ApplyTo merges the patch over c. Identity and timestamps are never touched.
func (p CharacterPatch) ApplyTo(c *Character) {
	setString(&c.Name, p.Name)
	setString(&c.Avatar, p.Avatar)
	setString(&c.MBTIType, p.MBTIType)
	setString(&c.ZodiacSign, p.ZodiacSign)
	setString(&c.Personality, p.Personality)
	setString(&c.SpeakingStyle, p.SpeakingStyle)
	if p.EmotionalTriggers != nil {
		c.EmotionalTriggers = cloneStrings(*p.EmotionalTriggers)
	}
	if p.Talkativeness != nil {
		c.Talkativeness = *p.Talkativeness
	}
	if p.Emotions != nil {
		c.Emotions = p.Emotions.Clone()
	}
	setString(&c.OpeningLine, p.OpeningLine)
	if p.SkillIDs != nil {
		c.SkillIDs = cloneStrings(*p.SkillIDs)
	}
	setString(&c.DefaultScene, p.DefaultScene)
	setString(&c.DefaultScript, p.DefaultScript)
	if p.IsPublic != nil {
		c.IsPublic = *p.IsPublic
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
