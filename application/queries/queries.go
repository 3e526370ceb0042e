package queries

import (
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// UnknownEntityName labels a relationship end that resolves to nothing
const UnknownEntityName = "未知"

// UnknownCharacterName labels a memory whose character no longer exists
const UnknownCharacterName = "未知角色"

func requireID(kind, id string) error {
	if id == "" {
		return apperrors.NewValidationError(kind + " id is required")
	}
	return nil
}

// ListCharactersQuery returns the filtered characters
type ListCharactersQuery struct {
	Filter CharacterFilter
}

func (q ListCharactersQuery) Validate() error { return nil }

// GetCharacterQuery returns one character
type GetCharacterQuery struct {
	ID string
}

func (q GetCharacterQuery) Validate() error { return requireID("character", q.ID) }

// ListRelationshipsQuery returns relationships, optionally only those touching
// CharacterID, with both ends resolved to display names for Viewer
type ListRelationshipsQuery struct {
	CharacterID string
	Viewer      entities.Identity
}

func (q ListRelationshipsQuery) Validate() error { return nil }

// GetRelationshipQuery returns one relationship
type GetRelationshipQuery struct {
	ID     string
	Viewer entities.Identity
}

func (q GetRelationshipQuery) Validate() error { return requireID("relationship", q.ID) }

// RelationshipView is a relationship with resolved end names
type RelationshipView struct {
	entities.Relationship
	FromName string `json:"fromName"`
	ToName   string `json:"toName"`
}

// ListMemoriesQuery returns the filtered memories
type ListMemoriesQuery struct {
	Filter MemoryFilter
}

func (q ListMemoriesQuery) Validate() error {
	if q.Filter.Importance != nil && (*q.Filter.Importance < 1 || *q.Filter.Importance > 10) {
		return apperrors.NewValidationError("importance must be between 1 and 10")
	}
	return nil
}

// GetMemoryQuery returns one memory
type GetMemoryQuery struct {
	ID string
}

func (q GetMemoryQuery) Validate() error { return requireID("memory", q.ID) }

// MemoryView is a memory with its character's display name
type MemoryView struct {
	entities.Memory
	CharacterName string `json:"characterName"`
}

// ConversationQuery returns the message log and composing state
type ConversationQuery struct {
	PersonaID string
}

func (q ConversationQuery) Validate() error { return nil }

// ConversationView is the chat page state
type ConversationView struct {
	Messages       []entities.Message `json:"messages"`
	Typing         bool               `json:"isTyping"`
	CurrentPersona *entities.Persona  `json:"currentPersona,omitempty"`
}

// ListPersonasQuery returns every persona that can be switched to
type ListPersonasQuery struct{}

func (q ListPersonasQuery) Validate() error { return nil }

// EmotionStateQuery returns the whole emotion snapshot
type EmotionStateQuery struct{}

func (q EmotionStateQuery) Validate() error { return nil }

// EmotionHistoryQuery returns the retained emotion readings
type EmotionHistoryQuery struct{}

func (q EmotionHistoryQuery) Validate() error { return nil }

// ReportKind names one report family
type ReportKind string

const (
	ReportOverview     ReportKind = "overview"
	ReportTrend        ReportKind = "trend"
	ReportDistribution ReportKind = "distribution"
	ReportCategories   ReportKind = "categories"
	ReportInteractions ReportKind = "interactions"
	ReportPAD          ReportKind = "pad"
)

// ReportKinds lists every report family
var ReportKinds = []ReportKind{ReportOverview, ReportTrend, ReportDistribution, ReportCategories, ReportInteractions, ReportPAD}

// ReportQuery fetches one report from the backend
type ReportQuery struct {
	Kind   ReportKind
	UserID string
	Period string
}

func (q ReportQuery) Validate() error {
	for _, k := range ReportKinds {
		if q.Kind == k {
			if q.Period != "" && q.Period != "week" && q.Period != "month" {
				return apperrors.NewValidationError("period must be week or month")
			}
			return nil
		}
	}
	return apperrors.NewValidationError("unknown report: " + string(q.Kind))
}

// AdminOverviewQuery summarises the whole process state
type AdminOverviewQuery struct{}

func (q AdminOverviewQuery) Validate() error { return nil }

// AdminOverview is the admin dashboard headline
type AdminOverview struct {
	Store          ports.StoreCounts  `json:"store"`
	SessionState   string             `json:"sessionState"`
	SessionUser    *entities.Identity `json:"sessionUser,omitempty"`
	Messages       int                `json:"messages"`
	EmotionHistory int                `json:"emotionHistory"`
}
