package commands

import (
	"strings"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
)

// SendMessageCommand posts a user message to the current persona
type SendMessageCommand struct {
	User    entities.Identity
	Content string `validate:"max=5000"`
}

func (c SendMessageCommand) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return apperrors.NewValidationError("content is required")
	}
	return validateStruct(c)
}

// SwitchPersonaCommand changes the active persona
type SwitchPersonaCommand struct {
	User      entities.Identity
	PersonaID string
}

func (c SwitchPersonaCommand) Validate() error {
	return requireID("persona", c.PersonaID)
}

// ClearConversationCommand empties the message log
type ClearConversationCommand struct{}

func (c ClearConversationCommand) Validate() error { return nil }

// AnalyzeTextCommand classifies text and records the reading
type AnalyzeTextCommand struct {
	Text string `validate:"required,max=5000"`
}

func (c AnalyzeTextCommand) Validate() error {
	return validateStruct(c)
}

// ClassifyMemoryCommand files a stored memory under a sentiment bucket
type ClassifyMemoryCommand struct {
	MemoryID       string
	Classification valueobjects.Sentiment `validate:"required,oneof=positive negative neutral"`
}

func (c ClassifyMemoryCommand) Validate() error {
	if err := requireID("memory", c.MemoryID); err != nil {
		return err
	}
	return validateStruct(c)
}

// AddPADPointCommand appends a point to the PAD trend
type AddPADPointCommand struct {
	Point entities.PADPoint
}

func (c AddPADPointCommand) Validate() error {
	for _, v := range []float64{c.Point.Pleasure, c.Point.Arousal, c.Point.Dominance} {
		if v < -1 || v > 1 {
			return apperrors.NewValidationError("pad values must be within [-1, 1]")
		}
	}
	return nil
}

// ClearEmotionHistoryCommand empties the emotion history and classification
type ClearEmotionHistoryCommand struct{}

func (c ClearEmotionHistoryCommand) Validate() error { return nil }
