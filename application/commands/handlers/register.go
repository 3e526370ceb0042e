package handlers

import (
	"fmt"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
)

// Set groups every command handler of the application
type Set struct {
	Characters    *CharacterHandler
	Relationships *RelationshipHandler
	Memories      *MemoryHandler
	Reset         *ResetStoreHandler
	Session       *SessionHandler
	Chat          *ChatHandler
	Emotion       *EmotionHandler
}

// Register binds every command type to its handler
func (s Set) Register(b *bus.CommandBus) error {
	bindings := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateCharacterCommand{}, s.Characters},
		{commands.UpdateCharacterCommand{}, s.Characters},
		{commands.DeleteCharacterCommand{}, s.Characters},
		{commands.CreateRelationshipCommand{}, s.Relationships},
		{commands.UpdateRelationshipCommand{}, s.Relationships},
		{commands.DeleteRelationshipCommand{}, s.Relationships},
		{commands.CreateMemoryCommand{}, s.Memories},
		{commands.UpdateMemoryCommand{}, s.Memories},
		{commands.DeleteMemoryCommand{}, s.Memories},
		{commands.ResetStoreCommand{}, s.Reset},
		{commands.LoginCommand{}, s.Session},
		{commands.LogoutCommand{}, s.Session},
		{commands.RegisterCommand{}, s.Session},
		{commands.RefreshTokenCommand{}, s.Session},
		{commands.SendMessageCommand{}, s.Chat},
		{commands.SwitchPersonaCommand{}, s.Chat},
		{commands.ClearConversationCommand{}, s.Chat},
		{commands.AnalyzeTextCommand{}, s.Emotion},
		{commands.ClassifyMemoryCommand{}, s.Emotion},
		{commands.AddPADPointCommand{}, s.Emotion},
		{commands.ClearEmotionHistoryCommand{}, s.Emotion},
	}

	for _, bnd := range bindings {
		if err := b.Register(bnd.cmd, bnd.handler); err != nil {
			return fmt.Errorf("failed to register %T: %w", bnd.cmd, err)
		}
	}
	return nil
}
