package handlers

import (
	"fmt"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
)

// Set groups every query handler of the application
type Set struct {
	Entities     *EntityQueryHandler
	Conversation *ConversationQueryHandler
	Reports      *ReportQueryHandler
	Admin        *AdminQueryHandler
}

// Register binds every query type to its handler
func (s Set) Register(b *bus.QueryBus) error {
	bindings := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.ListCharactersQuery{}, s.Entities},
		{queries.GetCharacterQuery{}, s.Entities},
		{queries.ListRelationshipsQuery{}, s.Entities},
		{queries.GetRelationshipQuery{}, s.Entities},
		{queries.ListMemoriesQuery{}, s.Entities},
		{queries.GetMemoryQuery{}, s.Entities},
		{queries.ConversationQuery{}, s.Conversation},
		{queries.ListPersonasQuery{}, s.Conversation},
		{queries.EmotionStateQuery{}, s.Conversation},
		{queries.EmotionHistoryQuery{}, s.Conversation},
		{queries.ReportQuery{}, s.Reports},
		{queries.AdminOverviewQuery{}, s.Admin},
	}

	for _, bnd := range bindings {
		if err := b.Register(bnd.query, bnd.handler); err != nil {
			return fmt.Errorf("failed to register %T: %w", bnd.query, err)
		}
	}
	return nil
}
