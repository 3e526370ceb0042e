package di

import (
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	querybus "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/services"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/config"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/memory"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/resilience"
	"github.com/C-1995-O1-HALE-POPP/ris-system/interfaces/http/rest"
	"github.com/C-1995-O1-HALE-POPP/ris-system/interfaces/ws"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        *memory.EntityStore
	Conversation *memory.ConversationLog
	Session      *services.SessionService
	Emotions     *services.EmotionService
	Backend      *resilience.BreakerBackend
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	Metrics      *observability.Collector
	Hub          *ws.Hub
	Router       *rest.Router
}
