//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/config"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/memory"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/resilience"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideCollector,
	ProvideKeyValueStore,
	ProvideSeedData,
	ProvideEntityStore,
	wire.Bind(new(ports.EntityStore), new(*memory.EntityStore)),
	ProvideConversationLog,
	wire.Bind(new(ports.ConversationLog), new(*memory.ConversationLog)),
	ProvideRandom,
	ProvideMockBackend,
	ProvideBackend,
	wire.Bind(new(ports.Backend), new(*resilience.BreakerBackend)),
	ProvideEmotionService,
	ProvideSessionService,
	ProvideConversationService,
	ProvideJWTManager,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideErrorHandler,
	ProvideHub,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
