package components

import (
	"showcase-service/internal/infra/eventstore"
	"showcase-service/internal/infra/readstore"
	"showcase-service/internal/infra/sagastore"
	"showcase-service/internal/infra/scheduler"
	"showcase-service/internal/infra/titlestore"
	"showcase-service/internal/projector"
	"showcase-service/internal/saga"
	"showcase-service/internal/usecase/commands"
	"showcase-service/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			eventstore.NewStore,
			fx.As(new(commands.EventStore)),
		),
		fx.Annotate(
			titlestore.NewStore,
			fx.As(new(commands.TitleReservations)),
		),
		fx.Annotate(
			sagastore.NewStore,
			fx.As(new(saga.StateStore)),
		),
		// Read-side repository shared by queries and the projector
		fx.Annotate(
			readstore.NewShowcaseReadStore,
			fx.As(new(queries.ShowcaseReadStore)),
			fx.As(new(projector.ReadStore)),
		),
		fx.Annotate(
			scheduler.NewRedisStore,
			fx.As(new(scheduler.Store)),
		),
	),
)
