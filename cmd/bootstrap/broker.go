package bootstrap

import (
	"context"
	"log/slog"

	"showcase-service/internal/infra/broker"
	"showcase-service/internal/pkg/config"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewPublisher,
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *broker.Publisher {
	pub := broker.NewPublisher(cfg.Broker, logger)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})

	return pub
}
