package bootstrap

import (
	"showcase-service/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.BrokerConfig { return cfg.Broker },
	),
)
