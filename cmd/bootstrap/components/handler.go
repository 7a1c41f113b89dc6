package components

import (
	"showcase-service/internal/handler"
	"showcase-service/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewShowcaseHandler,
	),
	fx.Invoke(handler.NewRouter),
)
