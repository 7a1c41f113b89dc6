package components

import (
	"context"
	"log/slog"

	"showcase-service/internal/infra/broker"
	"showcase-service/internal/infra/outbox"
	"showcase-service/internal/infra/scheduler"
	"showcase-service/internal/pkg/config"
	"showcase-service/internal/projector"
	"showcase-service/internal/saga"
	"showcase-service/internal/usecase/commands"

	"go.uber.org/fx"
)

// WorkerModule wires the background side of the system: the outbox relay
// that feeds the broker, the saga and projector consumers, and the deadline
// scheduler that turns timer firings back into commands.
var WorkerModule = fx.Module("worker",
	fx.Provide(
		scheduler.NewTimerScheduler,
		fx.Annotate(
			func(s *scheduler.TimerScheduler) *scheduler.TimerScheduler { return s },
			fx.As(new(saga.DeadlineScheduler)),
		),
		NewCommandIssuer,
		saga.NewOrchestrator,
		projector.NewProjector,
		outbox.NewRelay,
		fx.Annotate(
			func(pub *broker.Publisher) *broker.Publisher { return pub },
			fx.As(new(outbox.Publisher)),
		),
	),
	fx.Invoke(startWorkers),
)

// NewCommandIssuer selects how deadline firings are turned into commands.
// The default keeps everything in one process; remote mode posts to another
// instance's HTTP API.
func NewCommandIssuer(cfg config.Config, cmds commands.ShowcaseCommands) saga.CommandIssuer {
	if cfg.Saga.IssuerMode == "remote" {
		return saga.NewRemoteIssuer(cfg.Saga.CommandBaseURL)
	}
	return saga.NewLocalIssuer(cmds)
}

func startWorkers(
	lc fx.Lifecycle,
	cfg config.Config,
	sched *scheduler.TimerScheduler,
	orch *saga.Orchestrator,
	proj *projector.Projector,
	relay *outbox.Relay,
	logger *slog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if err := sched.Start(ctx, orch.HandleDeadline); err != nil {
				cancel()
				return err
			}

			sagaConsumer := broker.NewConsumer(cfg.Broker, cfg.Broker.SagaQueue, logger)
			projectorConsumer := broker.NewConsumer(cfg.Broker, cfg.Broker.ProjectorQueue, logger)

			go func() {
				if err := sagaConsumer.Run(ctx, orch.HandleEvent); err != nil && ctx.Err() == nil {
					logger.Error("saga consumer stopped", "error", err)
				}
			}()
			go func() {
				if err := projectorConsumer.Run(ctx, proj.Apply); err != nil && ctx.Err() == nil {
					logger.Error("projector consumer stopped", "error", err)
				}
			}()
			go relay.Run(ctx)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			sched.Stop()
			return nil
		},
	})
}
