package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/motospirit/internal/adapters/credentials"
	"github.com/samirrijal/motospirit/internal/adapters/gemini"
	natsadapter "github.com/samirrijal/motospirit/internal/adapters/nats"
	openaiadapter "github.com/samirrijal/motospirit/internal/adapters/openai"
	"github.com/samirrijal/motospirit/internal/adapters/postgres"
	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/core/usecases"
	"github.com/samirrijal/motospirit/internal/pkg/config"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
	"github.com/samirrijal/motospirit/internal/pkg/telemetry"
	"github.com/samirrijal/motospirit/internal/workflows"
)

func main() {
	cfg, err := config.Load("motospirit-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}

	var gen ports.GenerationService = gemini.New(cfg.LLM.APIKey, "")
	if cfg.LLM.Provider == "openai" {
		gen = openaiadapter.New(cfg.LLM.APIKey, cfg.LLM.BaseURL, "")
	}
	analysis := usecases.NewAnalysisService(
		gen,
		credentials.NewBroker(cfg.LLM.APIKey, pub),
		postgres.NewBikeRepo(db),
		postgres.NewMaintenanceRepo(db),
		postgres.NewAnalysisRepo(db),
		pub,
		cfg.LLM.AnalysisModel,
		cfg.Assistant.Language,
	)

	// Connect to Temporal
	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer tc.Close()

	queue := cfg.Temporal.TaskQueue
	if queue == "" {
		queue = workflows.TaskQueue
	}
	w := worker.New(tc, queue, worker.Options{})
	w.RegisterWorkflow(workflows.MaintenanceAnalysisWorkflow)
	w.RegisterActivity(&workflows.AnalysisActivities{Analyzer: analysis})

	// Queued requests from the API become workflow executions.
	err = sub.SubscribeAnalysisRequests(ctx, func(ctx context.Context, req *domain.AnalysisRequest) error {
		_, err := tc.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
			ID:        workflows.WorkflowID(req),
			TaskQueue: queue,
		}, workflows.MaintenanceAnalysisWorkflow, *req)
		if err != nil {
			return err
		}
		logging.FromContext(ctx).Info("analysis workflow started", "bike_id", req.BikeID, "request_id", req.RequestID)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe analysis requests: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		interrupt := make(chan interface{})
		go func() {
			<-gctx.Done()
			close(interrupt)
		}()
		return w.Run(interrupt)
	})
	g.Go(func() error {
		<-gctx.Done()
		sub.Close()
		return nil
	})

	slog.Info("analysis worker started", "task_queue", queue)
	if err := g.Wait(); err != nil {
		slog.Error("worker stopped", "error", err)
	}
	slog.Info("analysis worker stopped")
}
