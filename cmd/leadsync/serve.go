package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/leadsync/internal/config"
	"github.com/xavierca1/leadsync/internal/infra/http/handlers"
	"github.com/xavierca1/leadsync/internal/infra/http/middleware"
	"github.com/xavierca1/leadsync/internal/infra/metrics"
	"github.com/xavierca1/leadsync/internal/infra/queue"
	"github.com/xavierca1/leadsync/internal/infra/worker"
	"github.com/xavierca1/leadsync/internal/scoring"
	"github.com/xavierca1/leadsync/internal/usecase"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync API and the enrichment workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Warn("closing store", zap.Error(err))
		}
	}()

	recorder := metrics.NewRecorder()
	scorer := scoring.New(cfg.Scoring.Keywords, cfg.Scoring.PromotionThreshold)
	enrichUC := usecase.NewEnrichLeadsUseCase(
		store.leads, store.interactions, scorer, recorder, log.Named("enrichment"), cfg.Store.Timeout,
	)

	g, gctx := errgroup.WithContext(ctx)

	var (
		dispatcher usecase.EnrichmentDispatcher
		broker     handlers.Broker
	)

	switch cfg.Enrichment.Driver {
	case config.EnrichmentDriverRabbitMQ:
		rmq, err := queue.NewRabbitMQ(cfg.Enrichment.AMQPURL, cfg.Enrichment.QueueMaxLength, cfg.Enrichment.Workers)
		if err != nil {
			return err
		}
		defer rmq.Close()

		producer := queue.NewProducer(rmq, cfg.Enrichment.PublishTimeout, log.Named("producer"),
			func(string) { recorder.RecordDispatchDropped() })
		defer producer.Wait()
		dispatcher = producer
		broker = rmq

		consumer := queue.NewConsumer(rmq, enrichUC, cfg.Enrichment.Workers, log.Named("consumer"))
		g.Go(func() error {
			return consumer.Start(gctx, queue.QueueName)
		})

	default:
		pool := worker.NewPool(enrichUC, cfg.Enrichment.Workers, cfg.Enrichment.QueueSize, log.Named("worker"))
		dispatcher = pool
		g.Go(func() error {
			pool.Start(gctx)
			return nil
		})
	}

	syncUC := usecase.NewSyncLeadsUseCase(store.leads, dispatcher, recorder, log.Named("sync"), cfg.Store.Timeout)

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(gctx, cfg.Server.RateLimitPerMinute, cfg.Server.RateLimitBurst)
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Sync:        handlers.NewSyncHandler(syncUC, log),
		Health:      handlers.NewHealthHandler(store.pinger, broker, version),
		RateLimiter: limiter,
		Logger:      log.Named("http"),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
			zap.String("enrichment", cfg.Enrichment.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
