// cmd/main.go in console-service
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookgo/clock"
	temporalclient "go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/config"
	grpcServer "github.com/Tanmoy095/PharmaTrace/services/console-service/handler/grpc"
	httpServer "github.com/Tanmoy095/PharmaTrace/services/console-service/handler/http"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/service"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/activities"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/workflow"
	pkgkafka "github.com/Tanmoy095/PharmaTrace/shared/kafka"
	"github.com/Tanmoy095/PharmaTrace/shared/logger"
)

func main() {
	// =========================================================================
	// 1. LOAD CONFIG & LOGGER
	// =========================================================================
	cfg, err := config.LoadConfig()
	if err != nil {
		// the logger is not up yet
		os.Stderr.WriteString("console-service: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Must("console-service", cfg.LOG_LEVEL)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// 2. BACKEND CLIENT & RECEIPT STORE
	// =========================================================================
	api, err := client.New(client.Config{
		BaseURL:   cfg.API_BASE_URL,
		Timeout:   cfg.API_TIMEOUT,
		RateLimit: cfg.API_RATE_LIMIT,
		Logger:    log.Named("api"),
	})
	if err != nil {
		log.Fatal("invalid backend client config", zap.Error(err))
	}

	health := map[string]grpcServer.Pinger{"backend": api}

	var receipts store.ReceiptStore
	if cfg.HasDB() {
		pg, err := store.NewPostgresStore(ctx, cfg.GetDBURL())
		if err != nil {
			log.Fatal("failed to open receipt store", zap.Error(err))
		}
		defer pg.Close()
		receipts = pg
		health["postgres"] = pg
	} else {
		log.Warn("DB_HOST not set, receipts are kept in memory")
		receipts = store.NewMemoryStore()
	}

	// =========================================================================
	// 3. RECEIPT PIPELINE (Temporal when configured, in-process otherwise)
	// =========================================================================
	var runner workflow.Runner
	if cfg.TEMPORAL_HOST_PORT != "" {
		tc, err := temporalclient.Dial(temporalclient.Options{HostPort: cfg.TEMPORAL_HOST_PORT})
		if err != nil {
			log.Fatal("unable to create Temporal client", zap.Error(err))
		}
		defer tc.Close()
		runner = &workflow.TemporalRunner{Client: tc, TaskQueue: workflow.TaskQueue}
		log.Info("receipts run on Temporal", zap.String("host", cfg.TEMPORAL_HOST_PORT))
	} else {
		var producer pkgkafka.Publisher = pkgkafka.NopPublisher{}
		if brokers := cfg.GetKafkaBrokers(); len(brokers) > 0 {
			producer = pkgkafka.NewKafkaProducer(brokers, cfg.KAFKA_TOPIC, log.Named("kafka"))
		}
		defer producer.Close()
		runner = &workflow.LocalRunner{
			Acts: &activities.ReceiptActivities{API: api, Store: receipts, Producer: producer, Clock: clock.New()},
			Log:  log.Named("receipts"),
		}
		log.Info("receipts run in-process")
	}

	svc := service.NewConsoleService(service.Deps{
		API:      api,
		Sessions: session.NewStore(cfg.SESSION_CACHE_SIZE, cfg.SESSION_TTL),
		Receipts: runner,
		History:  receipts,
		Clock:    clock.New(),
		Policy:   cfg.Policy(),
		Logger:   log,
	})

	// =========================================================================
	// 4. SERVE HTTP & gRPC HEALTH
	// =========================================================================
	httpSrv := &http.Server{
		Addr:              cfg.HTTP_ADDR,
		Handler:           httpServer.NewServer(svc, log.Named("http")).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPC_ADDR)
	if err != nil {
		log.Fatal("failed to listen", zap.String("addr", cfg.GRPC_ADDR), zap.Error(err))
	}
	grpcSrv := grpc.NewServer()
	hs := grpcServer.NewHealthServer(health, 15*time.Second, log.Named("health"))
	hs.Register(grpcSrv)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server running", zap.String("addr", cfg.HTTP_ADDR))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("gRPC health server running", zap.String("addr", cfg.GRPC_ADDR))
		return grpcSrv.Serve(lis)
	})
	g.Go(func() error {
		hs.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grpcSrv.GracefulStop()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("console-service stopped", zap.Error(err))
		return
	}
	log.Info("console-service stopped")
}
