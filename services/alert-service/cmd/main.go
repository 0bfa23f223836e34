// services/alert-service/cmd/main.go

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/facebookgo/clock"
	"github.com/robfig/cron"
	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/services/alert-service/config"
	"github.com/Tanmoy095/PharmaTrace/services/alert-service/internal/bridge"
	"github.com/Tanmoy095/PharmaTrace/services/alert-service/internal/notify"
	"github.com/Tanmoy095/PharmaTrace/services/alert-service/internal/scanner"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/shared/contracts"
	pkgkafka "github.com/Tanmoy095/PharmaTrace/shared/kafka"
	"github.com/Tanmoy095/PharmaTrace/shared/logger"
	pkgrabbit "github.com/Tanmoy095/PharmaTrace/shared/rabbitmq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("alert-service: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Must("alert-service", cfg.LOG_LEVEL)
	defer log.Sync()

	// connect to RabbitMQ
	log.Info("connecting to RabbitMQ", zap.String("host", cfg.RABBITMQ_HOST))
	rabbitClient, err := pkgrabbit.NewClient(cfg.GetRabbitMQURL(), log.Named("rabbitmq"))
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	// closed explicitly at the end of the shutdown sequence

	if err := rabbitClient.CreateQueue(contracts.QueueAlertDeadLetters); err != nil {
		log.Fatal("failed to create dead-letter queue", zap.Error(err))
	}
	for _, q := range []string{contracts.QueueInventoryAlerts, contracts.QueueReceiptNotices} {
		if err := rabbitClient.CreateQueueWithDLQ(q, contracts.QueueAlertDeadLetters); err != nil {
			log.Fatal("failed to create queue", zap.String("queue", q), zap.Error(err))
		}
	}

	// the receipt events published by the console or the workflow worker
	var kafkaConsumer *pkgkafka.Consumer
	if brokers := cfg.GetKafkaBrokers(); len(brokers) > 0 && cfg.KAFKA_TOPIC != "" {
		log.Info("connecting to Kafka", zap.Strings("brokers", brokers), zap.String("topic", cfg.KAFKA_TOPIC))
		kafkaConsumer = pkgkafka.NewConsumer(brokers, cfg.KAFKA_TOPIC, "alert-service", log.Named("kafka"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// workers: one per queue
	notifier := notify.New(notify.LogSink{Log: log.Named("alerts")}, log)
	for _, q := range []string{contracts.QueueInventoryAlerts, contracts.QueueReceiptNotices} {
		wg.Add(1)
		go func(queue string) {
			defer wg.Done()
			if err := rabbitClient.Drain(ctx, queue, notifier.Handle); err != nil {
				log.Error("worker stopped", zap.String("queue", queue), zap.Error(err))
			}
		}(q)
	}

	// bridge: kafka receipt events -> notification jobs
	if kafkaConsumer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kafkaConsumer.Start(ctx, bridge.New(rabbitClient, log.Named("bridge")).Handle)
		}()
	}

	// scheduled inventory scan
	var scheduler *cron.Cron
	if len(cfg.ALERT_WATCH) > 0 {
		api, err := client.New(client.Config{BaseURL: cfg.API_BASE_URL, Timeout: cfg.API_TIMEOUT, Logger: log.Named("api")})
		if err != nil {
			log.Fatal("invalid backend client config", zap.Error(err))
		}
		scan := scanner.New(api, rabbitClient, scanner.Options{
			Token:    cfg.ALERT_API_TOKEN,
			Watch:    cfg.ALERT_WATCH,
			Policy:   cfg.Policy(),
			Clock:    clock.New(),
			DedupTTL: cfg.ALERT_DEDUP_TTL,
			Logger:   log.Named("scanner"),
		})
		scheduler = cron.New()
		if err := scheduler.AddFunc(cfg.ALERT_SCHEDULE, func() {
			if _, err := scan.Scan(ctx); err != nil {
				log.Warn("scan finished with errors", zap.Error(err))
			}
		}); err != nil {
			log.Fatal("bad ALERT_SCHEDULE", zap.String("schedule", cfg.ALERT_SCHEDULE), zap.Error(err))
		}
		scheduler.Start()
		log.Info("inventory scan scheduled", zap.String("schedule", cfg.ALERT_SCHEDULE), zap.Int("targets", len(cfg.ALERT_WATCH)))
	} else {
		log.Warn("ALERT_WATCH empty, inventory scan disabled")
	}

	log.Info("service running, press Ctrl+C to stop")
	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)
	received := <-stopSignal
	log.Info("shutting down", zap.String("signal", received.String()))

	if scheduler != nil {
		scheduler.Stop()
	}
	// stop accepting new work, then let the workers finish what they hold
	cancel()
	wg.Wait()
	if err := rabbitClient.Close(); err != nil {
		log.Error("failed to close RabbitMQ connection", zap.Error(err))
	}
	if kafkaConsumer != nil {
		kafkaConsumer.Close()
	}
	log.Info("shutdown complete")
}
