// workflow-orchestrator/cmd/main.go

package main

import (
	"context"
	"os"

	"github.com/facebookgo/clock"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/activities"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/workflow"

	"github.com/Tanmoy095/PharmaTrace/shared/config"
	pkgkafka "github.com/Tanmoy095/PharmaTrace/shared/kafka"
	"github.com/Tanmoy095/PharmaTrace/shared/logger"

	// the worker writes to the same audit table the console reads
	"github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
)

func main() {
	// =========================================================================
	// 1. LOAD CONFIG
	// =========================================================================
	if err := config.LoadDotEnv(); err != nil {
		os.Stderr.WriteString("workflow-orchestrator: " + err.Error() + "\n")
		os.Exit(1)
	}
	cfg := config.LoadCommonConfig()
	log := logger.Must("workflow-orchestrator", cfg.LOG_LEVEL)
	defer log.Sync()

	apiTimeout, err := config.GetDuration("API_TIMEOUT", 0)
	if err != nil {
		log.Fatal("bad config", zap.Error(err))
	}

	// =========================================================================
	// 2. SETUP DEPENDENCIES (DB, BACKEND & KAFKA)
	// =========================================================================
	if !cfg.HasDB() {
		log.Fatal("DB_HOST is required: the worker records receipts in Postgres")
	}
	receipts, err := store.NewPostgresStore(context.Background(), cfg.GetDBURL())
	if err != nil {
		log.Fatal("worker failed to connect to DB", zap.Error(err))
	}
	defer receipts.Close()

	api, err := client.New(client.Config{
		BaseURL: config.GetEnv("API_BASE_URL", ""),
		Timeout: apiTimeout,
		Logger:  log.Named("api"),
	})
	if err != nil {
		log.Fatal("invalid backend client config", zap.Error(err))
	}

	var producer pkgkafka.Publisher = pkgkafka.NopPublisher{}
	if brokers := cfg.GetKafkaBrokers(); len(brokers) > 0 && cfg.KAFKA_TOPIC != "" {
		producer = pkgkafka.NewKafkaProducer(brokers, cfg.KAFKA_TOPIC, log.Named("kafka"))
		log.Info("worker connected to Kafka", zap.Strings("brokers", brokers))
	} else {
		log.Warn("Kafka config missing, receipt events will not be published")
	}
	defer producer.Close()

	// =========================================================================
	// 3. SETUP TEMPORAL CLIENT
	// =========================================================================
	temporalHost := cfg.TEMPORAL_HOST_PORT
	if temporalHost == "" {
		temporalHost = "temporal:7233" // Docker default
	}
	c, err := temporalclient.Dial(temporalclient.Options{HostPort: temporalHost})
	if err != nil {
		log.Fatal("unable to create Temporal client", zap.Error(err))
	}
	defer c.Close()
	log.Info("worker connected to Temporal", zap.String("host", temporalHost))

	// =========================================================================
	// 4. REGISTER ACTIVITIES & WORKFLOWS
	// =========================================================================
	acts := &activities.ReceiptActivities{
		API:      api,
		Store:    receipts,
		Producer: producer,
		Clock:    clock.New(),
	}

	w := worker.New(c, workflow.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflow.ConfirmReceiptWorkflow)
	w.RegisterActivity(acts.ACTIVITY_VerifyRecipient)
	w.RegisterActivity(acts.ACTIVITY_ReceiveShipment)
	w.RegisterActivity(acts.ACTIVITY_RecordReceipt)
	w.RegisterActivity(acts.ACTIVITY_PublishReceiptEvent)

	// =========================================================================
	// 5. START WORKER
	// =========================================================================
	log.Info("worker started", zap.String("task_queue", workflow.TaskQueue))
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal("unable to start worker", zap.Error(err))
	}
}
