package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/swaggest/swgui/v5emb"

	"github.com/vilokanam/tickmeter/pkg/api"
	"github.com/vilokanam/tickmeter/pkg/events"
	"github.com/vilokanam/tickmeter/pkg/handlers"
	"github.com/vilokanam/tickmeter/pkg/handlers/websockets"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	ledgerdydb "github.com/vilokanam/tickmeter/pkg/ledger/dynamodb"
	ledgermem "github.com/vilokanam/tickmeter/pkg/ledger/memory"
	"github.com/vilokanam/tickmeter/pkg/metering"
	"github.com/vilokanam/tickmeter/pkg/middleware"
	"github.com/vilokanam/tickmeter/pkg/payout"
	"github.com/vilokanam/tickmeter/pkg/scheduler"
	"github.com/vilokanam/tickmeter/pkg/storage"
	dydbstore "github.com/vilokanam/tickmeter/pkg/storage/dynamodb"
	storagemem "github.com/vilokanam/tickmeter/pkg/storage/memory"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	backend := os.Getenv("BACKEND")
	if backend == "" {
		backend = "memory"
	}

	var (
		ledgerClient ledger.Ledger
		accounts     ledger.Accounts
		store        storage.Storage
		sched        scheduler.Scheduler
		publisher    events.Publisher
	)

	switch backend {
	case "dynamodb":
		// AWS Session
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}

		dbClient := dynamodb.NewFromConfig(cfg)
		journalTable := os.Getenv("DYNAMODB_JOURNAL_TABLE_NAME")
		withdrawalsTable := os.Getenv("DYNAMODB_WITHDRAWALS_TABLE_NAME")
		sessionsTable := os.Getenv("DYNAMODB_SESSIONS_TABLE_NAME")
		streamsTable := os.Getenv("DYNAMODB_STREAMS_TABLE_NAME")
		connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")
		accountsTable := os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME")
		reservationsTable := os.Getenv("DYNAMODB_RESERVATIONS_TABLE_NAME")
		payoutsTable := os.Getenv("DYNAMODB_PAYOUTS_TABLE_NAME")

		if journalTable == "" || withdrawalsTable == "" || sessionsTable == "" || streamsTable == "" ||
			connectionsTable == "" || accountsTable == "" || reservationsTable == "" || payoutsTable == "" {
			log.Fatal("One or more DynamoDB table name environment variables are not set")
		}

		// SQS Client and Scheduler
		sqsClient := sqs.NewFromConfig(cfg)
		sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
		if sqsQueueURL == "" {
			log.Fatal("SQS_QUEUE_URL environment variable not set")
		}
		sched = scheduler.NewSQSScheduler(sqsClient, sqsQueueURL)

		dstore := dydbstore.New(dbClient, journalTable, withdrawalsTable, sessionsTable, streamsTable, connectionsTable)
		store = dstore

		ldb := ledgerdydb.New(dbClient, accountsTable, reservationsTable, payoutsTable)
		ledgerClient, accounts = ldb, ldb

		if wsEndpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); wsEndpoint != "" {
			publisher, err = events.NewAPIGatewayPublisher(dstore, dstore, wsEndpoint)
			if err != nil {
				log.Fatalf("unable to create websocket publisher: %v", err)
			}
		} else {
			log.Println("WEBSOCKET_API_ENDPOINT not set, settlement events will not be published")
			publisher = &events.NopPublisher{}
		}

	case "memory":
		lmem := ledgermem.New()
		ledgerClient, accounts = lmem, lmem
		store = storagemem.New()
		sched = scheduler.NopScheduler{}
		publisher = &events.NopPublisher{}

	default:
		log.Fatalf("unknown BACKEND %q (want memory or dynamodb)", backend)
	}

	// Engine policy knobs, all optional.
	var engineOpts []metering.Option
	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid TICK_INTERVAL %q: %v", v, err)
		}
		engineOpts = append(engineOpts, metering.WithTickInterval(d))
	}
	if v := os.Getenv("MAX_LOCK_TICKS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("invalid MAX_LOCK_TICKS %q: %v", v, err)
		}
		engineOpts = append(engineOpts, metering.WithMaxLockTicks(n))
	}
	if os.Getenv("STALL_POLICY") == "pause" {
		engineOpts = append(engineOpts, metering.WithStallPolicy(metering.StallPause))
	}

	engine := metering.NewEngine(ledgerClient, store, sched, publisher, engineOpts...)
	payouts := payout.NewCoordinator(ledgerClient, store, publisher)

	// Create our handler
	handler := handlers.NewApiHandler(engine, payouts, store, accounts, nil)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(slog.Default()))

	// Use the generated function to mount our handler on the router
	api.HandlerFromMux(handler, router)

	// Dashboards subscribe to settlement events over a plain websocket when
	// running outside API Gateway.
	router.Get("/ws", websockets.NewHandler(store).ServeHTTP)

	// Serve the API contract and its interactive docs.
	router.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "openapi.yaml")
	})
	router.Mount("/docs", v5emb.New("Tick-Metered Settlement API", "/openapi.yaml", "/docs/"))

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	log.Println("Shutting down, settling active sessions...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	if err := engine.Shutdown(shutdownCtx); err != nil {
		log.Printf("Engine shutdown: %v", err)
	}
}
