package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/scheduler"
	"github.com/vilokanam/tickmeter/pkg/storage"
	dydbstore "github.com/vilokanam/tickmeter/pkg/storage/dynamodb"
)

var store storage.Storage
var sqsScheduler scheduler.Scheduler

const stuckSessionThreshold = 15 * time.Minute

// A session archived in a non-terminal state with no live owner is stuck.
// Failed sessions are not swept; the engine enqueues their finalize directly
// when it records the failure.
var sweptStates = []models.SessionState{models.LOCKING, models.ACTIVE, models.SETTLING}

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	sqsClient := sqs.NewFromConfig(cfg)

	// Initialize dependencies.
	sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	sqsScheduler = scheduler.NewSQSScheduler(sqsClient, sqsQueueURL)

	journalTable := os.Getenv("DYNAMODB_JOURNAL_TABLE_NAME")
	withdrawalsTable := os.Getenv("DYNAMODB_WITHDRAWALS_TABLE_NAME")
	sessionsTable := os.Getenv("DYNAMODB_SESSIONS_TABLE_NAME")
	streamsTable := os.Getenv("DYNAMODB_STREAMS_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	store = dydbstore.New(dbClient, journalTable, withdrawalsTable, sessionsTable, streamsTable, connectionsTable)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting reconciliation sweep for stuck sessions...")

	var stuck []models.Session
	for _, state := range sweptStates {
		sessions, err := store.GetStuckSessions(ctx, state, stuckSessionThreshold)
		if err != nil {
			log.Printf("ERROR: failed to get stuck sessions in state %s: %v", state, err)
			return err
		}
		stuck = append(stuck, sessions...)
	}

	if len(stuck) == 0 {
		log.Println("No stuck sessions found.")
		return nil
	}

	log.Printf("Found %d stuck sessions. Re-enqueuing them...", len(stuck))

	for _, session := range stuck {
		if err := sqsScheduler.ScheduleFinalize(ctx, session.Id); err != nil {
			log.Printf("ERROR: failed to re-enqueue session %s: %v", session.Id, err)
			// Continue to the next session, don't let one failure stop the whole batch.
			continue
		}
		log.Printf("Successfully re-enqueued session %s", session.Id)
	}

	log.Println("Reconciliation sweep finished.")
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
