package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	ledgerdydb "github.com/vilokanam/tickmeter/pkg/ledger/dynamodb"
	"github.com/vilokanam/tickmeter/pkg/metering"
	"github.com/vilokanam/tickmeter/pkg/scheduler"
	dydbstore "github.com/vilokanam/tickmeter/pkg/storage/dynamodb"
)

var finalizer *metering.Finalizer

func init() {
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize dependencies once.
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

	store := dydbstore.New(dbClient, journalTable, withdrawalsTable, sessionsTable, streamsTable, connectionsTable)
	ledgerClient := ledgerdydb.New(dbClient, accountsTable, reservationsTable, payoutsTable)

	finalizer = metering.NewFinalizer(ledgerClient, store)
}

// HandleRequest processes SQS messages and finalizes the sessions they name.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var msg scheduler.FinalizeMessage
		if err := json.Unmarshal([]byte(message.Body), &msg); err != nil {
			log.Printf("ERROR: failed to unmarshal finalize message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		log.Printf("Attempting to finalize session %s", msg.SessionId)

		if err := finalizer.Finalize(ctx, msg.SessionId); err != nil {
			log.Printf("ERROR: failed to finalize session %s: %v", msg.SessionId, err)
			// In a production system, persistent failures would be sent to a DLQ.
			return err
		}

		log.Printf("Successfully finalized session %s", msg.SessionId)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
