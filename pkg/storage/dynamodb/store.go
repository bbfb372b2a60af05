// Package dynamodb implements the storage interfaces on AWS DynamoDB: the
// append-only settlement journal, withdrawal records, the session archive, the
// stream directory and the WebSocket connection registry.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client the storage layer uses.
// Tests mock this interface.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                        DynamoDBAPI
	JournalTableName              string
	WithdrawalsTableName          string
	SessionsTableName             string
	StreamsTableName              string
	WebsocketConnectionsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, journalTable, withdrawalsTable, sessionsTable, streamsTable, connectionsTable string) *Store {
	return &Store{
		Client:                        client,
		JournalTableName:              journalTable,
		WithdrawalsTableName:          withdrawalsTable,
		SessionsTableName:             sessionsTable,
		StreamsTableName:              streamsTable,
		WebsocketConnectionsTableName: connectionsTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
