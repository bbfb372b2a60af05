package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage/dynamodb/mocks"
)

func settledItems(t *testing.T, records ...models.SettlementRecord) []map[string]types.AttributeValue {
	t.Helper()
	items := make([]map[string]types.AttributeValue, len(records))
	for i, r := range records {
		item, err := attributevalue.MarshalMap(r)
		if err != nil {
			t.Fatalf("marshal record: %v", err)
		}
		items[i] = item
	}
	return items
}

func TestListSessionRecords(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		items := settledItems(t,
			models.SettlementRecord{SessionId: "session-1", Sequence: 1, Amount: 1},
			models.SettlementRecord{SessionId: "session-1", Sequence: 2, Amount: 1},
		)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{Items: items}, nil)

		records, err := store.ListSessionRecords(context.Background(), "session-1")

		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, uint64(1), records[0].Sequence)
		assert.Equal(t, uint64(2), records[1].Sequence)
		mockClient.AssertExpectations(t)
	})

	t.Run("Pages Through Results", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		first := settledItems(t, models.SettlementRecord{SessionId: "session-1", Sequence: 1, Amount: 1})
		second := settledItems(t, models.SettlementRecord{SessionId: "session-1", Sequence: 2, Amount: 1})
		lastKey := map[string]types.AttributeValue{"session_id": &types.AttributeValueMemberS{Value: "session-1"}}

		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{Items: first, LastEvaluatedKey: lastKey}, nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{Items: second}, nil)

		records, err := store.ListSessionRecords(context.Background(), "session-1")

		assert.NoError(t, err)
		assert.Len(t, records, 2)
		mockClient.AssertExpectations(t)
	})

	t.Run("Query Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

		_, err := store.ListSessionRecords(context.Background(), "session-1")

		assert.Error(t, err)
		mockClient.AssertExpectations(t)
	})
}

func TestListRecentRecords(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		now := time.Now()
		items := settledItems(t,
			models.SettlementRecord{SessionId: "session-2", Sequence: 9, Amount: 2, SettledAt: now},
			models.SettlementRecord{SessionId: "session-1", Sequence: 4, Amount: 1, SettledAt: now.Add(-time.Second)},
		)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{Items: items}, nil)

		records, err := store.ListRecentRecords(context.Background(), 20)

		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, "session-2", records[0].SessionId)
		mockClient.AssertExpectations(t)
	})
}

func TestSumSettledByCreator(t *testing.T) {
	t.Run("Sums Across Pages", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		first := settledItems(t,
			models.SettlementRecord{SessionId: "session-1", Sequence: 1, Amount: 3},
			models.SettlementRecord{SessionId: "session-1", Sequence: 2, Amount: 3},
		)
		second := settledItems(t, models.SettlementRecord{SessionId: "session-2", Sequence: 1, Amount: 4})
		lastKey := map[string]types.AttributeValue{"session_id": &types.AttributeValueMemberS{Value: "session-1"}}

		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{Items: first, LastEvaluatedKey: lastKey}, nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{Items: second}, nil)

		total, err := store.SumSettledByCreator(context.Background(), "creator1")

		assert.NoError(t, err)
		assert.Equal(t, int64(10), total)
		mockClient.AssertExpectations(t)
	})

	t.Run("No Records", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		total, err := store.SumSettledByCreator(context.Background(), "creator-quiet")

		assert.NoError(t, err)
		assert.Equal(t, int64(0), total)
		mockClient.AssertExpectations(t)
	})
}
