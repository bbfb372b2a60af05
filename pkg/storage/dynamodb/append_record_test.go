package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
	"github.com/vilokanam/tickmeter/pkg/storage/dynamodb/mocks"
)

func TestAppendRecord(t *testing.T) {
	record := &models.SettlementRecord{
		SessionId:      "session-1",
		Sequence:       1,
		StreamId:       "stream-1",
		CreatorAccount: "creator1",
		Amount:         1,
		LedgerTxRef:    "tx-1",
		SettledAt:      time.Now(),
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("PutItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.PutItemOutput{}, nil)

		err := store.AppendRecord(context.Background(), record)

		assert.NoError(t, err)
		assert.Equal(t, settlementsGSI1PK, record.GSI1PK)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate Sequence", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		err := store.AppendRecord(context.Background(), record)

		assert.ErrorIs(t, err, storage.ErrDuplicateRecord)
		mockClient.AssertExpectations(t)
	})

	t.Run("PutItem Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("put failed"))

		err := store.AppendRecord(context.Background(), record)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrDuplicateRecord)
		mockClient.AssertExpectations(t)
	})
}
