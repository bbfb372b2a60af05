package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
	"github.com/vilokanam/tickmeter/pkg/storage/dynamodb/mocks"
)

func TestCreateWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("PutItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.PutItemOutput{}, nil)

		w := &models.Withdrawal{IdempotencyKey: "key-1", CreatorAccount: "creator1", Amount: 60}
		err := store.CreateWithdrawal(context.Background(), w)

		assert.NoError(t, err)
		assert.Equal(t, models.WithdrawalPending, w.Status)
		assert.False(t, w.CreatedAt.IsZero())
		mockClient.AssertExpectations(t)
	})

	t.Run("Key Taken", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		err := store.CreateWithdrawal(context.Background(), &models.Withdrawal{IdempotencyKey: "key-1", CreatorAccount: "creator1", Amount: 60})

		assert.ErrorIs(t, err, storage.ErrWithdrawalExists)
		mockClient.AssertExpectations(t)
	})
}

func TestGetWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		w := models.Withdrawal{IdempotencyKey: "key-1", CreatorAccount: "creator1", Amount: 60, Status: models.WithdrawalCompleted, LedgerTxRef: "tx-1"}
		wAV, _ := attributevalue.MarshalMap(w)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: wAV}, nil)

		got, err := store.GetWithdrawal(context.Background(), "key-1")

		assert.NoError(t, err)
		assert.Equal(t, models.WithdrawalCompleted, got.Status)
		assert.Equal(t, "tx-1", got.LedgerTxRef)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := store.GetWithdrawal(context.Background(), "key-missing")

		assert.ErrorIs(t, err, storage.ErrWithdrawalNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestCompleteWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		completed := models.Withdrawal{IdempotencyKey: "key-1", CreatorAccount: "creator1", Amount: 60, Status: models.WithdrawalCompleted, LedgerTxRef: "tx-1"}
		completedAV, _ := attributevalue.MarshalMap(completed)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(&dynamodb.UpdateItemOutput{Attributes: completedAV}, nil)

		got, err := store.CompleteWithdrawal(context.Background(), "key-1", "tx-1")

		assert.NoError(t, err)
		assert.Equal(t, models.WithdrawalCompleted, got.Status)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Pending", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := store.CompleteWithdrawal(context.Background(), "key-1", "tx-1")

		assert.ErrorIs(t, err, storage.ErrWithdrawalNotPending)
		mockClient.AssertExpectations(t)
	})

	t.Run("UpdateItem Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("update failed"))

		_, err := store.CompleteWithdrawal(context.Background(), "key-1", "tx-1")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrWithdrawalNotPending)
		mockClient.AssertExpectations(t)
	})
}

func TestSumWithdrawnByCreator(t *testing.T) {
	t.Run("Excludes Failed Rows", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "journal", "withdrawals", "sessions", "streams", "connections")

		// The filter expression drops failed rows server-side; the store just
		// sums what comes back.
		items := make([]map[string]types.AttributeValue, 2)
		for i, amount := range []int64{60, 25} {
			item, _ := attributevalue.MarshalMap(map[string]int64{"amount": amount})
			items[i] = item
		}
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{Items: items}, nil)

		total, err := store.SumWithdrawnByCreator(context.Background(), "creator1")

		assert.NoError(t, err)
		assert.Equal(t, int64(85), total)
		mockClient.AssertExpectations(t)
	})
}
