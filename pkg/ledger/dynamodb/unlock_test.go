package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/ledger/dynamodb/mocks"
)

func TestUnlock(t *testing.T) {
	res := reservationRecord{ReservationId: "res-1", AccountId: "viewer1", Remaining: 3590, State: reservationLocked}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		resAV, _ := attributevalue.MarshalMap(res)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: resAV}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.Unlock(context.Background(), "res-1", 3590)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Released", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		released := res
		released.State = reservationReleased
		released.Remaining = 0
		releasedAV, _ := attributevalue.MarshalMap(released)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: releasedAV}, nil)

		err := store.Unlock(context.Background(), "res-1", 0)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Reservation Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		err := store.Unlock(context.Background(), "res-gone", 0)

		assert.ErrorIs(t, err, ledger.ErrReservationNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Concurrent Release Wins", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		resAV, _ := attributevalue.MarshalMap(res)
		released := res
		released.State = reservationReleased
		released.Remaining = 0
		releasedAV, _ := attributevalue.MarshalMap(released)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: resAV}, nil)
		cancellationReasons := []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
		}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, &types.TransactionCanceledException{CancellationReasons: cancellationReasons})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: releasedAV}, nil)

		err := store.Unlock(context.Background(), "res-1", 3590)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Changed During Unlock", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		resAV, _ := attributevalue.MarshalMap(res)
		drained := res
		drained.Remaining = 3589
		drainedAV, _ := attributevalue.MarshalMap(drained)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: resAV}, nil)
		cancellationReasons := []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
		}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, &types.TransactionCanceledException{CancellationReasons: cancellationReasons})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: drainedAV}, nil)

		err := store.Unlock(context.Background(), "res-1", 3590)

		assert.Error(t, err)
		assert.True(t, ledger.IsTransient(err))
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		resAV, _ := attributevalue.MarshalMap(res)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: resAV}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("transaction failed"))

		err := store.Unlock(context.Background(), "res-1", 3590)

		assert.Error(t, err)
		assert.True(t, ledger.IsTransient(err))
		mockClient.AssertExpectations(t)
	})
}
