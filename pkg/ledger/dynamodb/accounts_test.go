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
	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/ledger/dynamodb/mocks"
)

func TestCreateAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		mockClient.On("PutItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.PutItemOutput{}, nil)

		acct, err := store.CreateAccount(context.Background(), "viewer1", 5000)

		assert.NoError(t, err)
		assert.Equal(t, "viewer1", acct.AccountId)
		assert.Equal(t, int64(5000), acct.Balance)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Exists", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := store.CreateAccount(context.Background(), "viewer1", 5000)

		assert.ErrorIs(t, err, ledger.ErrAccountExists)
		mockClient.AssertExpectations(t)
	})

	t.Run("PutItem Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("put failed"))

		_, err := store.CreateAccount(context.Background(), "viewer1", 5000)

		assert.Error(t, err)
		assert.True(t, ledger.IsTransient(err))
		mockClient.AssertExpectations(t)
	})
}

func TestGetAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		record := accountRecord{AccountId: "viewer1", Balance: 4400, Reserved: 600, Version: 9}
		recordAV, _ := attributevalue.MarshalMap(record)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: recordAV}, nil)

		acct, err := store.GetAccount(context.Background(), "viewer1")

		assert.NoError(t, err)
		assert.Equal(t, int64(4400), acct.Balance)
		assert.Equal(t, int64(600), acct.Reserved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := store.GetAccount(context.Background(), "ghost")

		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestCredit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		updated := accountRecord{AccountId: "viewer1", Balance: 6000, Reserved: 0, Version: 2}
		updatedAV, _ := attributevalue.MarshalMap(updated)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(&dynamodb.UpdateItemOutput{Attributes: updatedAV}, nil)

		acct, err := store.Credit(context.Background(), "viewer1", 1000)

		assert.NoError(t, err)
		assert.Equal(t, int64(6000), acct.Balance)
		mockClient.AssertExpectations(t)
	})

	t.Run("UpdateItem Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "accounts", "reservations", "payouts")

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("update failed"))

		_, err := store.Credit(context.Background(), "viewer1", 1000)

		assert.Error(t, err)
		assert.True(t, ledger.IsTransient(err))
		mockClient.AssertExpectations(t)
	})
}
