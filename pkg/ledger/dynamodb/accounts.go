package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/vilokanam/tickmeter/pkg/ledger"
)

var _ ledger.Accounts = (*Store)(nil)

// CreateAccount creates a new account record with an opening balance.
func (s *Store) CreateAccount(ctx context.Context, account string, balance int64) (*ledger.Account, error) {
	record := accountRecord{
		AccountId: account,
		Balance:   balance,
		Reserved:  0,
		Version:   1,
	}

	recordAV, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, ledger.Permanent(fmt.Errorf("failed to marshal account: %w", err))
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.AccountsTableName),
		Item:                recordAV,
		ConditionExpression: aws.String("attribute_not_exists(account_id)"), // Prevent overwriting existing accounts.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, ledger.Permanent(fmt.Errorf("%w: %s", ledger.ErrAccountExists, account))
		}
		return nil, ledger.Transient(fmt.Errorf("failed to create account in DynamoDB: %w", err))
	}

	return &ledger.Account{AccountId: account, Balance: balance}, nil
}

// GetAccount retrieves an account's balances by its id.
func (s *Store) GetAccount(ctx context.Context, account string) (*ledger.Account, error) {
	acct, err := s.getAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return &ledger.Account{AccountId: acct.AccountId, Balance: acct.Balance, Reserved: acct.Reserved}, nil
}

// Credit adds amount to an account's spendable balance, creating the account
// record when this is its first credit.
func (s *Store) Credit(ctx context.Context, account string, amount int64) (*ledger.Account, error) {
	amountAV, err := attributevalue.Marshal(amount)
	if err != nil {
		return nil, ledger.Permanent(fmt.Errorf("failed to marshal amount: %w", err))
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key: map[string]types.AttributeValue{
			"account_id": &types.AttributeValueMemberS{Value: account},
		},
		UpdateExpression: aws.String("SET balance = if_not_exists(balance, :zero) + :amount, reserved = if_not_exists(reserved, :zero), version = if_not_exists(version, :zero) + :inc"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amount": amountAV,
			":zero":   &types.AttributeValueMemberN{Value: "0"},
			":inc":    &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		return nil, ledger.Transient(fmt.Errorf("failed to credit account in DynamoDB: %w", err))
	}

	var acct accountRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &acct); err != nil {
		return nil, ledger.Permanent(fmt.Errorf("failed to unmarshal credited account: %w", err))
	}

	return &ledger.Account{AccountId: acct.AccountId, Balance: acct.Balance, Reserved: acct.Reserved}, nil
}
