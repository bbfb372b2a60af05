package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/vilokanam/tickmeter/pkg/ledger"
)

// Withdraw debits amount from an account's spendable balance at most once per
// idempotency key. A repeat call with a key that already paid out returns the
// original transfer reference without moving funds again.
func (s *Store) Withdraw(ctx context.Context, account string, amount int64, idempotencyKey string) (ledger.TxRef, error) {
	// 1. A key that already paid out short-circuits to the original receipt.
	if prior, err := s.getPayout(ctx, idempotencyKey); err != nil {
		return "", err
	} else if prior != nil {
		return ledger.TxRef(prior.TxRef), nil
	}

	txRef := ledger.TxRef(uuid.New().String())
	payout := payoutRecord{
		IdempotencyKey: idempotencyKey,
		AccountId:      account,
		Amount:         amount,
		TxRef:          string(txRef),
		CreatedAt:      time.Now(),
	}

	slog.Log(ctx, slog.LevelDebug, "withdrawing funds", "account", account, "amount", amount, "idempotency_key", idempotencyKey)

	payoutAV, err := attributevalue.MarshalMap(payout)
	if err != nil {
		return "", ledger.Permanent(fmt.Errorf("failed to marshal payout: %w", err))
	}
	amountAV, err := attributevalue.Marshal(amount)
	if err != nil {
		return "", ledger.Permanent(fmt.Errorf("failed to marshal amount: %w", err))
	}

	// 2. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Claim the idempotency key.
				Put: &types.Put{
					TableName:           aws.String(s.PayoutsTableName),
					Item:                payoutAV,
					ConditionExpression: aws.String("attribute_not_exists(idempotency_key)"),
				},
			},
			{
				// Operation 2: Debit the account.
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: account},
					},
					UpdateExpression:    aws.String("SET balance = balance - :amount, version = version + :inc"),
					ConditionExpression: aws.String("attribute_exists(account_id) AND balance >= :amount"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amountAV,
						":inc":    &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		},
	}

	// 3. Execute the transaction.
	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			// Check the idempotency key claim first: if another caller already
			// paid this key out, the right answer is their receipt, whatever
			// the balance looks like now.
			if len(tce.CancellationReasons) > 0 && aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
				prior, gerr := s.getPayout(ctx, idempotencyKey)
				if gerr != nil {
					return "", gerr
				}
				if prior != nil {
					return ledger.TxRef(prior.TxRef), nil
				}
				return "", ledger.Permanent(fmt.Errorf("payout record for key %s vanished", idempotencyKey))
			}
			if len(tce.CancellationReasons) > 1 && aws.ToString(tce.CancellationReasons[1].Code) == "ConditionalCheckFailed" {
				return "", ledger.ErrInsufficientBalance
			}
			return "", ledger.Permanent(fmt.Errorf("withdraw transaction canceled: %w", err))
		}
		return "", ledger.Transient(fmt.Errorf("failed to execute withdraw transaction: %w", err))
	}

	return txRef, nil
}

// getPayout retrieves a payout record by idempotency key, or nil when the key
// has never been used.
func (s *Store) getPayout(ctx context.Context, idempotencyKey string) (*payoutRecord, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"idempotency_key": idempotencyKey})
	if err != nil {
		return nil, ledger.Permanent(fmt.Errorf("failed to marshal idempotency key: %w", err))
	}

	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.PayoutsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, ledger.Transient(fmt.Errorf("failed to get payout from DynamoDB: %w", err))
	}

	if result.Item == nil {
		return nil, nil
	}

	var payout payoutRecord
	if err := attributevalue.UnmarshalMap(result.Item, &payout); err != nil {
		return nil, ledger.Permanent(fmt.Errorf("failed to unmarshal payout: %w", err))
	}

	return &payout, nil
}
