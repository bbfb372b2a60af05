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

// Lock atomically moves amount from an account's spendable balance into its
// reserved balance and creates a reservation record holding the remainder.
func (s *Store) Lock(ctx context.Context, account string, amount int64) (ledger.ReservationRef, error) {
	// 1. Get the current state of the account for optimistic locking.
	acct, err := s.getAccount(ctx, account)
	if err != nil {
		return "", err
	}

	// 2. Build the reservation record.
	now := time.Now()
	ref := ledger.ReservationRef(uuid.New().String())
	res := reservationRecord{
		ReservationId: string(ref),
		AccountId:     account,
		Remaining:     amount,
		State:         reservationLocked,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	slog.Log(ctx, slog.LevelDebug, "locking funds", "account", account, "amount", amount, "reservation", ref)

	resAV, err := attributevalue.MarshalMap(res)
	if err != nil {
		return "", ledger.Permanent(fmt.Errorf("failed to marshal reservation: %w", err))
	}
	amountAV, err := attributevalue.Marshal(amount)
	if err != nil {
		return "", ledger.Permanent(fmt.Errorf("failed to marshal amount: %w", err))
	}

	// 3. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Move the amount from balance to reserved.
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: account},
					},
					UpdateExpression:    aws.String("SET balance = balance - :amount, reserved = reserved + :amount, version = version + :inc"),
					ConditionExpression: aws.String("balance >= :amount AND version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount":  amountAV,
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", acct.Version)},
						":inc":     &types.AttributeValueMemberN{Value: "1"},
					},
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
				},
			},
			{
				// Operation 2: Create the reservation record.
				Put: &types.Put{
					TableName:           aws.String(s.ReservationsTableName),
					Item:                resAV,
					ConditionExpression: aws.String("attribute_not_exists(reservation_id)"),
				},
			},
		},
	}

	// 4. Execute the transaction.
	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			// Check if the first operation (moving funds to reserved) failed its condition.
			if len(tce.CancellationReasons) > 0 && aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
				// The condition covers both the balance and the version. Use the
				// returned item to tell a genuine shortfall from version
				// contention, which is worth retrying.
				if old := tce.CancellationReasons[0].Item; old != nil {
					var prev accountRecord
					if uerr := attributevalue.UnmarshalMap(old, &prev); uerr == nil && prev.Balance >= amount {
						return "", ledger.Transient(fmt.Errorf("version conflict locking funds for account %s", account))
					}
				}
				return "", ledger.ErrInsufficientBalance
			}
			return "", ledger.Permanent(fmt.Errorf("lock transaction canceled: %w", err))
		}
		return "", ledger.Transient(fmt.Errorf("failed to execute lock transaction: %w", err))
	}

	return ref, nil
}

// getAccount retrieves an account record by its id.
func (s *Store) getAccount(ctx context.Context, account string) (*accountRecord, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"account_id": account})
	if err != nil {
		return nil, ledger.Permanent(fmt.Errorf("failed to marshal account id: %w", err))
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, ledger.Transient(fmt.Errorf("failed to get account from DynamoDB: %w", err))
	}

	if result.Item == nil {
		return nil, ledger.Permanent(fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, account))
	}

	var acct accountRecord
	if err := attributevalue.UnmarshalMap(result.Item, &acct); err != nil {
		return nil, ledger.Permanent(fmt.Errorf("failed to unmarshal account: %w", err))
	}

	return &acct, nil
}
