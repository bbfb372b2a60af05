package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/vilokanam/tickmeter/pkg/ledger"
)

// Debit atomically moves amount out of a reservation and credits it to the
// destination account. The reservation's remaining balance and the payer's
// reserved balance shrink together; the credit upserts the destination so a
// first-time payee does not need a pre-created account row.
func (s *Store) Debit(ctx context.Context, ref ledger.ReservationRef, amount int64, toAccount string) (ledger.TxRef, error) {
	// 1. Resolve the reservation to find the paying account.
	res, err := s.getReservation(ctx, ref)
	if err != nil {
		return "", err
	}
	if res.State != reservationLocked {
		return "", ledger.Permanent(fmt.Errorf("%w: %s is %s", ledger.ErrReservationNotFound, ref, res.State))
	}

	now := time.Now()
	txRef := ledger.TxRef(uuid.New().String())

	amountAV, err := attributevalue.Marshal(amount)
	if err != nil {
		return "", ledger.Permanent(fmt.Errorf("failed to marshal amount: %w", err))
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return "", ledger.Permanent(fmt.Errorf("failed to marshal timestamp: %w", err))
	}

	// 2. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Draw the amount down from the reservation.
				Update: &types.Update{
					TableName: aws.String(s.ReservationsTableName),
					Key: map[string]types.AttributeValue{
						"reservation_id": &types.AttributeValueMemberS{Value: string(ref)},
					},
					UpdateExpression:    aws.String("SET remaining = remaining - :amount, updated_at = :now"),
					ConditionExpression: aws.String("remaining >= :amount AND #state = :locked"),
					ExpressionAttributeNames: map[string]string{
						"#state": "state",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amountAV,
						":now":    nowAV,
						":locked": &types.AttributeValueMemberS{Value: reservationLocked},
					},
				},
			},
			{
				// Operation 2: Release the amount from the payer's reserved balance.
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: res.AccountId},
					},
					UpdateExpression:    aws.String("SET reserved = reserved - :amount, version = version + :inc"),
					ConditionExpression: aws.String("reserved >= :amount"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amountAV,
						":inc":    &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			{
				// Operation 3: Credit the destination account, creating it on first use.
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: toAccount},
					},
					UpdateExpression: aws.String("SET balance = if_not_exists(balance, :zero) + :amount, reserved = if_not_exists(reserved, :zero), version = if_not_exists(version, :zero) + :inc"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amountAV,
						":zero":   &types.AttributeValueMemberN{Value: "0"},
						":inc":    &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		},
		// Make SDK-internal retries of the same call idempotent.
		ClientRequestToken: aws.String(string(txRef)),
	}

	// 3. Execute the transaction.
	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			// A failed condition on the reservation draw-down means the funds are
			// no longer there to move; retrying cannot help.
			if len(tce.CancellationReasons) > 0 && aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
				return "", ledger.Permanent(fmt.Errorf("%w: reservation %s cannot cover %d", ledger.ErrInsufficientBalance, ref, amount))
			}
			return "", ledger.Permanent(fmt.Errorf("debit transaction canceled: %w", err))
		}
		return "", ledger.Transient(fmt.Errorf("failed to execute debit transaction: %w", err))
	}

	return txRef, nil
}

// getReservation retrieves a reservation record by its reference.
func (s *Store) getReservation(ctx context.Context, ref ledger.ReservationRef) (*reservationRecord, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"reservation_id": string(ref)})
	if err != nil {
		return nil, ledger.Permanent(fmt.Errorf("failed to marshal reservation id: %w", err))
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.ReservationsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, ledger.Transient(fmt.Errorf("failed to get reservation from DynamoDB: %w", err))
	}

	if result.Item == nil {
		return nil, ledger.Permanent(fmt.Errorf("%w: %s", ledger.ErrReservationNotFound, ref))
	}

	var res reservationRecord
	if err := attributevalue.UnmarshalMap(result.Item, &res); err != nil {
		return nil, ledger.Permanent(fmt.Errorf("failed to unmarshal reservation: %w", err))
	}

	return &res, nil
}
