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
	"github.com/vilokanam/tickmeter/pkg/ledger"
)

// Unlock releases a reservation, returning whatever the ledger still holds
// under it to the owning account's spendable balance. The reservation row's
// remaining value is authoritative; the caller's figure is ignored so a crash
// between a debit and its bookkeeping cannot strand or double-return funds.
// Unlocking an already released reservation is a no-op.
func (s *Store) Unlock(ctx context.Context, ref ledger.ReservationRef, _ int64) error {
	// 1. Resolve the reservation for its remaining balance.
	res, err := s.getReservation(ctx, ref)
	if err != nil {
		return err
	}
	if res.State == reservationReleased {
		return nil
	}

	remainingAV, err := attributevalue.Marshal(res.Remaining)
	if err != nil {
		return ledger.Permanent(fmt.Errorf("failed to marshal remaining balance: %w", err))
	}
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return ledger.Permanent(fmt.Errorf("failed to marshal timestamp: %w", err))
	}

	// 2. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Mark the reservation released, guarding against a
				// concurrent releaser or a debit we did not observe.
				Update: &types.Update{
					TableName: aws.String(s.ReservationsTableName),
					Key: map[string]types.AttributeValue{
						"reservation_id": &types.AttributeValueMemberS{Value: string(ref)},
					},
					UpdateExpression:    aws.String("SET #state = :released, remaining = :zero, updated_at = :now"),
					ConditionExpression: aws.String("#state = :locked AND remaining = :remaining"),
					ExpressionAttributeNames: map[string]string{
						"#state": "state",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":released":  &types.AttributeValueMemberS{Value: reservationReleased},
						":locked":    &types.AttributeValueMemberS{Value: reservationLocked},
						":remaining": remainingAV,
						":zero":      &types.AttributeValueMemberN{Value: "0"},
						":now":       nowAV,
					},
				},
			},
			{
				// Operation 2: Return the remainder to the account.
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: res.AccountId},
					},
					UpdateExpression:    aws.String("SET balance = balance + :remaining, reserved = reserved - :remaining, version = version + :inc"),
					ConditionExpression: aws.String("reserved >= :remaining"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":remaining": remainingAV,
						":inc":       &types.AttributeValueMemberN{Value: "1"},
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
			if len(tce.CancellationReasons) > 0 && aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
				// The reservation moved under us: either released by a concurrent
				// caller (done) or drawn down by a straggling debit. Re-resolve
				// and retry from the fresh remainder.
				current, gerr := s.getReservation(ctx, ref)
				if gerr != nil {
					return gerr
				}
				if current.State == reservationReleased {
					return nil
				}
				return ledger.Transient(fmt.Errorf("reservation %s changed during unlock", ref))
			}
			return ledger.Permanent(fmt.Errorf("unlock transaction canceled: %w", err))
		}
		return ledger.Transient(fmt.Errorf("failed to execute unlock transaction: %w", err))
	}

	return nil
}
