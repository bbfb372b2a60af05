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
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

const withdrawalCreatorGSI = "creator_account-index"

// CreateWithdrawal records a new pending withdrawal under its idempotency key.
func (s *Store) CreateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error {
	now := time.Now()
	withdrawal.Status = models.WithdrawalPending
	withdrawal.CreatedAt = now
	withdrawal.UpdatedAt = now

	withdrawalAV, err := attributevalue.MarshalMap(withdrawal)
	if err != nil {
		return fmt.Errorf("failed to marshal withdrawal: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.WithdrawalsTableName),
		Item:                withdrawalAV,
		ConditionExpression: aws.String("attribute_not_exists(idempotency_key)"), // One withdrawal per key, ever.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("%w: key %s", storage.ErrWithdrawalExists, withdrawal.IdempotencyKey)
		}
		return fmt.Errorf("failed to create withdrawal in DynamoDB: %w", err)
	}

	return nil
}

// GetWithdrawal retrieves a withdrawal by its idempotency key.
func (s *Store) GetWithdrawal(ctx context.Context, idempotencyKey string) (*models.Withdrawal, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"idempotency_key": idempotencyKey})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal idempotency key: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.WithdrawalsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: key %s", storage.ErrWithdrawalNotFound, idempotencyKey)
	}

	var withdrawal models.Withdrawal
	if err := attributevalue.UnmarshalMap(result.Item, &withdrawal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal: %w", err)
	}

	return &withdrawal, nil
}

// CompleteWithdrawal marks a pending withdrawal completed and attaches the
// ledger transfer reference.
func (s *Store) CompleteWithdrawal(ctx context.Context, idempotencyKey string, ledgerTxRef string) (*models.Withdrawal, error) {
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.WithdrawalsTableName),
		Key: map[string]types.AttributeValue{
			"idempotency_key": &types.AttributeValueMemberS{Value: idempotencyKey},
		},
		UpdateExpression:    aws.String("SET #status = :completed, ledger_tx_ref = :txRef, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":completed": &types.AttributeValueMemberS{Value: string(models.WithdrawalCompleted)},
			":pending":   &types.AttributeValueMemberS{Value: string(models.WithdrawalPending)},
			":txRef":     &types.AttributeValueMemberS{Value: ledgerTxRef},
			":now":       nowAV,
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("%w: key %s", storage.ErrWithdrawalNotPending, idempotencyKey)
		}
		return nil, fmt.Errorf("failed to complete withdrawal in DynamoDB: %w", err)
	}

	var withdrawal models.Withdrawal
	if err := attributevalue.UnmarshalMap(result.Attributes, &withdrawal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal completed withdrawal: %w", err)
	}

	return &withdrawal, nil
}

// FailWithdrawal marks a pending withdrawal failed, releasing its hold on the
// creator's settled funds.
func (s *Store) FailWithdrawal(ctx context.Context, idempotencyKey string) error {
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.WithdrawalsTableName),
		Key: map[string]types.AttributeValue{
			"idempotency_key": &types.AttributeValueMemberS{Value: idempotencyKey},
		},
		UpdateExpression:    aws.String("SET #status = :failed, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed":  &types.AttributeValueMemberS{Value: string(models.WithdrawalFailed)},
			":pending": &types.AttributeValueMemberS{Value: string(models.WithdrawalPending)},
			":now":     nowAV,
		},
	}

	_, err = s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("%w: key %s", storage.ErrWithdrawalNotPending, idempotencyKey)
		}
		return fmt.Errorf("failed to fail withdrawal in DynamoDB: %w", err)
	}

	return nil
}

// SumWithdrawnByCreator returns the total amount held by a creator's pending
// and completed withdrawals.
func (s *Store) SumWithdrawnByCreator(ctx context.Context, creatorAccount string) (int64, error) {
	var total int64
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(s.WithdrawalsTableName),
			IndexName:              aws.String(withdrawalCreatorGSI),
			KeyConditionExpression: aws.String("creator_account = :creator"),
			FilterExpression:       aws.String("#status <> :failed"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":creator": &types.AttributeValueMemberS{Value: creatorAccount},
				":failed":  &types.AttributeValueMemberS{Value: string(models.WithdrawalFailed)},
			},
			ProjectionExpression: aws.String("amount"),
			ExclusiveStartKey:    startKey,
		}

		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("failed to query withdrawals for creator: %w", err)
		}

		var page []struct {
			Amount int64 `dynamodbav:"amount"`
		}
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return 0, fmt.Errorf("failed to unmarshal withdrawal amounts: %w", err)
		}
		for _, item := range page {
			total += item.Amount
		}

		if result.LastEvaluatedKey == nil {
			return total, nil
		}
		startKey = result.LastEvaluatedKey
	}
}
