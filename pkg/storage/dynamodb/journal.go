package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/vilokanam/tickmeter/pkg/models"
)

const (
	recentRecordsGSI  = "gsi1pk-settled_at-index"
	creatorAccountGSI = "creator_account-index"
)

// ListSessionRecords retrieves all settlement records for a session in
// sequence order.
func (s *Store) ListSessionRecords(ctx context.Context, sessionID string) ([]models.SettlementRecord, error) {
	var records []models.SettlementRecord
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(s.JournalTableName),
			KeyConditionExpression: aws.String("session_id = :sessionID"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":sessionID": &types.AttributeValueMemberS{Value: sessionID},
			},
			ExclusiveStartKey: startKey,
		}

		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query session records: %w", err)
		}

		var page []models.SettlementRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session records: %w", err)
		}
		records = append(records, page...)

		if result.LastEvaluatedKey == nil {
			return records, nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// ListRecentRecords retrieves the most recent settlement records across all
// sessions, newest first.
func (s *Store) ListRecentRecords(ctx context.Context, limit int32) ([]models.SettlementRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.JournalTableName),
		IndexName:              aws.String(recentRecordsGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: settlementsGSI1PK},
		},
		ScanIndexForward: aws.Bool(false), // Sort by settlement time in descending order
		Limit:            &limit,
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent settlement records: %w", err)
	}

	var records []models.SettlementRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settlement records: %w", err)
	}

	return records, nil
}

// SumSettledByCreator returns the total amount ever settled to a creator,
// paging through the creator's index partition. The journal is append-only, so
// the sum can only grow between calls.
func (s *Store) SumSettledByCreator(ctx context.Context, creatorAccount string) (int64, error) {
	var total int64
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(s.JournalTableName),
			IndexName:              aws.String(creatorAccountGSI),
			KeyConditionExpression: aws.String("creator_account = :creator"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":creator": &types.AttributeValueMemberS{Value: creatorAccount},
			},
			ProjectionExpression: aws.String("amount"),
			ExclusiveStartKey:    startKey,
		}

		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("failed to query settled records for creator: %w", err)
		}

		var page []struct {
			Amount int64 `dynamodbav:"amount"`
		}
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return 0, fmt.Errorf("failed to unmarshal settled amounts: %w", err)
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
