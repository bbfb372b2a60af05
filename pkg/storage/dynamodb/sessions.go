package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

const stuckSessionGSI = "state-updated_at-index"

// PutSession upserts a session snapshot. The engine calls it on every state
// transition; the last write for a terminal state is the permanent record.
func (s *Store) PutSession(ctx context.Context, session *models.Session) error {
	sessionAV, err := attributevalue.MarshalMap(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.SessionsTableName),
		Item:      sessionAV,
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to put session in DynamoDB: %w", err)
	}

	return nil
}

// GetSession retrieves a session snapshot by its id.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.SessionsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get session from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}

	var session models.Session
	if err := attributevalue.UnmarshalMap(result.Item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// GetStuckSessions retrieves sessions that have sat in the given state for
// longer than maxAge.
func (s *Store) GetStuckSessions(ctx context.Context, state models.SessionState, maxAge time.Duration) ([]models.Session, error) {
	// Calculate the cutoff time.
	cutoffTime := time.Now().Add(-maxAge)
	cutoffTimeStr, err := cutoffTime.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	// Prepare the query input.
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.SessionsTableName),
		IndexName:              aws.String(stuckSessionGSI),
		KeyConditionExpression: aws.String("#state = :state"),
		FilterExpression:       aws.String("updated_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#state": "state",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":state":  &types.AttributeValueMemberS{Value: string(state)},
			":cutoff": &types.AttributeValueMemberS{Value: string(cutoffTimeStr)},
		},
	}

	// Execute the query.
	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stuck sessions: %w", err)
	}

	// Unmarshal the results.
	var sessions []models.Session
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stuck sessions: %w", err)
	}

	return sessions, nil
}
