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

// CreateStream registers a new stream in the directory.
func (s *Store) CreateStream(ctx context.Context, stream *models.Stream) (*models.Stream, error) {
	stream.CreatedAt = time.Now()

	streamAV, err := attributevalue.MarshalMap(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stream: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.StreamsTableName),
		Item:                streamAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"), // Prevent overwriting existing streams.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("%w: %s", storage.ErrStreamExists, stream.Id)
		}
		return nil, fmt.Errorf("failed to create stream in DynamoDB: %w", err)
	}

	return stream, nil
}

// GetStream retrieves a stream by its id.
func (s *Store) GetStream(ctx context.Context, streamID string) (*models.Stream, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": streamID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stream ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.StreamsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrStreamNotFound, streamID)
	}

	var stream models.Stream
	if err := attributevalue.UnmarshalMap(result.Item, &stream); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stream: %w", err)
	}

	return &stream, nil
}

// SetStreamLive flips a stream's live flag.
func (s *Store) SetStreamLive(ctx context.Context, streamID string, live bool) (*models.Stream, error) {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.StreamsTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: streamID},
		},
		UpdateExpression:    aws.String("SET live = :live"),
		ConditionExpression: aws.String("attribute_exists(id)"), // Ensure the stream exists.
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":live": &types.AttributeValueMemberBOOL{Value: live},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("%w: %s", storage.ErrStreamNotFound, streamID)
		}
		return nil, fmt.Errorf("failed to update stream in DynamoDB: %w", err)
	}

	var stream models.Stream
	if err := attributevalue.UnmarshalMap(result.Attributes, &stream); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated stream: %w", err)
	}

	return &stream, nil
}

// ListStreams retrieves all registered streams.
func (s *Store) ListStreams(ctx context.Context) ([]models.Stream, error) {
	// Prepare the Scan input.
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.StreamsTableName),
	}

	// Execute the Scan operation.
	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan streams table: %w", err)
	}

	// Unmarshal the results.
	var streams []models.Stream
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &streams); err != nil {
		return nil, fmt.Errorf("failed to unmarshal streams: %w", err)
	}

	return streams, nil
}
