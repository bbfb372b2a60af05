package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// settlementsGSI1PK is the constant partition key that collects every record
// into one index partition, sorted by settlement time, for recent listings.
const settlementsGSI1PK = "SETTLEMENTS"

// AppendRecord appends a confirmed settlement to the journal. The journal is
// keyed (session_id, sequence); the conditional put turns a replayed or forked
// sequence number into ErrDuplicateRecord instead of a silent overwrite.
func (s *Store) AppendRecord(ctx context.Context, record *models.SettlementRecord) error {
	record.GSI1PK = settlementsGSI1PK

	recordAV, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.JournalTableName),
		Item:                recordAV,
		ConditionExpression: aws.String("attribute_not_exists(session_id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("%w: session %s sequence %d", storage.ErrDuplicateRecord, record.SessionId, record.Sequence)
		}
		return fmt.Errorf("failed to append settlement record: %w", err)
	}

	return nil
}
