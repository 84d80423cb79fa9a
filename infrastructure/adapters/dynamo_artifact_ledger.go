package adapters

import (
	"context"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/config"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

// Ledger entries expire on their own; the periodic garbage collector only
// needs to see artifacts younger than this.
const ledgerRetention = 30 * 24 * time.Hour

type dynamoArtifactItem struct {
	Ref        string `dynamodbav:"artifact_ref"`
	Stage      string `dynamodbav:"stage"`
	UploadedAt int64  `dynamodbav:"uploaded_at"`
	TTL        int64  `dynamodbav:"ttl"`
}

type dynamoArtifactLedger struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoArtifactLedger(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB,
	dynamoConfig *config.DynamoConfig) outbound.ArtifactLedgerPort {
	return &dynamoArtifactLedger{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (l *dynamoArtifactLedger) Record(ctx context.Context, record outbound.ArtifactRecord) error {
	item := dynamoArtifactItem{
		Ref:        record.Ref,
		Stage:      record.Stage,
		UploadedAt: record.UploadedAt.Unix(),
		TTL:        record.UploadedAt.Add(ledgerRetention).Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		l.logger.ErrorWithFields(err, "Failed to marshal artifact item", map[string]interface{}{
			"item": item,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(l.dynamoConfig.TableName),
	}

	_, err = l.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		l.logger.ErrorWithFields(err, "Failed to save artifact item", map[string]interface{}{
			"item": item,
		})
		return err
	}

	return nil
}
