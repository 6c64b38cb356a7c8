package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/adgate/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// AdSessionRepo provides typed DynamoDB operations for the ad_sessions table.
type AdSessionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAdSessionRepo(client *dynamodb.Client, tableName string) *AdSessionRepo {
	return &AdSessionRepo{client: client, tableName: tableName}
}

func (r *AdSessionRepo) Put(ctx context.Context, s *domain.AdSession) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal ad session: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AdSessionRepo) Get(ctx context.Context, sessionID string) (*domain.AdSession, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("session_id", sessionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("ad session not found: %w", domain.ErrNotFound)
	}
	var s domain.AdSession
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkUsed flips used=false→true with a conditional update. Returns false
// when the session is absent or was already consumed; the condition makes
// concurrent consumption attempts on the same key serialize, so at most one
// caller ever sees true.
func (r *AdSessionRepo) MarkUsed(ctx context.Context, sessionID string) (bool, error) {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("session_id", sessionID),
		UpdateExpression:    aws.String("SET #u = :t"),
		ConditionExpression: aws.String("attribute_exists(session_id) AND #u = :f"),
		ExpressionAttributeNames: map[string]string{
			"#u": fieldUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *AdSessionRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("session_id", sessionID),
	})
	return err
}
