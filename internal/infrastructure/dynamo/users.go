package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adgate/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserRepo provides typed DynamoDB operations for the users table.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Get(ctx context.Context, userID int64) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       numKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetTier returns the account tier for a user. Unknown users are reported
// as ErrNotFound; callers decide whether that means "free".
func (r *UserRepo) GetTier(ctx context.Context, userID int64) (string, error) {
	u, err := r.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.Tier == "" {
		return domain.TierFree, nil
	}
	return u.Tier, nil
}

// AddDownloads atomically increments the user's bonus download counter.
// ADD creates the attribute (and the item) when absent, so first-contact
// users get credited without a prior Put.
func (r *UserRepo) AddDownloads(ctx context.Context, userID int64, n int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              numKey("user_id", userID),
		UpdateExpression: aws.String("SET #t = :ts ADD #d :n"),
		ExpressionAttributeNames: map[string]string{
			"#d": fieldAdDownloads,
			"#t": fieldUpdatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n":  &types.AttributeValueMemberN{Value: strconv.Itoa(n)},
			":ts": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	return err
}

// SetTier updates the account tier. Exposed to operators through the admin
// HTTP surface; UpdateItem creates the row for users who never earned credit.
func (r *UserRepo) SetTier(ctx context.Context, userID int64, tier string) error {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{
		fieldTier:      tier,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       numKey("user_id", userID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}
