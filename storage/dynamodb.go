/*
# Module: storage/dynamodb.go
DynamoDB profile repository keyed by user id.

## Linked Modules
- [storage/repository](./repository.go) - Repository interface
- [types/profile](../types/profile.go) - Location profile

## Tags
storage, dynamodb, persistence, repository

## Exports
DynamoDBAPI, DynamoDBProfileRepository, NewDynamoDBProfileRepository

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/dynamodb.go" ;
    code:description "DynamoDB profile repository keyed by user id" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Repository interface"
    ], [
        code:name "types/profile" ;
        code:path "../types/profile.go" ;
        code:relationship "Location profile"
    ] ;
    code:exports :DynamoDBAPI, :DynamoDBProfileRepository, :NewDynamoDBProfileRepository ;
    code:tags "storage", "dynamodb", "persistence", "repository" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/types"
)

// DynamoDBAPI is the part of *dynamodb.Client the repository uses
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoDBProfileRepository implements ProfileRepository using DynamoDB
type DynamoDBProfileRepository struct {
	client    DynamoDBAPI
	tableName string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewDynamoDBProfileRepository creates a new DynamoDB profile repository
func NewDynamoDBProfileRepository(client DynamoDBAPI, tableName string, timeout time.Duration, logger *zap.Logger) *DynamoDBProfileRepository {
	if tableName == "" {
		tableName = DefaultTableName
	}
	return &DynamoDBProfileRepository{
		client:    client,
		tableName: tableName,
		timeout:   timeout,
		logger:    logger,
	}
}

// profileItem is the stored shape. Older items hold coordinates as strings
// and may carry a NULL timezone.
type profileItem struct {
	UserID     string     `dynamodbav:"user_id"`
	PlaceName  string     `dynamodbav:"user_city"`
	TimezoneID string     `dynamodbav:"user_tz"`
	Latitude   coordinate `dynamodbav:"lat"`
	Longitude  coordinate `dynamodbav:"lon"`
}

type coordinate struct {
	value float64
	set   bool
}

// UnmarshalDynamoDBAttributeValue accepts numbers and numeric strings
func (c *coordinate) UnmarshalDynamoDBAttributeValue(av dynamodbtypes.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *dynamodbtypes.AttributeValueMemberN:
		raw = v.Value
	case *dynamodbtypes.AttributeValueMemberS:
		raw = v.Value
	case *dynamodbtypes.AttributeValueMemberNULL:
		return nil
	default:
		return fmt.Errorf("unsupported coordinate attribute %T", av)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %q: %w", raw, err)
	}
	c.value, c.set = f, true
	return nil
}

// Load retrieves a profile by user id
func (r *DynamoDBProfileRepository) Load(ctx context.Context, userID string) (*types.LocationProfile, error) {
	if r.client == nil {
		return nil, unavailable("load profile", fmt.Errorf("DynamoDB client not initialized"))
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]dynamodbtypes.AttributeValue{
			"user_id": &dynamodbtypes.AttributeValueMemberS{Value: userID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, unavailable("get profile", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrProfileNotFound, userID)
	}

	var item profileItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, unavailable("unmarshal profile", err)
	}

	profile := types.LocationProfile{
		UserID:     userID,
		PlaceName:  item.PlaceName,
		Latitude:   item.Latitude.value,
		Longitude:  item.Longitude.value,
		TimezoneID: item.TimezoneID,
	}
	if !item.Latitude.set || !item.Longitude.set || !profile.IsResolved() {
		r.logger.Warn("⚠️  Ignoring incomplete stored profile",
			zap.String("user_id", userID),
			zap.String("user_city", item.PlaceName))
		return nil, fmt.Errorf("%w: stored record for %s is incomplete", types.ErrProfileNotFound, userID)
	}

	return &profile, nil
}

// Save upserts the mutable profile fields; the item is created when absent
func (r *DynamoDBProfileRepository) Save(ctx context.Context, profile types.LocationProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if r.client == nil {
		return unavailable("save profile", fmt.Errorf("DynamoDB client not initialized"))
	}

	values := map[string]interface{}{
		":c": profile.PlaceName,
		":t": profile.TimezoneID,
		":a": profile.Latitude,
		":o": profile.Longitude,
	}
	exprValues := make(map[string]dynamodbtypes.AttributeValue, len(values))
	for k, v := range values {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", k, err)
		}
		exprValues[k] = av
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]dynamodbtypes.AttributeValue{
			"user_id": &dynamodbtypes.AttributeValueMemberS{Value: profile.UserID},
		},
		UpdateExpression: aws.String("SET #c = :c, #t = :t, #a = :a, #o = :o"),
		ExpressionAttributeNames: map[string]string{
			"#c": "user_city",
			"#t": "user_tz",
			"#a": "lat",
			"#o": "lon",
		},
		ExpressionAttributeValues: exprValues,
		ReturnValues:              dynamodbtypes.ReturnValueUpdatedNew,
	})
	if err != nil {
		return unavailable("update profile", err)
	}

	r.logger.Info("💾 Profile saved to DynamoDB",
		zap.String("user_id", profile.UserID),
		zap.String("user_city", profile.PlaceName))
	return nil
}
