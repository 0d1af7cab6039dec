/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/suparena/entityapi/datastore"
	"github.com/suparena/entityapi/dictionary"
	apperrors "github.com/suparena/entityapi/errors"
)

// Store implements datastore.DataStore[T] on a single DynamoDB table.
// All entity types share the table; each item carries a composite
// "<ENTITY>#<id>" partition and sort key plus an EntityType attribute
// that Query uses to select items of the bound type.
type Store[T any] struct {
	client    *sdk.Client
	tableName string
	binding   *dictionary.Binding
}

var _ datastore.DataStore[struct{}] = (*Store[struct{}])(nil)

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// New wraps an existing DynamoDB client in a store for the bound entity type.
func New[T any](client *sdk.Client, tableName string, binding *dictionary.Binding) *Store[T] {
	return &Store[T]{
		client:    client,
		tableName: tableName,
		binding:   binding,
	}
}

// keyFor builds the composite table key for a record identity.
func (s *Store[T]) keyFor(id string) map[string]types.AttributeValue {
	composite := compositeKey(s.binding.Name, id)
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: composite},
		"SK": &types.AttributeValueMemberS{Value: composite},
	}
}

func compositeKey(entityName, id string) string {
	return strings.ToUpper(entityName) + "#" + id
}

// GetOne retrieves a single record by identity.
func (s *Store[T]) GetOne(ctx context.Context, id string) (*T, error) {
	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &s.tableName,
		Key:       s.keyFor(id),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, apperrors.NewNotFoundError(s.binding.Name, id)
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// Put inserts or replaces a record. A record with an unset UUID identity
// gets one generated before the write and written back through the pointer.
func (s *Store[T]) Put(ctx context.Context, entity *T) error {
	id, err := s.binding.ID(entity)
	if err != nil {
		return err
	}
	if id == "" || id == uuid.Nil.String() {
		generated := uuid.New()
		if err := s.binding.Set(entity, s.binding.IDAttribute(), generated); err != nil {
			return fmt.Errorf("failed to assign generated id: %w", err)
		}
		id = generated.String()
	}

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}
	for k, v := range s.keyFor(id) {
		av[k] = v
	}
	av["EntityType"] = &types.AttributeValueMemberS{Value: s.binding.Name}

	if _, err := s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &s.tableName,
		Item:      av,
	}); err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// UpdateWithCondition applies named attribute updates to an existing record.
// A non-empty condition expression guards the write; a failed condition is
// reported as a ConditionFailedError.
func (s *Store[T]) UpdateWithCondition(ctx context.Context, id string, updates map[string]any, condition string) error {
	updateExpr, exprAttrNames, exprAttrValues, err := buildUpdateExpression(updates)
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &sdk.UpdateItemInput{
		TableName:                 &s.tableName,
		Key:                       s.keyFor(id),
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrValues,
		ReturnValues:              types.ReturnValueAllNew,
	}
	if condition != "" {
		input.ConditionExpression = &condition
	}

	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return apperrors.NewConditionFailedError("update", condition)
		}
		return fmt.Errorf("UpdateItem failed: %w", err)
	}
	return nil
}

// Delete removes a record by identity. Deleting a missing record is a
// NotFoundError.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:           &s.tableName,
		Key:                 s.keyFor(id),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return apperrors.NewNotFoundError(s.binding.Name, id)
		}
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// buildUpdateExpression transforms a map of attribute->value into:
//   - an update expression (e.g., "SET #f0 = :v0, #f1 = :v1")
//   - a corresponding map of expression attribute names
//   - a corresponding map of expression attribute values
//
// Fields are processed in sorted order so the expression is deterministic.
func buildUpdateExpression(updates map[string]any) (string,
	map[string]string,
	map[string]types.AttributeValue,
	error) {

	if len(updates) == 0 {
		return "", nil, nil, errors.New("no updates provided")
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(fields))
	exprAttrNames := make(map[string]string, len(fields))
	exprAttrValues := make(map[string]types.AttributeValue, len(fields))

	for i, field := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		setClauses = append(setClauses, placeholderName+" = "+placeholderValue)
		exprAttrNames[placeholderName] = field

		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal update value for %q: %w", field, err)
		}
		exprAttrValues[placeholderValue] = av
	}

	return "SET " + strings.Join(setClauses, ", "), exprAttrNames, exprAttrValues, nil
}
