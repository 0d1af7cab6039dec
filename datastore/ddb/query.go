/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entityapi/datastore"
)

// Query fetches all items of the bound entity type and evaluates the filter,
// sort, and pagination of params client side. The scan follows
// LastEvaluatedKey across pages so collections larger than one scan page are
// still complete. Deployments with large collections should front the scan
// with a GSI keyed on the EntityType attribute.
func (s *Store[T]) Query(ctx context.Context, params *datastore.QueryParams) ([]T, error) {
	filterExpr := "EntityType = :entityType"
	input := &sdk.ScanInput{
		TableName:        &s.tableName,
		FilterExpression: &filterExpr,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":entityType": &types.AttributeValueMemberS{Value: s.binding.Name},
		},
	}

	var records []T
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		page := make([]T, 0, len(out.Items))
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		records = append(records, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	return datastore.EvaluateQuery(records, s.binding, params), nil
}
