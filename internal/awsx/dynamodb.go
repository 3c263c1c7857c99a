package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/juanpablosotoc/zartex/internal/types"
)

// Dynamo writes items to a single DynamoDB table. Used for the admin
// mutation audit trail; callers treat failures as best-effort.
type Dynamo struct {
	client *dynamodb.Client
	table  string
}

func NewDynamo(cfg aws.Config, table string) *Dynamo {
	return &Dynamo{client: dynamodb.NewFromConfig(cfg), table: table}
}

// PutItem marshals item into an attribute map and writes it.
func (d *Dynamo) PutItem(ctx context.Context, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return types.AuditError("error marshaling audit item", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	})
	if err != nil {
		return types.AuditError(
			fmt.Sprintf("error putting item into table %s", d.table), err)
	}
	return nil
}
