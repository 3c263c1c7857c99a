package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/juanpablosotoc/zartex/internal/types"
)

// Secrets reads secret values from Secrets Manager.
type Secrets struct {
	client *secretsmanager.Client
}

func NewSecrets(cfg aws.Config) *Secrets {
	return &Secrets{client: secretsmanager.NewFromConfig(cfg)}
}

// GetSecret returns the string value of the named secret. Binary secrets
// are returned as their raw bytes.
func (s *Secrets) GetSecret(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", types.SecretsError(
			fmt.Sprintf("error retrieving secret %s", name), err)
	}
	if out.SecretString != nil {
		return aws.ToString(out.SecretString), nil
	}
	return string(out.SecretBinary), nil
}
