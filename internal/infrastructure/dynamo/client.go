package dynamo

import (
	"context"

	"github.com/adgate/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewClient builds the DynamoDB client backing the session, code and user
// tables. cfg.AWSEndpointURL switches all traffic to LocalStack for local
// development.
func NewClient(cfg *config.Config) *dynamodb.Client {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOptions(cfg)...)
	if err != nil {
		panic("failed to load AWS config: " + err.Error())
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		}
	})
}

// loadOptions prefers static credentials when the environment carries them,
// falling back to the default AWS provider chain otherwise.
func loadOptions(cfg *config.Config) []func(*awsconfig.LoadOptions) error {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	return opts
}
