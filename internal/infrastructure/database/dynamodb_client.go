package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoConfig holds the connection settings of the DynamoDB backend.
// Endpoint is optional and points the client at a local DynamoDB (e.g. http://dynamodb:8000).
type DynamoConfig struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func (c DynamoConfig) withDefaults() DynamoConfig {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.AccessKey == "" {
		c.AccessKey = "local"
	}
	if c.SecretKey == "" {
		c.SecretKey = "local"
	}
	return c
}

// ConnectDynamoDB creates a DynamoDB client for the store tables.
func ConnectDynamoDB(ctx context.Context, cfg DynamoConfig) (*dynamodb.Client, error) {
	awsCfg, err := newAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamodb config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}

func newAWSConfig(ctx context.Context, cfg DynamoConfig) (aws.Config, error) {
	cfg = cfg.withDefaults()

	// Local DynamoDB ignores credentials, the SDK still requires some.
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(creds),
	}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == dynamodb.ServiceID {
				return aws.Endpoint{URL: endpoint, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}
