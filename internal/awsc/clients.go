// Package awsc constructs the AWS service clients the pipeline depends on
// and defines the narrow per-service interfaces consumed by the core, so
// every collaborator can be substituted with a test double.
package awsc

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// S3API is the subset of the S3 client remediation actions use.
type S3API interface {
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)
	PutObjectTagging(ctx context.Context, params *s3.PutObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.PutObjectTaggingOutput, error)
}

// ParameterStoreAPI is the subset of the SSM client the configuration
// provider uses.
type ParameterStoreAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// EventBusAPI is the subset of the EventBridge client alert emission uses.
type EventBusAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// STSAPI is used only for credential validation at startup.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Clients aggregates the AWS service clients behind their narrow interfaces.
type Clients struct {
	S3          S3API
	SSM         ParameterStoreAPI
	EventBridge EventBusAPI
	STS         STSAPI
	Config      aws.Config
}

// ClientConfig holds options for client construction.
type ClientConfig struct {
	Region     string
	Profile    string
	MaxRetries int
}

// New builds all service clients from a single shared AWS configuration.
func New(ctx context.Context, clientConfig ClientConfig) (*Clients, error) {
	if clientConfig.MaxRetries == 0 {
		clientConfig.MaxRetries = 3
	}

	var opts []func(*config.LoadOptions) error

	if clientConfig.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(clientConfig.Profile))
	}

	if clientConfig.Region != "" {
		opts = append(opts, config.WithRegion(clientConfig.Region))
	}

	opts = append(opts, config.WithRetryer(func() aws.Retryer {
		return retry.AddWithMaxAttempts(retry.NewStandard(), clientConfig.MaxRetries)
	}))

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if err := CheckCredentials(ctx, cfg); err != nil {
		return nil, err
	}

	return &Clients{
		S3:          s3.NewFromConfig(cfg),
		SSM:         ssm.NewFromConfig(cfg),
		EventBridge: eventbridge.NewFromConfig(cfg),
		STS:         sts.NewFromConfig(cfg),
		Config:      cfg,
	}, nil
}

// Region returns the resolved region.
func (c *Clients) Region() string {
	return c.Config.Region
}

// ValidateCredentials confirms the resolved credentials are usable by
// calling STS GetCallerIdentity.
func (c *Clients) ValidateCredentials(ctx context.Context) error {
	result, err := c.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("failed to validate AWS credentials: %w", err)
	}

	if result.Account == nil || result.Arn == nil {
		return fmt.Errorf("received invalid identity information from AWS")
	}

	return nil
}

// CheckCredentials verifies credentials resolved without an API round trip.
// Expired credentials surface here rather than on the first remediation call.
func CheckCredentials(ctx context.Context, cfg aws.Config) error {
	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}

	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return fmt.Errorf("AWS credentials are incomplete")
	}

	if !creds.Expires.IsZero() && time.Now().After(creds.Expires) {
		return fmt.Errorf("AWS credentials have expired (expired at: %v)", creds.Expires)
	}

	return nil
}
