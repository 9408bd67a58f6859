package commands

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/mediaops/piisentry/internal/alert"
	"github.com/mediaops/piisentry/internal/awsc"
	"github.com/mediaops/piisentry/internal/config"
	"github.com/mediaops/piisentry/internal/handler"
	"github.com/mediaops/piisentry/internal/logger"
	"github.com/mediaops/piisentry/internal/remediation"
)

var rootCmd = &cobra.Command{
	Use:   "piisentry",
	Short: "Automated remediation for PII detection findings",
	Long: `piisentry reacts to Amazon Macie PII findings delivered over
EventBridge: it quarantines affected S3 objects on high severity,
tags every affected object for audit, and raises a downstream alert
for HIGH and CRITICAL findings.

It normally runs as a Lambda function. The CLI exists for operators:
replay captured events against real infrastructure or in dry-run mode.`,
	SilenceUsage: true,
}

// Execute runs the operator CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("region", "", "AWS region (defaults to environment configuration)")
	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newVersionCommand())
}

// RunLambda wires the pipeline against real AWS clients and serves Lambda
// invocations until the runtime shuts the process down.
func RunLambda() {
	ctx := context.Background()
	log := logger.NewLambda()

	h, err := newPipeline(ctx, "", log)
	if err != nil {
		log.Error("failed to initialize pipeline", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

// newPipeline builds the fully wired handler: AWS clients, parameter-store
// provider, alert publisher, and remediation engine.
func newPipeline(ctx context.Context, region string, log logger.Logger) (*handler.Handler, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	if region != "" {
		settings.Region = region
	}

	clients, err := awsc.New(ctx, awsc.ClientConfig{Region: settings.Region})
	if err != nil {
		return nil, err
	}

	provider := config.NewProvider(clients.SSM, settings, log)
	publisher := alert.NewPublisher(clients.EventBridge, settings)
	engine := remediation.NewEngine(clients.S3, publisher, settings, log)

	return handler.New(provider, engine, settings, log), nil
}
