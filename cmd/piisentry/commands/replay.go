package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	s3sdk "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mediaops/piisentry/internal/config"
	"github.com/mediaops/piisentry/internal/handler"
	"github.com/mediaops/piisentry/internal/logger"
	"github.com/mediaops/piisentry/internal/remediation"
	"github.com/mediaops/piisentry/pkg/types"
)

func newReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <event.json>",
		Short: "Run a captured EventBridge event through the pipeline",
		Long: `Replay feeds a captured EventBridge event through the full
remediation pipeline. With --dry-run no AWS call is made: quarantine,
tagging, and alerting are decided and reported but not applied.`,
		Args: cobra.ExactArgs(1),
		RunE: runReplay,
	}

	cmd.Flags().Bool("dry-run", false, "decide actions without touching AWS")

	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read event file: %w", err)
	}

	var event events.CloudWatchEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to parse event file: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	region, _ := cmd.Flags().GetString("region")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	log := logger.New()

	var h *handler.Handler
	if dryRun {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		engine := remediation.NewEngine(noopObjectStore{}, noopAlerter{}, settings, log)
		h = handler.New(staticSnapshot{}, engine, settings, log)
	} else {
		h, err = newPipeline(ctx, region, log)
		if err != nil {
			return err
		}
	}

	resp, _ := h.Handle(ctx, event)
	printResponse(resp, dryRun)

	return nil
}

func printResponse(resp types.Response, dryRun bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	if dryRun {
		yellow.Println("dry run: no AWS call was made")
	}

	if resp.StatusCode != 200 {
		var body types.ErrorBody
		if err := json.Unmarshal([]byte(resp.Body), &body); err == nil {
			red.Printf("%d %s: %s\n", resp.StatusCode, body.Error, body.Message)
		} else {
			red.Printf("%d %s\n", resp.StatusCode, resp.Body)
		}
		return
	}

	var body types.SuccessBody
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		fmt.Println(resp.Body)
		return
	}

	if !body.Result.Processed {
		yellow.Printf("event not processed: %s\n", body.Result.Reason)
		return
	}

	fmt.Printf("finding %s (%s, severity %s)\n", body.Result.FindingID, body.Result.FindingType, body.Result.Severity)

	for _, outcome := range body.Result.ActionsTaken {
		fmt.Printf("  %s/%s\n", outcome.Bucket, outcome.Key)
		for _, action := range outcome.Actions {
			if action.Status == types.StatusSuccess {
				green.Printf("    %s: %s", action.Action, action.Status)
				if action.QuarantineLocation != "" {
					fmt.Printf(" -> %s", action.QuarantineLocation)
				}
				fmt.Println()
			} else {
				red.Printf("    %s: %s (%s)\n", action.Action, action.Status, action.Error)
			}
		}
	}

	if body.Result.Severity.ActionRequired() {
		yellow.Println("high severity alert raised")
	}
}

// staticSnapshot stands in for the parameter store in dry-run mode.
type staticSnapshot struct{}

func (staticSnapshot) Fetch(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

// noopObjectStore satisfies the object-store surface without side effects.
type noopObjectStore struct{}

func (noopObjectStore) CopyObject(ctx context.Context, params *s3sdk.CopyObjectInput, optFns ...func(*s3sdk.Options)) (*s3sdk.CopyObjectOutput, error) {
	return &s3sdk.CopyObjectOutput{}, nil
}

func (noopObjectStore) PutObjectAcl(ctx context.Context, params *s3sdk.PutObjectAclInput, optFns ...func(*s3sdk.Options)) (*s3sdk.PutObjectAclOutput, error) {
	return &s3sdk.PutObjectAclOutput{}, nil
}

func (noopObjectStore) PutObjectTagging(ctx context.Context, params *s3sdk.PutObjectTaggingInput, optFns ...func(*s3sdk.Options)) (*s3sdk.PutObjectTaggingOutput, error) {
	return &s3sdk.PutObjectTaggingOutput{}, nil
}

// noopAlerter swallows the alert in dry-run mode.
type noopAlerter struct{}

func (noopAlerter) Publish(ctx context.Context, result types.ProcessingResult) error {
	return nil
}
