// Package alert emits downstream notifications for high severity findings.
package alert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/mediaops/piisentry/internal/awsc"
	"github.com/mediaops/piisentry/internal/config"
	apperrors "github.com/mediaops/piisentry/internal/errors"
	"github.com/mediaops/piisentry/pkg/types"
)

// alertLevel is fixed for every alert, CRITICAL included. Severity nuance
// is carried in the embedded severity field.
const alertLevel = "HIGH"

// payload is the notification detail document.
type payload struct {
	FindingID    string                  `json:"finding_id"`
	Severity     types.Severity          `json:"severity"`
	Type         string                  `json:"type"`
	ActionsTaken []types.ResourceOutcome `json:"actions_taken"`
	AlertLevel   string                  `json:"alert_level"`
	Timestamp    string                  `json:"timestamp"`
}

// Publisher sends finding alerts to the event bus. Best-effort: callers are
// expected to log and swallow any returned error.
type Publisher struct {
	bus        awsc.EventBusAPI
	source     string
	detailType string
	now        func() time.Time
}

// NewPublisher creates a Publisher using the settings' source and
// detail-type labels.
func NewPublisher(bus awsc.EventBusAPI, settings config.Settings) *Publisher {
	return &Publisher{
		bus:        bus,
		source:     settings.AlertSource,
		detailType: settings.AlertDetailType,
		now:        time.Now,
	}
}

// Publish emits one notification for the processed finding.
func (p *Publisher) Publish(ctx context.Context, result types.ProcessingResult) error {
	detail, err := json.Marshal(payload{
		FindingID:    result.FindingID,
		Severity:     result.Severity,
		Type:         result.FindingType,
		ActionsTaken: result.ActionsTaken,
		AlertLevel:   alertLevel,
		Timestamp:    result.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindAlertFailure, "failed to encode alert detail", err)
	}

	out, err := p.bus.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []ebtypes.PutEventsRequestEntry{
			{
				Source:     aws.String(p.source),
				DetailType: aws.String(p.detailType),
				Detail:     aws.String(string(detail)),
				Time:       aws.Time(p.now().UTC()),
			},
		},
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindAlertFailure, "failed to publish alert", err)
	}

	if out.FailedEntryCount > 0 {
		msg := "alert entry rejected by event bus"
		if len(out.Entries) > 0 && out.Entries[0].ErrorMessage != nil {
			msg = *out.Entries[0].ErrorMessage
		}
		return apperrors.New(apperrors.KindAlertFailure, msg)
	}

	return nil
}
