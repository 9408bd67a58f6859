package alert

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mediaops/piisentry/internal/awsc"
	"github.com/mediaops/piisentry/internal/config"
	apperrors "github.com/mediaops/piisentry/internal/errors"
	"github.com/mediaops/piisentry/pkg/types"
)

func testPublisher(bus awsc.EventBusAPI) *Publisher {
	settings := config.Settings{
		AlertSource:     "media-processing-pipeline.security",
		AlertDetailType: "High Severity PII Detection",
	}
	p := NewPublisher(bus, settings)
	p.now = func() time.Time {
		return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func criticalResult() types.ProcessingResult {
	return types.ProcessingResult{
		Processed:   true,
		FindingID:   "finding-1",
		Severity:    types.SeverityCritical,
		FindingType: "SensitiveData:S3Object/Personal",
		ActionsTaken: []types.ResourceOutcome{
			{
				Bucket:   "media",
				Key:      "reports/a.csv",
				Severity: types.SeverityCritical,
				Actions: []types.ActionResult{
					{Action: types.ActionQuarantine, Status: types.StatusSuccess, QuarantineLocation: "media/quarantine/reports/a.csv"},
					{Action: types.ActionTag, Status: types.StatusSuccess},
				},
			},
		},
		Timestamp: time.Date(2025, 3, 14, 11, 59, 0, 0, time.UTC),
	}
}

func TestPublishPayload(t *testing.T) {
	var captured *eventbridge.PutEventsInput

	bus := &awsc.MockEventBus{}
	bus.On("PutEvents", mock.Anything, mock.MatchedBy(func(input *eventbridge.PutEventsInput) bool {
		captured = input
		return true
	})).Return(&eventbridge.PutEventsOutput{}, nil)

	err := testPublisher(bus).Publish(context.Background(), criticalResult())

	require.NoError(t, err)
	require.NotNil(t, captured)
	require.Len(t, captured.Entries, 1)

	entry := captured.Entries[0]
	assert.Equal(t, "media-processing-pipeline.security", *entry.Source)
	assert.Equal(t, "High Severity PII Detection", *entry.DetailType)
	assert.Equal(t, time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC), *entry.Time)

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(*entry.Detail), &detail))
	assert.Equal(t, "finding-1", detail["finding_id"])
	assert.Equal(t, "CRITICAL", detail["severity"])
	assert.Equal(t, "SensitiveData:S3Object/Personal", detail["type"])
	// Fixed marker even for CRITICAL: nuance lives in the severity field.
	assert.Equal(t, "HIGH", detail["alert_level"])
	assert.Equal(t, "2025-03-14T11:59:00Z", detail["timestamp"])

	actions, ok := detail["actions_taken"].([]interface{})
	require.True(t, ok)
	assert.Len(t, actions, 1)
}

func TestPublishBusError(t *testing.T) {
	bus := &awsc.MockEventBus{}
	bus.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("bus unavailable"))

	err := testPublisher(bus).Publish(context.Background(), criticalResult())

	require.Error(t, err)
	assert.True(t, apperrors.HasKind(err, apperrors.KindAlertFailure))
}

func TestPublishFailedEntry(t *testing.T) {
	bus := &awsc.MockEventBus{}
	bus.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries: []ebtypes.PutEventsResultEntry{
			{ErrorCode: aws.String("ThrottlingException"), ErrorMessage: aws.String("rate exceeded")},
		},
	}, nil)

	err := testPublisher(bus).Publish(context.Background(), criticalResult())

	require.Error(t, err)
	assert.True(t, apperrors.HasKind(err, apperrors.KindAlertFailure))
	assert.Contains(t, err.Error(), "rate exceeded")
}
