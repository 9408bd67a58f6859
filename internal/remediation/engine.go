// Package remediation orchestrates the response to one PII finding:
// per-object quarantine and tagging, then a downstream alert for high
// severity findings.
package remediation

import (
	"context"
	"time"

	"github.com/mediaops/piisentry/internal/awsc"
	"github.com/mediaops/piisentry/internal/config"
	"github.com/mediaops/piisentry/internal/logger"
	"github.com/mediaops/piisentry/pkg/types"
)

// Alerter publishes a notification for a processed finding.
type Alerter interface {
	Publish(ctx context.Context, result types.ProcessingResult) error
}

// Engine applies remediation for one finding at a time. It holds no mutable
// state across invocations; concurrent invocations are fully independent.
type Engine struct {
	s3               awsc.S3API
	alerter          Alerter
	log              logger.Logger
	quarantinePrefix string
	now              func() time.Time
}

// NewEngine creates an Engine backed by the given object store and alerter.
func NewEngine(s3 awsc.S3API, alerter Alerter, settings config.Settings, log logger.Logger) *Engine {
	return &Engine{
		s3:               s3,
		alerter:          alerter,
		log:              log,
		quarantinePrefix: settings.QuarantinePrefix,
		now:              time.Now,
	}
}

// Process remediates every actionable resource of the finding in order and
// raises an alert for HIGH or CRITICAL severities once all resources are
// handled. It never fails outright: per-resource failures are recorded in
// the result and an alert failure is logged and swallowed, so one
// misbehaving action cannot block remediation of the remaining resources.
func (e *Engine) Process(ctx context.Context, event types.DetectionEvent, cfg map[string]string) types.ProcessingResult {
	e.log.WithFields(map[string]interface{}{
		"finding_id": event.FindingID,
		"severity":   string(event.Severity),
		"parameters": len(cfg),
	}).Info("processing finding")

	result := types.ProcessingResult{
		Processed:    true,
		FindingID:    event.FindingID,
		Severity:     event.Severity,
		FindingType:  event.FindingType,
		ActionsTaken: []types.ResourceOutcome{},
		Timestamp:    e.now().UTC(),
	}

	for _, ref := range event.Resources {
		if !ref.Actionable() {
			continue
		}
		result.ActionsTaken = append(result.ActionsTaken, e.remediateObject(ctx, ref.Bucket, ref.Key, event.Severity))
	}

	if event.Severity.ActionRequired() {
		if err := e.alerter.Publish(ctx, result); err != nil {
			e.log.WithField("finding_id", event.FindingID).Error("failed to send high severity alert", err)
		} else {
			e.log.WithField("finding_id", event.FindingID).Info("sent high severity alert")
		}
	}

	return result
}
