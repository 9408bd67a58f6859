// Package handler is the invocation boundary: it decodes the inbound event
// envelope, drives configuration loading and remediation, and maps every
// outcome — including failures — to a well-formed response envelope.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mediaops/piisentry/internal/config"
	apperrors "github.com/mediaops/piisentry/internal/errors"
	"github.com/mediaops/piisentry/internal/logger"
	"github.com/mediaops/piisentry/pkg/types"
)

const (
	successMessage = "Event processed successfully"
	errorMessage   = "Event processing failed"
	unknownSource  = "Unknown event source"
)

// ConfigFetcher loads the per-invocation configuration snapshot.
type ConfigFetcher interface {
	Fetch(ctx context.Context) (map[string]string, error)
}

// Processor remediates one finding.
type Processor interface {
	Process(ctx context.Context, event types.DetectionEvent, cfg map[string]string) types.ProcessingResult
}

// Handler processes one event envelope per invocation.
type Handler struct {
	fetcher        ConfigFetcher
	engine         Processor
	expectedSource string
	log            logger.Logger
	now            func() time.Time
}

// New creates a Handler.
func New(fetcher ConfigFetcher, engine Processor, settings config.Settings, log logger.Logger) *Handler {
	return &Handler{
		fetcher:        fetcher,
		engine:         engine,
		expectedSource: settings.ExpectedSource,
		log:            log,
		now:            time.Now,
	}
}

// Handle processes one inbound event. The returned error is always nil:
// every failure, panics included, is converted into a 500 response so
// nothing escapes the invocation boundary.
func (h *Handler) Handle(ctx context.Context, event events.CloudWatchEvent) (resp types.Response, _ error) {
	defer func() {
		if r := recover(); r != nil {
			resp = h.failure(fmt.Errorf("panic: %v", r))
		}
	}()

	if raw, err := json.Marshal(event); err == nil {
		h.log.WithField("event", string(raw)).Info("received event")
	}

	if event.Source != h.expectedSource {
		h.log.WithField("source", event.Source).Warn("ignoring event from unknown source")
		return h.success(types.ProcessingResult{
			Processed: false,
			Reason:    unknownSource,
			Timestamp: h.now().UTC(),
		}), nil
	}

	snapshot, err := h.fetcher.Fetch(ctx)
	if err != nil {
		return h.failure(err), nil
	}

	var detail types.FindingDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return h.failure(apperrors.Wrap(apperrors.KindBadEvent, "failed to decode finding detail", err)), nil
	}

	result := h.engine.Process(ctx, types.NewDetectionEvent(event.Source, detail), snapshot)

	return h.success(result), nil
}

func (h *Handler) success(result types.ProcessingResult) types.Response {
	body, err := json.Marshal(types.SuccessBody{
		Message:   successMessage,
		Result:    result,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return h.failure(fmt.Errorf("failed to encode response body: %w", err))
	}

	return types.Response{StatusCode: 200, Body: string(body)}
}

func (h *Handler) failure(cause error) types.Response {
	h.log.Error("error processing event", cause)

	body, _ := json.Marshal(types.ErrorBody{
		Error:     errorMessage,
		Message:   cause.Error(),
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})

	return types.Response{StatusCode: 500, Body: string(body)}
}
