package types

import "time"

// ActionKind identifies a remediation action.
type ActionKind string

const (
	ActionQuarantine ActionKind = "quarantine"
	ActionTag        ActionKind = "tag"
)

// ActionStatus is the outcome of a single remediation action.
type ActionStatus string

const (
	StatusSuccess ActionStatus = "success"
	StatusFailed  ActionStatus = "failed"
)

// ActionResult records one attempted action against one object. Exactly one
// of the detail fields is populated depending on action and status.
type ActionResult struct {
	Action             ActionKind        `json:"action"`
	Status             ActionStatus      `json:"status"`
	QuarantineLocation string            `json:"quarantine_location,omitempty"`
	TagsApplied        map[string]string `json:"tags_applied,omitempty"`
	Error              string            `json:"error,omitempty"`
}

// ResourceOutcome aggregates the actions attempted against one object, in
// the order they were attempted.
type ResourceOutcome struct {
	Bucket   string         `json:"bucket"`
	Key      string         `json:"key"`
	Severity Severity       `json:"severity"`
	Actions  []ActionResult `json:"actions"`
}

// ProcessingResult is the full outcome of processing one finding. For events
// from an unrecognized source only Processed and Reason are set.
type ProcessingResult struct {
	Processed    bool              `json:"processed"`
	Reason       string            `json:"reason,omitempty"`
	FindingID    string            `json:"finding_id,omitempty"`
	Severity     Severity          `json:"severity,omitempty"`
	FindingType  string            `json:"type,omitempty"`
	ActionsTaken []ResourceOutcome `json:"actions_taken,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}
