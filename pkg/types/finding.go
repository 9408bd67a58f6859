package types

import "strings"

// Severity is the coarse risk classification attached to a finding.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
	SeverityUnknown  Severity = "UNKNOWN"
)

// ParseSeverity maps a scanner-reported severity description to a Severity.
// Anything unrecognized, including an empty string, maps to UNKNOWN.
func ParseSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return SeverityLow
	case "MEDIUM":
		return SeverityMedium
	case "HIGH":
		return SeverityHigh
	case "CRITICAL":
		return SeverityCritical
	default:
		return SeverityUnknown
	}
}

// ActionRequired reports whether the severity is high enough to trigger
// quarantine and alerting.
func (s Severity) ActionRequired() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// ResourceTypeS3Object is the only resource type remediation acts on.
const ResourceTypeS3Object = "S3Object"

// ResourceRef identifies one resource a finding points at.
type ResourceRef struct {
	Type   string
	Bucket string
	Key    string
}

// Actionable reports whether the reference describes a complete S3 object.
// Partial or non-object references are expected from upstream and are skipped.
func (r ResourceRef) Actionable() bool {
	return r.Type == ResourceTypeS3Object && r.Bucket != "" && r.Key != ""
}

// DetectionEvent is one scanner finding, constructed once from the inbound
// payload and discarded after processing.
type DetectionEvent struct {
	Source      string
	FindingID   string
	FindingType string
	Severity    Severity
	Resources   []ResourceRef
}

// NewDetectionEvent builds a DetectionEvent from a decoded finding detail.
func NewDetectionEvent(source string, detail FindingDetail) DetectionEvent {
	event := DetectionEvent{
		Source:      source,
		FindingID:   detail.ID,
		FindingType: detail.Type,
		Severity:    ParseSeverity(detail.Severity.Description),
	}

	for _, res := range detail.Resources {
		ref := ResourceRef{Type: res.ResourceType}
		if res.S3Object != nil {
			ref.Bucket = res.S3Object.BucketName
			ref.Key = res.S3Object.Key
		}
		event.Resources = append(event.Resources, ref)
	}

	return event
}
