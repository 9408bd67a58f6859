package remediation

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mediaops/piisentry/pkg/types"
)

const quarantineReason = "PII-detected"

// remediateObject runs the per-object action sequence: quarantine for HIGH
// and CRITICAL findings, then tagging regardless of severity. The actions
// are independent best-effort — a quarantine failure never suppresses the
// tag attempt and vice versa.
func (e *Engine) remediateObject(ctx context.Context, bucket, key string, severity types.Severity) types.ResourceOutcome {
	outcome := types.ResourceOutcome{
		Bucket:   bucket,
		Key:      key,
		Severity: severity,
		Actions:  []types.ActionResult{},
	}

	if severity.ActionRequired() {
		outcome.Actions = append(outcome.Actions, e.quarantineObject(ctx, bucket, key))
	}

	outcome.Actions = append(outcome.Actions, e.tagObject(ctx, bucket, key, severity))

	e.log.WithFields(map[string]interface{}{
		"bucket":   bucket,
		"key":      key,
		"severity": string(severity),
	}).Info("handled PII in object")

	return outcome
}

// quarantineObject copies the object to the quarantine prefix within the
// same bucket, encrypted and with replaced metadata, then makes the copy
// private. The original is left in place: quarantine is a safety copy, not
// a move.
func (e *Engine) quarantineObject(ctx context.Context, bucket, key string) types.ActionResult {
	quarantineKey := e.quarantinePrefix + key

	_, err := e.s3.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:               aws.String(bucket),
		Key:                  aws.String(quarantineKey),
		CopySource:           aws.String(bucket + "/" + key),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
		MetadataDirective:    s3types.MetadataDirectiveReplace,
		Metadata: map[string]string{
			"quarantine-reason":    quarantineReason,
			"quarantine-timestamp": e.now().UTC().Format(time.RFC3339),
			"original-key":         key,
		},
	})
	if err != nil {
		e.log.WithFields(map[string]interface{}{"bucket": bucket, "key": key}).Error("failed to quarantine object", err)
		return types.ActionResult{
			Action: types.ActionQuarantine,
			Status: types.StatusFailed,
			Error:  err.Error(),
		}
	}

	_, err = e.s3.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(quarantineKey),
		ACL:    s3types.ObjectCannedACLPrivate,
	})
	if err != nil {
		e.log.WithFields(map[string]interface{}{"bucket": bucket, "key": quarantineKey}).Error("failed to restrict quarantined copy", err)
		return types.ActionResult{
			Action: types.ActionQuarantine,
			Status: types.StatusFailed,
			Error:  err.Error(),
		}
	}

	return types.ActionResult{
		Action:             types.ActionQuarantine,
		Status:             types.StatusSuccess,
		QuarantineLocation: bucket + "/" + quarantineKey,
	}
}

// tagObject replaces the object's tag set with the PII detection markers.
// Pre-existing tags are dropped, not merged.
func (e *Engine) tagObject(ctx context.Context, bucket, key string, severity types.Severity) types.ActionResult {
	tags := map[string]string{
		"pii-detected":       "true",
		"pii-severity":       strings.ToLower(string(severity)),
		"pii-detection-date": e.now().UTC().Format("2006-01-02"),
		"security-status":    "flagged",
	}

	tagSet := make([]s3types.Tag, 0, len(tags))
	for _, k := range []string{"pii-detected", "pii-severity", "pii-detection-date", "security-status"} {
		tagSet = append(tagSet, s3types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}

	_, err := e.s3.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket:  aws.String(bucket),
		Key:     aws.String(key),
		Tagging: &s3types.Tagging{TagSet: tagSet},
	})
	if err != nil {
		e.log.WithFields(map[string]interface{}{"bucket": bucket, "key": key}).Error("failed to tag object", err)
		return types.ActionResult{
			Action: types.ActionTag,
			Status: types.StatusFailed,
			Error:  err.Error(),
		}
	}

	return types.ActionResult{
		Action:      types.ActionTag,
		Status:      types.StatusSuccess,
		TagsApplied: tags,
	}
}
