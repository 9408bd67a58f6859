package types

// FindingDetail is the detail block of a PII finding as delivered on the
// event bus by the detection scanner.
type FindingDetail struct {
	ID        string            `json:"id"`
	Severity  FindingSeverity   `json:"severity"`
	Type      string            `json:"type"`
	Resources []FindingResource `json:"resources"`
}

// FindingSeverity carries the scanner's severity description.
type FindingSeverity struct {
	Description string `json:"description"`
}

// FindingResource is one affected resource descriptor from the scanner.
// S3Object is nil for non-object resource types.
type FindingResource struct {
	ResourceType string       `json:"resourceType"`
	S3Object     *S3ObjectRef `json:"s3Object,omitempty"`
}

// S3ObjectRef locates an object within a bucket.
type S3ObjectRef struct {
	BucketName string `json:"bucketName"`
	Key        string `json:"key"`
}

// Response is the envelope returned to the invocation host. Body is a JSON
// document: SuccessBody on the 200 path, ErrorBody on the 500 path.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// SuccessBody is the 200 response body.
type SuccessBody struct {
	Message   string           `json:"message"`
	Result    ProcessingResult `json:"result"`
	Timestamp string           `json:"timestamp"`
}

// ErrorBody is the 500 response body.
type ErrorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
