package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldSnapshotID  = "snapshot_guid"
	FieldRuleID      = "rule_id"
	FieldDate        = "date"
	FieldAccount     = "account"
	FieldMonthsAhead = "months_ahead"
	FieldRowCount    = "row_count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentBackend = "backend"
)
