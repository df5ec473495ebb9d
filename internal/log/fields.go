package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldDate      = "date"
	FieldOutcome   = "outcome"
	FieldRides     = "ride_count"
	FieldEarnings  = "earnings"
	FieldDailyNet  = "daily_net"
	FieldCreated   = "created"
	FieldUpdated   = "updated"
	FieldSkipped   = "skipped"
	FieldSheet     = "sheet"
	FieldRow       = "row"
	FieldDuration  = "duration_ms"
	FieldPath      = "path"
	FieldMethod    = "method"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentRecords   = "records"
	ComponentAnalytics = "analytics"
	ComponentImport    = "import"
	ComponentAMQP      = "amqp"
	ComponentCache     = "cache"
)

// Operations defines standard operation names
const (
	OpReconcile  = "reconcile"
	OpImport     = "import"
	OpAggregate  = "aggregate"
	OpInvalidate = "invalidate"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
