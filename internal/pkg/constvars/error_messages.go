package constvars

// Client-facing messages. Kept generic so storage internals never leak.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process your request, please check your input"
	ErrClientAppointmentNotFound           = "Appointment not found"
	ErrClientAppointmentValidationFailed   = "Appointment validation failed"
	ErrClientStartMustBeBeforeEnd          = "Appointment start time must be before end time"
	ErrClientInvalidStatusTransitionFormat = "Invalid status transition from %s to %s"
	ErrClientCannotCancelStatusFormat      = "Cannot cancel appointment with status %s"
)

// Developer-facing messages, surfaced only outside production.
const (
	ErrDevValidationFailed           = "request validation failed"
	ErrDevCannotParseJSON            = "cannot parse request body as JSON"
	ErrDevCannotParseTime            = "cannot parse time value"
	ErrDevURLParamIDValidationFailed = "url parameter %s failed validation"
	ErrDevAppointmentNotFound        = "appointment does not exist"
	ErrDevAppointmentInvalidStatus   = "unknown appointment status value"
	ErrDevInvalidStatusTransition    = "status transition is not an edge of the lifecycle graph"
	ErrDevAppointmentNotCancellable  = "appointment status is terminal and cannot be cancelled"

	ErrDevDBFailedToInsertDocument   = "mongo: failed to insert document"
	ErrDevDBFailedToFindDocument     = "mongo: failed to find document"
	ErrDevDBFailedToUpdateDocument   = "mongo: failed to update document"
	ErrDevDBFailedToDeleteDocument   = "mongo: failed to delete document"
	ErrDevDBFailedToIterateDocuments = "mongo: failed to iterate documents"
	ErrDevDBFailedToCountDocuments   = "mongo: failed to count documents"
	ErrDevDBTransactionFailed        = "mongo: transaction aborted"

	ErrDevRedisGetData    = "redis: failed to get data"
	ErrDevRedisSetData    = "redis: failed to set data"
	ErrDevRedisDeleteData = "redis: failed to delete data"

	ErrDevRabbitMQPublishMessage = "rabbitmq: failed to publish message to queue %s"

	ErrDevServerProcess          = "server failed to process the request"
	ErrDevServerDeadlineExceeded = "server exceeded the request deadline"
	ErrDevMissingRequestID       = "request id missing from request context"
)
