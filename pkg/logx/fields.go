package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldConversationID  = "conversation-id"
	FieldCounterOffer    = "counter-offer"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldOffer           = "offer"
	FieldOutcome         = "outcome"
	FieldParticipantID   = "participant-id"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldTurn            = "turn"
	FieldURL             = "url"
)
