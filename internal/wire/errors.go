package wire

import "fmt"

// ErrorCode identifies a remote failure class. The set is closed: brokers
// never invent codes, and unknown codes decode fine but classify as
// non-retriable so a protocol drift fails loudly instead of looping.
type ErrorCode string

const (
	// Retriable: the condition is expected to clear as cluster state
	// converges, so the engine retries against fresh metadata.
	ErrNotController      ErrorCode = "NOT_CONTROLLER"
	ErrBrokerNotAvailable ErrorCode = "BROKER_NOT_AVAILABLE"
	ErrRequestTimedOut    ErrorCode = "REQUEST_TIMED_OUT"

	// Terminal: retrying cannot change the outcome.
	ErrTopicAlreadyExists  ErrorCode = "TOPIC_ALREADY_EXISTS"
	ErrUnknownTopic        ErrorCode = "UNKNOWN_TOPIC"
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"
	ErrInvalidFilter       ErrorCode = "INVALID_FILTER"
	ErrSecurityDisabled    ErrorCode = "SECURITY_DISABLED"
	ErrAuthorizationFailed ErrorCode = "AUTHORIZATION_FAILED"
	ErrUnknownResource     ErrorCode = "UNKNOWN_RESOURCE"
	ErrUnknownServer       ErrorCode = "UNKNOWN_SERVER_ERROR"
)

// retriableCodes is the single source of truth for retry classification.
var retriableCodes = map[ErrorCode]bool{
	ErrNotController:      true,
	ErrBrokerNotAvailable: true,
	ErrRequestTimedOut:    true,
}

// defaultMessages give each code a usable message when the broker sends none.
var defaultMessages = map[ErrorCode]string{
	ErrNotController:       "this broker is not the current controller",
	ErrBrokerNotAvailable:  "broker is not available",
	ErrRequestTimedOut:     "request timed out on the broker",
	ErrTopicAlreadyExists:  "topic already exists",
	ErrUnknownTopic:        "topic does not exist",
	ErrInvalidRequest:      "request was malformed or semantically invalid",
	ErrInvalidFilter:       "filter was malformed or unsupported",
	ErrSecurityDisabled:    "cluster has no authorizer configured",
	ErrAuthorizationFailed: "principal is not authorized",
	ErrUnknownResource:     "resource does not exist",
	ErrUnknownServer:       "unexpected server error",
}

// Error is a remote failure reported by a broker inside a response envelope.
// It travels the wire as data and doubles as a Go error on the client.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message,omitempty"`
}

// NewError builds a remote error with a formatted message. Used by the broker
// side (and the test broker) when constructing failure responses.
func NewError(code ErrorCode, format string, v ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, v...)}
}

// Error renders "CODE: message", falling back to the code's default message
// when the broker sent none.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessages[e.Code]
	}
	if msg == "" {
		msg = "unrecognized error code"
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Retriable reports whether the engine may retry a call that received this
// error. Unknown codes are terminal.
func (e *Error) Retriable() bool {
	return retriableCodes[e.Code]
}
