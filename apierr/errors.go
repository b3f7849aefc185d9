package apierr

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Kind tags which branch of the taxonomy an error belongs to.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	KindConfiguration
	KindAuthentication
	KindRequest
	KindUnexpectedFormat
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthentication:
		return "authentication"
	case KindRequest:
		return "request"
	case KindUnexpectedFormat:
		return "unexpected_format"
	default:
		return "unknown"
	}
}

// Sentinels matched by the typed errors through errors.Is.
var (
	ErrConfiguration    = errors.New("configuration error")
	ErrAuthentication   = errors.New("authentication failed")
	ErrRequest          = errors.New("request failed")
	ErrUnexpectedFormat = errors.New("unexpected response format")
)

// ConfigurationError reports missing or invalid settings. It is fatal and never retried.
type ConfigurationError struct {
	// Field is the offending setting, empty when the error is not tied to one field.
	Field   string
	Message string
	Cause   error
}

// NewConfigurationError creates a ConfigurationError for field.
func NewConfigurationError(field, message string, cause error) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message, Cause: cause}
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Detailed renders the error with a remediation hint.
func (e *ConfigurationError) Detailed() string {
	return e.Error() + "\nSuggestion: Check the client ID, key ID, scope and private key settings before creating the client."
}

// AuthenticationError collapses every token acquisition failure (signing, transport, non-200
// responses, malformed token payloads) into one kind while keeping the original cause.
type AuthenticationError struct {
	Reason string
	Cause  error
}

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(reason string, cause error) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Cause: cause}
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *AuthenticationError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrAuthentication.
func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// Detailed renders the error, its cause and a remediation hint.
func (e *AuthenticationError) Detailed() string {
	var b strings.Builder
	b.WriteString(e.Error())
	if e.Cause != nil && e.Cause.Error() != e.Reason {
		b.WriteString("\nCause: ")
		b.WriteString(e.Cause.Error())
	}
	b.WriteString("\nSuggestion: Verify the client ID, key ID, private key and scope configured for this environment.")
	return b.String()
}

// UnexpectedFormatError reports a 2xx response whose body matches no recognized shape.
type UnexpectedFormatError struct {
	Message string
	// Body is the decoded payload that was rejected.
	Body any
}

// NewUnexpectedFormatError creates an UnexpectedFormatError.
func NewUnexpectedFormatError(message string, body any) *UnexpectedFormatError {
	return &UnexpectedFormatError{Message: message, Body: body}
}

func (e *UnexpectedFormatError) Error() string {
	return "unexpected response format: " + e.Message
}

// Is reports whether target is ErrUnexpectedFormat.
func (e *UnexpectedFormatError) Is(target error) bool { return target == ErrUnexpectedFormat }

// Detailed renders the error together with the rejected payload type.
func (e *UnexpectedFormatError) Detailed() string {
	return fmt.Sprintf("%s\nReceived: %T", e.Error(), e.Body)
}

// RequestParams carries everything known about a failed resource call.
type RequestParams struct {
	Message string
	// StatusCode is 0 when no HTTP response was received.
	StatusCode int
	Cause      error
	Data       map[string]any
	Method     string
	Endpoint   string
	// Options are the request options the caller supplied.
	Options any
}

// RequestError is a failed resource call. It is immutable once constructed.
type RequestError struct {
	message    string
	rawMessage string
	statusCode int
	cause      error
	data       map[string]any
	method     string
	endpoint   string
	options    any
}

// NewRequestError builds a RequestError. When both method and endpoint are known the message is
// prefixed with "[METHOD ENDPOINT]"; the unprefixed message stays available through RawMessage.
func NewRequestError(p RequestParams) *RequestError {
	e := &RequestError{
		message:    p.Message,
		rawMessage: p.Message,
		statusCode: p.StatusCode,
		cause:      p.Cause,
		data:       maps.Clone(p.Data),
		method:     p.Method,
		endpoint:   p.Endpoint,
		options:    p.Options,
	}
	if e.data == nil {
		e.data = map[string]any{}
	}
	if p.Method != "" && p.Endpoint != "" {
		e.message = fmt.Sprintf("[%s %s] %s", p.Method, p.Endpoint, p.Message)
	}
	return e
}

func (e *RequestError) Error() string { return e.message }

// Message returns the display message, including request context when known.
func (e *RequestError) Message() string { return e.message }

// RawMessage returns the message before request context was added.
func (e *RequestError) RawMessage() string { return e.rawMessage }

// StatusCode returns the HTTP status, or 0 when no response was received.
func (e *RequestError) StatusCode() int { return e.statusCode }

// ResponseData returns a copy of the decoded error payload.
func (e *RequestError) ResponseData() map[string]any { return maps.Clone(e.data) }

// Method returns the HTTP method of the failed call.
func (e *RequestError) Method() string { return e.method }

// Endpoint returns the endpoint path of the failed call.
func (e *RequestError) Endpoint() string { return e.endpoint }

// Options returns the request options the caller supplied.
func (e *RequestError) Options() any { return e.options }

// Unwrap returns the underlying cause, typically a transport error.
func (e *RequestError) Unwrap() error { return e.cause }

// Is reports whether target is ErrRequest.
func (e *RequestError) Is(target error) bool { return target == ErrRequest }

// Detailed renders the multi-line diagnostic described by DetailedMessage.
func (e *RequestError) Detailed() string { return DetailedMessage(e) }

// KindOf returns the kind of the first typed error found in err's chain.
func KindOf(err error) Kind {
	var (
		cfgErr    *ConfigurationError
		authErr   *AuthenticationError
		reqErr    *RequestError
		formatErr *UnexpectedFormatError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &authErr):
		return KindAuthentication
	case errors.As(err, &reqErr):
		return KindRequest
	case errors.As(err, &formatErr):
		return KindUnexpectedFormat
	default:
		return KindUnknown
	}
}

// Describe returns the friendly multi-line rendering of err when any error in its chain provides
// one, and err.Error() otherwise.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var d interface{ Detailed() string }
	if errors.As(err, &d) {
		return d.Detailed()
	}
	return err.Error()
}
