package apierr

import (
	"fmt"
	"net/http"
	"strings"
)

const unknownErrorMessage = "Unknown error occurred"

// reasonPhrases are appended to parsed messages for the status codes the API documents.
var reasonPhrases = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "Unprocessable Entity",
	http.StatusTooManyRequests:     "Rate Limit Exceeded",
	http.StatusInternalServerError: "Internal Server Error",
	http.StatusServiceUnavailable:  "Service Unavailable",
}

var statusSuggestions = map[int]string{
	http.StatusUnauthorized:        "Check that the access token is valid or refresh it by requesting a new token.",
	http.StatusForbidden:           "Check that the client has been granted the scopes required for this operation.",
	http.StatusBadRequest:          "Check the request parameters for missing or malformed values.",
	http.StatusNotFound:            "Check that the resource ID and the endpoint path are correct.",
	http.StatusMethodNotAllowed:    "Check that the endpoint supports this operation and HTTP method.",
	http.StatusConflict:            "The request conflicts with the current state of the resource.",
	http.StatusUnprocessableEntity: "The submitted data is invalid; review the request body fields.",
	http.StatusTooManyRequests:     "Rate limit exceeded; slow down and retry after a short delay.",
}

const serverErrorSuggestion = "The API encountered a server error; retry later and contact support if the problem persists."

type messageTip struct {
	pattern string
	tip     string
}

// messageTips is scanned in order against the lowercased message; the first match wins.
var messageTips = []messageTip{
	{"outlet not found", "The outlet does not exist for this client; create it with the outlets API or check the client vendor ID."},
	{"no branch found", "No branch is registered for the sender location; verify the client vendor ID and the outlet address."},
	{"order is not cancellable", "The order can no longer be cancelled, usually because a rider has already picked it up."},
	{"order update is not allowed", "Orders can only be updated before a rider has been assigned."},
	{"access token is expired", "The access token has expired; invalidate the cached token and request a new one."},
	{"invalid credentials", "Verify the client ID, key ID and private key configured for this environment."},
	{"already exists", "A resource with the same identifier already exists; use another identifier or update the existing one."},
	{"validation failed", "Review the request payload against the field requirements of the endpoint."},
}

// ParseErrorMessage extracts a human readable message from an error payload. It tries, in order,
// "message", "error_description", "error" and the first entry of "errors" (a string or an object
// with "message"), falling back to "Unknown error occurred". A reason phrase is appended for
// recognized status codes, e.g. "Order not found (Not Found)".
func ParseErrorMessage(data map[string]any, statusCode int) string {
	msg := extractMessage(data)
	if phrase, ok := reasonPhrases[statusCode]; ok {
		return fmt.Sprintf("%s (%s)", msg, phrase)
	}
	return msg
}

func extractMessage(data map[string]any) string {
	for _, key := range []string{"message", "error_description", "error"} {
		if s, ok := data[key].(string); ok && s != "" {
			return s
		}
	}
	if errs, ok := data["errors"].([]any); ok && len(errs) > 0 {
		if s := entryMessage(errs[0]); s != "" {
			return s
		}
	}
	return unknownErrorMessage
}

// entryMessage reads an "errors" entry that is either a string or an object with "message".
func entryMessage(entry any) string {
	switch v := entry.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["message"].(string); ok {
			return s
		}
	}
	return ""
}

// Suggestion returns the remediation hint for statusCode, or "" when there is none.
func Suggestion(statusCode int) string {
	if s, ok := statusSuggestions[statusCode]; ok {
		return s
	}
	if statusCode >= 500 && statusCode <= 599 {
		return serverErrorSuggestion
	}
	return ""
}

// MessageTip returns the tip of the first pattern contained in message, compared
// case-insensitively, or "" when no pattern matches.
func MessageTip(message string) string {
	lower := strings.ToLower(message)
	for _, t := range messageTips {
		if strings.Contains(lower, t.pattern) {
			return t.tip
		}
	}
	return ""
}

// DetailedMessage assembles a multi-line diagnostic for e:
//
//	Error 404: Order not found (Not Found)
//	Request: GET /orders/x
//	Suggestion: Check that the resource ID and the endpoint path are correct.
//	Details:
//	  - ...
//
// A message-specific tip replaces the status suggestion when one matches.
func DetailedMessage(e *RequestError) string {
	if e == nil {
		return ""
	}

	lines := []string{fmt.Sprintf("Error %d: %s", e.statusCode, e.rawMessage)}
	if e.method != "" && e.endpoint != "" {
		lines = append(lines, fmt.Sprintf("Request: %s %s", e.method, e.endpoint))
	}

	if tip := MessageTip(e.rawMessage); tip != "" {
		lines = append(lines, "Suggestion: "+tip)
	} else if s := Suggestion(e.statusCode); s != "" {
		lines = append(lines, "Suggestion: "+s)
	}

	if errs, ok := e.data["errors"].([]any); ok && len(errs) > 0 {
		lines = append(lines, "Details:")
		for _, entry := range errs {
			if s := entryMessage(entry); s != "" {
				lines = append(lines, "  - "+s)
			}
		}
	} else if desc, ok := e.data["error_description"].(string); ok && desc != "" {
		lines = append(lines, "Details: "+desc)
	}

	return strings.Join(lines, "\n")
}
