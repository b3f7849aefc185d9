// Package apierr defines the error taxonomy of the pandago SDK and the classifier that turns raw
// HTTP failures into diagnosable errors.
//
// Every failure surfaced by the SDK is one of four kinds:
//
//   - *ConfigurationError: required settings missing or invalid at construction time
//   - *AuthenticationError: assertion signing or token exchange failed
//   - *RequestError: a resource call returned a non-2xx status or never got a response
//   - *UnexpectedFormatError: a successful response had a body of an unrecognized shape
//
// Each kind keeps its original cause reachable through errors.Unwrap and matches its sentinel
// (ErrConfiguration, ErrAuthentication, ErrRequest, ErrUnexpectedFormat) through errors.Is.
//
// # Messages
//
// err.Error() is always the terse message. Describe renders the multi-line friendly form intended
// for CLIs and logs:
//
//	order, err := svc.Get(ctx, "y7ku-2q5t")
//	if err != nil {
//	    var reqErr *apierr.RequestError
//	    if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
//	        // handle missing order
//	    }
//	    fmt.Fprintln(os.Stderr, apierr.Describe(err))
//	}
//
// ParseErrorMessage normalizes the different error payload shapes returned by the API
// (message, error_description, error, errors[]) into one message.
package apierr
