package client

import (
	"errors"
	"fmt"
)

// codeInvalidAPIKey is the error code the exchange uses for
// a missing, unknown or badly signed API key.
const codeInvalidAPIKey = "APIKEY_INVALID"

// defaultAPIErrMessage stands in for an error response without a message.
const defaultAPIErrMessage = "Unknown error"

var (
	// ErrRest is the root of every error the exchange or its responses produce.
	ErrRest = errors.New("bittrex rest error")
	// ErrInvalidAuthentication is returned when the exchange rejects the API key or secret.
	ErrInvalidAuthentication = fmt.Errorf("%w: invalid authentication", ErrRest)
	// ErrAPI is the sentinel error wrapped by [APIError].
	ErrAPI = fmt.Errorf("%w: api error", ErrRest)
	// ErrUnexpectedResponse is the sentinel error wrapped by [ResponseError].
	ErrUnexpectedResponse = fmt.Errorf("%w: unexpected response", ErrRest)
	// ErrClosed is returned for calls made after [Client.Close].
	ErrClosed = errors.New("client closed")
)

// APIError is returned when the exchange answers with an error code
// other than an authentication failure.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrAPI, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}

// ResponseError is returned when the response body is not JSON.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("[%d] %q", e.StatusCode, e.Body)
}

func (e *ResponseError) Unwrap() error {
	return ErrUnexpectedResponse
}

// RestError wraps an unexpected failure while decoding a response.
type RestError struct {
	Err error
}

func (e *RestError) Error() string {
	return fmt.Sprintf("unknown exception: %v", e.Err)
}

func (e *RestError) Unwrap() []error {
	return []error{ErrRest, e.Err}
}

// checkResponse maps an error payload to its error kind.
// Empty values and values without a code pass through.
func checkResponse(v any) error {
	if isEmpty(v) {
		return nil
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	code, ok := obj["code"]
	if !ok {
		return nil
	}

	if code == codeInvalidAPIKey {
		return ErrInvalidAuthentication
	}

	msg, _ := obj["message"].(string)
	if msg == "" {
		msg = defaultAPIErrMessage
	}

	return &APIError{
		Code:    fmt.Sprint(code),
		Message: msg,
	}
}
