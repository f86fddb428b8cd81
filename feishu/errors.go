package feishu

import "fmt"

// APIError is returned when the remote service rejects a call, either at the
// HTTP layer (non-200 status) or through a non-zero code embedded in the
// response payload. It carries the target URL and request body for
// diagnosability.
type APIError struct {
	Code int
	Msg  string
	URL  string
	Body any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("code:%d | msg:%s | url:%s | req_body:%v", e.Code, e.Msg, e.URL, e.Body)
}

// AuthError is returned when the tenant access token could not be refreshed.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("tenant access token refresh failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// DecodeError is returned when a response body cannot be parsed.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response of %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError is returned when a caller omitted or malformed a required
// parameter before any network call was made.
type ValidationError struct {
	Param string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Msg)
}
