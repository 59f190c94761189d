package web

// RequestError is an error with a status code attached. The message is
// pre-composed and safe to show to the caller.
type RequestError struct {
	Err        error
	StatusCode int
}

// NewRequestError wraps err with the HTTP status the boundary should answer
// with.
func NewRequestError(err error, statusCode int) error {
	return &RequestError{Err: err, StatusCode: statusCode}
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
