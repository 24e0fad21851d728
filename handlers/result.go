package handlers

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Handler func(http.ResponseWriter, *http.Request) Result

// Result is what a handler wants written. Body is written as-is for []byte
// (with ContentType), as text/plain for string, and as JSON otherwise.
type Result struct {
	Error       error
	Code        int
	Body        interface{}
	ContentType string
	Headers     map[string]string
}

func BadRequest(message string) Result {
	return Result{
		Code: http.StatusBadRequest,
		Body: message,
	}
}

func BadGateway(err error) Result {
	return Result{
		Error: err,
		Code:  http.StatusBadGateway,
		Body:  fmt.Sprintf("Upstream fetch error: %s", err),
	}
}

func InternalError(err error, message string) Result {
	return Result{
		Error: errors.Wrap(err, message),
		Code:  http.StatusInternalServerError,
		Body:  "Internal error",
	}
}

func Ok(body interface{}) Result {
	return Result{
		Code: http.StatusOK,
		Body: body,
	}
}

func Text(body string) Result {
	return Result{
		Code: http.StatusOK,
		Body: body,
	}
}

func Raw(body []byte, contentType string) Result {
	return Result{
		Code:        http.StatusOK,
		Body:        body,
		ContentType: contentType,
	}
}

// WithHeader returns a copy of r that also sets header key to value.
func (r Result) WithHeader(key, value string) Result {
	headers := make(map[string]string, len(r.Headers)+1)
	for k, v := range r.Headers {
		headers[k] = v
	}
	headers[key] = value
	r.Headers = headers
	return r
}
