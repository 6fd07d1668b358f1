package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// CustomizedError carries an i18n message key, an HTTP status code and the
// call trace from the point of failure up to the handler.
type CustomizedError struct {
	cause   error
	message string
	trace   []string
	wrap    error
	code    int
}

func New(trace, message string, err error) *CustomizedError {
	return &CustomizedError{
		cause:   err,
		message: message,
		trace:   []string{trace},
		code:    http.StatusInternalServerError,
	}
}

// Trace appends a call site to err's trace, wrapping plain errors on the way.
func Trace(trace string, err error) *CustomizedError {
	if ce, ok := err.(*CustomizedError); ok {
		ce.trace = append(ce.trace, trace)
		return ce
	}
	return Wrap(err, trace, err.Error())
}

func Wrap(err error, trace, message string) *CustomizedError {
	ce := &CustomizedError{
		cause:   err,
		message: message,
		trace:   []string{trace},
		wrap:    err,
	}
	if income, ok := err.(*CustomizedError); ok {
		ce.code = income.code
	}
	return ce
}

func (e *CustomizedError) Trace(trace string) *CustomizedError {
	e.trace = append(e.trace, trace)
	return e
}

func (e *CustomizedError) Code(c int) *CustomizedError {
	e.code = c
	return e
}

func (e *CustomizedError) GetCode() int {
	return e.code
}

// Message returns the i18n key, or the raw cause when none was set.
func (e *CustomizedError) Message() string {
	if e.message == "" {
		return e.cause.Error()
	}
	return e.message
}

func (e *CustomizedError) Error() string {
	wrapped := `""`
	if ce, ok := e.wrap.(*CustomizedError); ok {
		wrapped = ce.Error()
	} else if e.wrap != nil {
		wrapped = fmt.Sprint("\"", e.wrap.Error(), "\"")
	}
	return fmt.Sprintf(`{"trace":"%s","code":%d,"msg":"%s","error":"%v","wrapped":%s}`,
		strings.Join(e.trace, "->"), e.code, e.message, e.cause, wrapped)
}
