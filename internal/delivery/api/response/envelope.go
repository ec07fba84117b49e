// Package response writes the uniform response envelope used by every /user route.
// The transport status is always 200; the outcome travels in the envelope code.
package response

import (
	"net/http"
	"strconv"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/errors"

	"github.com/labstack/echo/v4"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every /user response. Data is null when there is nothing to return.
type Envelope struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Msg    string `json:"msg"`
	Data   any    `json:"data"`
}

// Success writes a code "200" envelope carrying data.
func Success(c echo.Context, msg string, data any) error {
	return write(c, http.StatusOK, StatusSuccess, msg, data)
}

// Failure writes an error envelope whose code is the given HTTP status.
func Failure(c echo.Context, code int, msg string, data any) error {
	return write(c, code, StatusError, msg, data)
}

func write(c echo.Context, code int, status, msg string, data any) error {
	envelopeCode := strconv.Itoa(code)
	deliverycontext.SetEnvelopeCode(c, envelopeCode)

	return c.JSON(http.StatusOK, Envelope{
		Code:   envelopeCode,
		Status: status,
		Msg:    msg,
		Data:   data,
	})
}

// dataError carries the data to place in the failure envelope of a handler error.
type dataError struct {
	err  error
	data any
}

func (e *dataError) Error() string { return e.err.Error() }

func (e *dataError) Unwrap() error { return e.err }

// WithData attaches the envelope data to report alongside err, e.g. false for a failed update.
func WithData(err error, data any) error {
	if err == nil {
		return nil
	}

	return &dataError{err: err, data: data}
}

// DataOf returns the data attached by WithData, or nil.
func DataOf(err error) any {
	var de *dataError
	if errors.As(err, &de) {
		return de.data
	}

	return nil
}
