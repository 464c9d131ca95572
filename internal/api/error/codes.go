package error

import "net/http"

type ErrorCode string

const (
	UnknownError        ErrorCode = "unknown_error"
	InternalServerError ErrorCode = "internal_server_error"
	BadRequest          ErrorCode = "bad_request"
	NotFound            ErrorCode = "not_found"
	ConversionFailed    ErrorCode = "conversion_failed"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:        0, // No error code - unknown
	InternalServerError: http.StatusInternalServerError,
	BadRequest:          http.StatusBadRequest,
	NotFound:            http.StatusNotFound,
	ConversionFailed:    http.StatusUnprocessableEntity,
}

func (ec ErrorCode) Status() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
