// Package error provides standardized error handling for HTTP responses.
package error

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id"`
}

func (e *Error) Error() string {
	data, _ := json.Marshal(e) //nolint:errchkjson
	return string(data)
}

func New(code ErrorCode, message, errorID string) *Error {
	return &Error{
		Code:    code,
		Status:  code.Status(),
		Message: message,
		ErrorID: errorID,
	}
}

// Encode writes e as the response, using e.Status as the status code.
func Encode(w http.ResponseWriter, e *Error) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)

	if err := json.NewEncoder(w).Encode(e); err != nil {
		return fmt.Errorf("encoding error: %w", err)
	}
	return nil
}

func EncodeError(w http.ResponseWriter, code ErrorCode, message, errorID string) error {
	return Encode(w, New(code, message, errorID))
}

func EncodeInternalError(w http.ResponseWriter, errorID string) error {
	return Encode(w, New(InternalServerError, "Internal Server Error", errorID))
}
