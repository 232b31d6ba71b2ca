package models

import "errors"

// Error codes sent to clients in the error envelope. The two not-found
// flavors are distinct on purpose: RESOURCE_NOT_FOUND means a store
// lookup missed, NOT_FOUND means a broadcast found no live members.
const (
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeConflict         = "CONFLICT"
	CodeResourceNotFound = "RESOURCE_NOT_FOUND"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidMessage   = "INVALID_MESSAGE"
	CodeInternal         = "Internal_Server_Error"
)

// RoomError is a client-visible failure with a stable code and an
// HTTP-flavored status carried in the error envelope.
type RoomError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *RoomError) Error() string {
	return e.Message
}

// NewRoomError builds a typed failure for the dispatcher to serialize.
func NewRoomError(code, message string, statusCode int) *RoomError {
	return &RoomError{Code: code, Message: message, StatusCode: statusCode}
}

// AsRoomError unwraps err into a RoomError, or wraps it as an internal
// one so every failure path produces a well-formed error frame.
func AsRoomError(err error) *RoomError {
	var re *RoomError
	if errors.As(err, &re) {
		return re
	}
	return &RoomError{Code: CodeInternal, Message: "Internal Server Error", StatusCode: 500}
}
