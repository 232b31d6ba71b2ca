package utils

import (
	"encoding/json"
	"log"
)

// Sender is any destination a frame can be written to. Satisfied by
// services.Connection; tests plug in fakes.
type Sender interface {
	Send(data []byte) error
}

// SocketResponse is the envelope every post-dispatch frame uses, success
// and failure alike.
type SocketResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
	Data       any    `json:"data,omitempty"`
	StatusCode int    `json:"statusCode"`
}

// ErrorHandler writes an error envelope to the socket. Send failures are
// logged and swallowed: the peer is likely already gone.
func ErrorHandler(s Sender, message, errorCode string, statusCode int) {
	log.Printf("❌ [ROOM] error=%s status=%d: %s", errorCode, statusCode, message)
	resp := SocketResponse{
		Success:    false,
		Message:    message,
		Error:      errorCode,
		StatusCode: statusCode,
	}
	writeJSON(s, resp)
}

// SuccessHandler writes a success envelope to the socket.
func SuccessHandler(s Sender, message string, data any, statusCode int) {
	resp := SocketResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		StatusCode: statusCode,
	}
	writeJSON(s, resp)
}

// ShortcutError writes the bare pre-dispatch validation frame,
// {"error": "..."}, used before a command ever reaches the coordinator.
func ShortcutError(s Sender, message string) {
	writeJSON(s, map[string]string{"error": message})
}

func writeJSON(s Sender, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("❌ [ROOM] failed to marshal response: %v", err)
		return
	}
	if err := s.Send(payload); err != nil {
		log.Printf("❌ [ROOM] failed to write response: %v", err)
	}
}
