package services

import (
	"encoding/json"
)

// ClientMessage is the closed set of commands a connection may send.
// Adding a command kind means adding a variant here and a case in the
// handler's type switch.
type ClientMessage interface {
	clientMessage()
}

// JoinTournamentMessage asks to join a tournament.
type JoinTournamentMessage struct {
	TournamentID string
	UserID       string
}

// LeaveTournamentMessage asks to leave a tournament.
type LeaveTournamentMessage struct {
	TournamentID string
	UserID       string
}

// SendMessageMessage broadcasts a chat message to a tournament.
type SendMessageMessage struct {
	TournamentID string
	UserID       string
	Message      string
}

func (JoinTournamentMessage) clientMessage()  {}
func (LeaveTournamentMessage) clientMessage() {}
func (SendMessageMessage) clientMessage()     {}

// ParseError is a pre-dispatch validation failure. Its text goes to the
// client verbatim in the bare {"error": ...} shortcut frame.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}

// Shortcut frame texts. These are part of the wire contract.
const (
	errInvalidTournamentID    = "Invalid tournamentId"
	errInvalidTournamentOrMsg = "Invalid tournamentId or message"
	errUnknownMessageType     = "Unknown message type"
	errMalformedFrame         = "Failed to process message"
)

type rawClientMessage struct {
	Type         string `json:"type"`
	TournamentID string `json:"tournamentId"`
	UserID       string `json:"userId"`
	Message      string `json:"message"`
}

// ParseClientMessage decodes an inbound frame into a typed command.
// Structurally incomplete or unrecognized frames fail with a ParseError
// and must cause no side effects downstream.
func ParseClientMessage(data []byte) (ClientMessage, error) {
	var raw rawClientMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Reason: errMalformedFrame}
	}

	switch raw.Type {
	case "join_tournament":
		if raw.TournamentID == "" {
			return nil, &ParseError{Reason: errInvalidTournamentID}
		}
		return JoinTournamentMessage{TournamentID: raw.TournamentID, UserID: raw.UserID}, nil

	case "leave_tournament":
		if raw.TournamentID == "" {
			return nil, &ParseError{Reason: errInvalidTournamentID}
		}
		return LeaveTournamentMessage{TournamentID: raw.TournamentID, UserID: raw.UserID}, nil

	case "send_message":
		if raw.TournamentID == "" || raw.Message == "" {
			return nil, &ParseError{Reason: errInvalidTournamentOrMsg}
		}
		return SendMessageMessage{TournamentID: raw.TournamentID, UserID: raw.UserID, Message: raw.Message}, nil

	default:
		return nil, &ParseError{Reason: errUnknownMessageType}
	}
}
