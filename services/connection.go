package services

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Socket is the transport half of a Connection. *websocket.Conn
// satisfies it; tests substitute fakes.
type Socket interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type closedConnError struct{}

func (closedConnError) Error() string { return "connection closed" }

// ErrConnectionClosed reports a write to a connection whose transport is
// no longer open.
var ErrConnectionClosed error = closedConnError{}

// Connection is one authenticated client socket. It is owned by the
// Registry for its lifetime and destroyed on transport close. Writes are
// serialized: websocket conns allow a single concurrent writer.
type Connection struct {
	id     string
	userID string

	mu         sync.Mutex
	sock       Socket
	tournament string
	closed     bool
}

// NewConnection wraps an accepted, authenticated socket.
func NewConnection(sock Socket, userID string) *Connection {
	return &Connection{
		id:     uuid.NewString(),
		userID: userID,
		sock:   sock,
	}
}

// ID is a per-connection uuid, used only in logs.
func (c *Connection) ID() string { return c.id }

// UserID is the authenticated subject behind this connection.
func (c *Connection) UserID() string { return c.userID }

// Tournament returns the tournament this connection is currently joined
// to, or "" when it is in none.
func (c *Connection) Tournament() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tournament
}

// SetTournament records the tournament this connection is joined to.
func (c *Connection) SetTournament(tournamentID string) {
	c.mu.Lock()
	c.tournament = tournamentID
	c.mu.Unlock()
}

// Open reports whether the transport is still usable.
func (c *Connection) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Send writes one text frame. Concurrent callers (a broadcast racing the
// connection's own reply) are serialized by the write mutex.
func (c *Connection) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	return c.sock.WriteMessage(websocket.TextMessage, data)
}

// Close shuts the transport down. Safe to call more than once; only the
// first call reaches the socket.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.sock.Close()
}
