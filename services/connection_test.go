package services_test

import (
	"testing"

	"github.com/Rajat-Bansal3/Skill-Score/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_SendAndClose(t *testing.T) {
	conn, sock := newConn("u1")

	require.True(t, conn.Open())
	require.NoError(t, conn.Send([]byte("one")))
	assert.Len(t, sock.Frames(), 1)

	require.NoError(t, conn.Close())
	assert.False(t, conn.Open())
	assert.True(t, sock.Closed())

	err := conn.Send([]byte("two"))
	assert.ErrorIs(t, err, services.ErrConnectionClosed)
	assert.Len(t, sock.Frames(), 1)

	// Second close is a no-op.
	require.NoError(t, conn.Close())
}

func TestConnection_TournamentTracking(t *testing.T) {
	conn, _ := newConn("u1")

	assert.Empty(t, conn.Tournament())
	conn.SetTournament("t1")
	assert.Equal(t, "t1", conn.Tournament())
	conn.SetTournament("")
	assert.Empty(t, conn.Tournament())
}

func TestConnection_Identity(t *testing.T) {
	a, _ := newConn("u1")
	b, _ := newConn("u1")

	assert.Equal(t, "u1", a.UserID())
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
