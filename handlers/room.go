package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/Rajat-Bansal3/Skill-Score/middleware"
	"github.com/Rajat-Bansal3/Skill-Score/models"
	"github.com/Rajat-Bansal3/Skill-Score/services"
	"github.com/Rajat-Bansal3/Skill-Score/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// SetupRoomRoutes wires the realtime surface: the WebSocket endpoint and
// the registry stats endpoint for internal callers.
func SetupRoomRoutes(app *fiber.App, rooms *services.RoomService, registry *services.Registry, verifier *middleware.TokenVerifier) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(ws *websocket.Conn) {
		handleConnection(ws, rooms, registry, verifier)
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	secured := app.Group("/", middleware.ServiceAuthMiddleware())
	secured.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(registry.Stats())
	})
}

// handleConnection runs one client's whole session: handshake auth,
// registration, then the read loop. Frames are handled one at a time per
// connection (a command's store transaction finishes before the next
// frame is read) while other connections proceed concurrently.
func handleConnection(ws *websocket.Conn, rooms *services.RoomService, registry *services.Registry, verifier *middleware.TokenVerifier) {
	claims, err := Authenticate(ws, ws.Query("token"), verifier)
	if err != nil {
		return
	}

	conn := services.NewConnection(ws, claims.ID)
	registry.Register(claims.ID, conn)
	log.Printf("✅ [ROOM] user %s connected (conn %s)", claims.ID, conn.ID())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			break
		}
		HandleFrame(ctx, frame, conn, rooms)
	}

	conn.Close()
	registry.OnClose(conn)
	log.Printf("✅ [ROOM] user %s disconnected (conn %s)", claims.ID, conn.ID())
}

// Authenticate verifies the handshake credential. On failure the peer
// gets a structured UNAUTHENTICATED frame and the socket is closed
// immediately, before any command is accepted.
func Authenticate(sock services.Socket, rawToken string, verifier *middleware.TokenVerifier) (*middleware.IdentityClaims, error) {
	claims, err := verifier.Verify(rawToken)
	if err != nil {
		conn := services.NewConnection(sock, "")
		utils.ErrorHandler(conn, "Auth Token Missing Or Invalid",
			models.CodeUnauthenticated, fiber.StatusUnauthorized)
		conn.Close()
		return nil, err
	}
	return claims, nil
}

// HandleFrame decodes and dispatches one inbound frame. Any failure is
// answered on the originating connection only; a panic is recovered so a
// bad frame can never take the connection's loop down.
func HandleFrame(ctx context.Context, frame []byte, conn *services.Connection, rooms *services.RoomService) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [ROOM] panic while processing message from %s: %v", conn.UserID(), r)
			utils.ShortcutError(conn, "Failed to process message")
		}
	}()

	msg, err := services.ParseClientMessage(frame)
	if err != nil {
		var pe *services.ParseError
		if errors.As(err, &pe) {
			utils.ShortcutError(conn, pe.Reason)
			return
		}
		utils.ShortcutError(conn, "Failed to process message")
		return
	}

	switch m := msg.(type) {
	case services.JoinTournamentMessage:
		rooms.Join(ctx, m.TournamentID, m.UserID, conn)
	case services.LeaveTournamentMessage:
		rooms.Leave(ctx, m.TournamentID, m.UserID, conn)
	case services.SendMessageMessage:
		rooms.Broadcast(m.TournamentID, m.UserID, m.Message, conn)
	}
}
