package services

import (
	"context"
	"log"

	"github.com/Rajat-Bansal3/Skill-Score/models"
	"github.com/Rajat-Bansal3/Skill-Score/utils"

	"github.com/gofiber/fiber/v2"
)

// RoomService is the room coordinator: it enforces the join/leave
// invariants against the store and keeps the registry's fan-out sets in
// step with committed state. Like the rest of the services, its methods
// answer the caller directly rather than returning payloads upward.
type RoomService struct {
	store    RoomStore
	registry *Registry
}

func NewRoomService(store RoomStore, registry *Registry) *RoomService {
	return &RoomService{store: store, registry: registry}
}

// Join moves the participant into the tournament. The store transaction
// rejects double-joins (CONFLICT) and full or missing tournaments; only
// after commit does the connection enter the fan-out set.
func (s *RoomService) Join(ctx context.Context, tournamentID, userID string, conn *Connection) {
	if tournamentID == "" || userID == "" {
		utils.ErrorHandler(conn, "tournamentId and userId are required",
			models.CodeInvalidMessage, fiber.StatusBadRequest)
		return
	}

	participant, tournament, err := s.store.JoinTournament(ctx, tournamentID, userID)
	if err != nil {
		re := models.AsRoomError(err)
		utils.ErrorHandler(conn, re.Message, re.Code, re.StatusCode)
		return
	}

	s.registry.AddToTournament(tournamentID, conn)
	conn.SetTournament(tournamentID)

	log.Printf("✅ [ROOM] user %s joined tournament %s (%d member(s))",
		userID, tournamentID, len(tournament.CurrentUsers))
	utils.SuccessHandler(conn, "joined Successfully", fiber.Map{
		"user":       participant,
		"tournament": tournament,
	}, fiber.StatusOK)
}

// Leave removes the participant from the tournament it is actually in;
// leaving anything else is RESOURCE_NOT_FOUND with no state change.
func (s *RoomService) Leave(ctx context.Context, tournamentID, userID string, conn *Connection) {
	if tournamentID == "" || userID == "" {
		utils.ErrorHandler(conn, "tournamentId and userId are required",
			models.CodeInvalidMessage, fiber.StatusBadRequest)
		return
	}

	participant, tournament, err := s.store.LeaveTournament(ctx, tournamentID, userID)
	if err != nil {
		re := models.AsRoomError(err)
		utils.ErrorHandler(conn, re.Message, re.Code, re.StatusCode)
		return
	}

	s.registry.RemoveFromTournament(tournamentID, conn)
	conn.SetTournament("")

	log.Printf("✅ [ROOM] user %s left tournament %s", userID, tournamentID)
	utils.SuccessHandler(conn, "Left the tournament successfully", fiber.Map{
		"user":       participant,
		"tournament": tournament,
	}, fiber.StatusOK)
}

// Broadcast fans a chat message out to every open member connection of
// the tournament except the sender. Delivery is best effort: a failed
// recipient is logged and skipped, the rest still get the message.
func (s *RoomService) Broadcast(tournamentID, userID, message string, sender *Connection) {
	members := s.registry.Members(tournamentID)
	if len(members) == 0 {
		utils.ErrorHandler(sender, "No Members in the tournament",
			models.CodeNotFound, fiber.StatusNotFound)
		return
	}

	for _, member := range members {
		if member == sender || !member.Open() {
			continue
		}
		utils.SuccessHandler(member, "New tournament message", fiber.Map{
			"tournamentId": tournamentID,
			"userId":       userID,
			"message":      message,
		}, fiber.StatusOK)
	}
}
