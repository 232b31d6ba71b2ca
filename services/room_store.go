package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rajat-Bansal3/Skill-Score/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomStore is the transactional data access the coordinator runs on.
// Both mutations are atomic: either the participant and the tournament
// membership both change, or neither does.
type RoomStore interface {
	JoinTournament(ctx context.Context, tournamentID, userID string) (*models.Participant, *models.Tournament, error)
	LeaveTournament(ctx context.Context, tournamentID, userID string) (*models.Participant, *models.Tournament, error)

	// StaleInGameParticipants lists INGAME participants whose id is not
	// in activeIDs. ReleaseParticipant force-clears one of them.
	StaleInGameParticipants(ctx context.Context, activeIDs []string) ([]models.Participant, error)
	ReleaseParticipant(ctx context.Context, userID string) error
}

// GormRoomStore implements RoomStore on Postgres.
type GormRoomStore struct {
	DB *gorm.DB
}

func NewGormRoomStore(db *gorm.DB) *GormRoomStore {
	return &GormRoomStore{DB: db}
}

// participantSnapshot loads a participant without its password hash.
func participantSnapshot(tx *gorm.DB, userID string) (*models.Participant, error) {
	var p models.Participant
	if err := tx.Omit("PasswordHash").First(&p, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	p.PasswordHash = ""
	return &p, nil
}

// tournamentSnapshot loads a tournament with its member set assembled.
func tournamentSnapshot(tx *gorm.DB, tournamentID string) (*models.Tournament, error) {
	var t models.Tournament
	if err := tx.First(&t, "id = ?", tournamentID).Error; err != nil {
		return nil, err
	}
	var members []models.TournamentMember
	if err := tx.Where("tournament_id = ?", tournamentID).Order("joined_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	t.CurrentUsers = make([]string, 0, len(members))
	for _, m := range members {
		t.CurrentUsers = append(t.CurrentUsers, m.UserID)
	}
	return &t, nil
}

// JoinTournament moves a participant into a tournament in one
// transaction. The tournament row is locked FOR UPDATE first so that
// concurrent joins serialize and the capacity check cannot race.
func (s *GormRoomStore) JoinTournament(ctx context.Context, tournamentID, userID string) (*models.Participant, *models.Tournament, error) {
	var participant *models.Participant
	var tournament *models.Tournament

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Tournament
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, "id = ?", tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewRoomError(models.CodeResourceNotFound,
					"Tournament doesnt Exists", fiber.StatusNotFound)
			}
			return err
		}

		// Precondition: the participant exists and is in no tournament.
		// Matching zero rows covers both failure flavors, like the
		// original's conditional findOneAndUpdate.
		res := tx.Model(&models.Participant{}).
			Where("id = ? AND tournament_id IS NULL", userID).
			Updates(map[string]any{
				"tournament_id": tournamentID,
				"status":        models.StatusInGame,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewRoomError(models.CodeConflict,
				"User doesn't exist or already in a tournament", fiber.StatusConflict)
		}

		var memberCount int64
		if err := tx.Model(&models.TournamentMember{}).
			Where("tournament_id = ?", tournamentID).
			Count(&memberCount).Error; err != nil {
			return err
		}
		if memberCount >= int64(t.MaxMembers) {
			return models.NewRoomError(models.CodeConflict,
				"Tournament is full", fiber.StatusConflict)
		}

		member := models.TournamentMember{TournamentID: tournamentID, UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
			return err
		}

		var err error
		if participant, err = participantSnapshot(tx, userID); err != nil {
			return err
		}
		if tournament, err = tournamentSnapshot(tx, tournamentID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return participant, tournament, nil
}

// LeaveTournament clears the participant's tournament reference and
// removes its membership row. Either update affecting zero rows aborts
// the transaction.
func (s *GormRoomStore) LeaveTournament(ctx context.Context, tournamentID, userID string) (*models.Participant, *models.Tournament, error) {
	var participant *models.Participant
	var tournament *models.Tournament

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Participant{}).
			Where("id = ? AND tournament_id = ?", userID, tournamentID).
			Updates(map[string]any{
				"tournament_id": nil,
				"status":        models.StatusOffline,
			})
		if res.Error != nil {
			return res.Error
		}

		del := tx.Where("tournament_id = ? AND user_id = ?", tournamentID, userID).
			Delete(&models.TournamentMember{})
		if del.Error != nil {
			return del.Error
		}

		if res.RowsAffected == 0 || del.RowsAffected == 0 {
			return models.NewRoomError(models.CodeResourceNotFound,
				"Tournament or User doesn't exist", fiber.StatusNotFound)
		}

		var err error
		if participant, err = participantSnapshot(tx, userID); err != nil {
			return err
		}
		if tournament, err = tournamentSnapshot(tx, tournamentID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return participant, tournament, nil
}

// StaleInGameParticipants lists INGAME participants with no live
// connection. activeIDs comes from the registry; an empty slice means
// every INGAME participant is stale.
func (s *GormRoomStore) StaleInGameParticipants(ctx context.Context, activeIDs []string) ([]models.Participant, error) {
	q := s.DB.WithContext(ctx).
		Omit("PasswordHash").
		Where("status = ?", models.StatusInGame)
	if len(activeIDs) > 0 {
		q = q.Where("id NOT IN ?", activeIDs)
	}
	var stale []models.Participant
	if err := q.Find(&stale).Error; err != nil {
		return nil, err
	}
	return stale, nil
}

// ReleaseParticipant force-leaves a participant from whatever tournament
// it references. Used only by the reconcile sweep; a participant with no
// tournament reference is a no-op.
func (s *GormRoomStore) ReleaseParticipant(ctx context.Context, userID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Participant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if p.TournamentID == nil {
			return nil
		}

		if err := tx.Where("tournament_id = ? AND user_id = ?", *p.TournamentID, userID).
			Delete(&models.TournamentMember{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Participant{}).
			Where("id = ?", userID).
			Updates(map[string]any{
				"tournament_id": nil,
				"status":        models.StatusOffline,
			}).Error; err != nil {
			return fmt.Errorf("failed to release participant %s: %w", userID, err)
		}
		return nil
	})
}
