// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage"
)

// Suite is embedded by backend test suites. The embedding suite must set
// Storage (and Ctx) in its SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// NewDuel builds a waiting duel between two players
func (s *Suite) NewDuel(id string, p1, p2 model.PlayerID, createdOffset time.Duration) *model.Duel {
	created := baseTime.Add(createdOffset)
	return &model.Duel{
		ID:        model.DuelID(id),
		Player1ID: p1,
		Player2ID: p2,
		Status:    model.DuelStatusWaiting,
		CreatedAt: created,
		UpdatedAt: created,
		ExpiresAt: created.Add(24 * time.Hour),
	}
}

func (s *Suite) mustCreate(d *model.Duel) {
	s.Require().NoError(s.Storage.CreateDuel(s.Ctx, d))
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:        "101",
		Username:  "mika",
		FirstName: "Mika",
		ClownName: "Bozo",
		Level:     3,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}

	err := s.Storage.SavePlayer(s.Ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "101")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal("mika", retrieved.Username)
	s.Equal("Bozo", retrieved.ClownName)
	s.Equal(3, retrieved.Level)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestSavePlayerOverwrites() {
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "101", FirstName: "Mika"}))
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "101", FirstName: "Mikica"}))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "101")
	s.Require().NoError(err)
	s.Equal("Mikica", retrieved.FirstName)
}

func (s *Suite) TestListPlayersSorted() {
	for _, id := range []model.PlayerID{"3", "1", "2"} {
		s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: id}))
	}

	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.PlayerID("1"), players[0].ID)
	s.Equal(model.PlayerID("2"), players[1].ID)
	s.Equal(model.PlayerID("3"), players[2].ID)
}

// Duel tests

func (s *Suite) TestCreateAndGetDuel() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))

	retrieved, err := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(model.DuelID("duel-1"), retrieved.ID)
	s.Equal(model.PlayerID("p1"), retrieved.Player1ID)
	s.Equal(model.PlayerID("p2"), retrieved.Player2ID)
	s.Equal(model.DuelStatusWaiting, retrieved.Status)
	s.True(retrieved.ExpiresAt.Equal(baseTime.Add(24 * time.Hour)))
}

func (s *Suite) TestGetDuelNotFound() {
	_, err := s.Storage.GetDuel(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrDuelNotFound)
}

func (s *Suite) TestCreateDuelRejectsLivePairInEitherOrder() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))

	err := s.Storage.CreateDuel(s.Ctx, s.NewDuel("duel-2", "p1", "p2", time.Minute))
	s.ErrorIs(err, model.ErrDuplicateChallenge)

	err = s.Storage.CreateDuel(s.Ctx, s.NewDuel("duel-3", "p2", "p1", time.Minute))
	s.ErrorIs(err, model.ErrDuplicateChallenge)

	_, err = s.Storage.GetDuel(s.Ctx, "duel-2")
	s.ErrorIs(err, model.ErrDuelNotFound)
}

func (s *Suite) TestCreateDuelAllowsOtherPairs() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))
	s.mustCreate(s.NewDuel("duel-2", "p1", "p3", time.Minute))
	s.mustCreate(s.NewDuel("duel-3", "p3", "p2", 2*time.Minute))
}

func (s *Suite) TestTerminalDuelReleasesPair() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))

	_, err := s.Storage.UpdateDuel(s.Ctx, "duel-1", func(d *model.Duel) error {
		d.Status = model.DuelStatusDeclined
		return nil
	})
	s.Require().NoError(err)

	s.mustCreate(s.NewDuel("duel-2", "p2", "p1", time.Minute))
}

func (s *Suite) TestActiveDuelKeepsPair() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))

	_, err := s.Storage.UpdateDuel(s.Ctx, "duel-1", func(d *model.Duel) error {
		d.Status = model.DuelStatusActive
		return nil
	})
	s.Require().NoError(err)

	err = s.Storage.CreateDuel(s.Ctx, s.NewDuel("duel-2", "p2", "p1", time.Minute))
	s.ErrorIs(err, model.ErrDuplicateChallenge)
}

func (s *Suite) TestUpdateDuelCommitsAndBumpsVersion() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))

	updated, err := s.Storage.UpdateDuel(s.Ctx, "duel-1", func(d *model.Duel) error {
		d.Status = model.DuelStatusActive
		d.CurrentTurnUser = d.Player1ID
		d.TurnNumber = 1
		d.Player1State = model.CombatState{Respect: 50, Novcanik: 100, SpecialsUsed: map[string]int{"pesma": 1}}
		d.Log = append(d.Log, model.TurnLogEntry{
			TurnNumber: 1,
			UserID:     "p1",
			ActionType: "rakija",
			FlavorText: "zivili",
			Timestamp:  baseTime,
		})
		return nil
	})
	s.Require().NoError(err)
	s.Equal(int64(1), updated.Version)

	retrieved, err := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(int64(1), retrieved.Version)
	s.Equal(model.DuelStatusActive, retrieved.Status)
	s.Equal(model.PlayerID("p1"), retrieved.CurrentTurnUser)
	s.Equal(50, retrieved.Player1State.Respect)
	s.Equal(1, retrieved.Player1State.SpecialsUsed["pesma"])
	s.Require().Len(retrieved.Log, 1)
	s.Equal("zivili", retrieved.Log[0].FlavorText)
	s.True(retrieved.Log[0].Timestamp.Equal(baseTime))
}

func (s *Suite) TestUpdateDuelErrorLeavesDuelUnchanged() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))
	boom := errors.New("boom")

	_, err := s.Storage.UpdateDuel(s.Ctx, "duel-1", func(d *model.Duel) error {
		d.Status = model.DuelStatusActive
		d.TurnNumber = 99
		return boom
	})
	s.ErrorIs(err, boom)

	retrieved, err := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(model.DuelStatusWaiting, retrieved.Status)
	s.Equal(0, retrieved.TurnNumber)
	s.Equal(int64(0), retrieved.Version)
}

func (s *Suite) TestUpdateDuelNotFound() {
	_, err := s.Storage.UpdateDuel(s.Ctx, "missing", func(d *model.Duel) error {
		return nil
	})
	s.ErrorIs(err, model.ErrDuelNotFound)
}

func (s *Suite) TestReturnedDuelIsDetached() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))

	d, err := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	d.Status = model.DuelStatusFinished

	retrieved, err := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(model.DuelStatusWaiting, retrieved.Status)
}

func (s *Suite) TestConcurrentUpdatesAreSerialized() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Storage.UpdateDuel(s.Ctx, "duel-1", func(d *model.Duel) error {
				d.TurnNumber++
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}

	retrieved, err := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(writers, retrieved.TurnNumber)
	s.Equal(int64(writers), retrieved.Version)
}

func (s *Suite) TestOnlyOneConcurrentAcceptWins() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))

	const callers = 6
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Storage.UpdateDuel(s.Ctx, "duel-1", func(d *model.Duel) error {
				if d.Status != model.DuelStatusWaiting {
					return model.ErrChallengeResolved
				}
				d.Status = model.DuelStatusActive
				return nil
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrChallengeResolved)
	}
	s.Equal(1, succeeded)
}

func (s *Suite) TestListDuelsForPlayer() {
	s.mustCreate(s.NewDuel("duel-2", "p1", "p3", time.Minute))
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))
	s.mustCreate(s.NewDuel("duel-3", "p2", "p3", 2*time.Minute))

	duels, err := s.Storage.ListDuelsForPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(duels, 2)
	s.Equal(model.DuelID("duel-1"), duels[0].ID)
	s.Equal(model.DuelID("duel-2"), duels[1].ID)

	duels, err = s.Storage.ListDuelsForPlayer(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(duels)
}

func (s *Suite) TestListDuelsByStatusFollowsTransitions() {
	s.mustCreate(s.NewDuel("duel-1", "p1", "p2", 0))
	s.mustCreate(s.NewDuel("duel-2", "p1", "p3", time.Minute))

	_, err := s.Storage.UpdateDuel(s.Ctx, "duel-1", func(d *model.Duel) error {
		d.Status = model.DuelStatusActive
		return nil
	})
	s.Require().NoError(err)

	waiting, err := s.Storage.ListDuelsByStatus(s.Ctx, model.DuelStatusWaiting)
	s.Require().NoError(err)
	s.Require().Len(waiting, 1)
	s.Equal(model.DuelID("duel-2"), waiting[0].ID)

	active, err := s.Storage.ListDuelsByStatus(s.Ctx, model.DuelStatusActive)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(model.DuelID("duel-1"), active[0].ID)

	finished, err := s.Storage.ListDuelsByStatus(s.Ctx, model.DuelStatusFinished)
	s.Require().NoError(err)
	s.Empty(finished)
}
