package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.FinishedDuelTTL = time.Hour
	cfg.MaxTxRetries = 50

	s.storage = NewWithClient(client, cfg)
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) finish(id model.DuelID) {
	_, err := s.storage.UpdateDuel(s.Ctx, id, func(d *model.Duel) error {
		d.Status = model.DuelStatusFinished
		d.WinnerID = d.Player1ID
		return nil
	})
	s.Require().NoError(err)
}

// TTL tests

func (s *StorageSuite) TestLiveDuelHasNoTTL() {
	s.Require().NoError(s.storage.CreateDuel(s.Ctx, s.NewDuel("duel-1", "p1", "p2", 0)))

	s.Equal(time.Duration(0), s.mini.TTL(duelKey("duel-1")))
	s.True(s.mini.Exists(livePairKey(model.PairKey("p1", "p2"))))
}

func (s *StorageSuite) TestFinishedDuelGetsTTL() {
	s.Require().NoError(s.storage.CreateDuel(s.Ctx, s.NewDuel("duel-1", "p1", "p2", 0)))
	s.finish("duel-1")

	s.Equal(time.Hour, s.mini.TTL(duelKey("duel-1")))
	s.False(s.mini.Exists(livePairKey(model.PairKey("p1", "p2"))))
}

func (s *StorageSuite) TestExpiredDuelsDropOutOfListings() {
	s.Require().NoError(s.storage.CreateDuel(s.Ctx, s.NewDuel("duel-1", "p1", "p2", 0)))
	s.Require().NoError(s.storage.CreateDuel(s.Ctx, s.NewDuel("duel-2", "p1", "p3", time.Minute)))
	s.finish("duel-1")

	s.mini.FastForward(2 * time.Hour)

	duels, err := s.storage.ListDuelsForPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(duels, 1)
	s.Equal(model.DuelID("duel-2"), duels[0].ID)

	_, err = s.storage.GetDuel(s.Ctx, "duel-1")
	s.ErrorIs(err, model.ErrDuelNotFound)
}

func (s *StorageSuite) TestStatusIndexMoves() {
	s.Require().NoError(s.storage.CreateDuel(s.Ctx, s.NewDuel("duel-1", "p1", "p2", 0)))
	s.finish("duel-1")

	waiting, err := s.mini.SMembers(statusDuelsKey(model.DuelStatusWaiting))
	if err == nil {
		s.NotContains(waiting, "duel-1")
	}
	finished, err := s.mini.SMembers(statusDuelsKey(model.DuelStatusFinished))
	s.Require().NoError(err)
	s.Contains(finished, "duel-1")
}

func (s *StorageSuite) TestKeysUsePrefix() {
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, &model.Player{ID: "101"}))
	s.True(s.mini.Exists("kduel:player:101"))
	s.True(s.mini.Exists("kduel:idx:players"))
}
