package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestSavedPlayerIsCopied() {
	player := &model.Player{ID: "101", FirstName: "Mika"}
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, player))

	player.FirstName = "Zika"

	retrieved, err := s.storage.GetPlayer(s.Ctx, "101")
	s.Require().NoError(err)
	s.Equal("Mika", retrieved.FirstName)
}

func (s *StorageSuite) TestCreatedDuelIsCopied() {
	duel := s.NewDuel("duel-1", "p1", "p2", 0)
	s.Require().NoError(s.storage.CreateDuel(s.Ctx, duel))

	duel.Status = model.DuelStatusFinished

	retrieved, err := s.storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(model.DuelStatusWaiting, retrieved.Status)
}
