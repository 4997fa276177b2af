package sql

import (
	"context"
	"path/filepath"
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
	cfg := Config{
		Driver:       DriverSQLite,
		DSN:          filepath.Join(s.T().TempDir(), "duel.db") + "?_busy_timeout=5000",
		MaxTxRetries: 50,
	}

	store, err := New(cfg)
	s.Require().NoError(err)

	s.storage = store
	s.Storage = store
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) TestUnsupportedDriver() {
	_, err := New(Config{Driver: "oracle"})
	s.Error(err)
}

func (s *StorageSuite) TestLivePairRowFollowsDuel() {
	duel := s.NewDuel("duel-1", "p2", "p1", 0)
	s.Require().NoError(s.storage.CreateDuel(s.Ctx, duel))

	var count int64
	s.Require().NoError(s.storage.db.Model(&livePairRecord{}).Where("pair_key = ?", model.PairKey("p1", "p2")).Count(&count).Error)
	s.Equal(int64(1), count)

	_, err := s.storage.UpdateDuel(s.Ctx, "duel-1", func(d *model.Duel) error {
		d.Status = model.DuelStatusExpired
		return nil
	})
	s.Require().NoError(err)

	s.Require().NoError(s.storage.db.Model(&livePairRecord{}).Count(&count).Error)
	s.Equal(int64(0), count)
}

func (s *StorageSuite) TestStaleVersionDoesNotOverwrite() {
	s.Require().NoError(s.storage.CreateDuel(s.Ctx, s.NewDuel("duel-1", "p1", "p2", 0)))

	// A writer that always loses: bump the version behind its back on every attempt
	attempts := 0
	_, err := s.storage.UpdateDuel(s.Ctx, "duel-1", func(d *model.Duel) error {
		attempts++
		s.Require().NoError(s.storage.db.Model(&duelRecord{}).Where("id = ?", "duel-1").
			Update("version", d.Version+1).Error)
		d.TurnNumber = 42
		return nil
	})
	s.ErrorIs(err, model.ErrConcurrentUpdate)
	s.Equal(50, attempts)

	retrieved, err := s.storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(0, retrieved.TurnNumber)
}
