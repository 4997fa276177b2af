// Package sql stores players and duels in a relational database through gorm.
package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage"
)

// Storage is a gorm-backed implementation of the storage interface
type Storage struct {
	db  *gorm.DB
	cfg Config
}

// New opens the database described by cfg and migrates the schema
func New(cfg Config) (*Storage, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// sqlite allows a single writer; one connection avoids "database is locked"
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return NewWithDB(db, cfg)
}

// NewWithDB creates a storage over an existing gorm handle and migrates the schema
func NewWithDB(db *gorm.DB, cfg Config) (*Storage, error) {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	if err := db.AutoMigrate(&playerRecord{}, &duelRecord{}, &livePairRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Storage{db: db, cfg: cfg}, nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(playerToRecord(player)).Error
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var rec playerRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", string(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return rec.toModel(), nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	var recs []playerRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	players := make([]*model.Player, 0, len(recs))
	for i := range recs {
		players = append(players, recs[i].toModel())
	}
	storage.SortPlayers(players)
	return players, nil
}

// Duel operations

func (s *Storage) CreateDuel(ctx context.Context, duel *model.Duel) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if duel.Status.IsLive() {
			var taken int64
			if err := tx.Model(&livePairRecord{}).Where("pair_key = ?", duel.PairKey()).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return model.ErrDuplicateChallenge
			}
			if err := tx.Create(&livePairRecord{PairKey: duel.PairKey(), DuelID: string(duel.ID)}).Error; err != nil {
				return err
			}
		}
		return tx.Create(duelToRecord(duel)).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrDuplicateChallenge
	}
	return err
}

func (s *Storage) GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	var rec duelRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", string(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrDuelNotFound
		}
		return nil, err
	}
	return rec.toModel(), nil
}

func (s *Storage) UpdateDuel(ctx context.Context, id model.DuelID, fn storage.UpdateFunc) (*model.Duel, error) {
	for attempt := 0; attempt < s.cfg.MaxTxRetries; attempt++ {
		current, err := s.GetDuel(ctx, id)
		if err != nil {
			return nil, err
		}

		next := current.Clone()
		if err := fn(next); err != nil {
			return nil, err
		}
		next.ID = current.ID
		next.Version = current.Version + 1

		committed := false
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			rec := duelToRecord(next)
			// Conditional on the version we read; zero rows means another writer won
			res := tx.Model(rec).
				Where("version = ?", current.Version).
				Select("*").
				Updates(rec)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			if next.Status.IsTerminal() && !current.Status.IsTerminal() {
				if err := tx.Delete(&livePairRecord{}, "pair_key = ? AND duel_id = ?", current.PairKey(), string(id)).Error; err != nil {
					return err
				}
			}
			committed = true
			return nil
		})
		if err != nil {
			return nil, err
		}
		if committed {
			return next, nil
		}
	}
	return nil, model.ErrConcurrentUpdate
}

func (s *Storage) ListDuelsForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Duel, error) {
	return s.listDuels(ctx, "player1_id = ? OR player2_id = ?", string(id), string(id))
}

func (s *Storage) ListDuelsByStatus(ctx context.Context, status model.DuelStatus) ([]*model.Duel, error) {
	return s.listDuels(ctx, "status = ?", string(status))
}

func (s *Storage) listDuels(ctx context.Context, query string, args ...interface{}) ([]*model.Duel, error) {
	var recs []duelRecord
	if err := s.db.WithContext(ctx).Where(query, args...).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, err
	}
	duels := make([]*model.Duel, 0, len(recs))
	for i := range recs {
		duels = append(duels, recs[i].toModel())
	}
	storage.SortDuels(duels)
	return duels, nil
}
