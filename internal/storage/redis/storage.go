package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.SAdd(ctx, playersIndexKey(), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var player model.Player
		if err := json.Unmarshal([]byte(str), &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	storage.SortPlayers(players)
	return players, nil
}

// Duel operations

func (s *Storage) CreateDuel(ctx context.Context, duel *model.Duel) error {
	data, err := json.Marshal(duel)
	if err != nil {
		return err
	}

	pairKey := livePairKey(duel.PairKey())
	key := duelKey(duel.ID)

	return s.retryTx(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return model.ErrDuplicateChallenge
		}
		if duel.Status.IsLive() {
			taken, err := tx.Exists(ctx, pairKey).Result()
			if err != nil {
				return err
			}
			if taken > 0 {
				return model.ErrDuplicateChallenge
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if duel.Status.IsLive() {
				pipe.Set(ctx, pairKey, string(duel.ID), 0)
			}
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, playerDuelsKey(duel.Player1ID), string(duel.ID))
			pipe.SAdd(ctx, playerDuelsKey(duel.Player2ID), string(duel.ID))
			pipe.SAdd(ctx, statusDuelsKey(duel.Status), string(duel.ID))
			return nil
		})
		return err
	}, key, pairKey)
}

func (s *Storage) GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	return getDuel(ctx, s.client, id)
}

func (s *Storage) UpdateDuel(ctx context.Context, id model.DuelID, fn storage.UpdateFunc) (*model.Duel, error) {
	key := duelKey(id)

	var updated *model.Duel
	err := s.retryTx(ctx, func(tx *redis.Tx) error {
		current, err := getDuel(ctx, tx, id)
		if err != nil {
			return err
		}

		next := current.Clone()
		if err := fn(next); err != nil {
			return err
		}
		next.ID = current.ID
		next.Version = current.Version + 1

		data, err := json.Marshal(next)
		if err != nil {
			return err
		}

		var ttl time.Duration
		if next.Status.IsTerminal() {
			ttl = s.cfg.FinishedDuelTTL
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			if current.Status != next.Status {
				pipe.SRem(ctx, statusDuelsKey(current.Status), string(id))
				pipe.SAdd(ctx, statusDuelsKey(next.Status), string(id))
			}
			if next.Status.IsTerminal() && !current.Status.IsTerminal() {
				pipe.Del(ctx, livePairKey(current.PairKey()))
			}
			return nil
		})
		if err != nil {
			return err
		}
		updated = next
		return nil
	}, key)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Storage) ListDuelsForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Duel, error) {
	return s.listDuelsInSet(ctx, playerDuelsKey(id))
}

func (s *Storage) ListDuelsByStatus(ctx context.Context, status model.DuelStatus) ([]*model.Duel, error) {
	return s.listDuelsInSet(ctx, statusDuelsKey(status))
}

// retryTx runs fn in a WATCH transaction over keys, retrying when a watched
// key changed before the commit
func (s *Storage) retryTx(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < s.cfg.MaxTxRetries; attempt++ {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return model.ErrConcurrentUpdate
}

func (s *Storage) listDuelsInSet(ctx context.Context, setKey string) ([]*model.Duel, error) {
	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Duel{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = duelKey(model.DuelID(id))
	}

	// Fetch all duels at once using MGET; expired duels come back nil
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	duels := make([]*model.Duel, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var duel model.Duel
		if err := json.Unmarshal([]byte(str), &duel); err != nil {
			return nil, err
		}
		duels = append(duels, &duel)
	}
	storage.SortDuels(duels)
	return duels, nil
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getDuel(ctx context.Context, c getter, id model.DuelID) (*model.Duel, error) {
	data, err := c.Get(ctx, duelKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDuelNotFound
		}
		return nil, err
	}

	var duel model.Duel
	if err := json.Unmarshal(data, &duel); err != nil {
		return nil, err
	}
	return &duel, nil
}
