package memory

import (
	"context"
	"sync"

	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players map[model.PlayerID]*model.Player
	duels   map[model.DuelID]*model.Duel
	pairs   map[string]model.DuelID

	// duelLocks serializes writers per duel
	duelLocks map[model.DuelID]*sync.Mutex
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.PlayerID]*model.Player),
		duels:     make(map[model.DuelID]*model.Duel),
		pairs:     make(map[string]model.DuelID),
		duelLocks: make(map[model.DuelID]*sync.Mutex),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, player := range s.players {
		p := *player
		players = append(players, &p)
	}
	storage.SortPlayers(players)
	return players, nil
}

// Duel operations

func (s *Storage) CreateDuel(ctx context.Context, duel *model.Duel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.duels[duel.ID]; exists {
		return model.ErrDuplicateChallenge
	}
	pairKey := duel.PairKey()
	if duel.Status.IsLive() {
		if _, taken := s.pairs[pairKey]; taken {
			return model.ErrDuplicateChallenge
		}
		s.pairs[pairKey] = duel.ID
	}
	s.duels[duel.ID] = duel.Clone()
	s.duelLocks[duel.ID] = &sync.Mutex{}
	return nil
}

func (s *Storage) GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	duel, ok := s.duels[id]
	if !ok {
		return nil, model.ErrDuelNotFound
	}
	return duel.Clone(), nil
}

func (s *Storage) UpdateDuel(ctx context.Context, id model.DuelID, fn storage.UpdateFunc) (*model.Duel, error) {
	s.mu.RLock()
	lock, ok := s.duelLocks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrDuelNotFound
	}

	lock.Lock()
	defer lock.Unlock()

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

	s.mu.Lock()
	defer s.mu.Unlock()
	if next.Status.IsTerminal() && !current.Status.IsTerminal() {
		if s.pairs[current.PairKey()] == id {
			delete(s.pairs, current.PairKey())
		}
	}
	s.duels[id] = next
	return next.Clone(), nil
}

func (s *Storage) ListDuelsForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Duel, error) {
	return s.listDuels(func(d *model.Duel) bool {
		return d.HasPlayer(id)
	}), nil
}

func (s *Storage) ListDuelsByStatus(ctx context.Context, status model.DuelStatus) ([]*model.Duel, error) {
	return s.listDuels(func(d *model.Duel) bool {
		return d.Status == status
	}), nil
}

func (s *Storage) listDuels(match func(*model.Duel) bool) []*model.Duel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	duels := make([]*model.Duel, 0)
	for _, d := range s.duels {
		if match(d) {
			duels = append(duels, d.Clone())
		}
	}
	storage.SortDuels(duels)
	return duels
}
