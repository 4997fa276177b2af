package storage

import (
	"context"
	"sort"

	"github.com/mcoot/kafanski-duel/internal/model"
)

// UpdateFunc mutates a private copy of the latest committed duel.
// Returning an error aborts the update and leaves the stored duel unchanged.
type UpdateFunc func(duel *model.Duel) error

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// CreateDuel inserts a new duel. It fails with model.ErrDuplicateChallenge
	// when a live duel already exists for the same unordered pair of players.
	CreateDuel(ctx context.Context, duel *model.Duel) error
	GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error)

	// UpdateDuel applies fn to the latest committed duel and commits the
	// result atomically, bumping its version. Concurrent writers on the same
	// duel are serialized; model.ErrConcurrentUpdate is returned if the commit
	// keeps losing races.
	UpdateDuel(ctx context.Context, id model.DuelID, fn UpdateFunc) (*model.Duel, error)

	ListDuelsForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Duel, error)
	ListDuelsByStatus(ctx context.Context, status model.DuelStatus) ([]*model.Duel, error)
}

// SortDuels orders duels by creation time, oldest first, then by id
func SortDuels(duels []*model.Duel) {
	sort.Slice(duels, func(i, j int) bool {
		if !duels[i].CreatedAt.Equal(duels[j].CreatedAt) {
			return duels[i].CreatedAt.Before(duels[j].CreatedAt)
		}
		return duels[i].ID < duels[j].ID
	})
}

// SortPlayers orders players by id
func SortPlayers(players []*model.Player) {
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
}
