package directory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/kafanski-duel/internal/dependencies/clock"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage"
)

// ServiceInterface defines the directory operations used by other services
type ServiceInterface interface {
	EnsurePlayer(ctx context.Context, identity model.Player) (*model.Player, error)
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListCandidates(ctx context.Context, exclude model.PlayerID) ([]*model.Player, error)
	DisplayName(ctx context.Context, id model.PlayerID) string
}

// Service keeps the set of known players and their display attributes
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

var _ ServiceInterface = (*Service)(nil)

// New creates a new directory Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// EnsurePlayer records a verified identity, creating the player on first
// sight and refreshing its attributes when they changed
func (s *Service) EnsurePlayer(ctx context.Context, identity model.Player) (*model.Player, error) {
	existing, err := s.storage.GetPlayer(ctx, identity.ID)
	if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	if existing != nil {
		if existing.Username == identity.Username &&
			existing.FirstName == identity.FirstName &&
			existing.ClownName == identity.ClownName &&
			existing.Level == identity.Level {
			return existing, nil
		}
		updated := *existing
		updated.Username = identity.Username
		updated.FirstName = identity.FirstName
		updated.ClownName = identity.ClownName
		updated.Level = identity.Level
		updated.UpdatedAt = now
		if err := s.storage.SavePlayer(ctx, &updated); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	player := identity
	player.CreatedAt = now
	player.UpdatedAt = now
	if err := s.storage.SavePlayer(ctx, &player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("display_name", player.DisplayName()),
	)

	return &player, nil
}

// GetPlayer returns a known player
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// ListCandidates returns every known player except the excluded one
func (s *Service) ListCandidates(ctx context.Context, exclude model.PlayerID) ([]*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if p.ID != exclude {
			candidates = append(candidates, p)
		}
	}
	return candidates, nil
}

// DisplayName resolves a player's display name, falling back to the default
// for players the directory does not know
func (s *Service) DisplayName(ctx context.Context, id model.PlayerID) string {
	p, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return model.DefaultDisplayName
	}
	return p.DisplayName()
}
