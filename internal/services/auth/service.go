package auth

import (
	"context"
	"log/slog"

	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/directory"
)

// Service turns per-request credentials into known players
type Service struct {
	tokens    *Tokens
	directory directory.ServiceInterface
	logger    *slog.Logger
}

// New creates a new auth Service
func New(tokens *Tokens, directory directory.ServiceInterface, logger *slog.Logger) *Service {
	return &Service{
		tokens:    tokens,
		directory: directory,
		logger:    logger,
	}
}

// Authenticate verifies the token and records the identity in the directory
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Player, error) {
	identity, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug("token rejected", slog.String("error", err.Error()))
		return nil, err
	}
	return s.directory.EnsurePlayer(ctx, *identity)
}

// Tokens exposes the token codec
func (s *Service) Tokens() *Tokens {
	return s.tokens
}
