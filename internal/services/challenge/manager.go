package challenge

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/kafanski-duel/internal/dependencies/clock"
	"github.com/mcoot/kafanski-duel/internal/dependencies/random"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/directory"
	"github.com/mcoot/kafanski-duel/internal/services/duel"
	"github.com/mcoot/kafanski-duel/internal/services/history"
	"github.com/mcoot/kafanski-duel/internal/storage"
)

// ManagerInterface defines the challenge lifecycle operations
type ManagerInterface interface {
	CreateChallenge(ctx context.Context, challenger, opponent model.PlayerID) (*model.Duel, error)
	AcceptChallenge(ctx context.Context, id model.DuelID, caller model.PlayerID) (*model.Duel, error)
	DeclineChallenge(ctx context.Context, id model.DuelID, caller model.PlayerID) (*model.Duel, error)
	ListLobby(ctx context.Context, caller model.PlayerID) (*Lobby, error)
	ExpireStale(ctx context.Context) (int, error)
}

// Lobby is one player's view of their challenges and duels
type Lobby struct {
	Incoming   []*model.Duel
	Outgoing   []*model.Duel
	Active     []*model.Duel
	Finished   []model.DuelSummary
	Candidates []*model.Player
}

// FinishedLister supplies a player's finished duels, newest first
type FinishedLister interface {
	Finished(ctx context.Context, player model.PlayerID, limit int) ([]model.DuelSummary, error)
}

var _ FinishedLister = (*history.Recorder)(nil)

// Manager creates challenges and moves them out of the waiting state
type Manager struct {
	storage   storage.Storage
	engine    *duel.Engine
	directory directory.ServiceInterface
	history   FinishedLister
	clock     clock.Clock
	random    random.Random
	tracer    trace.Tracer
	logger    *slog.Logger
}

var _ ManagerInterface = (*Manager)(nil)

// NewManager creates a new challenge Manager
func NewManager(
	storage storage.Storage,
	engine *duel.Engine,
	directory directory.ServiceInterface,
	history FinishedLister,
	clock clock.Clock,
	random random.Random,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		storage:   storage,
		engine:    engine,
		directory: directory,
		history:   history,
		clock:     clock,
		random:    random,
		tracer:    tracer,
		logger:    logger,
	}
}

// CreateChallenge invites opponent to a duel. At most one live duel may exist
// per pair of players, whoever challenged whom.
func (m *Manager) CreateChallenge(ctx context.Context, challenger, opponent model.PlayerID) (*model.Duel, error) {
	ctx, span := m.tracer.Start(ctx, "challenge.Create", trace.WithAttributes(
		attribute.String("player.id", string(challenger)),
		attribute.String("opponent.id", string(opponent)),
	))
	defer span.End()

	if challenger == opponent {
		return nil, spanError(span, model.ErrSelfChallenge)
	}
	if _, err := m.directory.GetPlayer(ctx, opponent); err != nil {
		return nil, spanError(span, err)
	}

	now := m.clock.Now()
	d := &model.Duel{
		ID:        model.DuelID(m.random.ID()),
		Player1ID: challenger,
		Player2ID: opponent,
		Status:    model.DuelStatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(m.engine.Rules().ChallengeTTL),
	}

	if err := m.storage.CreateDuel(ctx, d); err != nil {
		if !errors.Is(err, model.ErrDuplicateChallenge) {
			m.logger.Error("failed to save challenge",
				slog.String("duel_id", string(d.ID)),
				slog.String("error", err.Error()),
			)
		}
		return nil, spanError(span, err)
	}
	span.SetAttributes(attribute.String("duel.id", string(d.ID)))

	m.logger.Info("challenge created",
		slog.String("duel_id", string(d.ID)),
		slog.String("challenger_id", string(challenger)),
		slog.String("opponent_id", string(opponent)),
	)

	return d, nil
}

// AcceptChallenge starts the duel. Only the challenged player may accept,
// and only once.
func (m *Manager) AcceptChallenge(ctx context.Context, id model.DuelID, caller model.PlayerID) (*model.Duel, error) {
	ctx, span := m.tracer.Start(ctx, "challenge.Accept", trace.WithAttributes(
		attribute.String("duel.id", string(id)),
		attribute.String("player.id", string(caller)),
	))
	defer span.End()

	d, err := m.storage.UpdateDuel(ctx, id, func(d *model.Duel) error {
		now := m.clock.Now()
		if err := m.checkPending(d, caller, now); err != nil {
			return err
		}
		m.engine.Start(d)
		d.AcceptedAt = &now
		d.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}

	m.logger.Info("challenge accepted",
		slog.String("duel_id", string(id)),
		slog.String("player_id", string(caller)),
	)

	return d, nil
}

// DeclineChallenge refuses the duel. Only the challenged player may decline,
// and only while the challenge is pending.
func (m *Manager) DeclineChallenge(ctx context.Context, id model.DuelID, caller model.PlayerID) (*model.Duel, error) {
	ctx, span := m.tracer.Start(ctx, "challenge.Decline", trace.WithAttributes(
		attribute.String("duel.id", string(id)),
		attribute.String("player.id", string(caller)),
	))
	defer span.End()

	d, err := m.storage.UpdateDuel(ctx, id, func(d *model.Duel) error {
		now := m.clock.Now()
		if err := m.checkPending(d, caller, now); err != nil {
			return err
		}
		d.Status = model.DuelStatusDeclined
		d.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}

	m.logger.Info("challenge declined",
		slog.String("duel_id", string(id)),
		slog.String("player_id", string(caller)),
	)

	return d, nil
}

func (m *Manager) checkPending(d *model.Duel, caller model.PlayerID, now time.Time) error {
	if caller == "" || caller != d.Player2ID {
		return model.ErrNotChallenged
	}
	if d.Status != model.DuelStatusWaiting {
		return model.ErrChallengeResolved
	}
	if now.After(d.ExpiresAt) {
		return model.ErrChallengeExpired
	}
	return nil
}

// ListLobby partitions the caller's duels for display. Expired challenges
// that have not been swept yet are left out.
func (m *Manager) ListLobby(ctx context.Context, caller model.PlayerID) (*Lobby, error) {
	duels, err := m.storage.ListDuelsForPlayer(ctx, caller)
	if err != nil {
		return nil, err
	}
	candidates, err := m.directory.ListCandidates(ctx, caller)
	if err != nil {
		return nil, err
	}
	finished, err := m.history.Finished(ctx, caller, m.engine.Rules().FinishedHistory)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	lobby := &Lobby{
		Incoming:   []*model.Duel{},
		Outgoing:   []*model.Duel{},
		Active:     []*model.Duel{},
		Finished:   finished,
		Candidates: candidates,
	}
	for _, d := range duels {
		switch d.Status {
		case model.DuelStatusWaiting:
			if now.After(d.ExpiresAt) {
				continue
			}
			if d.Player2ID == caller {
				lobby.Incoming = append(lobby.Incoming, d)
			} else {
				lobby.Outgoing = append(lobby.Outgoing, d)
			}
		case model.DuelStatusActive:
			lobby.Active = append(lobby.Active, d)
		}
	}
	newestFirst(lobby.Incoming)
	newestFirst(lobby.Outgoing)
	newestFirst(lobby.Active)

	return lobby, nil
}

// ExpireStale marks waiting challenges past their deadline as expired and
// returns how many it expired
func (m *Manager) ExpireStale(ctx context.Context) (int, error) {
	waiting, err := m.storage.ListDuelsByStatus(ctx, model.DuelStatusWaiting)
	if err != nil {
		return 0, err
	}

	now := m.clock.Now()
	expired := 0
	var errs []error
	for _, d := range waiting {
		if !now.After(d.ExpiresAt) {
			continue
		}
		_, err := m.storage.UpdateDuel(ctx, d.ID, func(d *model.Duel) error {
			if d.Status != model.DuelStatusWaiting {
				return model.ErrChallengeResolved
			}
			d.Status = model.DuelStatusExpired
			d.UpdatedAt = now
			return nil
		})
		switch {
		case err == nil:
			expired++
			m.logger.Info("challenge expired", slog.String("duel_id", string(d.ID)))
		case errors.Is(err, model.ErrChallengeResolved):
			// accepted or declined since we listed it
		default:
			errs = append(errs, err)
		}
	}
	return expired, errors.Join(errs...)
}

func newestFirst(duels []*model.Duel) {
	sort.SliceStable(duels, func(i, j int) bool {
		return duels[i].CreatedAt.After(duels[j].CreatedAt)
	})
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
