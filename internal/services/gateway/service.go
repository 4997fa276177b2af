package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/kafanski-duel/internal/catalog"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/challenge"
	"github.com/mcoot/kafanski-duel/internal/services/directory"
	"github.com/mcoot/kafanski-duel/internal/services/duel"
	"github.com/mcoot/kafanski-duel/internal/services/history"
)

// ServiceInterface is what polling clients talk to
type ServiceInterface interface {
	GetState(ctx context.Context, id model.DuelID, caller model.PlayerID) (*View, error)
	ListActive(ctx context.Context, caller model.PlayerID) (*challenge.Lobby, error)
	SubmitAction(ctx context.Context, id model.DuelID, caller model.PlayerID, actionKey string) (*ActionView, error)
	Surrender(ctx context.Context, id model.DuelID, caller model.PlayerID) (*View, error)
}

// PlayerView is one side of a duel as shown to either participant
type PlayerView struct {
	ID          model.PlayerID
	DisplayName string
	State       model.CombatState
}

// View is a participant's snapshot of a duel
type View struct {
	ID              model.DuelID
	Status          model.DuelStatus
	Player1         PlayerView
	Player2         PlayerView
	CurrentTurnUser model.PlayerID
	WinnerID        model.PlayerID
	FinishReason    model.FinishReason
	TurnNumber      int
	RecentLog       []model.TurnLogEntry
	YourTurn        bool
	// Offers is only set for the player holding the turn of an active duel
	Offers    []catalog.Offer
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// ActionView is the committed view after an action plus its narration
type ActionView struct {
	FlavorText string
	View       *View
}

// Service builds snapshots and forwards commands to the state machine
type Service struct {
	duels     duel.ControllerInterface
	lifecycle challenge.ManagerInterface
	engine    *duel.Engine
	directory directory.ServiceInterface
	logger    *slog.Logger
}

var _ ServiceInterface = (*Service)(nil)

// New creates a new gateway Service
func New(
	duels duel.ControllerInterface,
	lifecycle challenge.ManagerInterface,
	engine *duel.Engine,
	directory directory.ServiceInterface,
	logger *slog.Logger,
) *Service {
	return &Service{
		duels:     duels,
		lifecycle: lifecycle,
		engine:    engine,
		directory: directory,
		logger:    logger,
	}
}

// GetState returns the caller's view of a duel. Reads never draw randomness,
// so polling the same committed duel always yields the same view.
func (s *Service) GetState(ctx context.Context, id model.DuelID, caller model.PlayerID) (*View, error) {
	d, err := s.duels.GetDuel(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.HasPlayer(caller) {
		return nil, model.ErrNotParticipant
	}
	return s.view(ctx, d, caller), nil
}

// ListActive returns the caller's lobby
func (s *Service) ListActive(ctx context.Context, caller model.PlayerID) (*challenge.Lobby, error) {
	return s.lifecycle.ListLobby(ctx, caller)
}

// SubmitAction plays an action and returns the view of the committed result
func (s *Service) SubmitAction(ctx context.Context, id model.DuelID, caller model.PlayerID, actionKey string) (*ActionView, error) {
	result, err := s.duels.SubmitAction(ctx, id, caller, actionKey)
	if err != nil {
		return nil, err
	}
	return &ActionView{
		FlavorText: result.FlavorText,
		View:       s.view(ctx, result.Duel, caller),
	}, nil
}

// Surrender concedes the duel and returns the final view
func (s *Service) Surrender(ctx context.Context, id model.DuelID, caller model.PlayerID) (*View, error) {
	d, err := s.duels.Surrender(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, d, caller), nil
}

func (s *Service) view(ctx context.Context, d *model.Duel, caller model.PlayerID) *View {
	rules := s.engine.Rules()
	v := &View{
		ID:     d.ID,
		Status: d.Status,
		Player1: PlayerView{
			ID:          d.Player1ID,
			DisplayName: s.directory.DisplayName(ctx, d.Player1ID),
			State:       d.Player1State.Clone(),
		},
		Player2: PlayerView{
			ID:          d.Player2ID,
			DisplayName: s.directory.DisplayName(ctx, d.Player2ID),
			State:       d.Player2State.Clone(),
		},
		CurrentTurnUser: d.CurrentTurnUser,
		WinnerID:        d.WinnerID,
		FinishReason:    d.FinishReason,
		TurnNumber:      d.TurnNumber,
		RecentLog:       history.Recent(d.Log, rules.RecentLogSize),
		ExpiresAt:       d.ExpiresAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Status == model.DuelStatusActive && d.CurrentTurnUser == caller {
		v.YourTurn = true
		v.Offers = s.engine.Catalog().Offers(*d.StateOf(caller))
	}
	return v
}
