package duel

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/kafanski-duel/internal/dependencies/clock"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/directory"
	"github.com/mcoot/kafanski-duel/internal/services/history"
	"github.com/mcoot/kafanski-duel/internal/storage"
)

// ControllerInterface defines the duel state machine operations
type ControllerInterface interface {
	GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error)
	SubmitAction(ctx context.Context, id model.DuelID, caller model.PlayerID, actionKey string) (*ActionResult, error)
	Surrender(ctx context.Context, id model.DuelID, caller model.PlayerID) (*model.Duel, error)
}

// ActionResult is the committed effect of one submitted action
type ActionResult struct {
	Duel       *model.Duel
	Entry      model.TurnLogEntry
	FlavorText string
	Outcome    Outcome
}

// Controller runs the duel state machine against storage
type Controller struct {
	storage   storage.Storage
	engine    *Engine
	recorder  *history.Recorder
	directory directory.ServiceInterface
	clock     clock.Clock
	tracer    trace.Tracer
	logger    *slog.Logger
}

var _ ControllerInterface = (*Controller)(nil)

// NewController creates a new duel Controller
func NewController(
	storage storage.Storage,
	engine *Engine,
	recorder *history.Recorder,
	directory directory.ServiceInterface,
	clock clock.Clock,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		engine:    engine,
		recorder:  recorder,
		directory: directory,
		clock:     clock,
		tracer:    tracer,
		logger:    logger,
	}
}

// Engine returns the rules engine
func (c *Controller) Engine() *Engine {
	return c.engine
}

// GetDuel retrieves a duel by ID
func (c *Controller) GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	return c.storage.GetDuel(ctx, id)
}

// SubmitAction plays actionKey for caller. Validation runs against the latest
// committed duel inside the storage transaction, so a rejected call never
// changes the duel and two racing calls cannot both use the same turn.
func (c *Controller) SubmitAction(ctx context.Context, id model.DuelID, caller model.PlayerID, actionKey string) (*ActionResult, error) {
	ctx, span := c.tracer.Start(ctx, "duel.SubmitAction", trace.WithAttributes(
		attribute.String("duel.id", string(id)),
		attribute.String("player.id", string(caller)),
		attribute.String("duel.action", actionKey),
	))
	defer span.End()

	current, err := c.storage.GetDuel(ctx, id)
	if err != nil {
		return nil, spanError(span, err)
	}
	names := c.names(ctx, current)

	var result ActionResult
	updated, err := c.storage.UpdateDuel(ctx, id, func(d *model.Duel) error {
		action, err := c.engine.Validate(d, caller, actionKey)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		outcome := c.engine.Apply(d, caller, action)
		flavor := narrate(outcome, d.TurnNumber, names[caller], names[d.Opponent(caller)])
		entry := c.recorder.Append(d, caller, action.Key, flavor)

		if outcome.Finished {
			d.Status = model.DuelStatusFinished
			d.WinnerID = outcome.Winner
			d.FinishReason = outcome.Reason
			d.CurrentTurnUser = ""
			d.FinishedAt = &now
		} else {
			d.TurnNumber++
			d.CurrentTurnUser = d.Opponent(caller)
		}
		d.UpdatedAt = now

		result = ActionResult{Entry: entry, FlavorText: flavor, Outcome: outcome}
		return nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}
	result.Duel = updated

	span.SetAttributes(
		attribute.Int("duel.turn", result.Entry.TurnNumber),
		attribute.Bool("duel.fouled", result.Outcome.Fouled),
	)

	c.logger.Info("action applied",
		slog.String("duel_id", string(id)),
		slog.String("player_id", string(caller)),
		slog.String("action", actionKey),
		slog.Int("turn", result.Entry.TurnNumber),
		slog.Bool("fouled", result.Outcome.Fouled),
	)
	if result.Outcome.Finished {
		c.logger.Info("duel finished",
			slog.String("duel_id", string(id)),
			slog.String("winner_id", string(updated.WinnerID)),
			slog.String("reason", string(updated.FinishReason)),
		)
	}

	return &result, nil
}

// Surrender ends an active duel in favour of the other player, whoever's turn it is
func (c *Controller) Surrender(ctx context.Context, id model.DuelID, caller model.PlayerID) (*model.Duel, error) {
	ctx, span := c.tracer.Start(ctx, "duel.Surrender", trace.WithAttributes(
		attribute.String("duel.id", string(id)),
		attribute.String("player.id", string(caller)),
	))
	defer span.End()

	current, err := c.storage.GetDuel(ctx, id)
	if err != nil {
		return nil, spanError(span, err)
	}
	names := c.names(ctx, current)

	updated, err := c.storage.UpdateDuel(ctx, id, func(d *model.Duel) error {
		if !d.HasPlayer(caller) {
			return model.ErrNotParticipant
		}
		if d.Status != model.DuelStatusActive {
			return model.ErrDuelNotActive
		}

		now := c.clock.Now()
		c.recorder.Append(d, caller, history.ActionSurrender,
			fmt.Sprintf("%s se predaje i plaća račun. %s odnosi pobedu.", names[caller], names[d.Opponent(caller)]))
		d.Status = model.DuelStatusFinished
		d.WinnerID = d.Opponent(caller)
		d.FinishReason = model.FinishReasonSurrender
		d.CurrentTurnUser = ""
		d.FinishedAt = &now
		d.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}

	c.logger.Info("duel surrendered",
		slog.String("duel_id", string(id)),
		slog.String("player_id", string(caller)),
		slog.String("winner_id", string(updated.WinnerID)),
	)

	return updated, nil
}

func (c *Controller) names(ctx context.Context, d *model.Duel) map[model.PlayerID]string {
	return map[model.PlayerID]string{
		d.Player1ID: c.directory.DisplayName(ctx, d.Player1ID),
		d.Player2ID: c.directory.DisplayName(ctx, d.Player2ID),
	}
}

// narrate renders the action's flavor text plus any mishaps
func narrate(o Outcome, turn int, actor, opponent string) string {
	text := o.Action.Render(turn, actor, opponent)
	if o.Overflow {
		text += fmt.Sprintf(" %s ne može više da stane ništa u stomak!", actor)
	}
	if o.Fouled {
		text += fmt.Sprintf(" %s pravi pijani faul!", actor)
	}
	return text
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
