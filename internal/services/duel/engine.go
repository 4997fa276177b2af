package duel

import (
	"github.com/mcoot/kafanski-duel/internal/catalog"
	"github.com/mcoot/kafanski-duel/internal/dependencies/random"
	"github.com/mcoot/kafanski-duel/internal/model"
)

// Outcome describes what applying one action did to a duel
type Outcome struct {
	Action catalog.Action

	// OpponentRespectDelta is the respect change dealt to the opponent after jitter
	OpponentRespectDelta int
	Overflow             bool
	Fouled               bool

	Finished bool
	Winner   model.PlayerID
	Loser    model.PlayerID
	Reason   model.FinishReason
}

// Engine holds the pure rules of a duel. It never touches storage; every
// method works on a duel value the caller owns.
type Engine struct {
	catalog *catalog.Catalog
	rules   model.Rules
	random  random.Random
}

// NewEngine creates a new Engine
func NewEngine(catalog *catalog.Catalog, rules model.Rules, random random.Random) *Engine {
	return &Engine{
		catalog: catalog,
		rules:   rules,
		random:  random,
	}
}

// Catalog returns the action catalog the engine plays with
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Rules returns the engine's rules
func (e *Engine) Rules() model.Rules {
	return e.rules
}

// Start turns an accepted challenge into a live duel. The challenger moves first.
func (e *Engine) Start(d *model.Duel) {
	d.Status = model.DuelStatusActive
	d.CurrentTurnUser = d.Player1ID
	d.TurnNumber = 1
	d.WinnerID = ""
	d.FinishReason = model.FinishReasonNone
	d.Player1State = e.rules.StartingState()
	d.Player2State = e.rules.StartingState()
}

// Validate checks that caller may play the action on the duel right now.
// It does not modify the duel.
func (e *Engine) Validate(d *model.Duel, caller model.PlayerID, actionKey string) (catalog.Action, error) {
	if d.Status != model.DuelStatusActive {
		return catalog.Action{}, model.ErrDuelNotActive
	}
	if caller == "" || caller != d.CurrentTurnUser {
		return catalog.Action{}, model.ErrNotYourTurn
	}

	action, ok := e.catalog.Get(actionKey)
	if !ok {
		return catalog.Action{}, model.ErrUnknownAction
	}

	state := d.StateOf(caller)
	if !catalog.Affordable(action, state.Novcanik) {
		return catalog.Action{}, model.ErrInsufficientFunds
	}
	if !catalog.Available(action, *state) {
		return catalog.Action{}, model.ErrActionExhausted
	}
	return action, nil
}

// Apply plays a validated action for actor and evaluates the loss conditions.
// Random draws happen here only: the opponent's respect jitter first, then
// the drunk foul roll.
func (e *Engine) Apply(d *model.Duel, actor model.PlayerID, action catalog.Action) Outcome {
	self := d.StateOf(actor)
	opponent := d.StateOf(d.Opponent(actor))
	out := Outcome{Action: action}

	self.Novcanik -= action.Cost
	action.Self.Apply(self)

	oppEffect := action.Opponent
	if action.Jitter > 0 {
		oppEffect.Respect += e.random.Intn(2*action.Jitter+1) - action.Jitter
	}
	out.OpponentRespectDelta = oppEffect.Respect
	oppEffect.Apply(opponent)

	if action.MaxUses > 0 {
		if self.SpecialsUsed == nil {
			self.SpecialsUsed = map[string]int{}
		}
		self.SpecialsUsed[action.Key]++
	}

	if self.Stomak > e.rules.StomakMax {
		out.Overflow = true
		self.Respect -= e.rules.OverflowRespectCost
	}

	e.rules.Clamp(self)
	e.rules.Clamp(opponent)

	if chance := e.rules.FoulChance(self.Alcometer); chance > 0 && e.random.Intn(100) < chance {
		out.Fouled = true
		self.PijaniFoulovi++
		self.Respect -= e.rules.FoulRespectCost
		e.rules.Clamp(self)
	}

	out.Loser, out.Reason = e.Evaluate(d, actor)
	if out.Loser != "" {
		out.Finished = true
		out.Winner = d.Opponent(out.Loser)
	}
	return out
}

// Evaluate checks the loss conditions after actor's move on the duel's
// current turn. It returns the losing player and why, or "" when play goes on.
//
// Order: respect at the floor (actor first), fouls at the threshold (actor
// first), then the turn cap decided on higher respect, fewer fouls and
// finally in favour of the challenger.
func (e *Engine) Evaluate(d *model.Duel, actor model.PlayerID) (model.PlayerID, model.FinishReason) {
	other := d.Opponent(actor)
	self, opp := d.StateOf(actor), d.StateOf(other)

	switch {
	case self.Respect <= e.rules.RespectFloor:
		return actor, model.FinishReasonRespect
	case opp.Respect <= e.rules.RespectFloor:
		return other, model.FinishReasonRespect
	case self.PijaniFoulovi >= e.rules.FoulThreshold:
		return actor, model.FinishReasonFouls
	case opp.PijaniFoulovi >= e.rules.FoulThreshold:
		return other, model.FinishReasonFouls
	}

	if d.TurnNumber < e.rules.TurnCap {
		return "", model.FinishReasonNone
	}

	p1, p2 := d.Player1State, d.Player2State
	switch {
	case p1.Respect != p2.Respect:
		if p1.Respect > p2.Respect {
			return d.Player2ID, model.FinishReasonTurnCap
		}
		return d.Player1ID, model.FinishReasonTurnCap
	case p1.PijaniFoulovi != p2.PijaniFoulovi:
		if p1.PijaniFoulovi < p2.PijaniFoulovi {
			return d.Player2ID, model.FinishReasonTurnCap
		}
		return d.Player1ID, model.FinishReasonTurnCap
	default:
		return d.Player2ID, model.FinishReasonTurnCap
	}
}
