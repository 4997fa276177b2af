package duel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mcoot/kafanski-duel/internal/catalog"
	"github.com/mcoot/kafanski-duel/internal/dependencies/mocks"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/directory"
	"github.com/mcoot/kafanski-duel/internal/services/history"
	"github.com/mcoot/kafanski-duel/internal/storage/memory"
	"github.com/mcoot/kafanski-duel/internal/telemetry"
	"github.com/mcoot/kafanski-duel/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	spans      *tracetest.SpanRecorder
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.Epoch)
	s.random = mocks.NewMockRandom()
	s.spans = tracetest.NewSpanRecorder()
	s.ctx = context.Background()
	logger := testutil.NopLogger()

	dir := directory.New(s.storage, s.clock, logger)
	_, _ = dir.EnsurePlayer(s.ctx, model.Player{ID: "p1", FirstName: "Mika"})
	_, _ = dir.EnsurePlayer(s.ctx, model.Player{ID: "p2", ClownName: "Zika"})

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(s.spans))
	s.controller = NewController(
		s.storage,
		NewEngine(catalog.Default(), model.DefaultRules(), s.random),
		history.NewRecorder(s.storage, s.clock),
		dir,
		s.clock,
		telemetry.Tracer(tp),
		logger,
	)
}

// activeDuel stores a freshly accepted duel between p1 and p2
func (s *ControllerSuite) activeDuel(mutate func(d *model.Duel)) *model.Duel {
	d := &model.Duel{
		ID:        "duel-1",
		Player1ID: "p1",
		Player2ID: "p2",
		Status:    model.DuelStatusWaiting,
		CreatedAt: s.clock.Now(),
	}
	s.Require().NoError(s.storage.CreateDuel(s.ctx, d))
	updated, err := s.storage.UpdateDuel(s.ctx, d.ID, func(d *model.Duel) error {
		s.controller.Engine().Start(d)
		if mutate != nil {
			mutate(d)
		}
		return nil
	})
	s.Require().NoError(err)
	return updated
}

func (s *ControllerSuite) stored() *model.Duel {
	d, err := s.storage.GetDuel(s.ctx, "duel-1")
	s.Require().NoError(err)
	return d
}

// SubmitAction tests

func (s *ControllerSuite) TestFreeSpecialFlipsTurn() {
	s.activeDuel(nil)
	s.random.QueueIntn(2) // no jitter

	result, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "zdravica")
	s.Require().NoError(err)

	s.Equal(model.PlayerID("p2"), result.Duel.CurrentTurnUser)
	s.Equal(2, result.Duel.TurnNumber)
	s.Require().Len(result.Duel.Log, 1)
	s.Equal(1, result.Duel.Log[0].TurnNumber)
	s.Equal("zdravica", result.Duel.Log[0].ActionType)
	s.Equal(100, result.Duel.Player1State.Novcanik)
	s.Equal(45, result.Duel.Player2State.Respect)
	s.Contains(result.FlavorText, "Mika")
	s.Contains(result.FlavorText, "Zika")
	s.Equal(result.FlavorText, result.Duel.Log[0].FlavorText)

	s.Equal(result.Duel, s.stored())
}

func (s *ControllerSuite) TestTurnsAlternate() {
	s.activeDuel(nil)

	players := []model.PlayerID{"p1", "p2", "p1", "p2"}
	for i, p := range players {
		s.random.QueueIntn(2)
		result, err := s.controller.SubmitAction(s.ctx, "duel-1", p, "zdravica")
		s.Require().NoError(err)
		s.Equal(i+2, result.Duel.TurnNumber)
		s.NotEqual(p, result.Duel.CurrentTurnUser)
	}
	s.Len(s.stored().Log, 4)
}

func (s *ControllerSuite) TestOutOfTurnLeavesDuelUntouched() {
	s.activeDuel(nil)
	before := s.stored()

	_, err := s.controller.SubmitAction(s.ctx, "duel-1", "p2", "zdravica")
	s.ErrorIs(err, model.ErrNotYourTurn)
	s.Equal(model.KindForbidden, model.KindOf(err))

	s.Equal(before, s.stored())
}

func (s *ControllerSuite) TestUnknownAction() {
	s.activeDuel(nil)
	before := s.stored()

	_, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "sampanjac")
	s.ErrorIs(err, model.ErrUnknownAction)
	s.Equal(before, s.stored())
}

func (s *ControllerSuite) TestInsufficientFundsIgnoresAdvisoryFlag() {
	s.activeDuel(func(d *model.Duel) { d.Player1State.Novcanik = 14 })
	before := s.stored()

	_, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "vinjak")
	s.ErrorIs(err, model.ErrInsufficientFunds)
	s.Equal(model.KindInsufficientFunds, model.KindOf(err))
	s.Equal(before, s.stored())
}

func (s *ControllerSuite) TestExhaustedSpecial() {
	s.activeDuel(func(d *model.Duel) { d.Player1State.SpecialsUsed["lomljenje_casa"] = 1 })

	_, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "lomljenje_casa")
	s.ErrorIs(err, model.ErrActionExhausted)
}

func (s *ControllerSuite) TestDuelNotFound() {
	_, err := s.controller.SubmitAction(s.ctx, "missing", "p1", "zdravica")
	s.ErrorIs(err, model.ErrDuelNotFound)
}

func (s *ControllerSuite) TestWaitingDuelRejectsActions() {
	d := &model.Duel{ID: "duel-1", Player1ID: "p1", Player2ID: "p2", Status: model.DuelStatusWaiting}
	s.Require().NoError(s.storage.CreateDuel(s.ctx, d))

	_, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "zdravica")
	s.ErrorIs(err, model.ErrDuelNotActive)
	s.Equal(model.KindInvalidState, model.KindOf(err))
}

func (s *ControllerSuite) TestRespectFloorFinishesInSameCall() {
	s.activeDuel(func(d *model.Duel) { d.Player2State.Respect = 4 })
	s.random.QueueIntn(2)

	result, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "zdravica")
	s.Require().NoError(err)

	d := result.Duel
	s.Equal(model.DuelStatusFinished, d.Status)
	s.Equal(model.PlayerID("p1"), d.WinnerID)
	s.Equal(model.FinishReasonRespect, d.FinishReason)
	s.Empty(d.CurrentTurnUser)
	s.Equal(1, d.TurnNumber)
	s.Len(d.Log, 1)
	s.Require().NotNil(d.FinishedAt)
	s.Equal(s.clock.Now(), *d.FinishedAt)

	_, err = s.controller.SubmitAction(s.ctx, "duel-1", "p2", "zdravica")
	s.ErrorIs(err, model.ErrDuelNotActive)
}

func (s *ControllerSuite) TestRepeatedAttacksDriveRespectToFloor() {
	s.activeDuel(nil)

	var last *ActionResult
	for turn := 0; turn < 40; turn++ {
		actor := model.PlayerID("p1")
		key := "zdravica"
		if turn%2 == 1 {
			actor, key = "p2", "tursija"
		}
		s.random.QueueIntn(2)
		result, err := s.controller.SubmitAction(s.ctx, "duel-1", actor, key)
		s.Require().NoError(err)
		last = result
		if result.Duel.Status == model.DuelStatusFinished {
			break
		}
	}

	s.Require().NotNil(last)
	s.Equal(model.DuelStatusFinished, last.Duel.Status)
	s.Equal(model.PlayerID("p1"), last.Duel.WinnerID)
	s.Equal(model.FinishReasonRespect, last.Duel.FinishReason)
	s.Equal(0, last.Duel.Player2State.Respect)
}

func (s *ControllerSuite) TestTurnCapResolves() {
	s.activeDuel(func(d *model.Duel) {
		d.TurnNumber = 20
		d.Player1State.Respect = 60
	})

	result, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "tursija")
	s.Require().NoError(err)

	s.Equal(model.DuelStatusFinished, result.Duel.Status)
	s.Equal(model.FinishReasonTurnCap, result.Duel.FinishReason)
	s.Equal(model.PlayerID("p1"), result.Duel.WinnerID)
}

func (s *ControllerSuite) TestFoulIsNarrated() {
	s.activeDuel(func(d *model.Duel) { d.Player1State.Alcometer = 90 })
	s.random.QueueIntn(3, 0) // rakija jitter +0, then a foul

	result, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "rakija")
	s.Require().NoError(err)

	s.True(result.Outcome.Fouled)
	s.Equal(1, result.Duel.Player1State.PijaniFoulovi)
	s.Contains(result.FlavorText, "pijani faul")
}

func (s *ControllerSuite) TestConcurrentSubmitsUseTurnOnce() {
	s.activeDuel(nil)

	const callers = 6
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "tursija")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.True(errors.Is(err, model.ErrNotYourTurn))
	}
	s.Equal(1, succeeded)
	s.Len(s.stored().Log, 1)
}

// Surrender tests

func (s *ControllerSuite) TestSurrenderOutOfTurn() {
	s.activeDuel(nil)

	d, err := s.controller.Surrender(s.ctx, "duel-1", "p2")
	s.Require().NoError(err)

	s.Equal(model.DuelStatusFinished, d.Status)
	s.Equal(model.PlayerID("p1"), d.WinnerID)
	s.Equal(model.FinishReasonSurrender, d.FinishReason)
	s.Empty(d.CurrentTurnUser)
	s.Require().Len(d.Log, 1)
	s.Equal(history.ActionSurrender, d.Log[0].ActionType)
	s.Contains(d.Log[0].FlavorText, "Zika")
}

func (s *ControllerSuite) TestSurrenderNotParticipant() {
	s.activeDuel(nil)

	_, err := s.controller.Surrender(s.ctx, "duel-1", "p3")
	s.ErrorIs(err, model.ErrNotParticipant)
	s.Equal(model.DuelStatusActive, s.stored().Status)
}

func (s *ControllerSuite) TestSurrenderRequiresActive() {
	d := &model.Duel{ID: "duel-1", Player1ID: "p1", Player2ID: "p2", Status: model.DuelStatusWaiting}
	s.Require().NoError(s.storage.CreateDuel(s.ctx, d))

	_, err := s.controller.Surrender(s.ctx, "duel-1", "p2")
	s.ErrorIs(err, model.ErrDuelNotActive)
}

func (s *ControllerSuite) TestSurrenderTwice() {
	s.activeDuel(nil)
	_, err := s.controller.Surrender(s.ctx, "duel-1", "p1")
	s.Require().NoError(err)

	_, err = s.controller.Surrender(s.ctx, "duel-1", "p2")
	s.ErrorIs(err, model.ErrDuelNotActive)
	s.Equal(model.PlayerID("p2"), s.stored().WinnerID)
}

// Tracing tests

func (s *ControllerSuite) TestSpansRecorded() {
	s.activeDuel(nil)
	_, err := s.controller.SubmitAction(s.ctx, "duel-1", "p1", "tursija")
	s.Require().NoError(err)
	_, err = s.controller.SubmitAction(s.ctx, "duel-1", "p1", "tursija")
	s.Require().Error(err)

	spans := s.spans.Ended()
	s.Require().Len(spans, 2)
	s.Equal("duel.SubmitAction", spans[0].Name())
	s.Equal(codes.Unset, spans[0].Status().Code)
	s.Equal(codes.Error, spans[1].Status().Code)
}
