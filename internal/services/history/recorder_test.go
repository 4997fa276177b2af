package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kafanski-duel/internal/dependencies/mocks"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage/memory"
)

type RecorderSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	recorder *Recorder
	ctx      context.Context
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.recorder = NewRecorder(s.storage, s.clock)
	s.ctx = context.Background()
}

func (s *RecorderSuite) finishedDuel(id string, p1, p2 model.PlayerID, finishedOffset time.Duration) *model.Duel {
	finished := s.clock.Now().Add(finishedOffset)
	return &model.Duel{
		ID:           model.DuelID(id),
		Player1ID:    p1,
		Player2ID:    p2,
		Status:       model.DuelStatusFinished,
		WinnerID:     p1,
		FinishReason: model.FinishReasonRespect,
		CreatedAt:    s.clock.Now(),
		FinishedAt:   &finished,
	}
}

func (s *RecorderSuite) TestAppendStampsTurnAndTime() {
	d := &model.Duel{TurnNumber: 3}

	entry := s.recorder.Append(d, "p1", "rakija", "zivili")

	s.Equal(3, entry.TurnNumber)
	s.Equal(model.PlayerID("p1"), entry.UserID)
	s.Equal("rakija", entry.ActionType)
	s.Equal(s.clock.Now(), entry.Timestamp)
	s.Require().Len(d.Log, 1)
	s.Equal(entry, d.Log[0])
}

func (s *RecorderSuite) TestAppendNeverGoesBack() {
	d := &model.Duel{TurnNumber: 5}
	s.recorder.Append(d, "p1", "pivo", "")
	d.TurnNumber = 2

	entry := s.recorder.Append(d, "p2", ActionSurrender, "")

	s.Equal(5, entry.TurnNumber)
}

func (s *RecorderSuite) TestRecentTruncatesToNewest() {
	log := make([]model.TurnLogEntry, 0, 15)
	for i := 1; i <= 15; i++ {
		log = append(log, model.TurnLogEntry{TurnNumber: i})
	}

	recent := Recent(log, 10)

	s.Require().Len(recent, 10)
	s.Equal(6, recent[0].TurnNumber)
	s.Equal(15, recent[9].TurnNumber)

	recent[0].TurnNumber = 100
	s.Equal(6, log[5].TurnNumber)
}

func (s *RecorderSuite) TestRecentShortLog() {
	log := []model.TurnLogEntry{{TurnNumber: 1}, {TurnNumber: 2}}
	s.Len(Recent(log, 10), 2)
	s.Len(Recent(log, 0), 2)
	s.Empty(Recent(nil, 10))
}

func (s *RecorderSuite) TestSummarizeCountsActionsOnly() {
	d := s.finishedDuel("duel-1", "p1", "p2", 0)
	d.FinishReason = model.FinishReasonSurrender
	d.Log = []model.TurnLogEntry{
		{TurnNumber: 1, ActionType: "pivo"},
		{TurnNumber: 2, ActionType: "rakija"},
		{TurnNumber: 3, ActionType: ActionSurrender},
	}

	summary := Summarize(d)

	s.Equal(2, summary.TurnsPlayed)
	s.Equal(model.FinishReasonSurrender, summary.FinishReason)
	s.Equal(*d.FinishedAt, summary.FinishedAt)
}

func (s *RecorderSuite) TestFinishedNewestFirstAndBounded() {
	for i := 0; i < 12; i++ {
		opponent := model.PlayerID(fmt.Sprintf("o%d", i))
		s.Require().NoError(s.storage.CreateDuel(s.ctx, s.finishedDuel(fmt.Sprintf("duel-%02d", i), "p1", opponent, time.Duration(i)*time.Minute)))
	}
	active := &model.Duel{ID: "live", Player1ID: "p1", Player2ID: "x", Status: model.DuelStatusActive}
	s.Require().NoError(s.storage.CreateDuel(s.ctx, active))

	summaries, err := s.recorder.Finished(s.ctx, "p1", 10)
	s.Require().NoError(err)

	s.Require().Len(summaries, 10)
	s.Equal(model.DuelID("duel-11"), summaries[0].ID)
	s.Equal(model.DuelID("duel-02"), summaries[9].ID)
}

func (s *RecorderSuite) TestFinishedSkipsDeclined() {
	declined := &model.Duel{ID: "d", Player1ID: "p1", Player2ID: "p2", Status: model.DuelStatusDeclined}
	s.Require().NoError(s.storage.CreateDuel(s.ctx, declined))

	summaries, err := s.recorder.Finished(s.ctx, "p1", 10)
	s.Require().NoError(err)
	s.Empty(summaries)
}
