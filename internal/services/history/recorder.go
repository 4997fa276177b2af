package history

import (
	"context"
	"sort"

	"github.com/mcoot/kafanski-duel/internal/dependencies/clock"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/storage"
)

// ActionSurrender is the log action type recorded when a player gives up
const ActionSurrender = "surrender"

// Recorder owns the per-duel turn log and the finished-duel history
type Recorder struct {
	storage storage.Storage
	clock   clock.Clock
}

// NewRecorder creates a new Recorder
func NewRecorder(storage storage.Storage, clock clock.Clock) *Recorder {
	return &Recorder{
		storage: storage,
		clock:   clock,
	}
}

// Append adds an entry for the duel's current turn. Entries never go back in
// turn number; a duel whose counter lags its log is stamped with the last
// logged turn.
func (r *Recorder) Append(d *model.Duel, actor model.PlayerID, actionType, flavor string) model.TurnLogEntry {
	turn := d.TurnNumber
	if n := len(d.Log); n > 0 && d.Log[n-1].TurnNumber > turn {
		turn = d.Log[n-1].TurnNumber
	}
	entry := model.TurnLogEntry{
		TurnNumber: turn,
		UserID:     actor,
		ActionType: actionType,
		FlavorText: flavor,
		Timestamp:  r.clock.Now(),
	}
	d.Log = append(d.Log, entry)
	return entry
}

// Recent returns a copy of the last n entries, oldest first.
// A non-positive n returns the whole log.
func Recent(log []model.TurnLogEntry, n int) []model.TurnLogEntry {
	if n <= 0 || n > len(log) {
		n = len(log)
	}
	out := make([]model.TurnLogEntry, n)
	copy(out, log[len(log)-n:])
	return out
}

// Summarize condenses a finished duel
func Summarize(d *model.Duel) model.DuelSummary {
	turns := 0
	for _, e := range d.Log {
		if e.ActionType != ActionSurrender {
			turns++
		}
	}
	summary := model.DuelSummary{
		ID:           d.ID,
		Player1ID:    d.Player1ID,
		Player2ID:    d.Player2ID,
		WinnerID:     d.WinnerID,
		FinishReason: d.FinishReason,
		TurnsPlayed:  turns,
	}
	if d.FinishedAt != nil {
		summary.FinishedAt = *d.FinishedAt
	}
	return summary
}

// Finished returns summaries of the player's finished duels, newest first
func (r *Recorder) Finished(ctx context.Context, player model.PlayerID, limit int) ([]model.DuelSummary, error) {
	duels, err := r.storage.ListDuelsForPlayer(ctx, player)
	if err != nil {
		return nil, err
	}
	return FinishedFrom(duels, limit), nil
}

// FinishedFrom picks the finished duels out of a listing, newest first,
// keeping at most limit of them (all when limit is non-positive)
func FinishedFrom(duels []*model.Duel, limit int) []model.DuelSummary {
	summaries := make([]model.DuelSummary, 0)
	for _, d := range duels {
		if d.Status == model.DuelStatusFinished {
			summaries = append(summaries, Summarize(d))
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].FinishedAt.After(summaries[j].FinishedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}
