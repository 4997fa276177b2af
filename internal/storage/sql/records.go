package sql

import (
	"time"

	"github.com/mcoot/kafanski-duel/internal/model"
)

type playerRecord struct {
	ID        string `gorm:"primaryKey"`
	Username  string
	FirstName string
	ClownName string
	Level     int
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (playerRecord) TableName() string { return "players" }

func playerToRecord(p *model.Player) *playerRecord {
	return &playerRecord{
		ID:        string(p.ID),
		Username:  p.Username,
		FirstName: p.FirstName,
		ClownName: p.ClownName,
		Level:     p.Level,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *playerRecord) toModel() *model.Player {
	return &model.Player{
		ID:        model.PlayerID(r.ID),
		Username:  r.Username,
		FirstName: r.FirstName,
		ClownName: r.ClownName,
		Level:     r.Level,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type duelRecord struct {
	ID              string `gorm:"primaryKey"`
	Player1ID       string `gorm:"index;not null"`
	Player2ID       string `gorm:"index;not null"`
	Status          string `gorm:"index;not null"`
	CurrentTurnUser string
	WinnerID        string
	FinishReason    string
	TurnNumber      int

	Player1State model.CombatState    `gorm:"type:text;serializer:json"`
	Player2State model.CombatState    `gorm:"type:text;serializer:json"`
	Log          []model.TurnLogEntry `gorm:"type:text;serializer:json"`

	Version int64 `gorm:"not null;default:0"`

	CreatedAt  time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false"`
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	FinishedAt *time.Time
}

func (duelRecord) TableName() string { return "duels" }

func duelToRecord(d *model.Duel) *duelRecord {
	return &duelRecord{
		ID:              string(d.ID),
		Player1ID:       string(d.Player1ID),
		Player2ID:       string(d.Player2ID),
		Status:          string(d.Status),
		CurrentTurnUser: string(d.CurrentTurnUser),
		WinnerID:        string(d.WinnerID),
		FinishReason:    string(d.FinishReason),
		TurnNumber:      d.TurnNumber,
		Player1State:    d.Player1State,
		Player2State:    d.Player2State,
		Log:             d.Log,
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		ExpiresAt:       d.ExpiresAt,
		AcceptedAt:      d.AcceptedAt,
		FinishedAt:      d.FinishedAt,
	}
}

func (r *duelRecord) toModel() *model.Duel {
	return &model.Duel{
		ID:              model.DuelID(r.ID),
		Player1ID:       model.PlayerID(r.Player1ID),
		Player2ID:       model.PlayerID(r.Player2ID),
		Status:          model.DuelStatus(r.Status),
		CurrentTurnUser: model.PlayerID(r.CurrentTurnUser),
		WinnerID:        model.PlayerID(r.WinnerID),
		FinishReason:    model.FinishReason(r.FinishReason),
		TurnNumber:      r.TurnNumber,
		Player1State:    r.Player1State,
		Player2State:    r.Player2State,
		Log:             r.Log,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		ExpiresAt:       r.ExpiresAt,
		AcceptedAt:      r.AcceptedAt,
		FinishedAt:      r.FinishedAt,
	}
}

// livePairRecord holds one row per unordered player pair with a live duel
type livePairRecord struct {
	PairKey string `gorm:"primaryKey"`
	DuelID  string `gorm:"not null"`
}

func (livePairRecord) TableName() string { return "live_pairs" }
