package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// DefaultDisplayName is shown for players without any name set
const DefaultDisplayName = "Klovn"

// Player is a known player as supplied by the identity provider.
// The duel core references players but never mutates them.
type Player struct {
	ID        PlayerID
	Username  string
	FirstName string
	ClownName string
	Level     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the most personal name available for the player
func (p *Player) DisplayName() string {
	switch {
	case p.ClownName != "":
		return p.ClownName
	case p.FirstName != "":
		return p.FirstName
	case p.Username != "":
		return p.Username
	default:
		return DefaultDisplayName
	}
}
