package model

import "time"

// DuelID uniquely identifies a duel session
type DuelID string

// DuelStatus represents the lifecycle state of a duel
type DuelStatus string

const (
	DuelStatusWaiting  DuelStatus = "waiting"
	DuelStatusActive   DuelStatus = "active"
	DuelStatusFinished DuelStatus = "finished"
	DuelStatusDeclined DuelStatus = "declined"
	DuelStatusExpired  DuelStatus = "expired"
)

// IsTerminal reports whether no further transition can leave the status
func (s DuelStatus) IsTerminal() bool {
	return s == DuelStatusFinished || s == DuelStatusDeclined || s == DuelStatusExpired
}

// IsLive reports whether the duel still blocks a new challenge for the same pair
func (s DuelStatus) IsLive() bool {
	return s == DuelStatusWaiting || s == DuelStatusActive
}

// FinishReason records which condition ended a finished duel
type FinishReason string

const (
	FinishReasonNone      FinishReason = ""
	FinishReasonRespect   FinishReason = "respect"
	FinishReasonFouls     FinishReason = "fouls"
	FinishReasonTurnCap   FinishReason = "turn_cap"
	FinishReasonSurrender FinishReason = "surrender"
)

// CombatState is one player's resource stats within a duel
type CombatState struct {
	Alcometer     int
	Respect       int
	Stomak        int
	Novcanik      int
	PijaniFoulovi int

	// SpecialsUsed counts uses of limited actions, keyed by action key
	SpecialsUsed map[string]int
}

// Clone returns a deep copy of the combat state
func (s CombatState) Clone() CombatState {
	out := s
	if s.SpecialsUsed != nil {
		out.SpecialsUsed = make(map[string]int, len(s.SpecialsUsed))
		for k, v := range s.SpecialsUsed {
			out.SpecialsUsed[k] = v
		}
	}
	return out
}

// TurnLogEntry is one narrated action in a duel's log
type TurnLogEntry struct {
	TurnNumber int
	UserID     PlayerID
	ActionType string
	FlavorText string
	Timestamp  time.Time
}

// Duel is a single two-player match, from challenge to result
type Duel struct {
	ID        DuelID
	Player1ID PlayerID // challenger, moves first
	Player2ID PlayerID

	Status          DuelStatus
	CurrentTurnUser PlayerID
	WinnerID        PlayerID
	FinishReason    FinishReason
	TurnNumber      int

	Player1State CombatState
	Player2State CombatState

	Log []TurnLogEntry

	// Version is bumped by storage on every committed write
	Version int64

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	FinishedAt *time.Time
}

// HasPlayer reports whether the player takes part in the duel
func (d *Duel) HasPlayer(id PlayerID) bool {
	return id != "" && (d.Player1ID == id || d.Player2ID == id)
}

// Opponent returns the other participant, or "" if id is not a participant
func (d *Duel) Opponent(id PlayerID) PlayerID {
	switch id {
	case d.Player1ID:
		return d.Player2ID
	case d.Player2ID:
		return d.Player1ID
	default:
		return ""
	}
}

// StateOf returns a pointer to the participant's combat state, or nil
func (d *Duel) StateOf(id PlayerID) *CombatState {
	switch id {
	case d.Player1ID:
		return &d.Player1State
	case d.Player2ID:
		return &d.Player2State
	default:
		return nil
	}
}

// PairKey returns the unordered pair key of the two players
func (d *Duel) PairKey() string {
	return PairKey(d.Player1ID, d.Player2ID)
}

// Clone returns a deep copy of the duel
func (d *Duel) Clone() *Duel {
	out := *d
	out.Player1State = d.Player1State.Clone()
	out.Player2State = d.Player2State.Clone()
	if d.Log != nil {
		out.Log = make([]TurnLogEntry, len(d.Log))
		copy(out.Log, d.Log)
	}
	if d.AcceptedAt != nil {
		t := *d.AcceptedAt
		out.AcceptedAt = &t
	}
	if d.FinishedAt != nil {
		t := *d.FinishedAt
		out.FinishedAt = &t
	}
	return &out
}

// PairKey identifies an unordered pair of players; PairKey(a, b) == PairKey(b, a)
func PairKey(a, b PlayerID) string {
	if b < a {
		a, b = b, a
	}
	return string(a) + "|" + string(b)
}

// DuelSummary is a compact record of a finished duel
type DuelSummary struct {
	ID           DuelID
	Player1ID    PlayerID
	Player2ID    PlayerID
	WinnerID     PlayerID
	FinishReason FinishReason
	TurnsPlayed  int
	FinishedAt   time.Time
}
