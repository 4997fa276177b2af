package response

import (
	"time"

	"github.com/mcoot/kafanski-duel/internal/catalog"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/challenge"
	"github.com/mcoot/kafanski-duel/internal/services/gateway"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username,omitempty"`
	Level       int    `json:"level"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName(),
		Username:    p.Username,
		Level:       p.Level,
	}
}

// CombatState is one player's stats in a duel
type CombatState struct {
	Alcometer     int            `json:"alkometar"`
	Respect       int            `json:"respekt"`
	Stomak        int            `json:"stomak"`
	Novcanik      int            `json:"novcanik"`
	PijaniFoulovi int            `json:"pijani_faulovi"`
	SpecialsUsed  map[string]int `json:"specials_used,omitempty"`
}

// CombatStateFromModel converts model.CombatState
func CombatStateFromModel(s model.CombatState) CombatState {
	return CombatState{
		Alcometer:     s.Alcometer,
		Respect:       s.Respect,
		Stomak:        s.Stomak,
		Novcanik:      s.Novcanik,
		PijaniFoulovi: s.PijaniFoulovi,
		SpecialsUsed:  s.SpecialsUsed,
	}
}

// DuelPlayer is one side of a duel
type DuelPlayer struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	State       CombatState `json:"state"`
}

// LogEntry is one narrated turn
type LogEntry struct {
	TurnNumber int       `json:"turn_number"`
	UserID     string    `json:"user_id"`
	ActionType string    `json:"action_type"`
	FlavorText string    `json:"flavor_text"`
	Timestamp  time.Time `json:"timestamp"`
}

// LogEntryFromModel converts model.TurnLogEntry
func LogEntryFromModel(e model.TurnLogEntry) LogEntry {
	return LogEntry{
		TurnNumber: e.TurnNumber,
		UserID:     string(e.UserID),
		ActionType: e.ActionType,
		FlavorText: e.FlavorText,
		Timestamp:  e.Timestamp,
	}
}

// Effect is the stat change an action causes
type Effect struct {
	Alcometer     int `json:"alkometar,omitempty"`
	Respect       int `json:"respekt,omitempty"`
	Stomak        int `json:"stomak,omitempty"`
	Novcanik      int `json:"novcanik,omitempty"`
	PijaniFoulovi int `json:"pijani_faulovi,omitempty"`
}

// Action is a catalog entry, optionally annotated for the caller
type Action struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Cost       int    `json:"cost"`
	Self       Effect `json:"self"`
	Opponent   Effect `json:"opponent"`
	Jitter     int    `json:"jitter,omitempty"`
	MaxUses    int    `json:"max_uses,omitempty"`
	Affordable *bool  `json:"affordable,omitempty"`
	Available  *bool  `json:"available,omitempty"`
	UsesLeft   *int   `json:"uses_left,omitempty"`
}

func effectFromCatalog(e catalog.Effect) Effect {
	return Effect{
		Alcometer:     e.Alcometer,
		Respect:       e.Respect,
		Stomak:        e.Stomak,
		Novcanik:      e.Novcanik,
		PijaniFoulovi: e.PijaniFoulovi,
	}
}

// ActionFromCatalog converts a catalog.Action
func ActionFromCatalog(a catalog.Action) Action {
	return Action{
		Key:      a.Key,
		Name:     a.Name,
		Category: string(a.Category),
		Cost:     a.Cost,
		Self:     effectFromCatalog(a.Self),
		Opponent: effectFromCatalog(a.Opponent),
		Jitter:   a.Jitter,
		MaxUses:  a.MaxUses,
	}
}

// ActionFromOffer converts a catalog.Offer
func ActionFromOffer(o catalog.Offer) Action {
	a := ActionFromCatalog(o.Action)
	affordable, available, usesLeft := o.Affordable, o.Available, o.UsesLeft
	a.Affordable = &affordable
	a.Available = &available
	a.UsesLeft = &usesLeft
	return a
}

// CatalogCategory groups actions of one category
type CatalogCategory struct {
	Category string   `json:"category"`
	Actions  []Action `json:"actions"`
}

// CatalogFromModel lists the catalog by category in display order
func CatalogFromModel(c *catalog.Catalog) []CatalogCategory {
	byCategory := c.ByCategory()
	out := make([]CatalogCategory, 0, len(catalog.Categories))
	for _, cat := range catalog.Categories {
		actions := make([]Action, 0, len(byCategory[cat]))
		for _, a := range byCategory[cat] {
			actions = append(actions, ActionFromCatalog(a))
		}
		out = append(out, CatalogCategory{Category: string(cat), Actions: actions})
	}
	return out
}

// Duel is a participant's view of a duel
type Duel struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	Player1         DuelPlayer `json:"player1"`
	Player2         DuelPlayer `json:"player2"`
	CurrentTurnUser *string    `json:"current_turn_user"`
	WinnerID        *string    `json:"winner_id"`
	FinishReason    string     `json:"finish_reason,omitempty"`
	TurnNumber      int        `json:"turn_number"`
	RecentLog       []LogEntry `json:"recent_log"`
	YourTurn        bool       `json:"your_turn"`
	Actions         []Action   `json:"actions,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DuelFromView converts a gateway.View
func DuelFromView(v *gateway.View) Duel {
	log := make([]LogEntry, len(v.RecentLog))
	for i, e := range v.RecentLog {
		log[i] = LogEntryFromModel(e)
	}

	var actions []Action
	for _, o := range v.Offers {
		actions = append(actions, ActionFromOffer(o))
	}

	return Duel{
		ID:              string(v.ID),
		Status:          string(v.Status),
		Player1:         duelPlayerFromView(v.Player1),
		Player2:         duelPlayerFromView(v.Player2),
		CurrentTurnUser: optionalID(v.CurrentTurnUser),
		WinnerID:        optionalID(v.WinnerID),
		FinishReason:    string(v.FinishReason),
		TurnNumber:      v.TurnNumber,
		RecentLog:       log,
		YourTurn:        v.YourTurn,
		Actions:         actions,
		ExpiresAt:       v.ExpiresAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func duelPlayerFromView(p gateway.PlayerView) DuelPlayer {
	return DuelPlayer{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		State:       CombatStateFromModel(p.State),
	}
}

func optionalID(id model.PlayerID) *string {
	if id == "" {
		return nil
	}
	s := string(id)
	return &s
}

// ActionResult is the response to a submitted action
type ActionResult struct {
	FlavorText string `json:"flavor_text"`
	Duel       Duel   `json:"duel"`
}

// ActionResultFromView converts a gateway.ActionView
func ActionResultFromView(av *gateway.ActionView) ActionResult {
	return ActionResult{
		FlavorText: av.FlavorText,
		Duel:       DuelFromView(av.View),
	}
}

// DuelListing is a duel as listed in the lobby
type DuelListing struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	Player1ID       string    `json:"player1_id"`
	Player2ID       string    `json:"player2_id"`
	CurrentTurnUser *string   `json:"current_turn_user"`
	TurnNumber      int       `json:"turn_number"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// DuelListingFromModel converts a model.Duel
func DuelListingFromModel(d *model.Duel) DuelListing {
	return DuelListing{
		ID:              string(d.ID),
		Status:          string(d.Status),
		Player1ID:       string(d.Player1ID),
		Player2ID:       string(d.Player2ID),
		CurrentTurnUser: optionalID(d.CurrentTurnUser),
		TurnNumber:      d.TurnNumber,
		CreatedAt:       d.CreatedAt,
		ExpiresAt:       d.ExpiresAt,
	}
}

// DuelSummary is a finished duel in the history
type DuelSummary struct {
	ID           string    `json:"id"`
	Player1ID    string    `json:"player1_id"`
	Player2ID    string    `json:"player2_id"`
	WinnerID     string    `json:"winner_id"`
	FinishReason string    `json:"finish_reason"`
	TurnsPlayed  int       `json:"turns_played"`
	FinishedAt   time.Time `json:"finished_at"`
}

// DuelSummaryFromModel converts model.DuelSummary
func DuelSummaryFromModel(s model.DuelSummary) DuelSummary {
	return DuelSummary{
		ID:           string(s.ID),
		Player1ID:    string(s.Player1ID),
		Player2ID:    string(s.Player2ID),
		WinnerID:     string(s.WinnerID),
		FinishReason: string(s.FinishReason),
		TurnsPlayed:  s.TurnsPlayed,
		FinishedAt:   s.FinishedAt,
	}
}

// Lobby is the caller's overview of challenges and duels
type Lobby struct {
	Incoming   []DuelListing `json:"incoming"`
	Outgoing   []DuelListing `json:"outgoing"`
	Active     []DuelListing `json:"active"`
	Finished   []DuelSummary `json:"finished"`
	Candidates []Player      `json:"candidates"`
}

// LobbyFromModel converts a challenge.Lobby
func LobbyFromModel(l *challenge.Lobby) Lobby {
	finished := make([]DuelSummary, len(l.Finished))
	for i, s := range l.Finished {
		finished[i] = DuelSummaryFromModel(s)
	}
	candidates := make([]Player, len(l.Candidates))
	for i, p := range l.Candidates {
		candidates[i] = PlayerFromModel(p)
	}
	return Lobby{
		Incoming:   listings(l.Incoming),
		Outgoing:   listings(l.Outgoing),
		Active:     listings(l.Active),
		Finished:   finished,
		Candidates: candidates,
	}
}

func listings(duels []*model.Duel) []DuelListing {
	out := make([]DuelListing, len(duels))
	for i, d := range duels {
		out[i] = DuelListingFromModel(d)
	}
	return out
}
