package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/kafanski-duel/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// TokenResult is a freshly minted development token
type TokenResult struct {
	PlayerID  string `json:"player_id"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expires_in"`
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case []response.CatalogCategory:
		o.printCatalog(v)
	case response.Lobby:
		o.printLobby(v)
	case response.Duel:
		o.printDuel(v)
	case response.ActionResult:
		fmt.Fprintln(o.w, v.FlavorText)
		fmt.Fprintln(o.w)
		o.printDuel(v.Duel)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case TokenResult:
		fmt.Fprintf(o.w, "Player: %s\nExpires in: %s\nToken: %s\n", v.PlayerID, v.ExpiresIn, v.Token)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	if p.Username != "" {
		fmt.Fprintf(o.w, "Username: %s\n", p.Username)
	}
	fmt.Fprintf(o.w, "Level: %d\n", p.Level)
}

func (o *Output) printCatalog(categories []response.CatalogCategory) {
	for _, c := range categories {
		fmt.Fprintf(o.w, "%s:\n", strings.ToUpper(c.Category))
		for _, a := range c.Actions {
			o.printAction(a)
		}
	}
}

func (o *Output) printAction(a response.Action) {
	marker := " "
	if a.Affordable != nil && a.Available != nil && (!*a.Affordable || !*a.Available) {
		marker = "x"
	}
	line := fmt.Sprintf("  [%s] %-16s %-18s %3d din", marker, a.Key, a.Name, a.Cost)
	if a.UsesLeft != nil && *a.UsesLeft >= 0 {
		line += fmt.Sprintf("  (%d left)", *a.UsesLeft)
	}
	fmt.Fprintln(o.w, line)
}

func (o *Output) printLobby(l response.Lobby) {
	section := func(title string, duels []response.DuelListing) {
		fmt.Fprintf(o.w, "%s (%d):\n", title, len(duels))
		for _, d := range duels {
			fmt.Fprintf(o.w, "  - %s  %s vs %s  [%s]\n", d.ID, d.Player1ID, d.Player2ID, d.Status)
		}
	}
	section("Incoming challenges", l.Incoming)
	section("Outgoing challenges", l.Outgoing)
	section("Active duels", l.Active)

	fmt.Fprintf(o.w, "Finished (%d):\n", len(l.Finished))
	for _, s := range l.Finished {
		fmt.Fprintf(o.w, "  - %s  winner %s by %s after %d turns\n", s.ID, s.WinnerID, s.FinishReason, s.TurnsPlayed)
	}

	fmt.Fprintf(o.w, "Players to challenge (%d):\n", len(l.Candidates))
	for _, p := range l.Candidates {
		fmt.Fprintf(o.w, "  - %s (%s)\n", p.DisplayName, p.ID)
	}
}

func (o *Output) printDuel(d response.Duel) {
	fmt.Fprintf(o.w, "Duel: %s\n", d.ID)
	fmt.Fprintf(o.w, "Status: %s\n", d.Status)
	if d.TurnNumber > 0 {
		fmt.Fprintf(o.w, "Turn: %d\n", d.TurnNumber)
	}

	for _, p := range []response.DuelPlayer{d.Player1, d.Player2} {
		s := p.State
		fmt.Fprintf(o.w, "  %-12s respekt %3d  alkometar %3d  stomak %3d  novcanik %3d  faulovi %d\n",
			p.DisplayName, s.Respect, s.Alcometer, s.Stomak, s.Novcanik, s.PijaniFoulovi)
	}

	if len(d.RecentLog) > 0 {
		fmt.Fprintln(o.w, "Log:")
		for _, e := range d.RecentLog {
			fmt.Fprintf(o.w, "  %2d. %s\n", e.TurnNumber, e.FlavorText)
		}
	}

	switch {
	case d.WinnerID != nil:
		fmt.Fprintf(o.w, "Winner: %s (%s)\n", *d.WinnerID, d.FinishReason)
	case d.YourTurn:
		fmt.Fprintln(o.w, "Your turn! Available actions:")
		for _, a := range d.Actions {
			o.printAction(a)
		}
	case d.CurrentTurnUser != nil:
		fmt.Fprintf(o.w, "Waiting for %s\n", *d.CurrentTurnUser)
	}
}
