// Package catalog holds the static table of moves a player can make in a duel.
package catalog

import (
	"fmt"
	"strings"

	"github.com/mcoot/kafanski-duel/internal/model"
)

// Category partitions the catalog for display and eligibility
type Category string

const (
	CategoryPice     Category = "pice"
	CategoryHrana    Category = "hrana"
	CategorySpecijal Category = "specijal"
)

// Categories lists the categories in display order
var Categories = []Category{CategoryPice, CategoryHrana, CategorySpecijal}

// Effect is a set of stat deltas applied to one player
type Effect struct {
	Alcometer     int
	Respect       int
	Stomak        int
	Novcanik      int
	PijaniFoulovi int
}

// Apply adds the deltas to the state. It does not clamp.
func (e Effect) Apply(s *model.CombatState) {
	s.Alcometer += e.Alcometer
	s.Respect += e.Respect
	s.Stomak += e.Stomak
	s.Novcanik += e.Novcanik
	s.PijaniFoulovi += e.PijaniFoulovi
}

// Action is one entry of the catalog
type Action struct {
	Key      string
	Name     string
	Category Category
	Cost     int

	Self     Effect
	Opponent Effect

	// Jitter randomizes the opponent's respect delta by up to +/- Jitter
	Jitter int

	// MaxUses limits uses per player per duel, 0 means unlimited
	MaxUses int

	// Flavor holds narration templates with {actor} and {opponent} placeholders
	Flavor []string
}

// Render narrates the action. The variant picks a template deterministically.
func (a Action) Render(variant int, actor, opponent string) string {
	if len(a.Flavor) == 0 {
		return fmt.Sprintf("%s: %s", actor, a.Name)
	}
	if variant < 0 {
		variant = -variant
	}
	r := strings.NewReplacer("{actor}", actor, "{opponent}", opponent)
	return r.Replace(a.Flavor[variant%len(a.Flavor)])
}

// Affordable reports whether a wallet can pay for the action
func Affordable(a Action, wallet int) bool {
	return wallet >= a.Cost
}

// UsesLeft returns how many more times the state may use the action, or -1 if unlimited
func UsesLeft(a Action, s model.CombatState) int {
	if a.MaxUses <= 0 {
		return -1
	}
	left := a.MaxUses - s.SpecialsUsed[a.Key]
	if left < 0 {
		return 0
	}
	return left
}

// Available reports whether the action still has uses left for the state
func Available(a Action, s model.CombatState) bool {
	return UsesLeft(a, s) != 0
}

// Offer is an action annotated for one player's current state
type Offer struct {
	Action
	Affordable bool
	Available  bool
	UsesLeft   int
}

// Catalog is an immutable lookup table of actions
type Catalog struct {
	actions []Action
	byKey   map[string]Action
}

// New builds a catalog, rejecting empty or duplicate keys and unknown categories
func New(actions ...Action) (*Catalog, error) {
	c := &Catalog{
		actions: make([]Action, 0, len(actions)),
		byKey:   make(map[string]Action, len(actions)),
	}
	for _, a := range actions {
		if a.Key == "" {
			return nil, fmt.Errorf("action %q has no key", a.Name)
		}
		if _, dup := c.byKey[a.Key]; dup {
			return nil, fmt.Errorf("duplicate action key %q", a.Key)
		}
		switch a.Category {
		case CategoryPice, CategoryHrana, CategorySpecijal:
		default:
			return nil, fmt.Errorf("action %q has unknown category %q", a.Key, a.Category)
		}
		if a.Cost < 0 {
			return nil, fmt.Errorf("action %q has negative cost", a.Key)
		}
		a.Flavor = append([]string(nil), a.Flavor...)
		c.actions = append(c.actions, a)
		c.byKey[a.Key] = a
	}
	return c, nil
}

// MustNew is New that panics on an invalid table
func MustNew(actions ...Action) *Catalog {
	c, err := New(actions...)
	if err != nil {
		panic(err)
	}
	return c
}

// Get looks up an action by key
func (c *Catalog) Get(key string) (Action, bool) {
	a, ok := c.byKey[key]
	return a, ok
}

// All returns every action in table order
func (c *Catalog) All() []Action {
	out := make([]Action, len(c.actions))
	copy(out, c.actions)
	return out
}

// ByCategory partitions the actions by category, keeping table order inside each
func (c *Catalog) ByCategory() map[Category][]Action {
	out := make(map[Category][]Action, len(Categories))
	for _, a := range c.actions {
		out[a.Category] = append(out[a.Category], a)
	}
	return out
}

// Offers annotates every action for the given player state
func (c *Catalog) Offers(s model.CombatState) []Offer {
	offers := make([]Offer, 0, len(c.actions))
	for _, a := range c.actions {
		offers = append(offers, Offer{
			Action:     a,
			Affordable: Affordable(a, s.Novcanik),
			Available:  Available(a, s),
			UsesLeft:   UsesLeft(a, s),
		})
	}
	return offers
}
