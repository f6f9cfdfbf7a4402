package conventions

import (
	"fmt"

	"github.com/calico-games/hanab-agent/engine"
)

// Game bundles the table state with every seat's belief view. Hypothetical
// continuations are taken by deep-cloning the whole bundle and applying one
// action to the clone; the base is never mutated.
type Game struct {
	State   *engine.GameState
	Players []*Player
}

// NewGame wraps a dealt state with fresh belief views. Every card already in
// a hand starts with the full identity set as both possible and inferred.
func NewGame(state *engine.GameState) *Game {
	g := &Game{State: state, Players: make([]*Player, state.NumPlayers)}
	all := IdentitySet(state.Variant.AllIdentities())
	for i := range g.Players {
		g.Players[i] = NewPlayer(i, state.Variant.NumSuits())
		for _, order := range state.Hands[i] {
			g.Players[i].Thoughts[order] = &Thought{
				Order:    order,
				Possible: all.Clone(),
				Inferred: all.Clone(),
			}
		}
		g.Players[i].UpdateHypoStacks(state)
	}
	return g
}

// Clone returns a fully independent copy of the game. Two branches derived
// from the same base never observe each other's updates.
func (g *Game) Clone() *Game {
	ng := &Game{State: g.State.Clone(), Players: make([]*Player, len(g.Players))}
	for i, p := range g.Players {
		ng.Players[i] = p.Clone()
	}
	return ng
}

// Draw deals a card to the player and registers a fresh belief for it.
func (g *Game) Draw(player int, id engine.Identity) *engine.Card {
	card := g.State.Draw(player, id)
	all := IdentitySet(g.State.Variant.AllIdentities())
	g.Players[player].Thoughts[card.Order] = &Thought{
		Order:    card.Order,
		Possible: all.Clone(),
		Inferred: all.Clone(),
	}
	return card
}

// Hand returns the card orders held by the player.
func (g *Game) Hand(player int) []int { return g.State.Hands[player] }

// Thought returns the holder's belief about a card they hold.
func (g *Game) Thought(player, order int) *Thought {
	return g.Players[player].Thoughts[order]
}

// SimulateClue returns a hypothetical continuation in which the clue has
// been given: cards touched, beliefs filtered, focus inferences applied.
// The receiver is untouched. The elimination count across all hands is
// returned alongside the branch.
func (g *Game) SimulateClue(clue engine.Clue) (*Game, int, error) {
	// Focus and chop are read off the base before any flags move.
	focus := g.FocusOf(clue.Target, g.TouchedBy(clue))
	chop := g.Players[clue.Target].Chop(g.State, g.State.Hands[clue.Target])
	ng := g.Clone()
	touched, err := ng.State.ApplyClue(clue)
	if err != nil {
		return nil, 0, fmt.Errorf("simulate clue: %w", err)
	}
	if focus != -1 && focus == chop {
		ng.Thought(clue.Target, focus).Focused = true
	}
	elim := ng.applyClueBeliefs(clue, touched)
	ng.Players[clue.Target].UpdateHypoStacks(ng.State)
	return ng, elim, nil
}

// applyClueBeliefs filters the target's belief sets against the clue and
// returns how many identities were eliminated. Inferred sets that empty out
// are reset to the filtered possible set (mistake recovery).
func (g *Game) applyClueBeliefs(clue engine.Clue, touched []int) int {
	target := g.Players[clue.Target]
	variant := g.State.Variant
	elim := 0
	for _, order := range g.State.Hands[clue.Target] {
		t := target.Thoughts[order]
		wasTouched := containsOrder(touched, order)
		keep := func(id engine.Identity) bool {
			return variant.Touches(clue, id) == wasTouched
		}
		before := len(t.Possible)
		t.Possible = t.Possible.Filter(keep)
		elim += before - len(t.Possible)
		t.Inferred = t.Inferred.Filter(keep)
		if len(t.Inferred) == 0 {
			t.Inferred = t.Possible.Clone()
		}
	}
	return elim
}

// FocusOf returns the order of the card the receiver is expected to act on:
// the chop if it was touched, otherwise the newest newly-touched card,
// otherwise the newest touched card.
func (g *Game) FocusOf(target int, touched []int) int {
	player := g.Players[target]
	hand := g.State.Hands[target]
	if chop := player.Chop(g.State, hand); chop != -1 && containsOrder(touched, chop) {
		return chop
	}
	for _, order := range hand {
		if containsOrder(touched, order) && !g.State.Card(order).Clued {
			return order
		}
	}
	for _, order := range hand {
		if containsOrder(touched, order) {
			return order
		}
	}
	return -1
}

// TouchedBy returns the orders in the target's hand the clue would touch,
// without mutating anything.
func (g *Game) TouchedBy(clue engine.Clue) []int {
	var touched []int
	for _, order := range g.State.Hands[clue.Target] {
		if g.State.Variant.Touches(clue, g.State.Card(order).Identity) {
			touched = append(touched, order)
		}
	}
	return touched
}

// containsOrder reports whether orders contains order.
func containsOrder(orders []int, order int) bool {
	for _, o := range orders {
		if o == order {
			return true
		}
	}
	return false
}
