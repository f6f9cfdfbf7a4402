package conventions

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/calico-games/hanab-agent/engine"
)

// Suit indices in the standard variant, for readable fixtures.
const (
	red = iota
	yellow
	green
	blue
	purple
)

func id(suit, rank int) engine.Identity {
	return engine.Identity{SuitIndex: suit, Rank: rank}
}

// dealGame builds a game for the given hands. Each hand is listed newest
// slot first, the way hands are indexed everywhere else, so the fixture
// reads like the hand it produces.
func dealGame(ourIndex int, hands ...[]engine.Identity) *Game {
	state := engine.NewGame(engine.NoVariant(), len(hands), ourIndex)
	g := NewGame(state)
	for p, hand := range hands {
		for i := len(hand) - 1; i >= 0; i-- {
			g.Draw(p, hand[i])
		}
	}
	refreshBeliefs(g)
	return g
}

// setStacks overwrites the play stacks and brings every belief view back in
// sync.
func setStacks(g *Game, stacks ...int) {
	copy(g.State.PlayStacks, stacks)
	refreshBeliefs(g)
}

func refreshBeliefs(g *Game) {
	for _, p := range g.Players {
		p.UpdateHypoStacks(g.State)
	}
}

// know collapses a player's belief about one of their cards to a single
// identity, as if fully resolved by earlier clues.
func know(g *Game, player, order int, cardID engine.Identity) {
	t := g.Players[player].Thoughts[order]
	t.Possible = IdentitySet{cardID}
	t.Inferred = IdentitySet{cardID}
}

// orderOf returns the card order at the given slot of a player's hand.
func orderOf(g *Game, player, slot int) int {
	return g.State.Hands[player][slot]
}

func testAgent(g *Game, level int) *Agent {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewAgent(g, level, uuid.New(), log)
}
