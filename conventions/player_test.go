package conventions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calico-games/hanab-agent/engine"
)

func TestChop(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(red, 1), id(yellow, 2), id(green, 3), id(blue, 4), id(purple, 5)},
		[]engine.Identity{id(red, 3), id(yellow, 3), id(green, 4), id(blue, 3), id(purple, 3)},
	)
	p := g.Players[1]
	hand := g.Hand(1)

	// Unprotected hand: the oldest card is chop.
	assert.Equal(t, hand[4], p.Chop(g.State, hand))
	assert.Equal(t, 4, p.ChopIndex(g.State, hand))

	// Clues and chop moves shift the chop leftward.
	g.State.Card(hand[4]).Clued = true
	p.Thoughts[hand[3]].ChopMoved = true
	assert.Equal(t, hand[2], p.Chop(g.State, hand))

	// Fully protected: no chop at all.
	for _, order := range hand {
		g.State.Card(order).Clued = true
	}
	assert.Equal(t, -1, p.Chop(g.State, hand))
}

func TestThinksPlayablesAndTrash(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(red, 1), id(yellow, 2), id(green, 3), id(blue, 4), id(purple, 5)},
		[]engine.Identity{id(red, 3), id(yellow, 3), id(green, 4), id(blue, 3), id(purple, 3)},
	)
	setStacks(g, 1, 0, 0, 0, 0)
	p := g.Players[1]
	hand := g.Hand(1)

	known := hand[0]
	trash := hand[1]
	mixed := hand[2]
	know(g, 1, known, id(yellow, 1))
	know(g, 1, trash, id(red, 1))
	p.Thoughts[mixed].Inferred = IdentitySet{id(yellow, 1), id(red, 1)}

	playables := p.ThinksPlayables(g.State, hand)
	assert.Contains(t, playables, known)
	assert.NotContains(t, playables, trash, "an already-played identity is not playable")
	assert.NotContains(t, playables, mixed, "a possibly-trash card is not a sight play")

	assert.Equal(t, []int{trash}, p.ThinksTrash(g.State, hand))
	assert.True(t, p.ThinksLoaded(g.State, hand))
}

func TestFinessedCardPlaysOnSight(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(red, 1), id(yellow, 2), id(green, 3), id(blue, 4), id(purple, 5)},
		[]engine.Identity{id(red, 3), id(yellow, 3), id(green, 4), id(blue, 3), id(purple, 3)},
	)
	p := g.Players[1]
	hand := g.Hand(1)

	p.Thoughts[hand[0]].Finessed = true
	assert.Contains(t, p.ThinksPlayables(g.State, hand), hand[0])

	// A hidden finesse is not playable yet.
	p.Thoughts[hand[0]].Hidden = true
	assert.NotContains(t, p.ThinksPlayables(g.State, hand), hand[0])
}

func TestChopValue(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(red, 1), id(yellow, 2), id(green, 3), id(blue, 4), id(purple, 5)},
		[]engine.Identity{id(red, 3), id(yellow, 3), id(green, 4), id(blue, 3), id(purple, 2)},
	)
	p := g.Players[1]
	hand := g.Hand(1)

	// Lone useful 2 on chop.
	assert.Equal(t, 3, p.ChopValue(g.State, hand))

	// Critical chop.
	g.State.Card(hand[4]).Identity = id(purple, 3)
	g.State.DiscardCounts[purple][2] = 1
	assert.Equal(t, 4, p.ChopValue(g.State, hand))

	// Trash chop.
	g.State.DiscardCounts[purple][2] = 0
	setStacks(g, 0, 0, 0, 0, 3)
	assert.Equal(t, 0, p.ChopValue(g.State, hand))
}

func TestUpdateHypoStacksChains(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(red, 2), id(yellow, 2), id(green, 3), id(blue, 4), id(purple, 5)},
		[]engine.Identity{id(red, 1), id(red, 3), id(green, 4), id(blue, 3), id(purple, 3)},
	)
	// Clued red 1, 2, 3 across two hands resolve as a chain regardless of
	// hand order.
	g.State.Card(orderOf(g, 1, 0)).Clued = true // red 1
	g.State.Card(orderOf(g, 0, 0)).Clued = true // red 2
	g.State.Card(orderOf(g, 1, 1)).Clued = true // red 3

	p := g.Players[0]
	p.UpdateHypoStacks(g.State)
	assert.Equal(t, 3, p.HypoStacks[red])
	assert.Equal(t, 0, p.HypoStacks[yellow])
}

func TestLockedDiscardPrefersLeastCritical(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(red, 1), id(yellow, 2), id(green, 3), id(blue, 4), id(purple, 5)},
		[]engine.Identity{id(red, 3), id(yellow, 3), id(green, 4), id(blue, 3), id(purple, 3)},
	)
	p := g.Players[1]
	hand := g.Hand(1)

	// One card is known non-critical, another known critical; the rest are
	// uncertain.
	safe := hand[1]
	risky := hand[2]
	know(g, 1, safe, id(yellow, 3))
	know(g, 1, risky, id(green, 4))
	g.State.DiscardCounts[green][3] = 1

	assert.Equal(t, safe, p.LockedDiscard(g.State, hand))
}

func TestIdentitySet(t *testing.T) {
	s := IdentitySet{id(red, 1), id(red, 2), id(blue, 1)}

	assert.True(t, s.Contains(id(red, 2)))
	assert.False(t, s.Contains(id(blue, 2)))

	ones := s.Filter(func(i engine.Identity) bool { return i.Rank == 1 })
	assert.ElementsMatch(t, IdentitySet{id(red, 1), id(blue, 1)}, ones)

	assert.True(t, ones.Every(func(i engine.Identity) bool { return i.Rank == 1 }))
	assert.False(t, s.Every(func(i engine.Identity) bool { return i.Rank == 1 }))

	// An empty set satisfies nothing.
	empty := IdentitySet{}
	assert.False(t, empty.Every(func(engine.Identity) bool { return true }))

	clone := s.Clone()
	clone[0] = id(purple, 5)
	assert.Equal(t, id(red, 1), s[0])
}
