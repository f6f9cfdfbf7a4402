package conventions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calico-games/hanab-agent/engine"
)

func TestTakeActionPlaysKnownPlayable(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(red, 1), id(purple, 3), id(yellow, 4), id(green, 4), id(blue, 4)},
		[]engine.Identity{id(green, 4), id(yellow, 4), id(blue, 4), id(purple, 4), id(red, 3)},
	)
	playable := orderOf(g, 0, 0)
	know(g, 0, playable, id(red, 1))
	a := testAgent(g, LevelLastResorts)

	action := a.TakeAction()
	assert.Equal(t, engine.Action{
		Type:    engine.ActionPlay,
		Target:  playable,
		TableID: a.TableID,
	}, action)
}

func TestTakeActionGivesPlayClue(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(purple, 3), id(purple, 4), id(yellow, 4), id(green, 4), id(blue, 4)},
		[]engine.Identity{id(green, 2), id(yellow, 3), id(blue, 1), id(purple, 2), id(red, 3)},
	)
	a := testAgent(g, LevelLastResorts)

	action := a.TakeAction()
	assert.Equal(t, engine.Action{
		Type:    engine.ActionRankClue,
		Target:  1,
		Value:   1,
		TableID: a.TableID,
	}, action)
}

func TestTakeActionDiscardsChop(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(purple, 3), id(red, 4), id(yellow, 4), id(green, 3), id(blue, 3)},
		[]engine.Identity{id(green, 4), id(yellow, 4), id(blue, 4), id(purple, 4), id(red, 3)},
	)
	g.State.ClueTokens = 7
	a := testAgent(g, LevelLastResorts)

	action := a.TakeAction()
	assert.Equal(t, engine.Action{
		Type:    engine.ActionDiscard,
		Target:  orderOf(g, 0, 4),
		TableID: a.TableID,
	}, action)
}

func TestTakeActionStallsAtTokenCeiling(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(purple, 3), id(red, 4), id(yellow, 4), id(green, 4), id(blue, 3)},
		[]engine.Identity{id(green, 3), id(yellow, 4), id(blue, 4), id(purple, 4), id(red, 4)},
	)
	// At the token ceiling a discard is illegal; re-clueing a touched card
	// is the conventional stall.
	g.State.Card(orderOf(g, 1, 0)).Clued = true
	a := testAgent(g, LevelLastResorts)

	action := a.TakeAction()
	assert.Equal(t, engine.Action{
		Type:    engine.ActionColourClue,
		Target:  1,
		Value:   green,
		TableID: a.TableID,
	}, action)
}
