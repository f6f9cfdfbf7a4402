package conventions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calico-games/hanab-agent/engine"
)

func TestFindClueValueBaseline(t *testing.T) {
	res := ClueResult{NewTouched: []int{0}}
	assert.InDelta(t, 0.51, FindClueValue(res), 1e-9)

	res.NewTouched = []int{0, 1, 2}
	assert.InDelta(t, 0.71, FindClueValue(res), 1e-9)

	assert.Equal(t, 0.0, FindClueValue(ClueResult{}), "touching nothing new scores zero before penalties")
}

func TestFindClueValueMonotonic(t *testing.T) {
	base := ClueResult{
		NewTouched:     []int{0, 1},
		Playables:      []Playable{{PlayerIndex: 1, Order: 0}},
		Elim:           3,
		PossibleBefore: 20,
		InferredAfter:  12,
	}
	baseValue := FindClueValue(base)

	better := base
	better.Playables = append(better.Playables, Playable{PlayerIndex: 2, Order: 5})
	assert.Greater(t, FindClueValue(better), baseValue, "an extra playable should raise the value")

	better = base
	better.Finesses = []int{7}
	assert.Greater(t, FindClueValue(better), baseValue, "an extra finesse should raise the value")

	better = base
	better.Elim++
	assert.Greater(t, FindClueValue(better), baseValue, "extra elimination should raise the value")

	better = base
	better.SelfSignal = true
	assert.InDelta(t, baseValue+0.2, FindClueValue(better), 1e-9)

	worse := base
	worse.Remainder++
	assert.Less(t, FindClueValue(worse), baseValue, "remainder should lower the value")

	worse = base
	worse.AvoidableDupe++
	assert.InDelta(t, baseValue-0.1, FindClueValue(worse), 1e-9)

	worse = base
	worse.InferredAfter++
	assert.Less(t, FindClueValue(worse), baseValue, "a vaguer resulting inference should lower the value")
}

func TestFindClueValueBadTouchDominates(t *testing.T) {
	res := ClueResult{
		NewTouched: []int{0, 1, 2},
		Playables:  []Playable{{PlayerIndex: 1, Order: 0}},
	}
	clean := FindClueValue(res)

	res.BadTouch = 1
	assert.InDelta(t, clean-1.0, FindClueValue(res), 1e-9, "each bad touch costs exactly 1.0")

	res.BadTouch = 2
	assert.InDelta(t, clean-2.0, FindClueValue(res), 1e-9)
	assert.Less(t, FindClueValue(res), MinClueValue, "two bad touches sink any single-playable clue below threshold")
}

func TestSelectPlayClueEmpty(t *testing.T) {
	best, value, ok := SelectPlayClue(nil)
	assert.False(t, ok)
	assert.Equal(t, -99.0, value)
	assert.Equal(t, CandidateClue{}, best)
}

func TestSelectPlayCluePicksHighest(t *testing.T) {
	clues := []CandidateClue{
		{Clue: engine.Clue{Type: engine.ClueRank, Value: 1, Target: 1},
			Result: ClueResult{NewTouched: []int{0}}},
		{Clue: engine.Clue{Type: engine.ClueColour, Value: 0, Target: 1},
			Result: ClueResult{NewTouched: []int{0}, Playables: []Playable{{PlayerIndex: 1, Order: 0}}}},
		{Clue: engine.Clue{Type: engine.ClueRank, Value: 2, Target: 2},
			Result: ClueResult{NewTouched: []int{3}, BadTouch: 1}},
	}
	best, value, ok := SelectPlayClue(clues)
	require.True(t, ok)
	assert.Equal(t, engine.ClueColour, best.Clue.Type)
	assert.InDelta(t, 1.01, value, 1e-9)
}

func TestSelectPlayClueTieKeepsFirst(t *testing.T) {
	first := CandidateClue{
		Clue:   engine.Clue{Type: engine.ClueColour, Value: 2, Target: 1},
		Result: ClueResult{NewTouched: []int{4}},
	}
	second := CandidateClue{
		Clue:   engine.Clue{Type: engine.ClueRank, Value: 3, Target: 1},
		Result: ClueResult{NewTouched: []int{9}},
	}
	best, _, ok := SelectPlayClue([]CandidateClue{first, second})
	require.True(t, ok)
	assert.Equal(t, first.Clue, best.Clue, "ties resolve to the earlier candidate")
}

func TestEvaluateClueSelfSignal(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(blue, 3), id(yellow, 2), id(green, 2), id(blue, 2), id(purple, 2)},
		[]engine.Identity{id(red, 3), id(yellow, 4), id(green, 4), id(blue, 4), id(purple, 4)},
	)
	// The target's red 3 is half-resolved from an earlier clue; the other
	// copy is in the discard, so identifying it pins down our own two-way
	// inference.
	focus := orderOf(g, 1, 0)
	g.State.Card(focus).Clued = true
	g.Thought(1, focus).Inferred = IdentitySet{id(red, 3), id(green, 3)}
	g.State.DiscardCounts[red][2] = 1
	ours := orderOf(g, 0, 0)
	g.Thought(0, ours).Inferred = IdentitySet{id(red, 3), id(blue, 3)}
	a := testAgent(g, LevelBasicCM)

	cand, err := a.evaluateClue(engine.Clue{Type: engine.ClueColour, Value: red, Target: 1})
	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.True(t, cand.Result.SelfSignal)

	without := cand.Result
	without.SelfSignal = false
	assert.InDelta(t, 0.2, FindClueValue(cand.Result)-FindClueValue(without), 1e-9)
}

func TestEvaluateClueNoSelfSignalWithCopyLive(t *testing.T) {
	g := dealGame(0,
		[]engine.Identity{id(blue, 3), id(yellow, 2), id(green, 2), id(blue, 2), id(purple, 2)},
		[]engine.Identity{id(red, 3), id(yellow, 4), id(green, 4), id(blue, 4), id(purple, 4)},
	)
	// Same shape, but the second red 3 is still unaccounted for: our card
	// could be that copy, so nothing collapses.
	focus := orderOf(g, 1, 0)
	g.State.Card(focus).Clued = true
	g.Thought(1, focus).Inferred = IdentitySet{id(red, 3), id(green, 3)}
	ours := orderOf(g, 0, 0)
	g.Thought(0, ours).Inferred = IdentitySet{id(red, 3), id(blue, 3)}
	a := testAgent(g, LevelBasicCM)

	cand, err := a.evaluateClue(engine.Clue{Type: engine.ClueColour, Value: red, Target: 1})
	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.False(t, cand.Result.SelfSignal)
}
