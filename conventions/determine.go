package conventions

import (
	"github.com/calico-games/hanab-agent/engine"
)

// ClueOptions adjusts clue construction. ExcludeRank of -1 excludes nothing.
type ClueOptions struct {
	Save        bool
	ExcludeRank int
}

// DirectClues returns every clue that touches the card, without any
// focus-targeting logic. Colour first, then rank; enumeration order is a
// tie-break policy downstream.
func (a *Agent) DirectClues(target, order int) []engine.Clue {
	id := a.State.Card(order).Identity
	if !id.Known() {
		return nil
	}
	clues := []engine.Clue{
		{Type: engine.ClueColour, Value: id.SuitIndex, Target: target},
		{Type: engine.ClueRank, Value: id.Rank, Target: target},
	}
	out := clues[:0]
	for _, clue := range clues {
		if a.State.Variant.Touches(clue, id) {
			out = append(out, clue)
		}
	}
	return out
}

// DetermineClue builds the cheapest legal clue whose focus lands on the
// card, annotated with its computed result. Returns nil when no direct clue
// focuses the card. Save clues prefer the fewest bad touches; play clues the
// highest value.
func (a *Agent) DetermineClue(target, order int, opts ClueOptions) *CandidateClue {
	var best *CandidateClue
	bestValue := noClueValue
	for _, clue := range a.DirectClues(target, order) {
		if clue.Type == engine.ClueRank && clue.Value == opts.ExcludeRank {
			continue
		}
		cand, err := a.evaluateClue(clue)
		if err != nil || cand == nil {
			continue
		}
		if cand.Result.Focus != order {
			continue
		}
		value := FindClueValue(cand.Result)
		if opts.Save {
			// Bad touch outweighs everything for a save.
			value -= 10 * float64(cand.Result.BadTouch)
		}
		if value > bestValue {
			bestValue = value
			best = cand
		}
	}
	if best != nil && opts.Save {
		best.Result.Interp = InterpSave
	}
	return best
}

// evaluateClue computes the full consequence of hypothetically giving the
// clue. Returns nil for a clue that touches nothing.
func (a *Agent) evaluateClue(clue engine.Clue) (*CandidateClue, error) {
	state := a.State
	target := clue.Target
	touched := a.TouchedBy(clue)
	if len(touched) == 0 || state.ClueTokens == 0 {
		return nil, nil
	}

	focus := a.FocusOf(target, touched)
	basePlayables := a.Players[target].ThinksPlayables(state, state.Hands[target])

	branch, elim, err := a.SimulateClue(clue)
	if err != nil {
		return nil, err
	}
	bState := branch.State

	// First touches are read off the branch, where applying the clue has
	// marked them.
	var newTouched []int
	for _, order := range touched {
		if bState.Card(order).NewlyClued {
			newTouched = append(newTouched, order)
		}
	}

	possibleBefore, inferredAfter := 0, 0
	for _, order := range newTouched {
		possibleBefore += len(a.Thought(target, order).Possible)
		inferredAfter += len(branch.Thought(target, order).Inferred)
	}

	res := ClueResult{
		NewTouched:     newTouched,
		Elim:           elim,
		PossibleBefore: possibleBefore,
		InferredAfter:  inferredAfter,
		Focus:          focus,
		Interp:         InterpPlay,
	}

	// Newly-revealed playables for the receiver.
	for _, order := range branch.Players[target].ThinksPlayables(bState, bState.Hands[target]) {
		if !containsOrder(basePlayables, order) {
			res.Playables = append(res.Playables, Playable{PlayerIndex: target, Order: order})
		}
	}

	// A focus exactly one step from playable resolves via finesse when the
	// connecting card sits on someone's finesse position.
	if focus != -1 {
		focusID := state.Card(focus).Identity
		if focusID.Known() && state.PlayableAway(focusID) == 1 && a.finesseAvailable(focusID) {
			res.Finesses = append(res.Finesses, focus)
		}
	}

	// Bad touch, avoidable duplication, and residual ambiguity.
	for _, order := range newTouched {
		if order == focus {
			continue
		}
		id := state.Card(order).Identity
		bt := branch.Thought(target, order)
		switch {
		case state.IsBasicTrash(id):
			if !bt.Inferred.Every(bState.IsBasicTrash) {
				res.BadTouch++
			}
		case a.duplicateTouched(id, order, touched):
			res.AvoidableDupe++
		default:
			if len(bt.Inferred) > 1 {
				res.Remainder++
			}
		}
	}

	if len(newTouched) == 0 {
		if clue.Type == engine.ClueRank && clue.Value == engine.MaxRank {
			res.Interp = Interp5Stall
		} else {
			res.Interp = InterpStall
		}
	}

	res.SelfSignal = a.selfSignal(branch, target, focus)
	res.Safe = a.clueSafeOn(branch, target)
	return &CandidateClue{Clue: clue, Result: res}, nil
}

// selfSignal reports whether pinning down the focus also identifies one of
// our own cards. Once every other copy of the focus identity is accounted
// for outside our hand, a two-way inference of ours containing it collapses
// to the remaining identity.
func (a *Agent) selfSignal(branch *Agent, target, focus int) bool {
	state := a.State
	if focus == -1 || target == state.OurPlayerIndex {
		return false
	}
	id, known := branch.Thought(target, focus).Identity()
	if !known {
		return false
	}
	if _, already := a.Thought(target, focus).Identity(); already {
		return false
	}
	accounted := state.DiscardCounts[id.SuitIndex][id.Rank-1] + 1
	if state.PlayStacks[id.SuitIndex] >= id.Rank {
		accounted++
	}
	for i, hand := range state.Hands {
		if i == state.OurPlayerIndex {
			continue
		}
		for _, o := range hand {
			if o != focus && state.Card(o).Identity == id {
				accounted++
			}
		}
	}
	if accounted < state.Variant.CardCount(id) {
		return false
	}
	for _, order := range a.OurHand() {
		t := a.Thought(state.OurPlayerIndex, order)
		if len(t.Inferred) == 2 && t.Inferred.Contains(id) {
			return true
		}
	}
	return false
}

// finesseAvailable reports whether the identity directly below focusID sits
// on some other player's finesse position.
func (a *Agent) finesseAvailable(focusID engine.Identity) bool {
	want := engine.Identity{SuitIndex: focusID.SuitIndex, Rank: focusID.Rank - 1}
	for i, hand := range a.State.Hands {
		if i == a.State.OurPlayerIndex {
			continue
		}
		pos := a.Players[i].FindFinesse(a.State, hand)
		if pos != -1 && a.State.Card(pos).Identity == want {
			return true
		}
	}
	return false
}

// duplicateTouched reports whether another copy of the identity is already
// clued somewhere, or touched by this same clue.
func (a *Agent) duplicateTouched(id engine.Identity, order int, touched []int) bool {
	for _, hand := range a.State.Hands {
		for _, o := range hand {
			if o == order {
				continue
			}
			card := a.State.Card(o)
			if card.Identity != id {
				continue
			}
			if card.Clued || containsOrder(touched, o) {
				return true
			}
		}
	}
	return false
}

// ClueSafe determines whether giving the clue could cause a downstream
// misplay. It simulates the clue and checks the branch.
func (a *Agent) ClueSafe(clue engine.Clue) bool {
	branch, _, err := a.SimulateClue(clue)
	if err != nil {
		return false
	}
	return a.clueSafeOn(branch, clue.Target)
}

// clueSafeOn verifies that everything the receiver would now play is
// actually playable, immediately or queued behind pending plays.
func (a *Agent) clueSafeOn(branch *Agent, target int) bool {
	state := branch.State
	player := branch.Players[target]
	for _, order := range player.ThinksPlayables(state, state.Hands[target]) {
		id := state.Card(order).Identity
		if !id.Known() {
			continue
		}
		if state.IsPlayable(id) {
			continue
		}
		// Queued: the chain below it is already promised to play.
		if state.PlayableAway(id) > 0 && id.Rank <= player.HypoStacks[id.SuitIndex]+1 {
			continue
		}
		return false
	}
	return true
}

// Save2 reports whether a rank-2 clue conventionally saves the card: a
// useful 2 with no other copy visible in any hand.
func (a *Agent) Save2(target, order int) bool {
	id := a.State.Card(order).Identity
	if id.Rank != 2 || a.State.IsBasicTrash(id) {
		return false
	}
	return a.State.VisibleCopies(id, order) == 0
}

// FindFixClues finds clues that repair mistaken beliefs before they cause a
// misplay. Play and save clues already planned for a player cover their
// cards, so those are skipped. Indexed by player.
func (a *Agent) FindFixClues(playClues [][]CandidateClue, saveClues []*SaveClue) [][]FixClue {
	fixes := make([][]FixClue, a.State.NumPlayers)
	for target := 0; target < a.State.NumPlayers; target++ {
		if target == a.State.OurPlayerIndex {
			continue
		}
		hand := a.State.Hands[target]
		playables := a.Players[target].ThinksPlayables(a.State, hand)
		for _, order := range hand {
			card := a.State.Card(order)
			if !card.Clued || !card.Known() {
				continue
			}
			t := a.Thought(target, order)
			if len(t.Inferred) == 0 || t.Inferred.Contains(card.Identity) {
				continue
			}
			if a.clueAlreadyCovers(target, order, playClues, saveClues) {
				continue
			}
			urgent := containsOrder(playables, order) && !a.State.IsPlayable(card.Identity)
			if fix := a.buildFixClue(target, order, urgent); fix != nil {
				fixes[target] = append(fixes[target], *fix)
			}
		}
	}
	return fixes
}

// buildFixClue picks the direct clue that best reveals the card's truth.
func (a *Agent) buildFixClue(target, order int, urgent bool) *FixClue {
	card := a.State.Card(order)
	var best *FixClue
	bestValue := noClueValue
	for _, clue := range a.DirectClues(target, order) {
		cand, err := a.evaluateClue(clue)
		if err != nil || cand == nil {
			continue
		}
		branch, _, err := a.SimulateClue(clue)
		if err != nil {
			continue
		}
		bt := branch.Thought(target, order)
		// The fix must actually move the belief toward the truth.
		if !bt.Inferred.Contains(card.Identity) && !bt.Inferred.Every(branch.State.IsBasicTrash) {
			continue
		}
		if v := FindClueValue(cand.Result); v > bestValue {
			bestValue = v
			best = &FixClue{
				CandidateClue: *cand,
				TrashFix:      bt.Inferred.Every(branch.State.IsBasicTrash),
				Urgent:        urgent,
			}
		}
	}
	return best
}

// clueAlreadyCovers reports whether a planned play or save clue for the
// player already touches the card.
func (a *Agent) clueAlreadyCovers(target, order int, playClues [][]CandidateClue, saveClues []*SaveClue) bool {
	if playClues != nil {
		for _, cand := range playClues[target] {
			if containsOrder(a.TouchedBy(cand.Clue), order) {
				return true
			}
		}
	}
	if saveClues != nil && saveClues[target] != nil {
		if containsOrder(a.TouchedBy(saveClues[target].Clue), order) {
			return true
		}
	}
	return false
}
