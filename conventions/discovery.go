package conventions

import (
	"github.com/sirupsen/logrus"

	"github.com/calico-games/hanab-agent/engine"
)

// FindCluesOptions narrows a discovery pass. IgnorePlayerIndex of -1 skips
// nobody extra; IgnoreCM disables the destructive chop-move signals.
type FindCluesOptions struct {
	IgnorePlayerIndex int
	IgnoreCM          bool
}

// ClueLists is the per-target output of one discovery pass.
type ClueLists struct {
	PlayClues  [][]CandidateClue
	SaveClues  []*SaveClue
	FixClues   [][]FixClue
	StallClues [][]CandidateClue
}

// FindClues enumerates every candidate save, chop-move signal, play, and
// stall clue for the current turn, for every other player. Run once per
// turn.
func (a *Agent) FindClues(opts FindCluesOptions) ClueLists {
	state := a.State
	lists := ClueLists{
		PlayClues:  make([][]CandidateClue, state.NumPlayers),
		SaveClues:  make([]*SaveClue, state.NumPlayers),
		StallClues: make([][]CandidateClue, state.NumPlayers),
	}

	for target := 0; target < state.NumPlayers; target++ {
		if target == state.OurPlayerIndex || target == opts.IgnorePlayerIndex {
			continue
		}
		hand := state.Hands[target]
		player := a.Players[target]
		chop := player.Chop(state, hand)
		cmAllowed := a.Level >= LevelBasicCM && !opts.IgnoreCM
		tcmTried, cm5Tried := false, false
		excludeRank := -1

		// Scan from the chop side (rightmost) to the left.
		for i := len(hand) - 1; i >= 0; i-- {
			order := hand[i]
			card := state.Card(order)
			t := player.Thoughts[order]

			if t.Finessed {
				continue
			}
			if a.duplicateProtected(order) {
				continue
			}
			if a.redundantWaiting(order) {
				continue
			}

			if order == chop {
				lists.SaveClues[target] = a.findSave(target, order)
			}

			if cmAllowed && !tcmTried && order != chop && !card.Clued && !t.ChopMoved &&
				state.IsBasicTrash(card.Identity) {
				// Only the rightmost eligible trash card is ever considered.
				tcmTried = true
				if tcm := a.findTCM(target, i, chop); tcm != nil {
					lists.SaveClues[target] = tcm
					continue
				}
			}

			if cmAllowed && !cm5Tried && order != chop && !card.Clued && !t.ChopMoved &&
				card.Rank == engine.MaxRank {
				cm5Tried = true
				if cm5 := a.find5CM(target, i, chop); cm5 != nil {
					lists.SaveClues[target] = cm5
					// A rank-5 play clue right after a 5CM would be
					// ambiguous with the signal.
					excludeRank = engine.MaxRank
					continue
				}
			}

			cand := a.DetermineClue(target, order, ClueOptions{ExcludeRank: excludeRank})
			if cand == nil {
				continue
			}
			switch {
			case len(cand.Result.Playables) > 0:
				lists.PlayClues[target] = append(lists.PlayClues[target], *cand)
			case len(cand.Result.NewTouched) == 0 && cand.Result.Safe:
				lists.StallClues[target] = append(lists.StallClues[target], *cand)
			default:
				a.log.WithFields(logrus.Fields{
					"target": target,
					"order":  order,
					"clue":   cand.Clue,
				}).Debug("discarding clue with no playables")
			}
		}
	}

	lists.FixClues = a.FindFixClues(lists.PlayClues, lists.SaveClues)
	return lists
}

// findSave computes the save clue for a target's chop card, or nil when no
// save is needed.
func (a *Agent) findSave(target, order int) *SaveClue {
	state := a.State
	id := state.Card(order).Identity
	if !id.Known() || state.IsBasicTrash(id) {
		return nil
	}

	us := a.Us()

	// Delayed playable: needed in exactly one more step of the hypo stacks
	// with no second copy visible; a cheap save keeps the chain alive.
	if id.Rank == us.HypoStacks[id.SuitIndex]+1 && state.VisibleCopies(id, order) == 0 &&
		!state.IsCritical(id) {
		if cand := a.DetermineClue(target, order, ClueOptions{Save: true, ExcludeRank: -1}); cand != nil {
			return &SaveClue{CandidateClue: *cand, Playable: state.IsPlayable(id)}
		}
		return nil
	}

	if state.IsCritical(id) {
		if id.Rank == engine.MaxRank {
			return a.rankSave(target, order, engine.MaxRank)
		}
		if cand := a.DetermineClue(target, order, ClueOptions{Save: true, ExcludeRank: -1}); cand != nil {
			return &SaveClue{CandidateClue: *cand, Playable: state.IsPlayable(id)}
		}
		return nil
	}

	if id.Rank == 2 && a.Save2(target, order) {
		return a.rankSave(target, order, 2)
	}
	return nil
}

// rankSave builds a direct rank save clue focused on the card.
func (a *Agent) rankSave(target, order, rank int) *SaveClue {
	clue := engine.Clue{Type: engine.ClueRank, Value: rank, Target: target}
	cand, err := a.evaluateClue(clue)
	if err != nil || cand == nil {
		return nil
	}
	cand.Result.Interp = InterpSave
	return &SaveClue{
		CandidateClue: *cand,
		Playable:      a.State.IsPlayable(a.State.Card(order).Identity),
	}
}

// findTCM attempts a trash chop move on the trash card at slot trashIdx of
// the target's hand. Everything to its right gets chop-moved.
func (a *Agent) findTCM(target, trashIdx, chop int) *SaveClue {
	state := a.State
	hand := state.Hands[target]
	player := a.Players[target]
	trashOrder := hand[trashIdx]

	// A chop that is trash, or a tracked duplicate, needs no protection.
	if chop == -1 {
		return nil
	}
	chopID := state.Card(chop).Identity
	if state.IsBasicTrash(chopID) || a.duplicateProtected(chop) {
		return nil
	}

	// Cards right of the trash card that the move would protect.
	var saved []int
	savedTrash := 0
	for i := trashIdx + 1; i < len(hand); i++ {
		order := hand[i]
		if state.Card(order).Clued || player.Thoughts[order].ChopMoved {
			continue
		}
		saved = append(saved, order)
		id := state.Card(order).Identity
		if state.IsBasicTrash(id) || a.duplicateProtected(order) {
			savedTrash++
		}
	}
	if savedTrash > 1 || len(saved)-savedTrash <= savedTrash {
		return nil
	}

	// A direct colour/rank save is preferable when it could cover every
	// would-be-saved card at once.
	if state.IsCritical(chopID) || (chopID.Rank == 2 && a.Save2(target, chop)) {
		coverable := true
		for _, order := range saved {
			id := state.Card(order).Identity
			if id.SuitIndex != chopID.SuitIndex && id.Rank != chopID.Rank {
				coverable = false
				break
			}
		}
		if coverable {
			return nil
		}
	}

	for _, clue := range a.DirectClues(target, trashOrder) {
		if !a.clueTouchesOnlyStackedOut(clue) {
			continue
		}
		cand, err := a.evaluateClue(clue)
		if err != nil || cand == nil {
			continue
		}
		// Enforce focus-correctness: the signal only reads as a trash
		// chop move when the trash card is the focus.
		if cand.Result.Focus != trashOrder {
			continue
		}
		cand.Result.Interp = InterpTrashCM
		return &SaveClue{CandidateClue: *cand, CM: saved, TrashCM: true}
	}
	return nil
}

// clueTouchesOnlyStackedOut reports whether the clue's value is provably
// exhausted: a rank that no suit can use, or a colour whose stack can climb
// no further.
func (a *Agent) clueTouchesOnlyStackedOut(clue engine.Clue) bool {
	state := a.State
	switch clue.Type {
	case engine.ClueRank:
		for suit := range state.PlayStacks {
			if clue.Value > state.PlayStacks[suit] && clue.Value <= state.MaxRanks[suit] {
				return false
			}
		}
		return true
	case engine.ClueColour:
		return state.PlayStacks[clue.Value] == state.MaxRanks[clue.Value]
	}
	return false
}

// find5CM attempts a 5's chop move on the rank-5 at slot fiveIdx. The chop
// card becomes chop-moved by clueing the 5 directly.
func (a *Agent) find5CM(target, fiveIdx, chop int) *SaveClue {
	state := a.State
	hand := state.Hands[target]
	if chop == -1 || a.stallSeverity() != 0 {
		return nil
	}

	// When everything is nearly stacked out a direct 5 reads as an
	// ordinary stall, not a signal.
	allHigh := true
	for _, stack := range a.Us().HypoStacks {
		if stack < engine.MaxRank-1 {
			allHigh = false
			break
		}
	}
	if allHigh {
		return nil
	}

	// Exactly one unclued card may lie strictly between the 5 and chop.
	chopIdx := -1
	for i, order := range hand {
		if order == chop {
			chopIdx = i
			break
		}
	}
	if chopIdx <= fiveIdx {
		return nil
	}
	between := 0
	for i := fiveIdx + 1; i < chopIdx; i++ {
		if !state.Card(hand[i]).Clued {
			between++
		}
	}
	if between != 1 {
		return nil
	}

	clue := engine.Clue{Type: engine.ClueRank, Value: engine.MaxRank, Target: target}
	cand, err := a.evaluateClue(clue)
	if err != nil || cand == nil {
		return nil
	}
	cand.Result.Interp = Interp5CM
	return &SaveClue{CandidateClue: *cand, CM: []int{chop}}
}

// duplicateProtected reports whether another copy of the card's identity is
// already clued or finessed in some hand.
func (a *Agent) duplicateProtected(order int) bool {
	id := a.State.Card(order).Identity
	if !id.Known() {
		return false
	}
	for player, hand := range a.State.Hands {
		for _, o := range hand {
			if o == order || a.State.Card(o).Identity != id {
				continue
			}
			if a.State.Card(o).Clued {
				return true
			}
			if t := a.Players[player].Thoughts[o]; t != nil && t.Finessed {
				return true
			}
		}
	}
	return false
}

// redundantWaiting reports whether the card is already covered by an
// in-progress waiting connection at an equal or lower rank in its suit.
func (a *Agent) redundantWaiting(order int) bool {
	id := a.State.Card(order).Identity
	if !id.Known() {
		return false
	}
	for _, wc := range a.Us().WaitingConnections {
		if wc.Inference.SuitIndex == id.SuitIndex && wc.Inference.Rank <= id.Rank {
			return true
		}
	}
	return false
}
