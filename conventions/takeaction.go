package conventions

import (
	"github.com/sirupsen/logrus"

	"github.com/calico-games/hanab-agent/engine"
)

// TakeAction chooses the single best legal action for this turn: the first
// action of the first non-empty urgent tier, then our best play, then the
// best play clue worth its token, then the safest discard or stall.
func (a *Agent) TakeAction() engine.Action {
	state := a.State
	lists := a.FindClues(FindCluesOptions{IgnorePlayerIndex: -1})
	playables := a.Us().ThinksPlayables(state, a.OurHand())
	priorities := a.DeterminePlayableCards(playables)
	urgent := a.FindUrgentActions(lists, priorities, a.finessedOrder())

	// Immediate band: nobody else can solve these first.
	for slot := 0; slot < int(tierCount); slot++ {
		if len(urgent[slot]) > 0 {
			a.logChoice("urgent", urgent[slot][0])
			return urgent[slot][0]
		}
	}

	// Our own playables, first non-empty priority bucket.
	if order, ok := a.bestPlay(priorities); ok {
		action := engine.Action{Type: engine.ActionPlay, Target: order, TableID: a.TableID}
		a.logChoice("play", action)
		return action
	}

	// Best play clue across all targets, gated by the minimum clue value.
	if state.ClueTokens > 0 {
		var all []CandidateClue
		for _, clues := range lists.PlayClues {
			all = append(all, clues...)
		}
		if best, value, ok := SelectPlayClue(all); ok && value >= MinClueValue && best.Result.Safe {
			action := engine.ClueToAction(best.Clue, a.TableID)
			a.logChoice("play clue", action)
			return action
		}
	}

	// Deferred band: someone else could still act, but nobody better has.
	for slot := int(tierCount); slot < NumActionTiers; slot++ {
		if len(urgent[slot]) > 0 {
			a.logChoice("deferred urgent", urgent[slot][0])
			return urgent[slot][0]
		}
	}

	return a.discardOrStall(lists)
}

// finessedOrder returns the card we are mid-blind-playing, or -1.
func (a *Agent) finessedOrder() int {
	for _, order := range a.OurHand() {
		if a.Us().Thoughts[order].BlindPlaying {
			return order
		}
	}
	return -1
}

// bestPlay picks the first card of the first non-empty priority bucket,
// skipping suspected-trash blind plays at two strikes.
func (a *Agent) bestPlay(priorities [NumPriorityBuckets][]int) (int, bool) {
	for _, bucket := range priorities {
		for _, order := range bucket {
			t := a.Us().Thoughts[order]
			if t.ChopMoved && t.Inferred.Every(a.State.IsBasicTrash) && a.State.Strikes >= engine.MaxStrikes-1 {
				continue
			}
			return order, true
		}
	}
	return -1, false
}

// discardOrStall is the fallthrough when nothing is urgent and no clue is
// worth its token.
func (a *Agent) discardOrStall(lists ClueLists) engine.Action {
	state := a.State
	us := a.Us()

	if state.ClueTokens < engine.MaxClueTokens {
		if trash := us.ThinksTrash(state, a.OurHand()); len(trash) > 0 {
			action := engine.Action{Type: engine.ActionDiscard, Target: trash[0], TableID: a.TableID}
			a.logChoice("discard trash", action)
			return action
		}
		if chop := us.Chop(state, a.OurHand()); chop != -1 {
			action := engine.Action{Type: engine.ActionDiscard, Target: chop, TableID: a.TableID}
			a.logChoice("discard chop", action)
			return action
		}
	}

	// Locked (or at the token ceiling): stall if we can, sacrifice if we
	// must.
	if state.ClueTokens > 0 {
		for _, clues := range lists.StallClues {
			if len(clues) > 0 {
				action := engine.ClueToAction(clues[0].Clue, a.TableID)
				a.logChoice("stall", action)
				return action
			}
		}
		for target := 0; target < state.NumPlayers; target++ {
			if target == state.OurPlayerIndex {
				continue
			}
			if clue := a.fiveStall(target); clue != nil {
				action := engine.ClueToAction(*clue, a.TableID)
				a.logChoice("5 stall", action)
				return action
			}
		}
	}

	order := us.LockedDiscard(state, a.OurHand())
	if order == -1 {
		order = a.OurHand()[len(a.OurHand())-1]
	}
	action := engine.Action{Type: engine.ActionDiscard, Target: order, TableID: a.TableID}
	a.logChoice("locked discard", action)
	return action
}

// fiveStall returns a rank-5 clue to the target if it touches a 5, used as
// the conventional no-information stall.
func (a *Agent) fiveStall(target int) *engine.Clue {
	clue := engine.Clue{Type: engine.ClueRank, Value: engine.MaxRank, Target: target}
	if len(a.TouchedBy(clue)) == 0 {
		return nil
	}
	return &clue
}

func (a *Agent) logChoice(kind string, action engine.Action) {
	a.log.WithFields(logrus.Fields{
		"kind":   kind,
		"type":   action.Type,
		"target": action.Target,
		"value":  action.Value,
		"turn":   a.State.TurnCount,
		"score":  a.State.Score(),
	}).Debug("selected action")
}
