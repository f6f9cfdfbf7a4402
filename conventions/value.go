package conventions

// MinClueValue is the Minimum Clue Value Principle threshold: a clue scoring
// below this is never worth giving over a safe discard.
const MinClueValue = 1.0

// noClueValue is the internal initialization floor for best-of scans. It is
// observable through SelectPlayClue on an empty list but is not otherwise
// part of any contract.
const noClueValue = -99.0

// FindClueValue scores a clue's computed outcome. Higher is better. The
// constants are fixed policy: a misleading touch is the costliest mistake a
// clue can make, so bad touch dominates every other term; the first card
// touched is worth far more than each additional one.
func FindClueValue(res ClueResult) float64 {
	value := 0.0
	if len(res.NewTouched) >= 1 {
		value += 0.51 + 0.10*float64(len(res.NewTouched)-1)
	}
	value += 0.5 * float64(len(res.Finesses)+len(res.Playables))
	value += 0.01 * float64(res.Elim)
	value -= 1.0 * float64(res.BadTouch)
	value -= 0.1 * float64(res.AvoidableDupe)
	if res.SelfSignal {
		value += 0.2
	}
	value -= 0.1 * float64(res.Remainder)
	value += 0.01 * float64(res.PossibleBefore-res.InferredAfter)
	return value
}

// SelectPlayClue picks the highest-valued clue from the list. The scan keeps
// the running maximum under strict >, so the first clue among ties wins;
// discovery's enumeration order is itself a tie-break policy. On an empty
// list ok is false and the returned value is the sentinel floor.
func SelectPlayClue(clues []CandidateClue) (best CandidateClue, value float64, ok bool) {
	value = noClueValue
	for _, clue := range clues {
		if v := FindClueValue(clue.Result); v > value {
			best = clue
			value = v
			ok = true
		}
	}
	return best, value, ok
}
