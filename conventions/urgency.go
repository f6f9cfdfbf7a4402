package conventions

import (
	"sort"

	"github.com/calico-games/hanab-agent/engine"
)

// Tier is an urgency class for candidate actions. Lower is more urgent.
type Tier uint8

const (
	TierUnlock Tier = iota
	TierPlayOverSave
	TierTrashFix
	TierOnlySave
	TierUrgentFix
	tierCount
)

// Band splits every tier in two: actions needed before anyone else can act,
// and actions someone else could still cover.
type Band uint8

const (
	BandImmediate Band = iota
	BandDeferred
)

// TierIndex maps a (tier, band) pair onto the flat action-list index.
func TierIndex(t Tier, b Band) int { return int(b)*int(tierCount) + int(t) }

// NumActionTiers is the number of slots in the ranked output: every tier in
// both bands, plus one trailing "just in case" slot.
const NumActionTiers = 2*int(tierCount) + 1

// LowestTier is the trailing slot for actions worth remembering but never
// urgent.
const LowestTier = NumActionTiers - 1

// rankedClue carries a queued clue candidate with its valuation, so clues
// can be ordered within a tier after all targets are processed.
type rankedClue struct {
	clue  engine.Clue
	value float64
}

// tieredActions accumulates direct actions and clue candidates per slot.
// Direct actions always outrank queued clues in the same slot.
type tieredActions struct {
	direct [NumActionTiers][]engine.Action
	clues  [NumActionTiers][]rankedClue
}

func (ta *tieredActions) addDirect(slot int, action engine.Action) {
	ta.direct[slot] = append(ta.direct[slot], action)
}

func (ta *tieredActions) addClue(slot int, cand CandidateClue) {
	ta.clues[slot] = append(ta.clues[slot], rankedClue{
		clue:  cand.Clue,
		value: FindClueValue(cand.Result),
	})
}

// merge flattens the accumulator into the final ranked lists: per slot,
// direct actions first, then clues by descending value (stable, so
// enumeration order breaks ties).
func (ta *tieredActions) merge(a *Agent) [][]engine.Action {
	out := make([][]engine.Action, NumActionTiers)
	for slot := 0; slot < NumActionTiers; slot++ {
		out[slot] = append(out[slot], ta.direct[slot]...)
		sort.SliceStable(ta.clues[slot], func(i, j int) bool {
			return ta.clues[slot][i].value > ta.clues[slot][j].value
		})
		for _, rc := range ta.clues[slot] {
			out[slot] = append(out[slot], engine.ClueToAction(rc.clue, a.TableID))
		}
	}
	return out
}

// FindUrgentActions determines, for every other player in turn order,
// whether an urgent protective or unlocking action is required, validates
// candidates through hypothetical continuations, and returns the fully
// ranked tier lists. The caller takes the first action of the first
// non-empty slot.
//
// finessedOrder is the order of a card we are mid-blind-playing, or -1.
func (a *Agent) FindUrgentActions(lists ClueLists, priorities [NumPriorityBuckets][]int, finessedOrder int) [][]engine.Action {
	state := a.State
	acts := &tieredActions{}

	for d := 1; d < state.NumPlayers; d++ {
		target := a.playerAtDistance(d)
		hand := state.Hands[target]
		player := a.Players[target]

		band := BandDeferred
		if a.potentialCluers(target) == 0 || a.earlyGameExpectedClue(target) {
			band = BandImmediate
		}

		// Locked hands get unlock attempts, in strict order; if nothing
		// applies the target gets no action this turn.
		if player.ThinksLocked(state, hand) {
			a.handleLocked(acts, target, band, lists)
			continue
		}

		// A save may be explicit, or implicit via a play clue that happens
		// to focus the chop and still scores as a save.
		save := lists.SaveClues[target]
		if save == nil {
			save = a.implicitSave(target, lists.PlayClues[target])
		}
		if save != nil {
			a.saveUrgency(acts, target, d, band, save, lists, priorities, finessedOrder)
		}

		// Fixes are owed independently of save and lock handling.
		if state.ClueTokens > 0 {
			a.queueFixes(acts, target, band, lists.FixClues[target])
		}
	}

	return acts.merge(a)
}

// potentialCluers counts players strictly between us and the target who are
// not mid-blind-play of a provably playable card, meaning they could still
// give the needed clue later.
func (a *Agent) potentialCluers(target int) int {
	count := 0
	for d := 1; d < a.turnDistance(target); d++ {
		between := a.playerAtDistance(d)
		if !a.midBlindPlay(between) {
			count++
		}
	}
	return count
}

// midBlindPlay reports whether the player is committed to a blind play of a
// card that is provably playable.
func (a *Agent) midBlindPlay(player int) bool {
	state := a.State
	for _, order := range state.Hands[player] {
		t := a.Thought(player, order)
		if t.BlindPlaying || (t.Finessed && state.IsPlayable(state.Card(order).Identity)) {
			return true
		}
	}
	return false
}

// handleLocked tries, in strict order, the actions that can free a locked
// target: an anxiety play, an unlock play, a play-over-save clue, a trash
// fix.
func (a *Agent) handleLocked(acts *tieredActions, target int, band Band, lists ClueLists) {
	if play, ok := a.anxietyPlay(); ok {
		acts.addDirect(TierIndex(TierUnlock, band), play)
		return
	}
	if play, ok := a.findUnlock(target); ok {
		acts.addDirect(TierIndex(TierUnlock, band), play)
		return
	}
	if pos := a.findPlayOverSave(target, lists.PlayClues[target]); pos != nil {
		acts.addClue(TierIndex(TierPlayOverSave, band), *pos)
		return
	}
	if a.State.ClueTokens > 0 {
		if fix := bestTrashFix(lists.FixClues[target]); fix != nil {
			acts.addClue(TierIndex(TierTrashFix, band), fix.CandidateClue)
		}
	}
}

// anxietyPlay fires at zero clue tokens when we hold a card every remaining
// possibility says is playable: the forced play everyone can deduce.
func (a *Agent) anxietyPlay() (engine.Action, bool) {
	if a.State.ClueTokens != 0 || a.Level < LevelLastResorts {
		return engine.Action{}, false
	}
	for _, order := range a.OurHand() {
		t := a.Us().Thoughts[order]
		if t.Possible.Every(a.State.IsPlayable) {
			return engine.Action{Type: engine.ActionPlay, Target: order, TableID: a.TableID}, true
		}
	}
	return engine.Action{}, false
}

// findUnlock looks for a card of the target's that is exactly one step from
// playable where we hold the connecting predecessor with certainty and the
// target would recognize the result as playable.
func (a *Agent) findUnlock(target int) (engine.Action, bool) {
	state := a.State
	for _, order := range state.Hands[target] {
		id := state.Card(order).Identity
		if !id.Known() || state.PlayableAway(id) != 1 {
			continue
		}
		want := engine.Identity{SuitIndex: id.SuitIndex, Rank: id.Rank - 1}

		var connecting []int
		for _, o := range a.OurHand() {
			if tid, known := a.Us().Thoughts[o].Identity(); known && tid == want {
				connecting = append(connecting, o)
			}
		}
		if len(connecting) == 0 {
			continue
		}

		t := a.Thought(target, order)
		hypo := a.Players[target].HypoStacks
		recognized := t.Inferred.Every(func(iid engine.Identity) bool {
			return iid.Rank <= hypo[iid.SuitIndex]+1
		})
		if !recognized && state.ClueTokens != 0 {
			continue
		}

		chosen := connecting[0]
		if want.Rank == 1 && len(connecting) > 1 {
			chosen = a.Order1s(connecting)[0]
		}
		return engine.Action{Type: engine.ActionPlay, Target: chosen, TableID: a.TableID}, true
	}
	return engine.Action{}, false
}

// findPlayOverSave returns the best clue in the pool that gives the target
// something to play, worth giving in its own right, and safe.
func (a *Agent) findPlayOverSave(target int, pool []CandidateClue) *CandidateClue {
	var best *CandidateClue
	bestValue := noClueValue
	for i := range pool {
		cand := &pool[i]
		if cand.Clue.Target != target || !cand.Result.Safe || len(cand.Result.Playables) == 0 {
			continue
		}
		if v := FindClueValue(cand.Result); v >= MinClueValue && v > bestValue {
			bestValue = v
			best = cand
		}
	}
	return best
}

// implicitSave finds a play clue that focuses the target's chop and scores
// positively when routed through save valuation.
func (a *Agent) implicitSave(target int, playClues []CandidateClue) *SaveClue {
	chop := a.Players[target].Chop(a.State, a.State.Hands[target])
	if chop == -1 {
		return nil
	}
	id := a.State.Card(chop).Identity
	if a.State.IsBasicTrash(id) {
		return nil
	}
	for _, cand := range playClues {
		if cand.Result.Focus == chop && FindClueValue(cand.Result) > 0 {
			return &SaveClue{CandidateClue: cand, Playable: a.State.IsPlayable(id)}
		}
	}
	return nil
}

// queueFixes places the best urgent and ordinary fixes for a target.
// Urgent fixes outrank everything but unlocks and saves; ordinary fixes sit
// in the trailing slot.
func (a *Agent) queueFixes(acts *tieredActions, target int, band Band, fixes []FixClue) {
	// The two classes are selected independently: an ordinary fix
	// out-valuing an urgent one must never displace it.
	var urgent, ordinary *FixClue
	urgentValue, ordinaryValue := noClueValue, noClueValue
	for i := range fixes {
		v := FindClueValue(fixes[i].Result)
		if fixes[i].Urgent {
			if v > urgentValue {
				urgentValue = v
				urgent = &fixes[i]
			}
		} else if v > ordinaryValue {
			ordinaryValue = v
			ordinary = &fixes[i]
		}
	}
	if urgent != nil {
		acts.addClue(TierIndex(TierUrgentFix, band), urgent.CandidateClue)
	}
	if ordinary != nil {
		acts.addClue(LowestTier, ordinary.CandidateClue)
	}
}

// withPlayable returns a copy of the candidate with one more playable. The
// copy never aliases the source's backing array, so valuing the copy cannot
// corrupt the original.
func withPlayable(cand CandidateClue, p Playable) CandidateClue {
	playables := make([]Playable, len(cand.Result.Playables), len(cand.Result.Playables)+1)
	copy(playables, cand.Result.Playables)
	cand.Result.Playables = append(playables, p)
	return cand
}

// bestTrashFix returns the highest-valued trash fix.
func bestTrashFix(fixes []FixClue) *FixClue {
	var best *FixClue
	bestValue := noClueValue
	for i := range fixes {
		if !fixes[i].TrashFix {
			continue
		}
		if v := FindClueValue(fixes[i].Result); v > bestValue {
			bestValue = v
			best = &fixes[i]
		}
	}
	return best
}

// saveUrgency classifies a required save into a priority slot, or rejects
// it. The numbered transitions are a strict priority order: the first match
// wins and later transitions are never evaluated.
func (a *Agent) saveUrgency(acts *tieredActions, target, distance int, band Band, save *SaveClue, lists ClueLists, priorities [NumPriorityBuckets][]int, finessedOrder int) {
	state := a.State
	hand := state.Hands[target]
	player := a.Players[target]
	chop := player.Chop(state, hand)

	// 1. A loaded target can save themselves for a turn; file the clue
	// just in case.
	if player.ThinksLoaded(state, hand) {
		acts.addClue(LowestTier, save.CandidateClue)
		return
	}

	// 2. An unlock answers the problem without spending a token.
	if play, ok := a.findUnlock(target); ok {
		acts.addDirect(TierIndex(TierUnlock, band), play)
		return
	}

	// 3. Garbage discard: our discard keeps the chain alive instead of a
	// token.
	if !state.InEndgame() && a.Level >= LevelLastResorts {
		if discard, ok := a.findGarbageDiscard(target); ok {
			acts.addDirect(TierIndex(TierUnlock, band), discard)
			return
		}
	}

	// 4. A trash fix solves it while conveying discard safety.
	if state.ClueTokens > 0 {
		if fix := bestTrashFix(lists.FixClues[target]); fix != nil {
			acts.addClue(TierIndex(TierTrashFix, band), fix.CandidateClue)
			return
		}
	}

	// 5. Order chop move: protect the chop by playing our 1s in a chosen
	// order instead of spending a token.
	if finessedOrder == -1 && !save.Playable {
		if play, ok := a.findOCM(target, distance, chop, priorities); ok {
			acts.addDirect(TierIndex(TierPlayOverSave, band), play)
			return
		}
	}

	// 6. Scream discard: only for the very next player.
	if distance == 1 && !state.InEndgame() && a.Level >= LevelLastResorts {
		if discard, ok := a.findScreamDiscard(target, chop, priorities); ok {
			acts.addDirect(TierIndex(TierOnlySave, band), discard)
			return
		}
	}

	// 7. Past here every answer costs a token.
	if state.ClueTokens == 0 {
		return
	}

	// 8. Tempo chop move: a stall-shaped clue that chop-moves by tempo.
	if state.NumPlayers > 2 && a.Level >= LevelTempoClues &&
		(!save.Playable || state.ClueTokens == 1) {
		if tempo := a.findTempoCM(target, chop, lists.StallClues[target]); tempo != nil {
			acts.addClue(TierIndex(TierPlayOverSave, band), *tempo)
			return
		}
	}

	// 9. The save itself may incidentally reveal a play; fold that into
	// the play-over-save pool.
	branch, _, err := a.SimulateClue(save.Clue)
	if err == nil {
		pool := append([]CandidateClue(nil), lists.PlayClues[target]...)
		if a.saveRevealsPlay(branch, target) {
			revealed := withPlayable(save.CandidateClue,
				Playable{PlayerIndex: target, Order: save.Result.Focus})
			pool = append(pool, revealed)
		}
		if pos := a.findPlayOverSave(target, pool); pos != nil {
			acts.addClue(TierIndex(TierPlayOverSave, band), *pos)
			return
		}
	}

	// 10. Never spend the last token to leave them worse off.
	if state.ClueTokens == 1 && branch != nil {
		after := branch.Players[target].ChopValue(branch.State, branch.State.Hands[target])
		before := player.ChopValue(state, hand)
		if after > before {
			return
		}
	}

	// 11. Only-save detection: refusing would lock them behind a chop we
	// cannot afford to lose.
	if !save.TrashCM && state.ClueTokens > 1 && branch != nil {
		cluers := a.potentialCluers(target)
		if cluers >= 1 && a.refusalLocks(target, chop) && a.resultingChopDire(branch, target) {
			acts.addClue(TierIndex(TierOnlySave, band), save.CandidateClue)
			return
		}
	}

	// 12. Final fallback: an unsafe save is refused outright.
	if !save.Result.Safe {
		return
	}
	acts.addClue(TierIndex(TierOnlySave, band), save.CandidateClue)
}

// findGarbageDiscard checks whether the target's forced discard would hand
// us a known-playable chain, letting our own discard stand in for a save.
func (a *Agent) findGarbageDiscard(target int) (engine.Action, bool) {
	state := a.State
	hand := state.Hands[target]
	ld := a.Players[target].LockedDiscard(state, hand)
	if ld == -1 {
		return engine.Action{}, false
	}
	id := state.Card(ld).Identity
	if !id.Known() || !state.IsPlayable(id) {
		return engine.Action{}, false
	}
	// Their discard reveals that our copy must play.
	holdsCopy := false
	for _, o := range a.OurHand() {
		if tid, known := a.Us().Thoughts[o].Identity(); known && tid == id {
			holdsCopy = true
			break
		}
	}
	if !holdsCopy {
		return engine.Action{}, false
	}
	trash := a.Us().ThinksTrash(state, a.OurHand())
	if len(trash) == 0 {
		return engine.Action{}, false
	}
	return engine.Action{Type: engine.ActionDiscard, Target: trash[0], TableID: a.TableID}, true
}

// findOCM checks order-chop-move feasibility: enough ambiguous 1s to encode
// the target's distance, and a post-move chop that is no worse than the
// current one.
func (a *Agent) findOCM(target, distance, chop int, priorities [NumPriorityBuckets][]int) (engine.Action, bool) {
	if chop == -1 {
		return engine.Action{}, false
	}
	ones := a.Order1s(a.ambiguousOnes(priorities))
	if len(ones) <= distance {
		return engine.Action{}, false
	}

	state := a.State
	hand := state.Hands[target]
	player := a.Players[target]
	before := player.ChopValue(state, hand)
	moved := player.SimulateCM([]int{chop})
	after := moved.ChopValue(state, hand)
	if after > before {
		return engine.Action{}, false
	}
	return engine.Action{Type: engine.ActionPlay, Target: ones[distance], TableID: a.TableID}, true
}

// ambiguousOnes collects our playable cards known to be 1s but of uncertain
// suit.
func (a *Agent) ambiguousOnes(priorities [NumPriorityBuckets][]int) []int {
	var ones []int
	for _, bucket := range priorities {
		for _, order := range bucket {
			t := a.Us().Thoughts[order]
			if a.knownRank(order) == 1 && len(t.Inferred) > 1 {
				ones = append(ones, order)
			}
		}
	}
	return ones
}

// findScreamDiscard checks scream/shout feasibility for the next player:
// we must hold a playable, and the discard must actually carry the signal.
func (a *Agent) findScreamDiscard(target, chop int, priorities [NumPriorityBuckets][]int) (engine.Action, bool) {
	state := a.State
	if !a.holdsPlayable(priorities) {
		return engine.Action{}, false
	}

	// Shout: discarding known trash carries the same signal for free.
	if trash := a.Us().ThinksTrash(state, a.OurHand()); len(trash) > 0 {
		return engine.Action{Type: engine.ActionDiscard, Target: trash[0], TableID: a.TableID}, true
	}

	if chop == -1 {
		return engine.Action{}, false
	}
	chopID := state.Card(chop).Identity
	hypoNext := chopID.Known() && chopID.Rank == a.Us().HypoStacks[chopID.SuitIndex]+1
	if !state.IsCritical(chopID) && !hypoNext {
		return engine.Action{}, false
	}

	ourChop := a.Us().Chop(state, a.OurHand())
	if ourChop == -1 {
		return engine.Action{}, false
	}
	switch state.ClueTokens {
	case 0:
		// Free to scream.
	case 1:
		moved := a.Players[target].SimulateCM([]int{chop})
		if !moved.ThinksLocked(state, state.Hands[target]) {
			return engine.Action{}, false
		}
	default:
		return engine.Action{}, false
	}
	return engine.Action{Type: engine.ActionDiscard, Target: ourChop, TableID: a.TableID}, true
}

// holdsPlayable reports whether any priority bucket is non-empty.
func (a *Agent) holdsPlayable(priorities [NumPriorityBuckets][]int) bool {
	for _, bucket := range priorities {
		if len(bucket) > 0 {
			return true
		}
	}
	return false
}

// findTempoCM picks a stall-shaped clue for the target that is tempo-valued
// but not independently worth giving, safe, and whose chop is not already
// playable.
func (a *Agent) findTempoCM(target, chop int, stallClues []CandidateClue) *CandidateClue {
	if chop == -1 {
		return nil
	}
	if a.State.IsPlayable(a.State.Card(chop).Identity) {
		return nil
	}
	for i := range stallClues {
		cand := &stallClues[i]
		if !cand.Result.Safe || len(cand.Result.NewTouched) > 0 {
			continue
		}
		if FindClueValue(cand.Result) >= MinClueValue {
			continue
		}
		return cand
	}
	return nil
}

// saveRevealsPlay reports whether the simulated save left the target with a
// new known play.
func (a *Agent) saveRevealsPlay(branch *Agent, target int) bool {
	base := a.Players[target].ThinksPlayables(a.State, a.State.Hands[target])
	after := branch.Players[target].ThinksPlayables(branch.State, branch.State.Hands[target])
	for _, order := range after {
		if !containsOrder(base, order) {
			return true
		}
	}
	return false
}

// refusalLocks simulates refusing the save: the target discards their chop
// and is locked afterwards.
func (a *Agent) refusalLocks(target, chop int) bool {
	if chop == -1 {
		return false
	}
	branch, err := a.Game.SimulateDiscard(chop)
	if err != nil {
		return false
	}
	return branch.Players[target].ThinksLocked(branch.State, branch.State.Hands[target])
}

// resultingChopDire reports whether the chop left after the save would
// itself need saving, either critical or 2-saveable.
func (a *Agent) resultingChopDire(branch *Agent, target int) bool {
	state := branch.State
	chop := branch.Players[target].Chop(state, state.Hands[target])
	if chop == -1 {
		return false
	}
	id := state.Card(chop).Identity
	return state.IsCritical(id) || (id.Rank == 2 && branch.Save2(target, chop))
}
