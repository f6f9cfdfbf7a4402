package conventions

import "github.com/calico-games/hanab-agent/engine"

// ClueInterp tags how the receiver is expected to read a clue.
type ClueInterp uint8

const (
	InterpPlay ClueInterp = iota
	InterpSave
	InterpStall
	Interp5Stall
	InterpTrashCM
	Interp5CM
)

// Playable identifies a card a clue makes playable, tagged with the player
// expected to play it.
type Playable struct {
	PlayerIndex int
	Order       int
}

// ClueResult is the computed consequence of hypothetically giving a clue.
// Safety is always computed before a clue may be chosen as a final action.
type ClueResult struct {
	// NewTouched holds the orders of cards the clue would touch for the
	// first time.
	NewTouched []int
	Playables  []Playable
	// Finesses holds orders resolvable only via finesse.
	Finesses []int

	BadTouch      int
	AvoidableDupe int
	// Elim counts identities eliminated from the receiver's belief sets.
	Elim      int
	Remainder int
	// PossibleBefore and InferredAfter feed the precision bonus: the sum of
	// possible-set sizes of newly touched cards before the clue, and of
	// their inferred sets after.
	PossibleBefore int
	InferredAfter  int
	// SelfSignal marks a clue that also identifies a card of the giver's.
	SelfSignal bool

	Focus  int
	Safe   bool
	Interp ClueInterp
}

// CandidateClue pairs a clue with its computed result.
type CandidateClue struct {
	Clue   engine.Clue
	Result ClueResult
}

// SaveClue is a clue given to protect a card, with the orders it would
// chop-move and whether it doubles as a play clue.
type SaveClue struct {
	CandidateClue
	CM []int
	// Playable is set when the saved card is immediately playable.
	Playable bool
	// TrashCM is set when the clue reads purely as a chop-move of trash.
	TrashCM bool
}

// FixClue repairs a mistaken belief before it causes a misplay.
type FixClue struct {
	CandidateClue
	// TrashFix is set when the fix conveys that the card is known trash.
	TrashFix bool
	// Urgent is set when the fix must be given this turn.
	Urgent bool
}
