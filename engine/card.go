package engine

import "github.com/google/uuid"

// Identity is a (suit, rank) pair. Either field may be -1 when the identity
// is not (yet) known to an observer.
type Identity struct {
	SuitIndex int
	Rank      int
}

// UnknownIdentity is the identity of a card nobody has information about.
var UnknownIdentity = Identity{SuitIndex: -1, Rank: -1}

// Known reports whether both suit and rank are determined.
func (id Identity) Known() bool { return id.SuitIndex >= 0 && id.Rank >= 0 }

// Card is one physical card on the table. Order is the draw-order index,
// unique and stable for the life of the card. DrawIndex counts how many cards
// had been drawn before this one; cards with DrawIndex below the initial deal
// size have been in their hand since the start of the game.
type Card struct {
	Order     int
	Identity
	DrawIndex  int
	Clued      bool
	NewlyClued bool
}

// ClueType distinguishes the two kinds of hints.
type ClueType uint8

const (
	ClueColour ClueType = iota
	ClueRank
)

// Clue is a hypothesis about giving one hint: a type, its value (suit index
// for colour, rank for rank), and the player it would be given to. It is not
// yet a performed action.
type Clue struct {
	Type   ClueType
	Value  int
	Target int
}

// ActionType enumerates the performable action kinds.
type ActionType uint8

const (
	ActionPlay ActionType = iota
	ActionDiscard
	ActionColourClue
	ActionRankClue
)

// Action is a fully-specified action ready to be performed at a table.
// Target is a card order for plays/discards and a player index for clues.
type Action struct {
	Type    ActionType
	Target  int
	Value   int
	TableID uuid.UUID
}

// ClueToAction converts a candidate clue into a performable action.
func ClueToAction(clue Clue, tableID uuid.UUID) Action {
	t := ActionColourClue
	if clue.Type == ClueRank {
		t = ActionRankClue
	}
	return Action{Type: t, Target: clue.Target, Value: clue.Value, TableID: tableID}
}

// IsClue reports whether the action is a colour or rank clue.
func (a Action) IsClue() bool {
	return a.Type == ActionColourClue || a.Type == ActionRankClue
}
