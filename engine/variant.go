package engine

// MaxRank is the highest rank in every variant.
const MaxRank = 5

// Variant describes the suit composition of the deck and the touch-matching
// rules that follow from it. Suit behaviour beyond touch matching (special
// play rules, one-of-each suits) is out of scope here.
type Variant struct {
	Name  string
	Suits []string
}

// NoVariant is the standard five-suit game.
func NoVariant() Variant {
	return Variant{
		Name:  "No Variant",
		Suits: []string{"Red", "Yellow", "Green", "Blue", "Purple"},
	}
}

// NumSuits returns the number of suits in the variant.
func (v Variant) NumSuits() int { return len(v.Suits) }

// CardCount returns how many copies of the identity exist in the deck.
func (v Variant) CardCount(id Identity) int {
	switch id.Rank {
	case 1:
		return 3
	case MaxRank:
		return 1
	default:
		return 2
	}
}

// DeckSize returns the total number of cards in the deck.
func (v Variant) DeckSize() int {
	total := 0
	for suit := range v.Suits {
		for rank := 1; rank <= MaxRank; rank++ {
			total += v.CardCount(Identity{SuitIndex: suit, Rank: rank})
		}
	}
	return total
}

// Touches reports whether giving clue would touch a card of the given
// identity. Rank clues match on rank; colour clues match on suit, except
// rainbow suits which every colour touches.
func (v Variant) Touches(clue Clue, id Identity) bool {
	if !id.Known() {
		return false
	}
	switch clue.Type {
	case ClueRank:
		return clue.Value == id.Rank
	case ClueColour:
		if v.Suits[id.SuitIndex] == "Rainbow" {
			return true
		}
		return clue.Value == id.SuitIndex
	}
	return false
}

// AllIdentities enumerates every identity in the variant, suit-major.
func (v Variant) AllIdentities() []Identity {
	ids := make([]Identity, 0, len(v.Suits)*MaxRank)
	for suit := range v.Suits {
		for rank := 1; rank <= MaxRank; rank++ {
			ids = append(ids, Identity{SuitIndex: suit, Rank: rank})
		}
	}
	return ids
}

// HandSize returns the convention hand size for a player count.
func HandSize(numPlayers int) int {
	switch {
	case numPlayers <= 3:
		return 5
	case numPlayers <= 5:
		return 4
	default:
		return 3
	}
}
