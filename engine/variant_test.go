package engine

import "testing"

func TestTouches(t *testing.T) {
	v := NoVariant()
	tests := []struct {
		name string
		clue Clue
		id   Identity
		want bool
	}{
		{"rank match", Clue{Type: ClueRank, Value: 3}, Identity{SuitIndex: 0, Rank: 3}, true},
		{"rank mismatch", Clue{Type: ClueRank, Value: 3}, Identity{SuitIndex: 0, Rank: 4}, false},
		{"colour match", Clue{Type: ClueColour, Value: 2}, Identity{SuitIndex: 2, Rank: 1}, true},
		{"colour mismatch", Clue{Type: ClueColour, Value: 2}, Identity{SuitIndex: 3, Rank: 1}, false},
	}
	for _, tc := range tests {
		if got := v.Touches(tc.clue, tc.id); got != tc.want {
			t.Errorf("%s: Touches = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTouchesRainbow(t *testing.T) {
	v := Variant{Name: "Rainbow (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Rainbow"}}
	for colour := 0; colour < 4; colour++ {
		clue := Clue{Type: ClueColour, Value: colour}
		if !v.Touches(clue, Identity{SuitIndex: 4, Rank: 2}) {
			t.Errorf("colour %d should touch a rainbow card", colour)
		}
	}
	if !v.Touches(Clue{Type: ClueRank, Value: 2}, Identity{SuitIndex: 4, Rank: 2}) {
		t.Error("rank clue should touch a rainbow card of that rank")
	}
}

func TestCardCount(t *testing.T) {
	v := NoVariant()
	counts := map[int]int{1: 3, 2: 2, 3: 2, 4: 2, 5: 1}
	for rank, want := range counts {
		if got := v.CardCount(Identity{SuitIndex: 0, Rank: rank}); got != want {
			t.Errorf("CardCount(rank %d) = %d, want %d", rank, got, want)
		}
	}
	if got := v.DeckSize(); got != 50 {
		t.Errorf("DeckSize = %d, want 50", got)
	}
}

func TestHandSize(t *testing.T) {
	tests := []struct{ players, want int }{
		{2, 5}, {3, 5}, {4, 4}, {5, 4}, {6, 3},
	}
	for _, tc := range tests {
		if got := HandSize(tc.players); got != tc.want {
			t.Errorf("HandSize(%d) = %d, want %d", tc.players, got, tc.want)
		}
	}
}
