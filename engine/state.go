// Package engine implements the table-visible state of a Hanabi game.
//
// GameState is a self-contained snapshot: hands, stacks, discards, clue
// tokens and strikes. It carries no convention knowledge; belief tracking
// and decision logic live above it. Snapshots are cheap to deep-copy, which
// is how hypothetical continuations are branched without mutating the live
// state.
package engine

import "fmt"

// MaxClueTokens is the clue token ceiling.
const MaxClueTokens = 8

// MaxStrikes is the number of strikes that ends the game.
const MaxStrikes = 3

// GameState holds the complete public state of a game plus which seat we
// occupy. Hands are ordered newest slot first; the chop side is the end of
// the slice.
type GameState struct {
	Variant        Variant
	NumPlayers     int
	OurPlayerIndex int

	// Hands holds card orders per player, slot 0 = newest.
	Hands [][]int
	// Deck is indexed by card order and covers every card drawn so far.
	Deck []Card

	PlayStacks []int
	MaxRanks   []int
	// DiscardCounts[suit][rank-1] counts discarded copies of each identity.
	DiscardCounts [][]int

	ClueTokens int
	Strikes    int
	TurnCount  int
	CardsLeft  int
	EarlyGame  bool
	// EndgameTurns is -1 until the deck runs out, then counts down the
	// final round.
	EndgameTurns int
}

// NewGame creates an empty state for the given seat count. Hands start empty;
// the caller deals by appending drawn cards.
func NewGame(variant Variant, numPlayers, ourPlayerIndex int) *GameState {
	g := &GameState{
		Variant:        variant,
		NumPlayers:     numPlayers,
		OurPlayerIndex: ourPlayerIndex,
		Hands:          make([][]int, numPlayers),
		PlayStacks:     make([]int, variant.NumSuits()),
		MaxRanks:       make([]int, variant.NumSuits()),
		DiscardCounts:  make([][]int, variant.NumSuits()),
		ClueTokens:     MaxClueTokens,
		CardsLeft:      variant.DeckSize(),
		EarlyGame:      true,
		EndgameTurns:   -1,
	}
	for suit := range g.MaxRanks {
		g.MaxRanks[suit] = MaxRank
		g.DiscardCounts[suit] = make([]int, MaxRank)
	}
	return g
}

// Clone returns a fully independent deep copy of the state. Branches derived
// from the same base never alias mutable substructure.
func (g *GameState) Clone() *GameState {
	ng := *g
	ng.Hands = make([][]int, len(g.Hands))
	for i, hand := range g.Hands {
		ng.Hands[i] = append([]int(nil), hand...)
	}
	ng.Deck = append([]Card(nil), g.Deck...)
	ng.PlayStacks = append([]int(nil), g.PlayStacks...)
	ng.MaxRanks = append([]int(nil), g.MaxRanks...)
	ng.DiscardCounts = make([][]int, len(g.DiscardCounts))
	for i, counts := range g.DiscardCounts {
		ng.DiscardCounts[i] = append([]int(nil), counts...)
	}
	return &ng
}

// Card returns the card with the given order.
func (g *GameState) Card(order int) *Card { return &g.Deck[order] }

// Holder returns the player currently holding the card, or -1 if it has
// left every hand.
func (g *GameState) Holder(order int) int {
	for player, hand := range g.Hands {
		for _, o := range hand {
			if o == order {
				return player
			}
		}
	}
	return -1
}

// Draw appends a newly drawn card to a player's hand (newest slot first).
// Drawing the last card starts the final round.
func (g *GameState) Draw(player int, id Identity) *Card {
	order := len(g.Deck)
	g.Deck = append(g.Deck, Card{
		Order:     order,
		Identity:  id,
		DrawIndex: order,
	})
	g.Hands[player] = append([]int{order}, g.Hands[player]...)
	g.CardsLeft--
	if g.CardsLeft == 0 {
		g.EndgameTurns = g.NumPlayers
	}
	return &g.Deck[order]
}

// removeFromHand deletes a card order from a player's hand.
func (g *GameState) removeFromHand(player, order int) error {
	hand := g.Hands[player]
	for i, o := range hand {
		if o == order {
			g.Hands[player] = append(hand[:i:i], hand[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("card order %d not in player %d's hand", order, player)
}

// PlayableAway returns how many cards must play before this identity is
// playable; 0 means playable right now.
func (g *GameState) PlayableAway(id Identity) int {
	return id.Rank - g.PlayStacks[id.SuitIndex] - 1
}

// IsPlayable reports whether the identity can play on the current stacks.
func (g *GameState) IsPlayable(id Identity) bool {
	return id.Known() && g.PlayableAway(id) == 0
}

// IsBasicTrash reports whether the identity can never be useful: already
// played, or above what the suit can still reach.
func (g *GameState) IsBasicTrash(id Identity) bool {
	if !id.Known() {
		return false
	}
	return id.Rank <= g.PlayStacks[id.SuitIndex] || id.Rank > g.MaxRanks[id.SuitIndex]
}

// IsCritical reports whether this is the last remaining copy of a
// still-useful identity.
func (g *GameState) IsCritical(id Identity) bool {
	if !id.Known() || g.IsBasicTrash(id) {
		return false
	}
	return g.DiscardCounts[id.SuitIndex][id.Rank-1] == g.Variant.CardCount(id)-1
}

// VisibleCopies counts cards of the given identity currently held in any
// hand, excluding the card with order excludeOrder (pass -1 to exclude none).
func (g *GameState) VisibleCopies(id Identity, excludeOrder int) int {
	count := 0
	for _, hand := range g.Hands {
		for _, o := range hand {
			if o != excludeOrder && g.Deck[o].Identity == id {
				count++
			}
		}
	}
	return count
}

// ApplyClue marks every touched card in the target's hand, spends a clue
// token, and returns the touched orders. An error is returned for a clue
// that touches nothing, since such clues are illegal.
func (g *GameState) ApplyClue(clue Clue) ([]int, error) {
	if g.ClueTokens <= 0 {
		return nil, fmt.Errorf("no clue tokens available")
	}
	var touched []int
	for _, order := range g.Hands[clue.Target] {
		if g.Variant.Touches(clue, g.Deck[order].Identity) {
			touched = append(touched, order)
		}
	}
	if len(touched) == 0 {
		return nil, fmt.Errorf("clue touches no cards in player %d's hand", clue.Target)
	}
	// NewlyClued marks first touches by this clue only; stale marks from
	// earlier clues are cleared first.
	for _, order := range g.Hands[clue.Target] {
		g.Deck[order].NewlyClued = false
	}
	for _, order := range touched {
		card := &g.Deck[order]
		card.NewlyClued = !card.Clued
		card.Clued = true
	}
	g.ClueTokens--
	g.EarlyGame = false
	g.TurnCount++
	return touched, nil
}

// PerformPlay removes the card from its holder's hand and resolves the play:
// a success advances the stack and may restore a token on a 5; a misplay
// counts a strike and discards the card.
func (g *GameState) PerformPlay(order int) error {
	player := g.Holder(order)
	if player == -1 {
		return fmt.Errorf("cannot play card %d: not held by any player", order)
	}
	card := g.Deck[order]
	if err := g.removeFromHand(player, order); err != nil {
		return err
	}
	g.TurnCount++
	if card.Known() && g.IsPlayable(card.Identity) {
		g.PlayStacks[card.SuitIndex]++
		if card.Rank == MaxRank && g.ClueTokens < MaxClueTokens {
			g.ClueTokens++
		}
		return nil
	}
	g.Strikes++
	g.addDiscard(card.Identity)
	return nil
}

// PerformDiscard removes the card from its holder's hand, discards it, and
// restores a clue token.
func (g *GameState) PerformDiscard(order int) error {
	player := g.Holder(order)
	if player == -1 {
		return fmt.Errorf("cannot discard card %d: not held by any player", order)
	}
	card := g.Deck[order]
	if err := g.removeFromHand(player, order); err != nil {
		return err
	}
	g.TurnCount++
	g.addDiscard(card.Identity)
	if g.ClueTokens < MaxClueTokens {
		g.ClueTokens++
	}
	g.EarlyGame = false
	return nil
}

// addDiscard records a discarded identity and lowers the suit's reachable
// maximum when the last copy of a rank is gone.
func (g *GameState) addDiscard(id Identity) {
	if !id.Known() {
		return
	}
	g.DiscardCounts[id.SuitIndex][id.Rank-1]++
	if g.DiscardCounts[id.SuitIndex][id.Rank-1] == g.Variant.CardCount(id) &&
		id.Rank <= g.MaxRanks[id.SuitIndex] {
		g.MaxRanks[id.SuitIndex] = id.Rank - 1
	}
}

// InEndgame reports whether the final round has begun.
func (g *GameState) InEndgame() bool { return g.EndgameTurns >= 0 }

// Score returns the current number of cards played.
func (g *GameState) Score() int {
	total := 0
	for _, s := range g.PlayStacks {
		total += s
	}
	return total
}
