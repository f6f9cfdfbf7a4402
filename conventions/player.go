// Package conventions implements the H-Group convention layer of the agent:
// per-player belief views, clue valuation, clue discovery, and the urgency
// arbitration that ranks every candidate action for a turn.
package conventions

import (
	"github.com/calico-games/hanab-agent/engine"
)

// Thought is one player's belief about one card in their own hand. Possible
// is narrowed by direct evidence only; Inferred is narrowed further by
// convention assumptions.
type Thought struct {
	Order    int
	Possible IdentitySet
	Inferred IdentitySet

	Finessed     bool
	FinesseIndex int
	Hidden       bool
	ChopMoved    bool
	BlindPlaying bool
	// Focused is set when this card was the focus of a clue while on chop.
	Focused bool
}

// Clone returns an independent copy of the thought.
func (t *Thought) Clone() *Thought {
	nt := *t
	nt.Possible = t.Possible.Clone()
	nt.Inferred = t.Inferred.Clone()
	return &nt
}

// Saved reports whether the card is protected from being chop.
func (t *Thought) Saved(card *engine.Card) bool {
	return card.Clued || t.Finessed || t.ChopMoved
}

// Identity returns the single inferred identity, if the card is fully known.
func (t *Thought) Identity() (engine.Identity, bool) {
	if len(t.Inferred) == 1 {
		return t.Inferred[0], true
	}
	return engine.UnknownIdentity, false
}

// WaitingConnection tracks an in-progress implicit chain: the focused card
// will only be playable once every connecting card before it has played.
type WaitingConnection struct {
	FocusOrder int
	Inference  engine.Identity
	// ConnectingPlayer holds the next card that must play; Giver is the
	// player whose clue started the chain.
	ConnectingPlayer int
	Giver            int
}

// Player is the belief view of one seat: what that player knows about their
// own hand, plus the hypo stacks and pending chains they are waiting on.
type Player struct {
	Index              int
	Thoughts           map[int]*Thought
	HypoStacks         []int
	WaitingConnections []WaitingConnection
}

// NewPlayer creates an empty belief view for the given seat.
func NewPlayer(index, numSuits int) *Player {
	return &Player{
		Index:      index,
		Thoughts:   make(map[int]*Thought),
		HypoStacks: make([]int, numSuits),
	}
}

// Clone returns a fully independent copy of the player's beliefs.
func (p *Player) Clone() *Player {
	np := &Player{
		Index:              p.Index,
		Thoughts:           make(map[int]*Thought, len(p.Thoughts)),
		HypoStacks:         append([]int(nil), p.HypoStacks...),
		WaitingConnections: append([]WaitingConnection(nil), p.WaitingConnections...),
	}
	for order, t := range p.Thoughts {
		np.Thoughts[order] = t.Clone()
	}
	return np
}

// SimulateCM returns a hypothetical copy of the player with the given card
// orders chop-moved. The receiver is left untouched.
func (p *Player) SimulateCM(orders []int) *Player {
	np := p.Clone()
	for _, order := range orders {
		if t, ok := np.Thoughts[order]; ok {
			t.ChopMoved = true
		}
	}
	return np
}

// Chop returns the order of the rightmost card in hand that is neither
// clued, finessed, nor chop-moved, or -1 when the hand is fully protected.
func (p *Player) Chop(state *engine.GameState, hand []int) int {
	for i := len(hand) - 1; i >= 0; i-- {
		order := hand[i]
		if !p.Thoughts[order].Saved(state.Card(order)) {
			return order
		}
	}
	return -1
}

// ChopIndex returns the slot index of the chop, or -1.
func (p *Player) ChopIndex(state *engine.GameState, hand []int) int {
	for i := len(hand) - 1; i >= 0; i-- {
		if !p.Thoughts[hand[i]].Saved(state.Card(hand[i])) {
			return i
		}
	}
	return -1
}

// FindFinesse returns the player's finesse position: the leftmost card that
// is neither clued nor already finessed. Returns -1 when none exists.
func (p *Player) FindFinesse(state *engine.GameState, hand []int) int {
	for _, order := range hand {
		t := p.Thoughts[order]
		if !state.Card(order).Clued && !t.Finessed {
			return order
		}
	}
	return -1
}

// ThinksPlayables returns the orders in the player's hand that they would
// play on sight: every inferred identity playable on their hypo stacks.
func (p *Player) ThinksPlayables(state *engine.GameState, hand []int) []int {
	var playables []int
	for _, order := range hand {
		t := p.Thoughts[order]
		if t.Finessed && !t.Hidden {
			playables = append(playables, order)
			continue
		}
		if t.Inferred.Every(func(id engine.Identity) bool {
			return id.Rank == p.HypoStacks[id.SuitIndex]+1
		}) {
			playables = append(playables, order)
		}
	}
	return playables
}

// ThinksTrash returns the orders the player knows are safe to discard.
func (p *Player) ThinksTrash(state *engine.GameState, hand []int) []int {
	var trash []int
	for _, order := range hand {
		if p.Thoughts[order].Inferred.Every(state.IsBasicTrash) {
			trash = append(trash, order)
		}
	}
	return trash
}

// ThinksLoaded reports whether the player has something safe to do: a known
// playable or known trash.
func (p *Player) ThinksLoaded(state *engine.GameState, hand []int) bool {
	return len(p.ThinksPlayables(state, hand)) > 0 || len(p.ThinksTrash(state, hand)) > 0
}

// ThinksLocked reports whether the player has no chop and nothing safe to
// do: they will be forced into a stall or a sacrifice.
func (p *Player) ThinksLocked(state *engine.GameState, hand []int) bool {
	return p.Chop(state, hand) == -1 && !p.ThinksLoaded(state, hand)
}

// LockedDiscard returns the card a locked player discards when forced: the
// one whose possible identities carry the lowest share of criticals, oldest
// first on ties.
func (p *Player) LockedDiscard(state *engine.GameState, hand []int) int {
	best := -1
	bestShare := 2.0
	for i := len(hand) - 1; i >= 0; i-- {
		order := hand[i]
		t := p.Thoughts[order]
		if len(t.Possible) == 0 {
			continue
		}
		crit := 0
		for _, id := range t.Possible {
			if state.IsCritical(id) {
				crit++
			}
		}
		share := float64(crit) / float64(len(t.Possible))
		if share < bestShare {
			bestShare = share
			best = order
		}
	}
	return best
}

// ChopValue rates how costly losing the player's chop card would be.
// 0 = trash, 4 = critical. Used for order-chop-move and sacrifice
// comparisons.
func (p *Player) ChopValue(state *engine.GameState, hand []int) int {
	chop := p.Chop(state, hand)
	if chop == -1 {
		return 0
	}
	return cardValue(state, state.Card(chop).Identity, chop)
}

// cardValue rates the cost of losing one identity.
func cardValue(state *engine.GameState, id engine.Identity, order int) int {
	switch {
	case !id.Known() || state.IsBasicTrash(id):
		return 0
	case state.IsCritical(id):
		return 4
	case id.Rank == 2 && state.VisibleCopies(id, order) == 0:
		return 3
	case state.IsPlayable(id):
		return 2
	default:
		return 1
	}
}

// UpdateHypoStacks recomputes the player's hypo stacks: the play stacks
// after every card the player expects to play has resolved. Runs to a
// fixpoint over all touched and finessed cards on the table.
func (p *Player) UpdateHypoStacks(state *engine.GameState) {
	copy(p.HypoStacks, state.PlayStacks)
	for changed := true; changed; {
		changed = false
		for _, hand := range state.Hands {
			for _, order := range hand {
				card := state.Card(order)
				if !card.Known() {
					continue
				}
				t, tracked := p.Thoughts[order]
				protected := card.Clued || (tracked && (t.Finessed || t.ChopMoved))
				if !protected {
					continue
				}
				if card.Rank == p.HypoStacks[card.SuitIndex]+1 {
					p.HypoStacks[card.SuitIndex]++
					changed = true
				}
			}
		}
	}
}
