package conventions

import (
	"sort"

	"github.com/calico-games/hanab-agent/engine"
)

// Order1s establishes the canonical playing order for ambiguous rank-1
// cards in our hand. Most urgent first:
//  1. already-finessed cards, ascending finesse index
//  2. the card that was the chop focus of its clue
//  3. cards drawn after the initial deal, most recent first
//  4. cards dealt at the start, oldest draw order first
//
// The ranking is a composite sort key rather than a pairwise comparator, so
// the order is total and the sort is idempotent.
func (a *Agent) Order1s(orders []int) []int {
	us := a.Us()
	dealt := a.State.NumPlayers * engine.HandSize(a.State.NumPlayers)

	type keyed struct {
		order int
		class int
		minor int
	}
	keys := make([]keyed, 0, len(orders))
	for _, order := range orders {
		t := us.Thoughts[order]
		card := a.State.Card(order)
		k := keyed{order: order}
		switch {
		case t.Finessed:
			k.class = 0
			k.minor = t.FinesseIndex
		case t.Focused:
			k.class = 1
		case card.DrawIndex >= dealt:
			k.class = 2
			k.minor = -card.DrawIndex // most recently drawn first
		default:
			k.class = 3
			k.minor = card.DrawIndex
		}
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].class != keys[j].class {
			return keys[i].class < keys[j].class
		}
		return keys[i].minor < keys[j].minor
	})

	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = k.order
	}
	return out
}

// NumPriorityBuckets is the number of playable-priority classes.
const NumPriorityBuckets = 6

// DeterminePlayableCards classifies every known-playable card we hold into
// six priority buckets, highest priority first. Every input lands in exactly
// one bucket; consumers pick the first non-empty bucket unless directed
// otherwise.
//
// Bucket 0: finessed, in a game with more than two players.
// Bucket 1: finessed in a two-player game, or connecting through the clue
// giver's own copy.
// Bucket 2: connecting through our own hand.
// Bucket 3: connecting through another hand with no self-involvement, or a
// known 5.
// Bucket 4: identity still ambiguous.
// Bucket 5: everything else, ascending known rank; chop-moved suspected
// trash goes to the back and is only blind-played below two strikes.
func (a *Agent) DeterminePlayableCards(playables []int) [NumPriorityBuckets][]int {
	var buckets [NumPriorityBuckets][]int
	us := a.Us()
	ourIndex := a.State.OurPlayerIndex

	type finessedEntry struct {
		order  int
		hidden bool
		index  int
	}
	var finessed []finessedEntry

	for _, order := range playables {
		t := us.Thoughts[order]

		if t.Finessed {
			if a.State.NumPlayers > 2 {
				finessed = append(finessed, finessedEntry{order, t.Hidden, t.FinesseIndex})
			} else {
				buckets[1] = append(buckets[1], order)
			}
			continue
		}

		if wc, ok := a.waitingConnectionFor(order); ok {
			switch wc.ConnectingPlayer {
			case wc.Giver:
				buckets[1] = append(buckets[1], order)
			case ourIndex:
				buckets[2] = append(buckets[2], order)
			default:
				buckets[3] = append(buckets[3], order)
			}
			continue
		}

		if id, known := t.Identity(); known && id.Rank == engine.MaxRank {
			buckets[3] = append(buckets[3], order)
			continue
		}

		if len(t.Inferred) > 1 && !t.ChopMoved {
			buckets[4] = append(buckets[4], order)
			continue
		}

		buckets[5] = a.insertBucket5(buckets[5], order)
	}

	// Non-hidden finesses exit before hidden ones; ascending finesse index
	// breaks ties.
	sort.SliceStable(finessed, func(i, j int) bool {
		if finessed[i].hidden != finessed[j].hidden {
			return !finessed[i].hidden
		}
		return finessed[i].index < finessed[j].index
	})
	for _, f := range finessed {
		buckets[0] = append(buckets[0], f.order)
	}

	return buckets
}

// insertBucket5 places a card into the lowest-priority bucket: known cards
// ascending by rank with the newest-found lowest rank at the front, and
// chop-moved suspected trash at the back (skippable at two strikes).
func (a *Agent) insertBucket5(bucket []int, order int) []int {
	t := a.Us().Thoughts[order]

	if t.ChopMoved && t.Inferred.Every(a.State.IsBasicTrash) {
		// Blind play of suspected trash: last resort, back of the bucket.
		return append(bucket, order)
	}

	rank := a.knownRank(order)
	for i, existing := range bucket {
		et := a.Us().Thoughts[existing]
		if et.ChopMoved && et.Inferred.Every(a.State.IsBasicTrash) {
			return append(bucket[:i:i], append([]int{order}, bucket[i:]...)...)
		}
		if a.knownRank(existing) >= rank {
			return append(bucket[:i:i], append([]int{order}, bucket[i:]...)...)
		}
	}
	return append(bucket, order)
}

// knownRank returns the rank every inferred identity shares, or MaxRank+1
// when the inferences disagree.
func (a *Agent) knownRank(order int) int {
	t := a.Us().Thoughts[order]
	if len(t.Inferred) == 0 {
		return engine.MaxRank + 1
	}
	rank := t.Inferred[0].Rank
	for _, id := range t.Inferred[1:] {
		if id.Rank != rank {
			return engine.MaxRank + 1
		}
	}
	return rank
}

// waitingConnectionFor finds the pending chain whose focus is the card.
func (a *Agent) waitingConnectionFor(order int) (WaitingConnection, bool) {
	for _, wc := range a.Us().WaitingConnections {
		if wc.FocusOrder == order {
			return wc, true
		}
	}
	return WaitingConnection{}, false
}
