package conventions

// With returns a hypothetical continuation: a full clone of the game with
// the mutation applied. The receiver is never touched, and two branches
// taken from the same base never observe each other's results.
func (g *Game) With(mutate func(*Game) error) (*Game, error) {
	ng := g.Clone()
	if err := mutate(ng); err != nil {
		return nil, err
	}
	return ng, nil
}

// SimulateDiscard branches into the state after the card is discarded. The
// holder's belief about the card is dropped with it.
func (g *Game) SimulateDiscard(order int) (*Game, error) {
	holder := g.State.Holder(order)
	return g.With(func(ng *Game) error {
		if err := ng.State.PerformDiscard(order); err != nil {
			return err
		}
		if holder != -1 {
			delete(ng.Players[holder].Thoughts, order)
		}
		return nil
	})
}

// SimulatePlay branches into the state after the card is played.
func (g *Game) SimulatePlay(order int) (*Game, error) {
	holder := g.State.Holder(order)
	return g.With(func(ng *Game) error {
		if err := ng.State.PerformPlay(order); err != nil {
			return err
		}
		if holder != -1 {
			delete(ng.Players[holder].Thoughts, order)
			ng.Players[holder].UpdateHypoStacks(ng.State)
		}
		return nil
	})
}
