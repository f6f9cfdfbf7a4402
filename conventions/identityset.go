package conventions

import "github.com/calico-games/hanab-agent/engine"

// IdentitySet is a set of candidate identities for one card. Sets only ever
// shrink; the sole exception is the mistake-recovery reset in
// applyClueBeliefs when an inferred set empties out.
type IdentitySet []engine.Identity

// Contains reports whether the set holds the identity.
func (s IdentitySet) Contains(id engine.Identity) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Filter returns a new set holding only identities that satisfy keep.
func (s IdentitySet) Filter(keep func(engine.Identity) bool) IdentitySet {
	out := make(IdentitySet, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Every reports whether all identities satisfy pred. An empty set satisfies
// nothing.
func (s IdentitySet) Every(pred func(engine.Identity) bool) bool {
	if len(s) == 0 {
		return false
	}
	for _, v := range s {
		if !pred(v) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s IdentitySet) Clone() IdentitySet {
	return append(IdentitySet(nil), s...)
}
