package challenge

// Selector picks a challenge for a mood. Picks are independent; repeats are expected.
type Selector struct {
	rng Rand
}

// NewSelector returns a Selector drawing from rng.
func NewSelector(rng Rand) *Selector {
	if rng == nil {
		rng = DefaultRand()
	}
	return &Selector{rng: rng}
}

// Select returns a random challenge for mood, falling back to a random challenge from the
// whole catalog when the category is empty. It returns nil only for an empty catalog.
func (s *Selector) Select(cat *Catalog, mood Mood) *Challenge {
	if cat == nil {
		return nil
	}
	candidates := cat.Challenges(mood)
	if len(candidates) == 0 {
		candidates = cat.All()
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[s.rng.IntN(len(candidates))]
}
