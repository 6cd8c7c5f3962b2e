// Package quiz picks the next question for a selection mode.
package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/pavelanni/drill/internal/model"
)

// Sentinel indexes returned alongside the matching errors.
const (
	ReviewCleared = -1
	NoFavorites   = -2
)

var (
	// ErrReviewCleared means no question has a wrong answer or is unattempted.
	ErrReviewCleared = errors.New("no questions left to review")
	// ErrNoFavorites means no question is marked as favorite.
	ErrNoFavorites = errors.New("no favorite questions")
	// ErrEmptyBank means there are no questions at all.
	ErrEmptyBank = errors.New("question bank is empty")
)

// Selector chooses question indexes. It is not safe for concurrent use.
type Selector struct {
	rng *rand.Rand
}

// NewSelector returns a Selector drawing from rng. A nil rng is replaced by a
// randomly seeded source.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{rng: rng}
}

// NewSeeded returns a Selector with a deterministic source.
func NewSeeded(seed uint64) *Selector {
	return NewSelector(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Next returns the index of the question to show after prev.
//
// Review mode draws among questions with wrong > 0 or attempts == 0 and
// returns ReviewCleared with ErrReviewCleared when there are none. Favorites
// mode draws among favorites and returns NoFavorites with ErrNoFavorites.
// Sequential and random modes on an empty list return -1 with ErrEmptyBank.
func (s *Selector) Next(mode model.Mode, questions []model.Question, prev int) (int, error) {
	switch mode {
	case model.ModeSequential:
		if len(questions) == 0 {
			return -1, ErrEmptyBank
		}
		if prev < 0 || prev >= len(questions) {
			prev = -1
		}
		return (prev + 1) % len(questions), nil

	case model.ModeRandom:
		if len(questions) == 0 {
			return -1, ErrEmptyBank
		}
		return s.rng.IntN(len(questions)), nil

	case model.ModeReview:
		candidates := Candidates(questions, NeedsReview)
		if len(candidates) == 0 {
			return ReviewCleared, ErrReviewCleared
		}
		return candidates[s.rng.IntN(len(candidates))], nil

	case model.ModeFavorites:
		candidates := Candidates(questions, IsFavorite)
		if len(candidates) == 0 {
			return NoFavorites, ErrNoFavorites
		}
		return candidates[s.rng.IntN(len(candidates))], nil
	}
	return -1, fmt.Errorf("unknown mode %q", mode)
}

// NeedsReview reports whether q was ever answered wrong or never attempted.
func NeedsReview(q model.Question) bool {
	return q.Stats.Wrong > 0 || q.Stats.Attempts == 0
}

// IsFavorite reports whether q is marked as favorite.
func IsFavorite(q model.Question) bool {
	return q.Favorite
}

// Candidates returns the indexes of questions matching keep, in list order.
func Candidates(questions []model.Question, keep func(model.Question) bool) []int {
	var idx []int
	for i, q := range questions {
		if keep(q) {
			idx = append(idx, i)
		}
	}
	return idx
}
