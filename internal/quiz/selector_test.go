package quiz

import (
	"errors"
	"testing"

	"github.com/pavelanni/drill/internal/model"
)

func makeQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{ID: int64(i + 1), Text: "Q", OptionA: "a", Answer: "A"}
	}
	return qs
}

func TestSequentialWraps(t *testing.T) {
	s := NewSeeded(1)
	qs := makeQuestions(3)

	tests := []struct {
		prev int
		want int
	}{
		{0, 1},
		{1, 2},
		{2, 0},
		{-1, 0},
		{7, 0}, // stale index from a longer list
	}
	for _, tt := range tests {
		got, err := s.Next(model.ModeSequential, qs, tt.prev)
		if err != nil {
			t.Fatalf("Next(prev=%d): %v", tt.prev, err)
		}
		if got != tt.want {
			t.Errorf("Next(prev=%d) = %d, want %d", tt.prev, got, tt.want)
		}
	}
}

func TestIndexesStayInRange(t *testing.T) {
	s := NewSeeded(42)
	qs := makeQuestions(5)
	qs[1].Favorite = true
	qs[3].Favorite = true
	qs[0].Stats = model.Stats{Attempts: 2, Correct: 2}
	qs[2].Stats = model.Stats{Attempts: 1, Wrong: 1}

	for _, mode := range model.Modes {
		t.Run(string(mode), func(t *testing.T) {
			prev := 0
			for i := 0; i < 200; i++ {
				got, err := s.Next(mode, qs, prev)
				if err != nil {
					t.Fatalf("Next: %v", err)
				}
				if got < 0 || got >= len(qs) {
					t.Fatalf("index %d out of range", got)
				}
				prev = got
			}
		})
	}
}

func TestReviewFilter(t *testing.T) {
	s := NewSeeded(7)
	qs := makeQuestions(4)
	qs[0].Stats = model.Stats{Attempts: 3, Correct: 3}           // mastered
	qs[1].Stats = model.Stats{Attempts: 2, Correct: 1, Wrong: 1} // missed once
	qs[2].Stats = model.Stats{Attempts: 1, Correct: 1}           // mastered
	// qs[3] unattempted

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		got, err := s.Next(model.ModeReview, qs, 0)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != 1 && got != 3 {
			t.Fatalf("review picked ineligible index %d", got)
		}
		seen[got] = true
	}
	if !seen[1] || !seen[3] {
		t.Errorf("expected both candidates to be drawn, saw %v", seen)
	}
}

func TestReviewCleared(t *testing.T) {
	s := NewSeeded(1)
	qs := makeQuestions(2)
	for i := range qs {
		qs[i].Stats = model.Stats{Attempts: 1, Correct: 1}
	}

	got, err := s.Next(model.ModeReview, qs, 0)
	if !errors.Is(err, ErrReviewCleared) {
		t.Fatalf("expected ErrReviewCleared, got %v", err)
	}
	if got != ReviewCleared {
		t.Errorf("expected sentinel %d, got %d", ReviewCleared, got)
	}
}

func TestFavorites(t *testing.T) {
	s := NewSeeded(3)
	qs := makeQuestions(5)

	got, err := s.Next(model.ModeFavorites, qs, 0)
	if !errors.Is(err, ErrNoFavorites) {
		t.Fatalf("expected ErrNoFavorites, got %v", err)
	}
	if got != NoFavorites {
		t.Errorf("expected sentinel %d, got %d", NoFavorites, got)
	}

	qs[2].Favorite = true // question id 3
	for i := 0; i < 50; i++ {
		got, err := s.Next(model.ModeFavorites, qs, 0)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !qs[got].Favorite {
			t.Fatalf("picked non-favorite index %d", got)
		}
	}
}

func TestEmptyBank(t *testing.T) {
	s := NewSeeded(1)

	tests := []struct {
		mode    model.Mode
		wantErr error
		wantIdx int
	}{
		{model.ModeSequential, ErrEmptyBank, -1},
		{model.ModeRandom, ErrEmptyBank, -1},
		{model.ModeReview, ErrReviewCleared, ReviewCleared},
		{model.ModeFavorites, ErrNoFavorites, NoFavorites},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got, err := s.Next(tt.mode, nil, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.wantIdx {
				t.Errorf("index = %d, want %d", got, tt.wantIdx)
			}
		})
	}
}

func TestUnknownMode(t *testing.T) {
	s := NewSeeded(1)
	if _, err := s.Next(model.Mode("bogus"), makeQuestions(2), 0); err == nil {
		t.Error("expected error for unknown mode")
	}
}
