package practice

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/quiz"
	"github.com/pavelanni/drill/internal/store"
)

const testBank = `[
  {"id": 1, "question": "Q1", "option_A": "a", "option_B": "b", "answer": "A", "note": "because A"},
  {"id": 2, "question": "Q2", "option_A": "a", "option_B": "b", "answer": "B"},
  {"id": 3, "question": "Q3", "option_A": "a", "option_B": "b", "option_C": "c", "answer": "C"}
]`

func newTestEngine(t *testing.T, content string) (*Engine, *store.Bank) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write bank: %v", err)
		}
	}
	bank, err := store.Open(path)
	if err != nil {
		t.Fatalf("open bank: %v", err)
	}
	return New(bank, quiz.NewSeeded(1), 0), bank
}

func newSession() *model.Session {
	return model.NewSession("test")
}

func TestSubmitCorrect(t *testing.T) {
	e, bank := newTestEngine(t, testBank)
	s := newSession()

	if err := e.Dispatch(s, Submit("A")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !s.Submitted || s.Selection != "A" {
		t.Errorf("session not marked submitted: %+v", s)
	}
	q, _ := bank.Question(0)
	if q.Stats != (model.Stats{Attempts: 1, Correct: 1, Wrong: 0}) {
		t.Errorf("stats = %+v", q.Stats)
	}

	v := e.Render(s).Practice
	if !v.Submitted || !v.Correct {
		t.Errorf("expected correct submitted view, got %+v", v)
	}
	if v.Question.Note != "because A" {
		t.Errorf("expected note in view, got %q", v.Question.Note)
	}
}

func TestSubmitWrong(t *testing.T) {
	e, bank := newTestEngine(t, testBank)
	s := newSession()

	if err := e.Dispatch(s, Submit("B")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	q, _ := bank.Question(0)
	if q.Stats != (model.Stats{Attempts: 1, Correct: 0, Wrong: 1}) {
		t.Errorf("stats = %+v", q.Stats)
	}
	if v := e.Render(s).Practice; v.Correct {
		t.Error("expected incorrect view")
	}
}

func TestSubmitWithoutSelection(t *testing.T) {
	e, bank := newTestEngine(t, testBank)
	s := newSession()

	err := e.Dispatch(s, Submit(""))
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if s.Submitted {
		t.Error("session must not be submitted")
	}
	f := s.TakeFlash()
	if f == nil || f.Kind != model.FlashWarning {
		t.Errorf("expected warning flash, got %+v", f)
	}
	q, _ := bank.Question(0)
	if q.Stats.Attempts != 0 {
		t.Errorf("stats changed: %+v", q.Stats)
	}
}

func TestSubmitTwice(t *testing.T) {
	e, bank := newTestEngine(t, testBank)
	s := newSession()

	_ = e.Dispatch(s, Submit("A"))
	if err := e.Dispatch(s, Submit("B")); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	q, _ := bank.Question(0)
	if q.Stats.Attempts != 1 {
		t.Errorf("second submit counted: %+v", q.Stats)
	}
}

func TestSubmitInvalidChoice(t *testing.T) {
	e, _ := newTestEngine(t, testBank)
	s := newSession()

	if err := e.Dispatch(s, Submit("E")); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	if s.Submitted {
		t.Error("session must not be submitted")
	}
}

func TestSequentialNext(t *testing.T) {
	e, _ := newTestEngine(t, testBank)
	s := newSession()
	_ = e.Dispatch(s, Submit("A"))

	for _, want := range []int{1, 2, 0} {
		if err := e.Dispatch(s, Next()); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if s.Index != want {
			t.Errorf("Index = %d, want %d", s.Index, want)
		}
		if s.Submitted || s.Selection != "" {
			t.Errorf("Next must reset submission: %+v", s)
		}
	}
}

func TestNextReviewCleared(t *testing.T) {
	e, _ := newTestEngine(t, `[{"id": 1, "question": "Q", "option_A": "a", "answer": "A", "stats": {"attempts": 1, "correct": 1, "wrong": 0}}]`)
	s := newSession()
	_ = e.Dispatch(s, SetMode(model.ModeReview))
	s.Submitted = true

	if err := e.Dispatch(s, Next()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	f := s.TakeFlash()
	if f == nil || f.Kind != model.FlashCelebrate || f.MessageID != "ReviewCleared" {
		t.Errorf("expected celebrate flash, got %+v", f)
	}
	if !s.Submitted {
		t.Error("terminal message must not advance")
	}
}

func TestSkipReviewClearedWarns(t *testing.T) {
	e, _ := newTestEngine(t, `[{"id": 1, "question": "Q", "option_A": "a", "answer": "A", "stats": {"attempts": 1, "correct": 1, "wrong": 0}}]`)
	s := newSession()
	_ = e.Dispatch(s, SetMode(model.ModeReview))

	if err := e.Dispatch(s, Skip()); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	f := s.TakeFlash()
	if f == nil || f.Kind != model.FlashWarning || f.MessageID != "NoMistakesLeft" {
		t.Errorf("expected plain warning, got %+v", f)
	}
	if s.Index != 0 {
		t.Errorf("skip with nothing to review must not move, index %d", s.Index)
	}
}

func TestSkipAdvances(t *testing.T) {
	e, _ := newTestEngine(t, testBank)
	s := newSession()

	if err := e.Dispatch(s, Skip()); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if s.Index != 1 || s.Submitted {
		t.Errorf("expected to move to question 2 unanswered, got %+v", s)
	}
}

func TestNextFavoritesEmpty(t *testing.T) {
	e, _ := newTestEngine(t, testBank)
	s := newSession()
	_ = e.Dispatch(s, SetMode(model.ModeFavorites))

	_ = e.Dispatch(s, Next())
	f := s.TakeFlash()
	if f == nil || f.Kind != model.FlashWarning || f.MessageID != "FavoritesEmpty" {
		t.Errorf("expected favorites warning, got %+v", f)
	}
}

func TestFavoritesModeAfterToggle(t *testing.T) {
	e, bank := newTestEngine(t, testBank)
	s := newSession()

	_ = e.Dispatch(s, Jump(3))
	if err := e.Dispatch(s, ToggleFavorite()); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	_ = e.Dispatch(s, SetMode(model.ModeFavorites))

	for i := 0; i < 20; i++ {
		if err := e.Dispatch(s, Next()); err != nil {
			t.Fatalf("Next: %v", err)
		}
		q, _ := bank.Question(s.Index)
		if !q.Favorite {
			t.Fatalf("favorites mode picked non-favorite %d", q.ID)
		}
	}
}

func TestJump(t *testing.T) {
	e, _ := newTestEngine(t, testBank)
	s := newSession()
	s.Page = model.PageLeaderboard
	s.Submitted = true

	if err := e.Dispatch(s, Jump(2)); err != nil {
		t.Fatalf("Jump: %v", err)
	}
	if s.Index != 1 || s.Page != model.PagePractice || s.Submitted {
		t.Errorf("unexpected session after jump: %+v", s)
	}
}

func TestResetStats(t *testing.T) {
	e, bank := newTestEngine(t, testBank)
	s := newSession()
	_ = e.Dispatch(s, Submit("B"))

	if err := e.Dispatch(s, ResetStats()); err != nil {
		t.Fatalf("ResetStats: %v", err)
	}
	for _, q := range bank.Questions() {
		if q.Stats != (model.Stats{}) {
			t.Errorf("question %d not reset: %+v", q.ID, q.Stats)
		}
	}
	if f := s.TakeFlash(); f == nil || f.Kind != model.FlashSuccess {
		t.Errorf("expected success flash, got %+v", f)
	}
}

func TestPracticeClampsIndex(t *testing.T) {
	e, _ := newTestEngine(t, testBank)
	s := newSession()
	s.Index = 17

	v := e.Render(s).Practice
	if v.Index != 0 || s.Index != 0 {
		t.Errorf("expected clamp to 0, view=%d session=%d", v.Index, s.Index)
	}
	if v.Question == nil || v.Question.ID != 1 {
		t.Errorf("expected first question, got %+v", v.Question)
	}
	if len(v.Options) != 2 {
		t.Errorf("expected 2 options, got %d", len(v.Options))
	}
}

func TestMissingBank(t *testing.T) {
	e, _ := newTestEngine(t, "")
	s := newSession()

	v := e.Render(s).Practice
	if !v.Missing || v.Question != nil {
		t.Errorf("expected empty missing view, got %+v", v)
	}
	if err := e.Dispatch(s, Submit("A")); !errors.Is(err, quiz.ErrEmptyBank) {
		t.Errorf("expected ErrEmptyBank, got %v", err)
	}
	_ = e.Dispatch(s, Next())
	if f := s.TakeFlash(); f == nil || f.MessageID != "NoQuestions" {
		t.Errorf("expected NoQuestions flash, got %+v", f)
	}
	s.Page = model.PageLeaderboard
	if lb := e.Render(s).Leaderboard; len(lb.Rows) != 0 || !lb.Missing {
		t.Errorf("expected empty leaderboard, got %+v", lb)
	}
}

func TestLeaderboardView(t *testing.T) {
	e, _ := newTestEngine(t, testBank)
	s := newSession()

	_ = e.Dispatch(s, Submit("B")) // q1 wrong
	_ = e.Dispatch(s, Next())
	_ = e.Dispatch(s, Submit("B")) // q2 correct

	s.Page = model.PageLeaderboard
	sc := e.Render(s)
	lb := sc.Leaderboard
	if sc.Summary != lb.Summary {
		t.Errorf("screen summary %+v differs from leaderboard summary %+v", sc.Summary, lb.Summary)
	}
	if len(lb.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lb.Rows))
	}
	if lb.Rows[0].ID != 1 || lb.MaxWrong != 1 {
		t.Errorf("unexpected leaderboard: %+v", lb)
	}
	if lb.Summary.TotalAttempts != 2 {
		t.Errorf("TotalAttempts = %d", lb.Summary.TotalAttempts)
	}
}

func TestUnknownNavigation(t *testing.T) {
	e, _ := newTestEngine(t, testBank)
	s := newSession()
	if err := e.Dispatch(s, Navigate("settings")); err == nil {
		t.Error("expected error for unknown page")
	}
	if err := e.Dispatch(s, SetMode("hard")); err == nil {
		t.Error("expected error for unknown mode")
	}
	if s.Page != model.PagePractice || s.Mode != model.ModeSequential {
		t.Errorf("session changed: %+v", s)
	}
}

func TestRenderTakesFlash(t *testing.T) {
	e, _ := newTestEngine(t, testBank)
	s := newSession()
	_ = e.Dispatch(s, Submit(""))

	sc := e.Render(s)
	if sc.Flash == nil || sc.Flash.MessageID != "SelectOptionFirst" {
		t.Fatalf("expected pending flash, got %+v", sc.Flash)
	}
	if sc.Page != model.PagePractice || sc.Practice.Question == nil {
		t.Errorf("expected practice projection, got %+v", sc)
	}
	if again := e.Render(s); again.Flash != nil {
		t.Error("flash shown twice")
	}

	_ = e.Dispatch(s, Navigate(model.PageLeaderboard))
	sc = e.Render(s)
	if sc.Page != model.PageLeaderboard || sc.Practice.Question != nil {
		t.Errorf("expected leaderboard projection, got %+v", sc)
	}
	if sc.Summary.Questions != 3 {
		t.Errorf("Summary.Questions = %d", sc.Summary.Questions)
	}
}
