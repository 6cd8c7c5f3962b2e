// Package practice applies user actions to a session and the question bank.
package practice

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/quiz"
	"github.com/pavelanni/drill/internal/stats"
	"github.com/pavelanni/drill/internal/store"
)

var (
	// ErrNoSelection is returned when an answer is submitted without a choice.
	ErrNoSelection = errors.New("no option selected")
	// ErrAlreadySubmitted is returned when the current question was already graded.
	ErrAlreadySubmitted = errors.New("answer already submitted")
	// ErrInvalidChoice is returned for a label the question does not offer.
	ErrInvalidChoice = errors.New("invalid option")
)

// Kind identifies a user action.
type Kind string

const (
	KindNavigate       Kind = "navigate"
	KindSetMode        Kind = "set_mode"
	KindSubmit         Kind = "submit"
	KindNext           Kind = "next"
	KindSkip           Kind = "skip"
	KindToggleFavorite Kind = "toggle_favorite"
	KindJump           Kind = "jump"
	KindReset          Kind = "reset"
)

// Action is one user interaction.
type Action struct {
	Kind       Kind
	Page       model.Page
	Mode       model.Mode
	Choice     string
	QuestionID int64
}

func Navigate(p model.Page) Action { return Action{Kind: KindNavigate, Page: p} }
func SetMode(m model.Mode) Action { return Action{Kind: KindSetMode, Mode: m} }
func Submit(choice string) Action { return Action{Kind: KindSubmit, Choice: choice} }
func Next() Action { return Action{Kind: KindNext} }
func Skip() Action { return Action{Kind: KindSkip} }
func ToggleFavorite() Action { return Action{Kind: KindToggleFavorite} }
func Jump(questionID int64) Action { return Action{Kind: KindJump, QuestionID: questionID} }
func ResetStats() Action { return Action{Kind: KindReset} }

// Engine owns the question bank and serializes every action against it, so
// each interaction runs to completion before the next one starts.
type Engine struct {
	mu       sync.Mutex
	bank     *store.Bank
	selector *quiz.Selector
	limit    int
}

// New creates an Engine. limit is the leaderboard row count.
func New(bank *store.Bank, selector *quiz.Selector, limit int) *Engine {
	if limit <= 0 {
		limit = stats.DefaultLimit
	}
	return &Engine{bank: bank, selector: selector, limit: limit}
}

// Dispatch applies a to the session. Rejected actions leave a flash message
// on the session and return the reason.
func (e *Engine) Dispatch(s *model.Session, a Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch a.Kind {
	case KindNavigate:
		if _, ok := model.ParsePage(string(a.Page)); !ok {
			return fmt.Errorf("unknown page %q", a.Page)
		}
		s.Page = a.Page
		return nil

	case KindSetMode:
		if _, ok := model.ParseMode(string(a.Mode)); !ok {
			return fmt.Errorf("unknown mode %q", a.Mode)
		}
		s.Mode = a.Mode
		return nil

	case KindSubmit:
		return e.submit(s, a.Choice)

	case KindNext:
		return e.next(s, true)

	case KindSkip:
		return e.next(s, false)

	case KindToggleFavorite:
		if e.bank.Len() == 0 {
			s.SetFlash(model.FlashWarning, "NoQuestions", nil)
			return quiz.ErrEmptyBank
		}
		e.clamp(s)
		if _, err := e.bank.ToggleFavorite(s.Index); err != nil {
			s.SetFlash(model.FlashError, "SaveFailed", nil)
			return err
		}
		return nil

	case KindJump:
		s.Index = e.bank.IndexByID(a.QuestionID)
		s.Page = model.PagePractice
		s.Submitted = false
		s.Selection = ""
		return nil

	case KindReset:
		if err := e.bank.ResetStats(); err != nil {
			s.SetFlash(model.FlashError, "SaveFailed", nil)
			return err
		}
		slog.Info("statistics reset", "session", s.ID)
		s.SetFlash(model.FlashSuccess, "StatsReset", nil)
		return nil
	}
	return fmt.Errorf("unknown action %q", a.Kind)
}

func (e *Engine) submit(s *model.Session, choice string) error {
	if e.bank.Len() == 0 {
		s.SetFlash(model.FlashWarning, "NoQuestions", nil)
		return quiz.ErrEmptyBank
	}
	if s.Submitted {
		s.SetFlash(model.FlashWarning, "AlreadySubmitted", nil)
		return ErrAlreadySubmitted
	}
	if choice == "" {
		s.SetFlash(model.FlashWarning, "SelectOptionFirst", nil)
		return ErrNoSelection
	}

	e.clamp(s)
	q, err := e.bank.Question(s.Index)
	if err != nil {
		return err
	}
	if !q.HasOption(choice) {
		s.SetFlash(model.FlashWarning, "SelectOptionFirst", nil)
		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	correct, err := e.bank.RecordAnswer(s.Index, choice)
	s.Submitted = true
	s.Selection = choice
	if err != nil {
		s.SetFlash(model.FlashError, "SaveFailed", nil)
		return err
	}
	slog.Debug("answer graded", "session", s.ID, "question", q.ID, "choice", choice, "correct", correct)
	return nil
}

// next moves to the question picked by the session's mode. graded is true
// when the user advances from an answered question; only then is an empty
// review set celebrated.
func (e *Engine) next(s *model.Session, graded bool) error {
	idx, err := e.selector.Next(s.Mode, e.bank.Questions(), s.Index)
	switch {
	case errors.Is(err, quiz.ErrReviewCleared):
		if graded {
			s.SetFlash(model.FlashCelebrate, "ReviewCleared", nil)
		} else {
			s.SetFlash(model.FlashWarning, "NoMistakesLeft", nil)
		}
		return nil
	case errors.Is(err, quiz.ErrNoFavorites):
		s.SetFlash(model.FlashWarning, "FavoritesEmpty", nil)
		return nil
	case errors.Is(err, quiz.ErrEmptyBank):
		s.SetFlash(model.FlashWarning, "NoQuestions", nil)
		return nil
	case err != nil:
		return err
	}

	s.Index = idx
	s.Submitted = false
	s.Selection = ""
	return nil
}

// clamp resets an out-of-range index to zero.
func (e *Engine) clamp(s *model.Session) {
	if s.Index < 0 || s.Index >= e.bank.Len() {
		s.Index = 0
	}
}

// Screen is everything needed to render one response.
type Screen struct {
	Page        model.Page
	Mode        model.Mode
	Flash       *model.Flash
	Summary     model.Summary
	Practice    model.PracticeView
	Leaderboard model.LeaderboardView
}

// Render takes the pending flash and projects the session's current page.
func (e *Engine) Render(s *model.Session) Screen {
	e.mu.Lock()
	defer e.mu.Unlock()

	sc := Screen{Page: s.Page, Mode: s.Mode, Flash: s.TakeFlash()}
	if s.Page == model.PageLeaderboard {
		sc.Leaderboard = e.leaderboard()
		sc.Summary = sc.Leaderboard.Summary
	} else {
		sc.Practice = e.practice(s)
		sc.Summary = sc.Practice.Summary
	}
	return sc
}

func (e *Engine) practice(s *model.Session) model.PracticeView {
	questions := e.bank.Questions()
	v := model.PracticeView{
		Mode:    s.Mode,
		Summary: stats.Summarize(questions),
		Missing: e.bank.Missing(),
		Path:    e.bank.Path(),
	}
	if len(questions) == 0 {
		return v
	}

	e.clamp(s)
	q := questions[s.Index]
	v.Index = s.Index
	v.Question = &q
	v.Options = q.Options()
	v.Submitted = s.Submitted
	if s.Submitted {
		v.Selection = s.Selection
		v.Correct = s.Selection == q.Answer
	}
	return v
}

func (e *Engine) leaderboard() model.LeaderboardView {
	questions := e.bank.Questions()
	rows := stats.Leaderboard(questions, e.limit)
	return model.LeaderboardView{
		Rows:     rows,
		MaxWrong: stats.MaxWrong(rows),
		Limit:    e.limit,
		Summary:  stats.Summarize(questions),
		Missing:  e.bank.Missing(),
		Path:     e.bank.Path(),
	}
}
