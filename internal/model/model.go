package model

import (
	"context"
	"encoding/json"
	"time"
)

// Labels lists the option labels in display order.
var Labels = []string{"A", "B", "C", "D", "E"}

// Stats holds the accumulated answer counters of a question.
// Attempts always equals Correct + Wrong.
type Stats struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
	Wrong    int `json:"wrong"`
}

// ErrorRate returns the share of wrong answers in percent, 0 when unattempted.
func (s Stats) ErrorRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return 100 * (1 - float64(s.Correct)/float64(s.Attempts))
}

// Option is one labeled answer choice.
type Option struct {
	Label string
	Text  string
}

// Question is one record of the question bank.
type Question struct {
	ID       int64
	Text     string
	OptionA  string
	OptionB  string
	OptionC  string
	OptionD  string
	OptionE  string
	Answer   string
	Note     string
	Favorite bool
	Stats    Stats

	// Extra keeps record keys this program does not know about, plus
	// optional keys that were present but empty, so that rewriting the bank
	// does not drop them.
	Extra map[string]json.RawMessage
}

// OptionText returns the text for a label, empty if the label is unknown.
func (q Question) OptionText(label string) string {
	switch label {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	case "E":
		return q.OptionE
	}
	return ""
}

// Options returns the non-empty options in A–E order.
func (q Question) Options() []Option {
	var opts []Option
	for _, l := range Labels {
		if t := q.OptionText(l); t != "" {
			opts = append(opts, Option{Label: l, Text: t})
		}
	}
	return opts
}

// HasOption reports whether label is one of the question's present options.
func (q Question) HasOption(label string) bool {
	return q.OptionText(label) != ""
}

// Page is one of the two screens.
type Page string

const (
	PagePractice    Page = "practice"
	PageLeaderboard Page = "leaderboard"
)

// ParsePage validates a page name.
func ParsePage(s string) (Page, bool) {
	switch Page(s) {
	case PagePractice, PageLeaderboard:
		return Page(s), true
	}
	return "", false
}

// Mode is a question selection mode.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeRandom     Mode = "random"
	ModeReview     Mode = "review"
	ModeFavorites  Mode = "favorites"
)

// Modes lists the selection modes in menu order.
var Modes = []Mode{ModeSequential, ModeRandom, ModeReview, ModeFavorites}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// FlashKind is the visual weight of a one-shot message.
type FlashKind string

const (
	FlashInfo      FlashKind = "info"
	FlashSuccess   FlashKind = "success"
	FlashWarning   FlashKind = "warning"
	FlashError     FlashKind = "error"
	FlashCelebrate FlashKind = "celebrate"
)

// Flash is a message shown once on the next render. MessageID is a
// translation key.
type Flash struct {
	Kind      FlashKind
	MessageID string
	Data      map[string]any
}

// Session is the state of one user's interaction session.
type Session struct {
	ID        string
	Page      Page
	Index     int
	Mode      Mode
	Selection string // label chosen at the last submit, empty before
	Submitted bool
	Flash     *Flash
	LastSeen  time.Time
}

// NewSession returns a session in its initial state.
func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		Page:     PagePractice,
		Mode:     ModeSequential,
		LastSeen: time.Now(),
	}
}

// SetFlash replaces the pending one-shot message.
func (s *Session) SetFlash(kind FlashKind, msgID string, data map[string]any) {
	s.Flash = &Flash{Kind: kind, MessageID: msgID, Data: data}
}

// TakeFlash returns the pending message and clears it.
func (s *Session) TakeFlash() *Flash {
	f := s.Flash
	s.Flash = nil
	return f
}

// Config holds runtime parameters set via CLI flags.
type Config struct {
	DataFile         string
	BasePath         string // URL prefix for sub-path deployments (e.g. "/quiz")
	SecureCookies    bool
	LeaderboardLimit int
	SessionIdle      time.Duration
}

type sessionCtxKey struct{}

// ContextWithSession stores the interaction session in the request context.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext retrieves the session from context, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return s
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}
