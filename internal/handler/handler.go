package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/drill/internal/handler/views"
	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/practice"
	"github.com/pavelanni/drill/internal/session"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	engine   *practice.Engine
	sessions *session.Manager
	config   model.Config
}

// New creates a new Handler.
func New(e *practice.Engine, sm *session.Manager, cfg model.Config) *Handler {
	return &Handler{engine: e, sessions: sm, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.sessionMiddleware)
	r.Use(h.csrfMiddleware)

	r.Get("/", h.handleIndex)
	r.Post("/page", h.handleNavigate)
	r.Post("/mode", h.handleSetMode)
	r.Post("/answer", h.handleAnswer)
	r.Post("/next", h.handleNext)
	r.Post("/skip", h.handleSkip)
	r.Post("/favorite", h.handleFavorite)
	r.Post("/jump/{questionID}", h.handleJump)
	r.Post("/reset", h.handleReset)
	r.Post("/session/new", h.handleNewSession)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := model.SessionFromContext(r.Context())
	sc := h.engine.Render(sess)
	sb := views.Sidebar{Page: sc.Page, Mode: sc.Mode, Summary: sc.Summary}

	page := views.PracticePage(sb, sc.Flash, sc.Practice)
	if sc.Page == model.PageLeaderboard {
		page = views.LeaderboardPage(sb, sc.Flash, sc.Leaderboard)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := page.Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	p, ok := model.ParsePage(r.FormValue("page"))
	if !ok {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	h.dispatch(w, r, practice.Navigate(p))
}

func (h *Handler) handleSetMode(w http.ResponseWriter, r *http.Request) {
	m, ok := model.ParseMode(r.FormValue("mode"))
	if !ok {
		http.Error(w, "invalid mode", http.StatusBadRequest)
		return
	}
	h.dispatch(w, r, practice.SetMode(m))
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, practice.Submit(r.FormValue("choice")))
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, practice.Next())
}

func (h *Handler) handleSkip(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, practice.Skip())
}

func (h *Handler) handleFavorite(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, practice.ToggleFavorite())
}

func (h *Handler) handleJump(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "questionID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid question ID", http.StatusBadRequest)
		return
	}
	h.dispatch(w, r, practice.Jump(id))
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, practice.ResetStats())
}

// handleNewSession ends the caller's session and starts a fresh one with
// default mode and position. The question bank is left untouched.
func (h *Handler) handleNewSession(w http.ResponseWriter, r *http.Request) {
	old := model.SessionFromContext(r.Context())
	h.sessions.End(old.ID)

	sess, _ := h.sessions.Acquire("")
	sess.SetFlash(model.FlashInfo, "SessionStarted", nil)
	h.setSessionCookie(w, sess.ID)

	slog.Info("session restarted", "previous", old.ID, "session", sess.ID, "live", h.sessions.Len())
	http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
}

// dispatch applies one action and redirects back to the current page.
// Rejected actions are reported to the user through the session flash.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, a practice.Action) {
	sess := model.SessionFromContext(r.Context())
	if err := h.engine.Dispatch(sess, a); err != nil {
		level := slog.LevelWarn
		if errors.Is(err, practice.ErrNoSelection) || errors.Is(err, practice.ErrAlreadySubmitted) {
			level = slog.LevelDebug
		}
		slog.Log(r.Context(), level, "action rejected", "action", a.Kind, "session", sess.ID, "error", err)
	}
	http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
}

// BasePathMiddleware exposes the configured URL prefix to views.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}
