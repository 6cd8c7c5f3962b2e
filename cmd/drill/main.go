package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/drill/internal/cli"
	"github.com/pavelanni/drill/internal/handler"
	appI18n "github.com/pavelanni/drill/internal/i18n"
	"github.com/pavelanni/drill/internal/model"
	"github.com/pavelanni/drill/internal/practice"
	"github.com/pavelanni/drill/internal/quiz"
	"github.com/pavelanni/drill/internal/session"
	"github.com/pavelanni/drill/internal/stats"
	"github.com/pavelanni/drill/internal/store"
)

//go:generate templ generate -path ../../internal/handler/views

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "drill",
		Short: "Multiple-choice question drill with mistake review",
	}

	serve := serveCmd()
	root.AddCommand(serve, leaderboardCmd(), resetCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `drill --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("data", "f", "questions.json", "Question bank JSON file")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the practice web UI",
		RunE:  runServe,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", "127.0.0.1:8080", "HTTP listen address")
	f.StringP("lang", "l", "en", "Default UI language (en, zh)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /quiz)")
	f.Bool("secure-cookies", false, "Set Secure flag on cookies")
	f.Int("leaderboard-limit", stats.DefaultLimit, "Rows shown on the most-missed leaderboard")
	f.Duration("session-idle", session.DefaultIdle, "Discard sessions idle for longer than this")
	f.Uint64("seed", 0, "Random seed for question selection (0 = random)")
	return cmd
}

func leaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the most-missed questions",
		RunE:  runLeaderboard,
	}
	addCommonFlags(cmd)
	cmd.Flags().IntP("limit", "n", stats.DefaultLimit, "Number of rows")
	return cmd
}

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all answer statistics in the question bank",
		RunE:  runReset,
	}
	addCommonFlags(cmd)
	return cmd
}

func setupLogging(v *viper.Viper) {
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags, a local .env file and the environment
// to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("error reading .env file", "error", err)
	}

	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("DRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("drill")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/drill")
	v.AddConfigPath("/etc/drill")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	bank, err := store.Open(v.GetString("data"))
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	cfg := model.Config{
		DataFile:         v.GetString("data"),
		BasePath:         basePath,
		SecureCookies:    v.GetBool("secure-cookies"),
		LeaderboardLimit: v.GetInt("leaderboard-limit"),
		SessionIdle:      v.GetDuration("session-idle"),
	}

	selector := quiz.NewSelector(nil)
	if seed := v.GetUint64("seed"); seed != 0 {
		selector = quiz.NewSeeded(seed)
	}
	engine := practice.New(bank, selector, cfg.LeaderboardLimit)
	h := handler.New(engine, session.NewManager(cfg.SessionIdle), cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(basePath))

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
		})
	} else {
		r.Use(h.BasePathMiddleware)
		h.Routes(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := v.GetString("addr")
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("starting server",
		"addr", addr,
		"data", cfg.DataFile,
		"questions", bank.Len(),
		"lang", lang,
		"base_path", basePath,
		"leaderboard_limit", cfg.LeaderboardLimit,
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	bank, err := store.Open(v.GetString("data"))
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}
	if bank.Missing() {
		return fmt.Errorf("%w: %s", store.ErrBankMissing, bank.Path())
	}

	questions := bank.Questions()
	rows := stats.Leaderboard(questions, v.GetInt("limit"))
	return cli.RenderLeaderboard(cmd.OutOrStdout(), rows, stats.MaxWrong(rows), stats.Summarize(questions))
}

func runReset(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	bank, err := store.Open(v.GetString("data"))
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}
	if bank.Missing() {
		return fmt.Errorf("%w: %s", store.ErrBankMissing, bank.Path())
	}
	if err := bank.ResetStats(); err != nil {
		return fmt.Errorf("reset statistics: %w", err)
	}
	slog.Info("statistics reset", "path", bank.Path(), "questions", bank.Len())
	return nil
}
