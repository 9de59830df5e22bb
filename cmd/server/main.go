// Package main provides the feed server entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/delmas/festfeed/internal/app/player"
	"github.com/delmas/festfeed/internal/app/session"
	"github.com/delmas/festfeed/internal/infra/config"
	"github.com/delmas/festfeed/internal/infra/logger"
)

var (
	app        = kingpin.New("festfeed-server", "festfeed event feed server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
	entryURL   = app.Flag("entry-url", "Apply an entry URL on startup").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	sess, err := session.New(ctx, cfg, player.NewSimFactory())
	if err != nil {
		return fmt.Errorf("failed to assemble session: %w", err)
	}
	defer sess.Close()

	if *entryURL != "" {
		sess.Enter(*entryURL)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", sess.Metrics().Handler())
	r.Get("/feed", handleFeed(sess))
	r.Get("/settings", handleSettings(cfg))
	r.Get("/status", handleStatus(sess))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// feedEntry is the wire shape of one card in the /feed response.
type feedEntry struct {
	ID          int               `json:"id"`
	Name        string            `json:"event_name"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Thumbnail   string            `json:"image_thumbnail,omitempty"`
	Tags        []string          `json:"event_tags,omitempty"`
	Place       string            `json:"event_place,omitempty"`
	Day         string            `json:"event_day,omitempty"`
	StartDate   string            `json:"event_start_date,omitempty"`
	StartTime   string            `json:"event_start_time,omitempty"`
	EndTime     string            `json:"event_end_time,omitempty"`
	Status      string            `json:"event_status"`
	Links       map[string]string `json:"links,omitempty"`
	MediaKind   string            `json:"media_kind"`
	VideoURL    string            `json:"video_url,omitempty"`
	AudioURL    string            `json:"audio,omitempty"`
	Duration    float64           `json:"duration,omitempty"`
}

func handleFeed(sess *session.Session) http.HandlerFunc {
	lang := sess.Translator().Lang()
	return func(w http.ResponseWriter, _ *http.Request) {
		events := sess.Catalog().Events()
		out := make([]feedEntry, 0, len(events))
		for _, ev := range events {
			out = append(out, feedEntry{
				ID:          ev.ID,
				Name:        ev.Name,
				Description: ev.DescriptionFor(lang),
				Image:       ev.Image,
				Thumbnail:   ev.Thumbnail(),
				Tags:        ev.Tags,
				Place:       ev.Place,
				Day:         ev.Day,
				StartDate:   ev.StartDate,
				StartTime:   ev.StartTime,
				EndTime:     ev.EndTime,
				Status:      string(ev.Status),
				Links:       ev.Links,
				MediaKind:   ev.Media.Kind().String(),
				VideoURL:    ev.Media.VideoURL,
				AudioURL:    ev.Media.AudioURL,
				Duration:    ev.Media.Duration,
			})
		}
		writeJSON(w, out)
	}
}

func handleSettings(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"title":    cfg.Site.Title,
			"lang":     cfg.Site.Lang,
			"version":  cfg.Site.Version,
			"settings": cfg.Settings,
		})
	}
}

func handleStatus(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		eng := sess.Engine().State()
		writeJSON(w, map[string]any{
			"active_id":      eng.ActiveID,
			"active_section": eng.ActiveSection,
			"muted":          eng.Muted,
			"favorites":      sess.Controller().Favorites(),
			"favorites_mode": sess.Controller().FavoritesMode(),
			"filter":         sess.Controller().FilterSlug(),
			"share_link":     sess.ShareLink(),
			"url":            sess.URLSync().Current(),
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Err(err).Msg("writing response")
	}
}
