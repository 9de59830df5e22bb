// Package main provides the feedctl maintenance CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/delmas/festfeed/internal/app/hooks"
	"github.com/delmas/festfeed/internal/app/player"
	"github.com/delmas/festfeed/internal/app/session"
	"github.com/delmas/festfeed/internal/app/urlstate"
	"github.com/delmas/festfeed/internal/domain/event"
	"github.com/delmas/festfeed/internal/infra/config"
	"github.com/delmas/festfeed/internal/infra/feed"
	"github.com/delmas/festfeed/internal/infra/logger"
)

var (
	app        = kingpin.New("feedctl", "festfeed feed inspection tool")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()

	// validate command
	validateCmd    = app.Command("validate", "Load the feed and report dropped records")
	validateSource = validateCmd.Arg("source", "Feed path or URL (defaults to config)").String()

	// events command
	eventsCmd = app.Command("events", "List the catalog in feed order")

	// share-link command
	shareCmd   = app.Command("share-link", "Print the share link for an event")
	shareEvent = shareCmd.Arg("event-id", "Event id").Required().Int()

	// simulate command
	simulateCmd   = app.Command("simulate", "Run a timed playback walk over the feed")
	simulateSteps = simulateCmd.Flag("steps", "Number of auto-advances to follow").Default("5").Int()
	simulateEntry = simulateCmd.Flag("entry-url", "Entry URL applied before the walk").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.Init(logger.Config{Output: "stderr", Level: "warn"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Inspection commands still work without a config file.
		cfg = config.Default()
	}

	ctx := context.Background()

	switch command {
	case validateCmd.FullCommand():
		source := cfg.Site.DataSource
		if *validateSource != "" {
			source = *validateSource
		}
		validate(ctx, source)
	case eventsCmd.FullCommand():
		listEvents(ctx, cfg)
	case shareCmd.FullCommand():
		shareLink(ctx, cfg, *shareEvent)
	case simulateCmd.FullCommand():
		simulate(ctx, cfg, *simulateSteps, *simulateEntry)
	}
}

func validate(ctx context.Context, source string) {
	cat, err := feed.Load(ctx, source)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	playable := 0
	for _, ev := range cat.Events() {
		if ev.Media.Kind() != event.MediaNone {
			playable++
		}
	}
	fmt.Printf("Feed OK: %d events (%d playable, %d image-only)\n",
		cat.Len(), playable, cat.Len()-playable)
}

func listEvents(ctx context.Context, cfg *config.Config) {
	cat, err := feed.Load(ctx, cfg.Site.DataSource)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, ev := range cat.Events() {
		fmt.Printf("%5d  %-8s %-30s %s %s\n",
			ev.ID, ev.Media.Kind(), ev.Name, ev.StartDate, ev.StartTime)
	}
}

func shareLink(ctx context.Context, cfg *config.Config, id int) {
	cat, err := feed.Load(ctx, cfg.Site.DataSource)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if !cat.Contains(id) {
		fmt.Printf("Error: unknown event id %d\n", id)
		os.Exit(1)
	}

	fmt.Println(urlstate.ShareEventLink(cfg.Site.BaseURL, id))
}

// simulate walks the feed the way auto-advance would, printing each
// focus transition as it happens.
func simulate(ctx context.Context, cfg *config.Config, steps int, entryURL string) {
	sess, err := session.New(ctx, cfg, player.NewSimFactory())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	transitions := make(chan hooks.Event, 64)
	subID := sess.Hooks().Subscribe(func(e hooks.Event) {
		if e.Kind == hooks.KindCardFocused || e.Kind == hooks.KindCardState {
			select {
			case transitions <- e:
			default:
			}
		}
	})
	defer sess.Hooks().Unsubscribe(subID)

	if entryURL != "" {
		sess.Enter(entryURL)
	}
	if sess.Engine().ActiveID() == 0 {
		first, ok := sess.Catalog().First()
		if !ok {
			fmt.Println("Feed is empty")
			return
		}
		sess.Engine().ScrollTo(first, true)
	}

	advances := 0
	timeout := time.After(2 * time.Minute)
	for advances < steps {
		select {
		case e := <-transitions:
			switch e.Kind {
			case hooks.KindCardFocused:
				ev, _ := sess.Catalog().ByID(e.EventID)
				name := "?"
				if ev != nil {
					name = ev.Name
				}
				fmt.Printf("focus  %5d  %s\n", e.EventID, name)
			case hooks.KindCardState:
				fmt.Printf("state  %5d  %s\n", e.EventID, e.Class)
				if e.Class == "ended" {
					advances++
				}
			}
		case <-timeout:
			fmt.Println("Simulation timed out")
			return
		}
	}
	fmt.Printf("Done after %d advances\n", advances)
}
