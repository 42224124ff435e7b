package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/thoughtpipe/thought-pipeline/internal/ai"
	"github.com/thoughtpipe/thought-pipeline/internal/batch"
	"github.com/thoughtpipe/thought-pipeline/internal/config"
	"github.com/thoughtpipe/thought-pipeline/internal/draft"
	"github.com/thoughtpipe/thought-pipeline/internal/feed"
	"github.com/thoughtpipe/thought-pipeline/internal/pipeline"
	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/search"
	"github.com/thoughtpipe/thought-pipeline/internal/storage"
	"github.com/thoughtpipe/thought-pipeline/internal/topic"
	"github.com/thoughtpipe/thought-pipeline/internal/web"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	switch os.Args[1] {
	case "serve":
		serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
		host := serveFlags.String("host", cfg.Server.Host, "Host to bind to")
		port := serveFlags.Int("port", cfg.Server.Port, "Port to listen on")
		serveFlags.Parse(os.Args[2:])

		runServe(cfg, *host, *port)
	case "topics":
		runTopics(cfg)
	case "reindex":
		runReindex(cfg)
	case "stats":
		runStats(cfg)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Thought Pipeline - topic curation and voice-note drafting")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  thought-pipeline <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve [flags]   Start the HTTP server")
	fmt.Println("  topics          Print the ranked topic feed")
	fmt.Println("  reindex         Rebuild the topic search index")
	fmt.Println("  stats           Show draft statistics")
	fmt.Println()
	fmt.Println("Serve Flags:")
	fmt.Println("  -host=<host>    Host to bind to (default from SERVER_HOST)")
	fmt.Println("  -port=<port>    Port to listen on (default from SERVER_PORT)")
	fmt.Println()
	fmt.Println("Configuration is read from the environment: SCOUT_DIR, DATA_DIR,")
	fmt.Println("AUDIO_DIR, RECORDINGS_DIR, OPENAI_API_KEY, TTS_VOICE, LOG_LEVEL.")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func openDB(cfg config.Config) *storage.DB {
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		log.Fatalf("Error creating data directory: %v", err)
	}
	db, err := storage.Open(cfg.DBPath())
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	return db
}

func runServe(cfg config.Config, host string, port int) {
	logger := newLogger(cfg.Log.Level)

	db := openDB(cfg)
	defer db.Close()

	idx, err := search.Open(cfg.IndexPath())
	if err != nil {
		log.Fatalf("Error opening search index: %v", err)
	}
	defer idx.Close()

	catalog := topic.NewCatalog(cfg.Paths.ScoutDir, db)
	prefStore := prefs.NewStore(db)
	draftStore := draft.NewStore(db, prefStore)
	versions := draft.NewVersionLog(db)
	scheduler := draft.NewScheduler(db, draftStore)

	openai := ai.NewOpenAI(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, cfg.OpenAI.TranscribeModel, cfg.OpenAI.Timeout)
	speaker := ai.NewEdgeTTS(cfg.TTS.Voice)

	pipe := &pipeline.Pipeline{
		Catalog:     catalog,
		Prefs:       prefStore,
		Drafts:      draftStore,
		Transcriber: openai,
		Generator:   openai,
		Speaker:     speaker,
		AudioDir:    cfg.Paths.AudioDir,
		Logger:      logger,
	}

	batchMgr := batch.NewManager(db, catalog, draftStore, prefStore, openai, openai, cfg.Paths.RecordingsDir, logger)

	// Index whatever topics exist at startup; searches reflect the last
	// reindex plus this refresh.
	if topics, err := catalog.All(); err != nil {
		logger.Warn("failed to load topics for indexing", "error", err)
	} else if err := idx.IndexTopics(topics); err != nil {
		logger.Warn("failed to index topics", "error", err)
	}

	server := web.New(catalog, prefStore, draftStore, versions, scheduler, batchMgr, pipe, idx, cfg.Paths.AudioDir, cfg.Paths.RecordingsDir, logger)

	addr := fmt.Sprintf("%s:%d", host, port)
	logger.Info("thought pipeline running", "addr", addr)

	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

func runTopics(cfg config.Config) {
	db := openDB(cfg)
	defer db.Close()

	catalog := topic.NewCatalog(cfg.Paths.ScoutDir, db)
	topics, err := catalog.All()
	if err != nil {
		log.Fatalf("Error loading topics: %v", err)
	}

	ranked := feed.Rank(topics, prefs.NewStore(db).Read())
	if len(ranked) == 0 {
		fmt.Println("No topics found")
		return
	}

	for i, t := range ranked {
		fmt.Printf("%d. [%s] %s\n", i+1, t.ID, t.Title)
		if t.Summary != "" {
			fmt.Printf("   %s\n", t.Summary)
		}
	}
}

func runReindex(cfg config.Config) {
	db := openDB(cfg)
	defer db.Close()

	catalog := topic.NewCatalog(cfg.Paths.ScoutDir, db)
	topics, err := catalog.All()
	if err != nil {
		log.Fatalf("Error loading topics: %v", err)
	}

	idx, err := search.Open(cfg.IndexPath())
	if err != nil {
		log.Fatalf("Error opening search index: %v", err)
	}
	defer idx.Close()

	start := time.Now()
	if err := idx.IndexTopics(topics); err != nil {
		log.Fatalf("Error indexing topics: %v", err)
	}

	count, err := idx.Count()
	if err != nil {
		log.Fatalf("Error getting index count: %v", err)
	}

	fmt.Println("=== Reindex Complete ===")
	fmt.Printf("Topics indexed: %d\n", count)
	fmt.Printf("Duration:       %v\n", time.Since(start).Round(time.Millisecond))
}

func runStats(cfg config.Config) {
	db := openDB(cfg)
	defer db.Close()

	prefStore := prefs.NewStore(db)
	drafts, err := draft.NewStore(db, prefStore).List()
	if err != nil {
		log.Fatalf("Error loading drafts: %v", err)
	}

	stats := draft.Analyze(drafts, time.Now())

	fmt.Println("=== Draft Statistics ===")
	fmt.Printf("Total drafts: %d\n", stats.TotalDrafts)
	fmt.Printf("This week:    %d\n", stats.ThisWeek)
	fmt.Printf("Last week:    %d\n", stats.LastWeek)
	fmt.Printf("Streak:       %d days\n", stats.Streak)
	if stats.MostProductiveDay != "" {
		fmt.Printf("Best day:     %s (%d drafts)\n", stats.MostProductiveDay, stats.DraftsByDay[stats.MostProductiveDay])
	}
}
