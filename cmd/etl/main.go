package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"ranked-etl/internal/config"
	"ranked-etl/internal/etl"
	"ranked-etl/internal/export"
	"ranked-etl/internal/notify"
	"ranked-etl/internal/riot"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	// Parse flags
	configPath := flag.String("config", "", "Optional YAML job file")
	outputDir := flag.String("output-dir", "", "Directory for JSON/CSV outputs")
	tiers := flag.String("tiers", "", "Comma-separated tiers (e.g., 'CHALLENGER,GRANDMASTER')")
	maxPerRegion := flag.Int("max-per-region", 0, "Maximum matches to collect per region")
	regionNames := flag.String("regions", "", "Comma-separated region subset (e.g., 'korea,north_america')")
	skipUpload := flag.Bool("skip-upload", false, "Skip the cloud upload step")
	skipKeyCheck := flag.Bool("skip-key-check", false, "Skip the API key validation probe")
	flag.Parse()

	// Resolve job configuration: defaults < file < flags.
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *tiers != "" {
		cfg.Tiers = splitList(*tiers)
	}
	if *maxPerRegion > 0 {
		cfg.MaxMatchesPerRegion = *maxPerRegion
	}
	if *regionNames != "" {
		cfg.Regions = splitList(*regionNames)
	}
	if *skipUpload {
		cfg.SkipUpload = true
	}

	regions, err := resolveRegions(cfg.Regions)
	if err != nil {
		log.Fatalf("Invalid region list: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n[Shutdown] Gracefully shutting down...")
		cancel()
	}()

	// Create Riot API client with a shared match cache; the two ranked queue
	// passes per summoner hit the same match history, so the cache absorbs the
	// double fetches.
	cache := riot.NewMatchCache(riot.DefaultCacheCapacity)
	client, err := riot.NewClient(riot.WithCache(cache))
	if err != nil {
		log.Fatalf("Failed to create Riot client: %v", err)
	}

	var webhook *notify.WebhookClient
	if url := os.Getenv("DISCORD_WEBHOOK_URL"); url != "" {
		webhook = notify.NewWebhookClient(url)
	}

	start := time.Now()

	if !*skipKeyCheck {
		valid, err := client.ValidateKey(ctx)
		if err != nil {
			log.Fatalf("Failed to validate API key: %v", err)
		}
		if !valid {
			if webhook != nil {
				if err := webhook.SendRunFailed(ctx, "RIOT_API_KEY was rejected by the Riot API", time.Since(start)); err != nil {
					log.Printf("[Webhook] Failed to send failure notification: %v", err)
				}
			}
			log.Fatal("RIOT_API_KEY was rejected by the Riot API (expired or revoked)")
		}
		fmt.Println("API key validated")
	}

	runner := etl.NewRunner(client, etl.RunnerConfig{
		Regions:             regions,
		Tiers:               cfg.Tiers,
		MaxMatchesPerRegion: cfg.MaxMatchesPerRegion,
		HistoryCount:        cfg.HistoryCount,
	})
	records := runner.Run(ctx)

	// Write both export formats. One writer failing never blocks the other.
	jsonName, csvName := export.Filenames(time.Now())
	jsonPath := filepath.Join(cfg.OutputDir, jsonName)
	csvPath := filepath.Join(cfg.OutputDir, csvName)

	if err := export.WriteJSON(records, jsonPath); err != nil {
		log.Printf("[Export] Error writing JSON: %v", err)
	} else {
		fmt.Printf("Wrote %s\n", jsonPath)
	}
	if err := export.WriteCSV(records, csvPath); err != nil {
		log.Printf("[Export] Error writing CSV: %v", err)
	} else {
		fmt.Printf("Wrote %s\n", csvPath)
	}

	uploadsOK, uploadsFailed := 0, 0
	if cfg.SkipUpload {
		log.Println("[Upload] Skipping cloud upload")
	} else {
		uploader := export.NewUploaderFromEnv()
		for _, res := range uploader.UploadRun(ctx, jsonPath, csvPath) {
			if res.Uploaded {
				uploadsOK++
			} else {
				uploadsFailed++
			}
		}
	}

	summary := etl.Summarize(records)
	summary.Log()

	elapsed := time.Since(start)
	stats := client.CacheStats()

	fmt.Println("\n=== ETL Complete ===")
	fmt.Printf("Total matches: %d\n", summary.Total)
	fmt.Printf("Regions processed: %d\n", len(regions))
	fmt.Printf("Runtime: %s\n", elapsed.Round(time.Second))
	fmt.Printf("Match cache: %d hits, %d misses\n", stats.Hits, stats.Misses)
	fmt.Printf("Outputs: %s, %s\n", jsonPath, csvPath)
	if !cfg.SkipUpload {
		fmt.Printf("Uploads: %d ok, %d failed\n", uploadsOK, uploadsFailed)
	}

	if webhook != nil {
		if err := webhook.SendRunComplete(ctx, summary.Total, elapsed, len(regions), uploadsOK, uploadsFailed); err != nil {
			log.Printf("[Webhook] Failed to send completion notification: %v", err)
		}
	}
}

// splitList parses a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// resolveRegions maps configured region names onto the known roster. An empty
// list selects every region.
func resolveRegions(names []string) ([]riot.Region, error) {
	if len(names) == 0 {
		return riot.AllRegions(), nil
	}

	var regions []riot.Region
	for _, name := range names {
		region, ok := riot.RegionByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown region %q", name)
		}
		regions = append(regions, region)
	}
	return regions, nil
}
