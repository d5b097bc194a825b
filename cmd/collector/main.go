package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/s-martin/flightfeed/internal/db"
	"github.com/s-martin/flightfeed/pkg/config"
	"github.com/s-martin/flightfeed/pkg/feed"
)

// Collector continuously ingests the zone feed into an in-memory registry
// and snapshots it to the database. It is the reference external consumer
// of the feed pipeline: it owns persistence and eviction, which the
// pipeline itself deliberately does not.
func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	flag.Parse()

	log.Println("===========================================")
	log.Println("  flightfeed collector service")
	log.Println("===========================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded from: %s", *configPath)

	// Build the feed client
	clientOpts := []feed.ClientOption{}
	if bounds := cfg.Feed.Region.Bounds(); bounds != nil {
		log.Printf("Region filter: %s (%.4f, %.4f, %.0f nm) -> bounds=%s",
			cfg.Feed.Region.Name, cfg.Feed.Region.Latitude,
			cfg.Feed.Region.Longitude, cfg.Feed.Region.RadiusNM, bounds)
		clientOpts = append(clientOpts, feed.WithBounds(*bounds))
	} else {
		log.Println("Region filter: none (worldwide feed)")
	}
	if cfg.Feed.RequestsPerMinute > 0 {
		clientOpts = append(clientOpts,
			feed.WithRateLimit(rate.Limit(cfg.Feed.RequestsPerMinute/60.0), 1))
	}
	client := feed.NewClient(cfg.Feed.BaseURL, clientOpts...)

	// Connect to database
	log.Println("Connecting to database...")
	database, err := db.ConnectWithRetry(cfg.Database, 5, 2*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("Database connected")

	ctx := context.Background()
	if err := database.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("Database schema initialized")

	// Wire the pipeline: poller -> registry sink
	registry := feed.NewRegistry()
	poller := feed.NewPoller(client)
	poller.Attach(feed.RegistrySink(registry))
	poller.SetEnabled(true)
	defer poller.Close()

	repo := db.NewAircraftRepository(database)
	collector := &Collector{
		registry:         registry,
		repo:             repo,
		db:               database,
		snapshotInterval: time.Duration(cfg.Collector.SnapshotIntervalSeconds) * time.Second,
		sweepInterval:    time.Duration(cfg.Collector.SweepIntervalSeconds) * time.Second,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	runCtx, cancel := context.WithCancel(ctx)
	doneChan := make(chan struct{})
	go func() {
		defer close(doneChan)
		collector.Run(runCtx)
	}()

	log.Println("===========================================")
	log.Printf("  Collector started (poll every %v)", feed.PollingInterval)
	log.Println("  Press Ctrl+C to stop")
	log.Println("===========================================")

	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	log.Println("Shutting down gracefully...")
	poller.Close()
	cancel()
	<-doneChan
	log.Println("Collector service stopped")
}

// Collector periodically snapshots the registry to the database and sweeps
// expired rows.
type Collector struct {
	registry *feed.Registry
	repo     *db.AircraftRepository
	db       *db.DB

	snapshotInterval time.Duration
	sweepInterval    time.Duration

	totalSnapshots int
}

// Run drives the snapshot, sweep, and stats timers until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) {
	snapshotTicker := time.NewTicker(c.snapshotInterval)
	defer snapshotTicker.Stop()

	sweepTicker := time.NewTicker(c.sweepInterval)
	defer sweepTicker.Stop()

	statsTicker := time.NewTicker(30 * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-snapshotTicker.C:
			c.snapshot(ctx)
		case <-sweepTicker.C:
			c.sweep(ctx)
		case <-statsTicker.C:
			c.printStats(ctx)
		}
	}
}

// snapshot upserts every interesting aircraft's merged state. One failed
// row does not stop the rest of the pass.
func (c *Collector) snapshot(ctx context.Context) {
	c.totalSnapshots++

	stored := 0
	for _, a := range c.registry.All() {
		if !a.IsInteresting() {
			continue
		}
		if err := c.repo.Upsert(ctx, a); err != nil {
			log.Printf("Error storing aircraft %s: %v", a.ID, err)
			continue
		}
		stored++
	}

	log.Printf("[%s] Snapshot #%d: %d tracked, %d stored",
		time.Now().UTC().Format("15:04:05"), c.totalSnapshots,
		c.registry.Len(), stored)
}

// sweep drops database rows whose expiry time has passed.
func (c *Collector) sweep(ctx context.Context) {
	dropped, err := c.repo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Error during sweep: %v", err)
		return
	}
	if dropped > 0 {
		log.Printf("Sweep: dropped %d expired aircraft", dropped)
	}
}

// printStats displays current database statistics.
func (c *Collector) printStats(ctx context.Context) {
	stats, err := c.db.Stats(ctx)
	if err != nil {
		log.Printf("Error getting stats: %v", err)
		return
	}

	log.Printf("Stats: %d aircraft, %d with position, %d live",
		stats["aircraft"],
		stats["with_position"],
		stats["live"],
	)
}
