package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/s-martin/flightfeed/pkg/config"
	"github.com/s-martin/flightfeed/pkg/feed"
)

// main is a test program to verify zone feed integration. It performs a
// single fetch, routes the records through the normal translate/merge
// path, and prints every interesting aircraft.
func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	flag.Parse()

	log.Println("Zone feed test - single fetch")
	log.Println("=====================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := []feed.ClientOption{}
	if bounds := cfg.Feed.Region.Bounds(); bounds != nil {
		log.Printf("Bounds: %s", bounds)
		opts = append(opts, feed.WithBounds(*bounds))
	}
	client := feed.NewClient(cfg.Feed.BaseURL, opts...)

	registry := feed.NewRegistry()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.FetchAndDispatch(ctx, feed.RegistrySink(registry)); err != nil {
		log.Fatalf("Failed to fetch feed: %v", err)
	}

	log.Printf("Found %d aircraft", registry.Len())
	log.Println("=====================================")

	shown := 0
	for _, a := range registry.All() {
		if !a.IsInteresting() {
			continue
		}
		shown++

		track := a.Track()
		info := a.FlightInfo()

		label := info.Callsign
		if label == "" {
			label = info.Registration
		}
		if label == "" {
			label = "(unidentified)"
		}

		log.Printf("%-10s %s", label, a.ID)
		if track.Latitude.Valid && track.Longitude.Valid {
			log.Printf("  Position:  %.4f, %.4f", track.Latitude.Value, track.Longitude.Value)
		}
		if track.Altitude.Valid {
			log.Printf("  Altitude:  %.0f m", track.Altitude.Value)
		}
		if track.HSpeed.Valid {
			log.Printf("  Speed:     %.1f m/s", track.HSpeed.Value)
		}
		if info.Origin != "" || info.Destination != "" {
			log.Printf("  Route:     %s -> %s", info.Origin, info.Destination)
		}
		log.Printf("  Expires:   %s", a.ExpiryTime().Format(time.RFC3339))
	}

	log.Println("=====================================")
	log.Printf("Done: %d interesting of %d total", shown, registry.Len())
}
