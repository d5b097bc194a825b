package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/s-martin/flightfeed/pkg/config"
	"github.com/s-martin/flightfeed/pkg/feed"
)

// feed-scope is a live terminal view of the ingestion registry: it runs
// the poller directly (no database) and redraws a table of tracked
// aircraft every couple of seconds.
func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := []feed.ClientOption{}
	if bounds := cfg.Feed.Region.Bounds(); bounds != nil {
		opts = append(opts, feed.WithBounds(*bounds))
	}
	client := feed.NewClient(cfg.Feed.BaseURL, opts...)

	registry := feed.NewRegistry()
	poller := feed.NewPoller(client)
	poller.Attach(feed.RegistrySink(registry))
	poller.SetEnabled(true)
	defer poller.Close()

	app := tview.NewApplication()

	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true).SetTitle(" flightfeed scope (q to quit) ")

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' || event.Key() == tcell.KeyEscape {
			app.Stop()
			return nil
		}
		return event
	})

	stopChan := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stopChan:
				return
			case <-ticker.C:
				app.QueueUpdateDraw(func() {
					renderTable(table, registry)
				})
			}
		}
	}()

	renderTable(table, registry)
	if err := app.SetRoot(table, true).Run(); err != nil {
		log.Fatalf("UI error: %v", err)
	}
	close(stopChan)
}

var headers = []string{"ID", "CALLSIGN", "REG", "LAT", "LON", "ALT m", "SPD m/s", "HDG", "ROUTE", "AGE"}

// renderTable rebuilds the aircraft table from a registry snapshot.
func renderTable(table *tview.Table, registry *feed.Registry) {
	table.Clear()

	for col, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1)
		table.SetCell(0, col, cell)
	}

	aircraft := registry.All()
	sort.Slice(aircraft, func(i, j int) bool { return aircraft[i].ID < aircraft[j].ID })

	now := time.Now().UTC()
	row := 1
	for _, a := range aircraft {
		if !a.IsInteresting() {
			continue
		}

		track := a.Track()
		info := a.FlightInfo()

		age := "-"
		color := tcell.ColorWhite
		if lastHeard, ok := a.LastHeard(); ok {
			age = fmt.Sprintf("%ds", int(now.Sub(lastHeard).Seconds()))
			if a.ExpiryTime().Before(now) {
				color = tcell.ColorGray
			}
		}

		cols := []string{
			a.ID,
			info.Callsign,
			info.Registration,
			fmtItem(track.Latitude, "%.4f"),
			fmtItem(track.Longitude, "%.4f"),
			fmtItem(track.Altitude, "%.0f"),
			fmtItem(track.HSpeed, "%.1f"),
			fmtItem(track.Heading, "%.0f"),
			route(info),
			age,
		}
		for col, text := range cols {
			table.SetCell(row, col, tview.NewTableCell(text).SetTextColor(color))
		}
		row++
	}
}

// fmtItem renders a telemetry value, or "-" when it has never been seen.
func fmtItem(it feed.TelemetryItem, format string) string {
	if !it.Valid {
		return "-"
	}
	return fmt.Sprintf(format, it.Value)
}

func route(info feed.FlightInfo) string {
	if info.Origin == "" && info.Destination == "" {
		return ""
	}
	return fmt.Sprintf("%s-%s", info.Origin, info.Destination)
}
