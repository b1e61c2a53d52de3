// Command collect-titles dumps raw titles from configured IPTV sources
// for use in building test suites for title parsing.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/vmunix/iptvarr/internal/config"
	"github.com/vmunix/iptvarr/internal/xtream"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to config file")
	output := flag.String("output", "testdata/titles.csv", "Output CSV file")
	flag.Parse()

	if err := run(*configPath, *output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, output string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Dedupe by title
	seen := make(map[string]bool)
	var results []record

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, src := range cfg.Sources {
		fmt.Printf("Fetching from %s...\n", src.Name)
		client := xtream.NewClient(src.URL, src.Username, src.Password, logger)

		add := func(category, title string) {
			if title == "" || seen[title] {
				return
			}
			seen[title] = true
			results = append(results, record{Title: title, Category: category, Source: src.Name})
		}

		live, err := client.LiveStreams(ctx)
		if err != nil {
			fmt.Printf("  live: error: %v\n", err)
		}
		for _, s := range live {
			add("live", s.Name)
		}

		vod, err := client.VODStreams(ctx)
		if err != nil {
			fmt.Printf("  vod: error: %v\n", err)
		}
		for _, s := range vod {
			add("movie", s.Name)
		}

		series, err := client.Series(ctx)
		if err != nil {
			fmt.Printf("  series: error: %v\n", err)
		}
		for _, s := range series {
			add("series", s.Name)
		}

		fmt.Printf("  %d live, %d vod, %d series\n", len(live), len(vod), len(series))
	}

	fmt.Printf("\nTotal unique titles: %d\n", len(results))

	if err := writeCSV(output, results); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	fmt.Printf("Written to %s\n", output)
	return nil
}

type record struct {
	Title    string
	Category string
	Source   string
}

func writeCSV(path string, records []record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"title", "category", "source"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write([]string{r.Title, r.Category, r.Source}); err != nil {
			return err
		}
	}
	return w.Error()
}
