package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Show partially watched items, most recent first",
	RunE:  runContinueCmd,
}

func init() {
	rootCmd.AddCommand(continueCmd)
	continueCmd.Flags().IntP("limit", "n", 10, "Number of entries to show")
}

func runContinueCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	client := NewClient(serverURL)
	entries, err := client.Continue(limit)
	if err != nil {
		return fmt.Errorf("failed to fetch continue list: %w", err)
	}

	if jsonOutput {
		printJSON(entries)
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("Nothing in progress")
		return nil
	}

	fmt.Printf("Continue watching:\n\n")
	for _, e := range entries {
		name := e.Progress.URL
		if e.Item != nil {
			name = e.Item.Title
			if e.Item.Season > 0 {
				name = fmt.Sprintf("%s S%02dE%02d", e.Item.Title, e.Item.Season, e.Item.Episode)
			}
		}
		percent := 0
		if e.Progress.DurationMS > 0 {
			percent = int(e.Progress.PositionMS * 100 / e.Progress.DurationMS)
		}
		played := ""
		if t, err := time.Parse(time.RFC3339, e.Progress.PlayedAt); err == nil {
			played = formatTimeAgo(t)
		}
		fmt.Printf("  %-44s %3d%%   %s\n", truncate(name, 44), percent, played)
	}
	return nil
}
