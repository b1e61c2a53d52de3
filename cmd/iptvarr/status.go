package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server and source status",
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	fmt.Printf("Server:     %s\n", serverURL)
	fmt.Printf("Version:    %s\n", status.Version)
	fmt.Printf("Uptime:     %s\n", (time.Duration(status.Uptime) * time.Second).String())

	if len(status.Sources) == 0 {
		fmt.Println("\nNo sources configured")
		return nil
	}

	fmt.Printf("\n  %-20s %8s   %s\n", "SOURCE", "ITEMS", "LAST SYNC")
	for _, src := range status.Sources {
		lastSync := "never"
		if src.LastSyncedAt != "" {
			if t, err := time.Parse(time.RFC3339, src.LastSyncedAt); err == nil {
				lastSync = formatTimeAgo(t)
			}
		}
		fmt.Printf("  %-20s %8d   %s\n", truncate(src.Name, 20), src.Items, lastSync)
	}
	return nil
}
