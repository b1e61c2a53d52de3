package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [source-id]",
	Short: "Trigger a catalog sync",
	Long: `Trigger a catalog sync.

With a source ID, syncs that source and waits for the result.
Without arguments, kicks off a background pass over all sources.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSyncCmd,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSyncCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	if len(args) == 0 {
		if err := client.SyncAll(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		fmt.Println("Sync started for all sources")
		return nil
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid source id %q", args[0])
	}

	result, err := client.SyncSource(id)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}
	fmt.Printf("Sync complete: %d added, %d updated, %d removed, %d unchanged\n",
		result.Inserted, result.Updated, result.Deleted, result.Unchanged)
	return nil
}
