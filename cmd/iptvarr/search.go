package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the catalog by title",
	Long: `Search the catalog by title.

Matches on the normalized title, so quality and language tags in
provider names do not get in the way.

Examples:
  iptvarr search "The Matrix"
  iptvarr search breaking
  iptvarr search "Dark" --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "n", 25, "Maximum results")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	limit, _ := cmd.Flags().GetInt("limit")

	client := NewClient(serverURL)
	results, err := client.Search(query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(results)
		return nil
	}

	if len(results.Items) == 0 {
		fmt.Println("No items found")
		return nil
	}

	fmt.Printf("Found %d items for %q:\n\n", len(results.Items), query)
	printItemTable(results.Items)
	return nil
}

func printItemTable(items []ItemResponse) {
	fmt.Printf("  %5s │ %-42s │ %-14s │ %-7s │ %s\n", "ID", "TITLE", "TYPE", "QUALITY", "GROUP")
	fmt.Println("  ──────┼────────────────────────────────────────────┼────────────────┼─────────┼──────────")
	for _, item := range items {
		name := item.Title
		if item.Season > 0 {
			name = fmt.Sprintf("%s S%02dE%02d", item.Title, item.Season, item.Episode)
		}
		marker := " "
		if item.Favorite {
			marker = "*"
		}
		fmt.Printf("  %5d │ %-42s │ %-14s │ %-7s │ %s%s\n",
			item.ID, truncate(name, 42), item.Type, item.Quality, truncate(item.Group, 20), marker)
	}
}
