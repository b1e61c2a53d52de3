package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List catalog items",
	Long: `List catalog items.

Examples:
  iptvarr items --type movie
  iptvarr items --group "Documentaries" --limit 50
  iptvarr items --favorites`,
	RunE: runItemsCmd,
}

var versionsCmd = &cobra.Command{
	Use:   "versions <item-id>",
	Short: "List all versions of a title across sources",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionsCmd,
}

var nextCmd = &cobra.Command{
	Use:   "next <item-id>",
	Short: "Show the episode that follows the given one",
	Args:  cobra.ExactArgs(1),
	RunE:  runNextCmd,
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <item-id>",
	Short: "Mark an item as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoriteCmd,
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.Flags().String("type", "", "Filter by type (live, movie, series, series_episode)")
	itemsCmd.Flags().String("group", "", "Filter by provider group")
	itemsCmd.Flags().Bool("favorites", false, "Only favorites")
	itemsCmd.Flags().IntP("limit", "n", 50, "Maximum results")

	rootCmd.AddCommand(versionsCmd)
	versionsCmd.Flags().String("language", "", "Preferred language for best pick")
	versionsCmd.Flags().String("resolution", "", "Preferred resolution for best pick")

	rootCmd.AddCommand(nextCmd)

	rootCmd.AddCommand(favoriteCmd)
	favoriteCmd.Flags().Bool("remove", false, "Remove the favorite flag")
}

func runItemsCmd(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	if v, _ := cmd.Flags().GetString("type"); v != "" {
		params.Set("type", v)
	}
	if v, _ := cmd.Flags().GetString("group"); v != "" {
		params.Set("group", v)
	}
	if v, _ := cmd.Flags().GetBool("favorites"); v {
		params.Set("favorite", "true")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	params.Set("limit", strconv.Itoa(limit))

	client := NewClient(serverURL)
	results, err := client.Items(params)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	if jsonOutput {
		printJSON(results)
		return nil
	}

	if len(results.Items) == 0 {
		fmt.Println("No items")
		return nil
	}
	fmt.Printf("%d of %d items:\n\n", len(results.Items), results.Total)
	printItemTable(results.Items)
	return nil
}

func runVersionsCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}
	language, _ := cmd.Flags().GetString("language")
	resolution, _ := cmd.Flags().GetString("resolution")

	client := NewClient(serverURL)
	resp, err := client.Versions(id, language, resolution)
	if err != nil {
		return fmt.Errorf("failed to fetch versions: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	printItemTable(resp.Versions)
	if resp.Best != nil {
		fmt.Printf("\nBest match: [%d] %s (%s)\n", resp.Best.ID, resp.Best.RawTitle, resp.Best.Quality)
	}
	return nil
}

func runNextCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}

	client := NewClient(serverURL)
	next, err := client.NextEpisode(id)
	if err != nil {
		return fmt.Errorf("failed to resolve next episode: %w", err)
	}
	if next == nil {
		fmt.Println("No next episode (end of series)")
		return nil
	}

	if jsonOutput {
		printJSON(next)
		return nil
	}
	fmt.Printf("[%d] %s S%02dE%02d (%s)\n%s\n",
		next.ID, next.Title, next.Season, next.Episode, next.Quality, next.URL)
	return nil
}

func runFavoriteCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}
	remove, _ := cmd.Flags().GetBool("remove")

	client := NewClient(serverURL)
	item, err := client.SetFavorite(id, !remove)
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	if jsonOutput {
		printJSON(item)
		return nil
	}
	if item.Favorite {
		fmt.Printf("Favorited %q\n", item.Title)
	} else {
		fmt.Printf("Unfavorited %q\n", item.Title)
	}
	return nil
}
