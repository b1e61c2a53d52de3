package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/iptvarr/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.toml",
	Long: `Write a starter config.toml in the current directory.

Provider credentials are referenced as ${IPTV_USERNAME} and
${IPTV_PASSWORD} so they stay out of the file.`,
	RunE: runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite existing config.toml")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configPath := "config.toml"

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config.toml already exists, use --force to overwrite")
	}

	if err := config.WriteDefault(configPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote %s\n", configPath)

	missing, err := config.MissingEnvVars(configPath)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		fmt.Println("\nSet these environment variables before starting the server:")
		for _, name := range missing {
			fmt.Printf("  export %s=...\n", name)
		}
	}
	return nil
}
