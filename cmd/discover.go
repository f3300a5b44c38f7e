package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newDiscoverCmd creates the 'discover' subcommand, a one-shot fetch of the
// listing page that prints the discovered projects as JSON.
func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Fetches the listing page once and prints the projects",
		Long: `Performs a single scrape of the configured listing page and writes the
discovered projects to stdout as JSON. No analysis is performed; records
come out unanalyzed. Useful for checking selectors against a live page.`,

		RunE: runDiscoverCommand,
	}
	return cmd
}

func runDiscoverCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	projects := appInstance.Pipeline().LoadAll(cmd.Context())
	appInstance.Logger().Info("Discovery complete", zap.Int("projects", len(projects)))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(projects); err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	return nil
}
