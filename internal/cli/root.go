// Package cli implements queryctl, the operator command line for the engine.
package cli

import (
	"github.com/spf13/cobra"

	"querydesk.app/engine/core/config"
	"querydesk.app/engine/internal/client"
)

// NewRootCommand builds the queryctl command tree. API commands talk to the
// server through client; maintenance commands open the database directly.
func NewRootCommand(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "queryctl",
		Short:         "Operate the querydesk query workflow engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var apiURL string
	root.PersistentFlags().StringVar(&apiURL, "api", cfg.Client.BaseURL, "querydesk API base URL")

	newClient := func() *client.Client {
		return client.New(apiURL, cfg.Client.Timeout)
	}

	root.AddCommand(
		newMigrateCommand(cfg),
		newWatchCommand(cfg, newClient),
		newThreadCommand(cfg, newClient),
		newActCommand(newClient),
		newReportCommand(cfg, newClient),
		newRosterCommand(cfg),
	)
	return root
}
