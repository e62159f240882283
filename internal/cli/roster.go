package cli

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"querydesk.app/engine/core/config"
	"querydesk.app/engine/internal/service"
)

func newRosterCommand(cfg config.Config) *cobra.Command {
	roster := &cobra.Command{
		Use:   "roster",
		Short: "Manage the cached personnel roster",
	}

	roster.AddCommand(&cobra.Command{
		Use:   "reload",
		Short: "Drop the cached roster so the next assignment reloads personnel",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := redis.ParseURL(cfg.Events.RedisURL)
			if err != nil {
				return fmt.Errorf("parsing REDIS_URL: %w", err)
			}
			client := redis.NewClient(opts)
			defer client.Close()

			cached := service.NewCachedRoster(client, nil, cfg.Roster.CacheKey, cfg.Roster.CacheTTL)
			if err := cached.Invalidate(cmd.Context()); err != nil {
				return fmt.Errorf("invalidating roster cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "roster cache cleared")
			return nil
		},
	})

	return roster
}
