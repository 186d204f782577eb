package cli

import (
	"fmt"

	"github.com/phambaophuc/webp-converter/internal/config"
	"github.com/phambaophuc/webp-converter/internal/services/storage"
	"github.com/spf13/cobra"
)

func CacheCommands() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Redis conversion cache",
	}

	cacheCmd.AddCommand(purgeCacheCommand())
	return cacheCmd
}

func purgeCacheCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "purge",
		Short:   "Delete every cached conversion",
		Example: "REDIS_ADDR=localhost:6379 webpconv cache purge",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := storage.NewStorageService(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := store.PurgeCache(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached conversion(s)\n", deleted)
			return nil
		},
	}
}
