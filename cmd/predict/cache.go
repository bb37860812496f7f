package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(flags *rootFlags) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the sentiment cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached sentiment reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, flags.configPath)
			if err != nil {
				return err
			}

			c, err := initializeCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Clear(ctx); err != nil {
				return fmt.Errorf("clear sentiment cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sentiment cache cleared (%s %s)\n", cfg.Cache.Backend, cfg.Cache.Dir)
			return nil
		},
	})
	return cacheCmd
}
