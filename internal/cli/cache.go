package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdraw/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openCache(ctx, location, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			ok, err := cache.Clear(ctx, store)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if !ok {
				printWarning("Cache backend cannot be cleared")
				return nil
			}
			printSuccess("Cleared cache")
			printDetail("Location: %s", cacheLocation(location))
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "cache", "", "cache location (default $ARCHDRAW_CACHE or ~/.cache/archdraw)")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := cacheLocation(location)
			if loc == "" {
				return fmt.Errorf("no cache location available")
			}
			_, err := fmt.Fprintln(c.Out, loc)
			return err
		},
	}

	cmd.Flags().StringVar(&location, "cache", "", "cache location (default $ARCHDRAW_CACHE or ~/.cache/archdraw)")
	return cmd
}
