package refresh

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tphakala/pokedex-go/internal/app"
	"github.com/tphakala/pokedex-go/internal/logger"
)

// Command creates the refresh command, which fills the cache store from PokéAPI.
func Command(ctx *app.Context) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Cache a range of Pokémon from PokéAPI",
		Long: "Fetches Pokémon ids offset+1 through offset+limit and stores them with their species.\n" +
			"Ids that are already cached are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(ctx, func(runCtx context.Context, a *app.App) error {
				result, err := a.Fetcher.RefreshCatalog(runCtx, limit, offset)
				if err != nil {
					return err
				}
				cmd.Printf("cached %d pokemon (fetched %d, skipped %d)\n", result.Cached, result.Fetched, result.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 151, "Number of ids to cache")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Number of ids to skip before the first cached id")

	cmd.AddCommand(regionalCommand(ctx))
	return cmd
}

func regionalCommand(ctx *app.Context) *cobra.Command {
	var dex, form string

	cmd := &cobra.Command{
		Use:   "regional",
		Short: "Cache every entry of a regional Pokédex",
		Long:  "Fetches a regional Pokédex and caches each entry's regional form when one exists.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(ctx, func(runCtx context.Context, a *app.App) error {
				result, err := a.Fetcher.RefreshRegional(runCtx, dex, form)
				if err != nil {
					return err
				}
				cmd.Printf("%s: %d entries, cached %d, skipped %d, failed %d\n",
					result.Dex, result.Entries, result.Cached, result.Skipped, result.Failed)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dex, "dex", "paldea", "Regional Pokédex name")
	cmd.Flags().StringVar(&form, "form", "", "Preferred form suffix, e.g. paldea, hisui, galar, alola")
	return cmd
}

// withApp builds the application, runs fn with a context cancelled on
// SIGINT or SIGTERM, and closes the application.
func withApp(ctx *app.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.New(ctx.Settings, ctx.Build)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Warn("error closing application", logger.Error(err))
		}
	}()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fn(runCtx, a); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	return nil
}
