package serve

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/pokedex-go/internal/api"
	"github.com/tphakala/pokedex-go/internal/app"
	"github.com/tphakala/pokedex-go/internal/logger"
)

// Command creates the serve command, which runs the HTTP API until interrupted.
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Pokédex JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx)
		},
	}

	if err := setupFlags(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("host", "", "Listen host")
	cmd.Flags().StringP("port", "p", "", "Listen port")

	for key, flag := range map[string]string{"webserver.host": "host", "webserver.port": "port"} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flags: %w", err)
		}
	}
	return nil
}

func run(ctx *app.Context) error {
	a, err := app.New(ctx.Settings, ctx.Build)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Warn("error closing application", logger.Error(err))
		}
	}()

	sec := ctx.Settings.Security
	server, err := api.New(ctx.Settings, a.Query,
		api.WithRefresher(a.Fetcher),
		api.WithAuthenticator(api.NewTokenAuthenticator(sec.JWTSecret, sec.Issuer)),
		api.WithHTTPMetrics(a.Metrics.HTTP, a.Metrics.Handler()),
		api.WithLogger(logger.Global().Module("api")),
		api.WithVersion(ctx.Build.GetVersion()),
	)
	if err != nil {
		return err
	}

	return server.StartWithGracefulShutdown()
}
