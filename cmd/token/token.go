package token

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/pokedex-go/internal/api"
	"github.com/tphakala/pokedex-go/internal/app"
)

// Command creates the token command, which signs a bearer token with the
// configured secret. Intended for development and scripted refreshes.
func Command(ctx *app.Context) *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sec := ctx.Settings.Security
			tok, err := api.NewTokenAuthenticator(sec.JWTSecret, sec.Issuer).Issue(user, ttl)
			if err != nil {
				return err
			}
			cmd.Println(tok)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "User id placed in the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
