package cli

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/kafanski-duel/internal/api/response"
	"github.com/mcoot/kafanski-duel/internal/dependencies/clock"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/auth"
)

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the player the token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player

			if err := client.Get(cmd.Context(), "/api/v1/players/me", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List every action the kafana serves",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.CatalogCategory

			if err := client.Get(cmd.Context(), "/api/v1/actions", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newDevTokenCmd() *cobra.Command {
	var (
		identity model.Player
		secret   string
		issuer   string
		audience string
		ttl      time.Duration
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "dev-token <player-id>",
		Short: "Mint an identity token for local development",
		Long: `Mint an HS256 identity token signed with the server's shared secret.

Only useful against servers you run yourself; production tokens come from the
identity provider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or DUEL_JWT_SECRET is required")
			}
			identity.ID = model.PlayerID(args[0])

			tokens := auth.NewTokens(auth.Config{
				Secret:   []byte(secret),
				Issuer:   issuer,
				Audience: audience,
			}, clock.New())
			token, err := tokens.Issue(identity, ttl)
			if err != nil {
				return err
			}

			if save {
				if err := cfg.SaveToken(token); err != nil {
					return err
				}
			}

			output(cmd).Print(TokenResult{
				PlayerID:  args[0],
				Token:     token,
				ExpiresIn: ttl.String(),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("DUEL_JWT_SECRET"), "Shared signing secret (env: DUEL_JWT_SECRET)")
	cmd.Flags().StringVar(&issuer, "issuer", os.Getenv("DUEL_JWT_ISSUER"), "Token issuer (env: DUEL_JWT_ISSUER)")
	cmd.Flags().StringVar(&audience, "audience", os.Getenv("DUEL_JWT_AUDIENCE"), "Token audience (env: DUEL_JWT_AUDIENCE)")
	cmd.Flags().StringVar(&identity.Username, "username", "", "Username claim")
	cmd.Flags().StringVar(&identity.FirstName, "first-name", "", "First name claim")
	cmd.Flags().StringVar(&identity.ClownName, "clown-name", "", "Clown name claim")
	cmd.Flags().IntVar(&identity.Level, "level", 0, "Level claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().BoolVar(&save, "save", false, "Save the token to the token file")

	return cmd
}
