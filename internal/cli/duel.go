package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/kafanski-duel/internal/api/request"
	"github.com/mcoot/kafanski-duel/internal/api/response"
)

func newLobbyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lobby",
		Short: "List your challenges, duels and who you can challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Lobby

			if err := client.Get(cmd.Context(), "/api/v1/duels", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newChallengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge <player-id>",
		Short: "Challenge another player to a duel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Duel

			body := request.CreateDuelRequest{OpponentID: args[0]}
			if err := client.Post(cmd.Context(), "/api/v1/duels", body, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

// duelCmd builds a command that POSTs to a duel sub-resource and prints the duel
func duelCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <duel-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Duel

			path := fmt.Sprintf("/api/v1/duels/%s/%s", args[0], action)
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newAcceptCmd() *cobra.Command {
	return duelCmd("accept", "Accept a challenge", "accept")
}

func newDeclineCmd() *cobra.Command {
	return duelCmd("decline", "Decline a challenge", "decline")
}

func newSurrenderCmd() *cobra.Command {
	return duelCmd("surrender", "Give up the duel and pay the bill", "surrender")
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <duel-id>",
		Short: "Show the current state of a duel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Duel

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/duels/%s", args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newActCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "act <duel-id> <action>",
		Short: "Play an action on your turn",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ActionResult

			body := request.SubmitActionRequest{Action: args[1]}
			path := fmt.Sprintf("/api/v1/duels/%s/actions", args[0])
			if err := client.Post(cmd.Context(), path, body, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <duel-id>",
		Short: "Poll a duel until it is your turn or the duel is over",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			out := output(cmd)
			var onChange func(response.Duel)
			if cfg.Verbose {
				onChange = func(d response.Duel) {
					out.PrintMessage(fmt.Sprintf("duel %s: %s, turn %d", d.ID, d.Status, d.TurnNumber))
				}
			}

			final, err := Watch(ctx, client, args[0], interval, onChange)
			if err != nil {
				return err
			}

			out.Print(final)
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 3*time.Second, "Polling interval")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits forever)")

	return cmd
}
