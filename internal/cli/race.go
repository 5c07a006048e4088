package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "Race management commands",
	}

	cmd.AddCommand(newRaceCreateCmd())
	cmd.AddCommand(newRaceListCmd())
	cmd.AddCommand(newRaceGetCmd())
	cmd.AddCommand(newRaceJoinCmd())
	cmd.AddCommand(newRaceReadyCmd())
	cmd.AddCommand(newRaceStartCmd())
	cmd.AddCommand(newRaceClickCmd())
	cmd.AddCommand(newRaceLeaveCmd())

	return cmd
}

func newRaceCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new race",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Race

			if err := client.Post("/api/v1/races", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRaceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List races",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RaceList

			if err := client.Get("/api/v1/races", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRaceGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get race details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Race

			if err := client.Get(fmt.Sprintf("/api/v1/races/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRaceJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <id>",
		Short: "Join a race's roster",
		Long:  "Join a race's roster over HTTP. Use 'race ready' or 'watch' to open a live connection afterwards.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Race

			if err := client.Post(fmt.Sprintf("/api/v1/races/%s/join", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRaceReadyCmd() *cobra.Command {
	var screen int

	cmd := &cobra.Command{
		Use:   "ready <id>",
		Short: "Pick a screen and mark yourself ready",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := map[string]any{"action": "choose_screen", "screen": screen}
			return sendAction(args[0], msg, "player_ready")
		},
	}

	cmd.Flags().IntVar(&screen, "screen", 0, "Screen number, 1..player count (required)")
	_ = cmd.MarkFlagRequired("screen")

	return cmd
}

func newRaceStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start the race (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := map[string]any{"action": "start"}
			return sendAction(args[0], msg, "race_started")
		},
	}
}

func newRaceClickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "click <id>",
		Short: "Click the boat to claim victory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := map[string]any{"action": "click_boat"}
			return sendAction(args[0], msg, "winner")
		},
	}
}

func newRaceLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Leaving mid-race forfeits; before the start it is a no-op
			// server-side, so don't wait for a confirmation event.
			msg := map[string]any{"action": "leave"}
			if err := sendFireAndForget(args[0], msg); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left race %s", args[0]))
			return nil
		},
	}
}
