package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Stream race events over the websocket",
		Long: `Connect to a race's websocket endpoint and stream events in real-time.

Connecting joins the race, and the first event is a full state snapshot.
Events include:
  - sync_state: Full race snapshot for this client
  - player_joined: A player joined the roster
  - player_ready / player_not_ready: Readiness changed
  - race_ready / race_waiting: Aggregate readiness changed
  - race_started: The race began
  - boat_updated: The boat advanced a step
  - winner: The race finished

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchRace(args[0])
		},
	}

	return cmd
}

func watchRace(raceID string) error {
	conn, err := dialRace(raceID)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.Close()
	}()

	if cfg.Output != "json" {
		fmt.Printf("Watching race %s\n", raceID)
	}

	out := NewOutput(cfg.Output)
	for {
		var ev wsEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if cfg.Output != "json" {
					fmt.Println("Disconnected")
				}
				return nil
			}
			// Interrupt closes the connection out from under the read
			if cfg.Output != "json" {
				fmt.Println("\nDisconnected")
			}
			return nil
		}

		printWSEvent(out, ev)
	}
}
