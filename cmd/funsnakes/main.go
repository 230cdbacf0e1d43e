// funsnakes is the authoritative server for a multiplayer arcade snake
// game: many players steer growing snakes across a shared wrap-around
// arena over TCP (optionally TLS) or WebSocket.
//
// Usage:
//
//	funsnakes serve           - Run the game server
//	funsnakes scores          - Show the persisted leaderboard
//
// Global flags:
//
//	--config <path>  - YAML config file (default: search ~/.funsnakes, .)
//	--db <path>      - Identity/leaderboard database (default: from config)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "funsnakes",
	Short: "FunSnakes - multiplayer snake arena server",
	Long: `FunSnakes runs the authoritative world simulation for a realtime
multiplayer snake game. Clients connect over TCP (optionally TLS) or
WebSocket, steer their snake with direction vectors, and receive full
world snapshots a few times per tick interval.

Available commands:
  serve    - Run the game server
  scores   - Show the persisted leaderboard

Examples:
  funsnakes serve
  funsnakes serve --listen :5000 --max-players 30
  funsnakes serve --tls --cert server.crt --key server.key
  funsnakes scores`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to identity/leaderboard database")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
