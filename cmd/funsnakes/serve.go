package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/RishithSahu/FunSnakes/internal/config"
	"github.com/RishithSahu/FunSnakes/internal/server"
)

var (
	flagListen     string
	flagWSListen   string
	flagMaxPlayers int
	flagTLS        bool
	flagCert       string
	flagKey        string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	Long: `Run the authoritative game server.

The server accepts one TCP connection per player, optionally wrapped in
TLS (the certificate may be self-signed; clients are expected to accept
it without verification), plus an optional WebSocket endpoint for
browser clients. A fixed-rate simulation loop drives the world and
broadcasts snapshots to every connection.

Flags override the corresponding config file fields.

Examples:
  funsnakes serve
  funsnakes serve --listen :5000 --max-players 30
  funsnakes serve --tls --cert server.crt --key server.key
  funsnakes serve --ws :8080 --db ~/.funsnakes/identities.db`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "TCP listen address (host:port)")
	serveCmd.Flags().StringVar(&flagWSListen, "ws", "", "WebSocket listen address (host:port, empty = disabled)")
	serveCmd.Flags().IntVar(&flagMaxPlayers, "max-players", 0, "Maximum concurrent players")
	serveCmd.Flags().BoolVar(&flagTLS, "tls", false, "Wrap the TCP listener in TLS")
	serveCmd.Flags().StringVar(&flagCert, "cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&flagKey, "key", "", "TLS private key file")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagListen != "" {
		cfg.Server.Listen = flagListen
	}
	if flagWSListen != "" {
		cfg.Server.WSListen = flagWSListen
	}
	if flagMaxPlayers > 0 {
		cfg.Server.MaxPlayers = flagMaxPlayers
	}
	if flagDBPath != "" {
		cfg.Server.DB = flagDBPath
	}
	if flagTLS {
		cfg.TLS.Enabled = true
	}
	if flagCert != "" {
		cfg.TLS.Cert = flagCert
	}
	if flagKey != "" {
		cfg.TLS.Key = flagKey
	}
	if cfg.TLS.Enabled && (cfg.TLS.Cert == "" || cfg.TLS.Key == "") {
		return fmt.Errorf("TLS enabled but --cert/--key not provided")
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "funsnakes",
	})

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		logger.Info("shutting down...")
		srv.Shutdown()
	}()

	return srv.ListenAndServe()
}
