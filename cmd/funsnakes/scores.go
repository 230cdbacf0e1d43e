package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RishithSahu/FunSnakes/internal/config"
	"github.com/RishithSahu/FunSnakes/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the persisted leaderboard",
	Long: `Display the top 10 best scores per player name, as recorded by a
server running with an identity database.

Examples:
  funsnakes scores --db ~/.funsnakes/identities.db`,
	RunE: runScores,
}

func runScores(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	dbPath := cfg.Server.DB
	if flagDBPath != "" {
		dbPath = flagDBPath
	}
	if dbPath == "" {
		return fmt.Errorf("no database configured; pass --db or set server.db in the config")
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.TopScores(10)
	if err != nil {
		return err
	}

	fmt.Println("High Scores")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-20s  %-10s  %s\n", "Rank", "Name", "Score", "Last seen")
	fmt.Printf("  %-4s  %-20s  %-10s  %s\n", "----", "----", "-----", "---------")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-20s  %-10d  %s\n", i+1, e.Name, e.BestScore, e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
