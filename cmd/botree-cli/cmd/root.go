package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"botree/internal/adapters/memtree"
	"botree/internal/adapters/sqlite"
	"botree/internal/application"
	"botree/internal/config"
	"botree/internal/logging"
)

var cfg = loadConfig()

var (
	dbPath  string
	store   *sqlite.Store
	view    *memtree.View
	session *application.Session
)

var rootCmd = &cobra.Command{
	Use:   "botree-cli",
	Short: "CLI for browsing and editing object graphs",
	Long: `botree-cli works on an object graph stored in a SQLite database.

It prints the graph as a tree at a chosen depth, finds objects, and adds,
removes, moves and renames them. Graphs can be imported from and exported
to YAML fixtures.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		log := logging.New()
		store = sqlite.NewStore(log)
		if err := store.Open(dbPath); err != nil {
			return err
		}
		view = memtree.New()
		session = application.NewSession(view, store, log)
		return session.Load(context.Background())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		return store.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath(), "path to the database")
}

func loadConfig() config.Config {
	c, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		return config.DefaultConfig()
	}
	return c
}

// GetSession returns the session loaded from the database
func GetSession() *application.Session {
	return session
}
