package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"botree/internal/adapters/editor"
	"botree/internal/adapters/fixture"
	"botree/internal/adapters/sqlite"
	"botree/internal/adapters/tui"
	"botree/internal/adapters/tui/views"
	"botree/internal/application"
	"botree/internal/config"
	"botree/internal/logging"
	"botree/internal/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dbFlag := flag.String("db", cfg.DBPath(), "path to the database")
	fixtureFlag := flag.String("fixture", cfg.Fixture, "browse a YAML fixture instead of the database")
	watchFlag := flag.Bool("watch", cfg.Watch, "reload the fixture when it changes on disk")
	expandFlag := flag.Int("expand", cfg.Tree.Expand, "levels built up front, -1 for all")
	displayFlag := flag.Int("display", cfg.Tree.Display, "levels that show relationships, -1 for all")
	rootFlag := flag.String("root", "", "show only the object with this ID")
	flag.Parse()

	log := logging.New()

	var store ports.ObjectStore
	source := *dbFlag
	if *fixtureFlag != "" {
		store = fixture.NewFileStore(*fixtureFlag)
		source = *fixtureFlag
		if err := store.Open(*fixtureFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		store = sqlite.NewStore(log)
		if err := store.Open(*dbFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer store.Close()

	tree := views.NewTreeModel()
	session := application.NewSession(tree, store, log)

	var options []tui.Option
	if *watchFlag && *fixtureFlag != "" {
		w, err := fixture.NewWatcher(*fixtureFlag, fixture.WithOnError(func(err error) {
			log.Warn("fixture watch", "error", err)
		}))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := w.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer w.Stop()
		options = append(options, tui.WithWatcher(w))
	}
	if *fixtureFlag != "" {
		options = append(options, tui.WithEditor(editor.NewOpener(), *fixtureFlag))
	}

	app := tui.NewApp(session, tree, views.BrowserOptions{
		Source:        source,
		RootID:        *rootFlag,
		ExpandLevels:  *expandFlag,
		DisplayLevels: *displayFlag,
	}, options...)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
