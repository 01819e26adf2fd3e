package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"vellum/internal/document"
	"vellum/internal/logger"
	"vellum/internal/schema"
	"vellum/internal/settings"
	"vellum/internal/tui"
)

const usage = `usage: vellum [flags] FILE...
       vellum [flags] run [-write] [-verify] [-width N] FILE KEYS

Flags:
`

func main() {
	settingsPath := flag.String("settings", "", "settings file (default ~/.local/share/vellum/settings.json)")
	settingsDB := flag.String("settings-db", "", "keep settings in this SQLite database instead of a JSON file")
	logDir := flag.String("log-dir", "logs", "directory for vellum.log and edits.log")
	debounce := flag.Duration("debounce", -1, "status bar debounce window (overrides the stored setting)")
	gWindow := flag.Duration("g-window", -1, "maximum time between the two presses of gg (overrides the stored setting)")
	systemClipboard := flag.Bool("system-clipboard", false, "mirror the yank register to the system clipboard")
	printSchema := flag.Bool("print-settings-schema", false, "print the JSON schema of the settings file and exit")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *printSchema {
		data, err := schema.GenerateJSON[settings.Settings]()
		if err != nil {
			log.Fatalf("Failed to generate schema: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	// Initialize logger
	if err := logger.Init(*logDir); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()
	logger.Debug("Starting vellum...")

	store, err := openStore(*settingsPath, *settingsDB)
	if err != nil {
		log.Fatalf("Failed to open settings: %v", err)
	}
	defer store.Close()

	cfg, err := store.Load()
	if err != nil {
		logger.Error("Failed to load settings, using defaults: %v", err)
	}
	if *debounce >= 0 {
		cfg.DebounceMS = int(*debounce / time.Millisecond)
	}
	if *gWindow > 0 {
		cfg.GWindowMS = int(*gWindow / time.Millisecond)
	}
	if *systemClipboard {
		cfg.SystemClipboard = true
	}

	args := flag.Args()
	if len(args) > 0 && args[0] == "run" {
		// Non-interactive mode: vellum run FILE KEYS
		if err := runNonInteractive(cfg, store, args[1:]); err != nil {
			log.Printf("Error: %s\n", err.Error())
			os.Exit(1)
		}
		return
	}

	docs, err := loadDocuments(args)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := tui.Run(tui.Options{Documents: docs, Settings: cfg, Store: store}); err != nil {
		log.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}
}

func openStore(path, dbPath string) (settings.Store, error) {
	if dbPath != "" {
		return settings.OpenSQLite(dbPath)
	}
	if path == "" {
		var err error
		if path, err = settings.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return settings.NewFileStore(path)
}

func loadDocuments(paths []string) ([]*document.Document, error) {
	var docs []*document.Document
	for _, p := range paths {
		doc, err := document.Load(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// runNonInteractive replays a key sequence over one document and prints the
// resulting source, optionally saving it
func runNonInteractive(cfg settings.Settings, store settings.Store, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	write := fs.Bool("write", false, "save the document after replaying the keys")
	width := fs.Int("width", 80, "render width in cells")
	verify := fs.Bool("verify", false, "check that the edit journal rebuilds the result from the original text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("run needs FILE and KEYS")
	}

	doc, err := document.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	original := doc.Source
	cfg.SystemClipboard = false
	m, err := tui.Replay(tui.Options{
		Documents: []*document.Document{doc},
		Settings:  cfg,
		Store:     store,
	}, *width, 24, fs.Arg(1))
	if err != nil {
		return err
	}
	if *verify {
		rebuilt, err := m.Rebuild(original)
		if err != nil {
			return fmt.Errorf("edit journal does not replay: %w", err)
		}
		if rebuilt != m.Document().Source {
			return fmt.Errorf("edit journal rebuilds a different text")
		}
		logger.Info("Edit journal verified for %s", doc.Name)
	}
	if *write && doc.Modified() {
		if err := doc.Save(); err != nil {
			return err
		}
	}
	fmt.Print(m.Document().Source)
	return nil
}
