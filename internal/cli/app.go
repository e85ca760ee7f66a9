package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"seltext/internal/config"
	"seltext/internal/database"
	"seltext/internal/journal"
	"seltext/pkg/detector"
	"seltext/pkg/selection"
)

// App bundles what the selection commands share
type App struct {
	cfg        *config.Config
	components *detector.Components
	selector   *selection.Selector

	db       *database.DB
	recorder *journal.Recorder
}

// LoadConfig loads the configuration and applies the flag overrides
func LoadConfig(flags *Flags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if flags.Backend != "" {
		if err := cfg.SetClipboardBackend(flags.Backend); err != nil {
			return nil, err
		}
	}
	if flags.Keystroke != "" {
		if err := cfg.SetKeystroke(flags.Keystroke); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// SetupLogging sends the log to stderr with --verbose, to logFile when given,
// and discards it otherwise. The returned func closes the file.
func SetupLogging(flags *Flags, logFile string) func() {
	if flags.Verbose {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	if logFile == "" {
		log.SetOutput(io.Discard)
		return func() {}
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(f)
	return func() { f.Close() }
}

// NewApp builds the platform selector and, when enabled, attaches the journal
func NewApp(cfg *config.Config) (*App, error) {
	components, err := detector.New(cfg.DetectorOptions())
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize window detector")
	}

	a := &App{
		cfg:        cfg,
		components: components,
		selector:   components.Selector(selection.SharedCache()),
	}
	log.Printf("main: window detector initialized: %s", components.Detector.GetDisplayServer())

	if cfg.Journal.Enabled {
		db, err := database.Open(cfg.Journal.Path)
		if err != nil {
			// the journal is optional, extraction still works without it
			log.Printf("main: journal disabled: %v", err)
			return a, nil
		}
		a.db = db
		a.recorder = journal.NewRepositoryRecorder(database.NewRepository(db))
		a.selector.SetObserver(a.recorder)
	}
	return a, nil
}

// RecordError journals a failed call when the journal is open
func (a *App) RecordError(source string, err error) {
	if a.recorder != nil {
		a.recorder.RecordError(source, err)
	}
}

// PrintSelection runs one extraction and prints non-empty text to out.
// Failures other than an empty selection are journaled under source.
func (a *App) PrintSelection(out io.Writer, source string) {
	text, err := a.selector.GetSelectedText()
	switch {
	case err == nil && text != "":
		fmt.Fprintln(out, text)
	case err == nil, errors.Is(err, selection.ErrNoSelection):
		log.Println("main: nothing selected")
	default:
		log.Printf("main: extraction failed: %v", err)
		a.RecordError(source, err)
	}
}

// Close logs what the strategy cache learned and releases the journal and
// the platform connections
func (a *App) Close() {
	if entries := a.selector.Cache().Entries(); len(entries) > 0 {
		log.Printf("main: learned strategies: %s", formatStrategies(entries))
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.components != nil {
		if err := a.components.Close(); err != nil {
			log.Printf("main: error closing components: %v", err)
		}
	}
}

func formatStrategies(entries []selection.Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.AppID+"="+e.Strategy.String())
	}
	return strings.Join(parts, ", ")
}

// OpenRepository opens the journal for the report and clear commands
func OpenRepository(cfg *config.Config) (*database.DB, *database.Repository, error) {
	db, err := database.Open(cfg.Journal.Path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open journal")
	}
	return db, database.NewRepository(db), nil
}
