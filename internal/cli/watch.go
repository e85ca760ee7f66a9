package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"seltext/internal/daemon"
	"seltext/internal/watcher"
)

func watchCmd(flags *Flags) *cobra.Command {
	var (
		interval time.Duration
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the selection and print it whenever it changes",
		Long: `Poll the selection and print it whenever it changes.

Applications that only answer to the clipboard fallback receive a copy
keystroke on every poll.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(flags)
			if err != nil {
				return err
			}
			if interval > 0 {
				if err := cfg.SetPollInterval(interval); err != nil {
					return err
				}
			}
			defer SetupLogging(flags, cfg.Daemon.LogFile)()

			dm := daemon.New(cfg.Daemon.PIDFile)
			if err := dm.Acquire(); err != nil {
				return err
			}
			defer dm.RemovePID()

			a, err := NewApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var sink watcher.ErrorSink
			if a.recorder != nil {
				sink = a.recorder
			}

			out := cmd.OutOrStdout()
			svc := watcher.NewService(cfg, a.selector, sink, func(sel watcher.Selection) {
				printWatched(out, sel, asJSON)
			})

			log.Printf("main: starting watch mode\n%s", cfg.String())
			if err := svc.Start(ctx); err != nil && err != context.Canceled {
				return err
			}
			log.Println("main: watch mode stopped")
			return nil
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "poll interval (250ms..60s, default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per line")
	return cmd
}

func printWatched(w io.Writer, sel watcher.Selection, asJSON bool) {
	if asJSON {
		if err := json.NewEncoder(w).Encode(struct {
			Time   time.Time `json:"time"`
			Text   string    `json:"text"`
			Length int       `json:"length"`
		}{sel.At, sel.Text, len(sel.Text)}); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", sel.At.Format("15:04:05"), sel.Text)
}
