package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"seltext/internal/cli"
	"seltext/internal/daemon"
	"seltext/internal/hotkey"
)

func rootCmd() *cobra.Command {
	var (
		combo      string
		background bool
	)

	root, flags := cli.NewRoot(appName, "Print the selection each time the global hotkey is released")
	root.Long = `Print the selection each time the global hotkey is released.

With --background the listener detaches from the terminal; its output is
discarded and presses are only visible in the journal and the log file.
Stop it with "seltext stop".`
	root.Args = cobra.NoArgs
	root.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(flags)
		if err != nil {
			return err
		}
		if combo != "" {
			cfg.Hotkey.Combo = combo
		}
		if err := hotkey.Validate(cfg.Hotkey.Combo); err != nil {
			return err
		}

		dm := daemon.New(cfg.Daemon.PIDFile)
		if running, pid, err := dm.IsRunning(); err != nil {
			return err
		} else if running {
			return errors.Errorf("seltext is already running (PID: %d)", pid)
		}

		if background && !cli.IsDaemonChild() {
			pid, err := cli.Daemonize()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listener started (PID: %d)\n", pid)
			fmt.Fprintf(cmd.OutOrStdout(), "Logs: %s\n", cfg.Daemon.LogFile)
			return nil
		}

		defer cli.SetupLogging(flags, cfg.Daemon.LogFile)()

		if err := dm.Acquire(); err != nil {
			return err
		}
		defer dm.RemovePID()

		a, err := cli.NewApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := hotkey.NewService(cfg.Hotkey.Combo)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		if err := svc.Start(ctx, func() { a.PrintSelection(out, "listen") }); err != nil {
			return err
		}
		defer svc.Stop()

		log.Printf("main: listening on %s\n%s", svc.Combo(), cfg.String())
		if !cli.IsDaemonChild() {
			fmt.Fprintf(out, "Press %s to print the selection, Ctrl+C to quit\n", svc.Combo())
		}

		select {
		case <-ctx.Done():
		case <-svc.Done():
		}
		log.Println("main: listener stopped")
		return nil
	}

	root.Flags().StringVarP(&combo, "hotkey", "k", "", "hotkey combo, e.g. ctrl+shift+c (default from config)")
	root.Flags().BoolVarP(&background, "background", "b", false, "detach and keep listening in the background")
	root.AddCommand(cli.VersionCmd(appName))
	return root
}
