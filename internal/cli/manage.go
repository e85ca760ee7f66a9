package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"seltext/internal/daemon"
	"seltext/internal/reporter"
	"seltext/pkg/detector"
	"seltext/pkg/integrations/hybrid"
	"seltext/pkg/utils"
	"seltext/pkg/window"
)

func stopCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running watch or seltext-listen process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(flags)
			if err != nil {
				return err
			}
			dm := daemon.New(cfg.Daemon.PIDFile)

			running, pid, err := dm.IsRunning()
			if err != nil {
				return err
			}
			if !running {
				fmt.Fprintln(cmd.OutOrStdout(), "seltext is not running")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stopping seltext (PID: %d)...\n", pid)
			if err := dm.Stop(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stopped")
			return nil
		},
	}
}

func statusCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the background process, the detectors and the focused app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(flags)
			if err != nil {
				return err
			}
			defer SetupLogging(flags, "")()
			out := cmd.OutOrStdout()

			running, pid, err := daemon.New(cfg.Daemon.PIDFile).IsRunning()
			if err != nil {
				return err
			}
			if running {
				fmt.Fprintf(out, "Status: Running (PID: %d)\n", pid)
			} else {
				fmt.Fprintln(out, "Status: Not running")
			}
			fmt.Fprintf(out, "Session: %s\n", detector.DetectDisplayServer())

			components, err := detector.New(cfg.DetectorOptions())
			if err != nil {
				fmt.Fprintf(out, "\nCould not detect current window: %v\n", err)
				return nil
			}
			defer components.Close()

			fmt.Fprintf(out, "\nMechanisms:\n")
			fmt.Fprintf(out, "  Accessibility: %s\n", components.Accessibility.Name())
			fmt.Fprintf(out, "  Clipboard: %s\n", components.Clipboard.Name())

			if chain, ok := components.Detector.(*hybrid.Detector); ok {
				fmt.Fprintf(out, "\nWindow Detectors:\n")
				for _, d := range chain.GetAllDetectors() {
					fmt.Fprintf(out, "  %s (available: %v)\n", d.DisplayServer, d.Available)
				}
			}

			windowInfo, err := components.Detector.GetFocusedWindow()
			if err == nil && windowInfo != nil {
				fmt.Fprintf(out, "\nCurrent Window:\n")
				fmt.Fprintf(out, "  App: %s\n", window.AppID(windowInfo))
				fmt.Fprintf(out, "  Title: %s\n", windowInfo.WindowTitle)
				fmt.Fprintf(out, "  Display: %s\n", windowInfo.DisplayServer)
			}

			if !cfg.Journal.Enabled {
				return nil
			}
			db, repo, err := OpenRepository(cfg)
			if err != nil {
				return nil
			}
			defer db.Close()

			latest, err := repo.GetLatest()
			if err == nil && latest != nil {
				fmt.Fprintf(out, "\nLast Extraction (%s ago):\n", utils.FormatAge(time.Since(latest.Timestamp)))
				fmt.Fprintf(out, "  App: %s\n", latest.AppName)
				fmt.Fprintf(out, "  Mechanism: %s (pinned: %v)\n", latest.Mechanism, latest.Pinned)
				fmt.Fprintf(out, "  Outcome: %s in %s\n", latest.Outcome, utils.FormatLatency(float64(latest.LatencyMs)))
			}
			return nil
		},
	}
}

func reportCmd(flags *Flags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "report [day|week|month]",
		Short:     "Summarize which mechanism worked for which application",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "week", "month"},
		RunE: func(cmd *cobra.Command, args []string) error {
			periodType := "day"
			if len(args) > 0 {
				periodType = args[0]
			}

			cfg, err := LoadConfig(flags)
			if err != nil {
				return err
			}
			db, repo, err := OpenRepository(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			rep := reporter.New(repo)
			report, err := rep.GenerateReport(periodType)
			if err != nil {
				return err
			}

			if asJSON {
				jsonStr, err := rep.FormatReportJSON(report)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), jsonStr)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), rep.FormatReportText(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func clearCmd(flags *Flags) *cobra.Command {
	var (
		yes       bool
		olderThan time.Duration
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the extraction journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !yes {
				fmt.Fprint(out, "This will delete the extraction journal. Are you sure? (yes/no): ")
				response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				response = strings.TrimSpace(strings.ToLower(response))
				if response != "yes" && response != "y" {
					fmt.Fprintln(out, "Operation cancelled")
					return nil
				}
			}

			db, repo, err := OpenRepository(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if olderThan > 0 {
				n, err := repo.DeleteOldEvents(time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted %d events older than %v\n", n, olderThan)
				return nil
			}

			if err := repo.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Journal cleared successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "only delete events older than this, e.g. 720h")
	return cmd
}
