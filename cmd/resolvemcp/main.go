package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	plugin "github.com/hashicorp/go-plugin"
	"github.com/spf13/cobra"

	"resolvemcp/internal/bootstrap"
	toolsdto "resolvemcp/internal/modules/tools/dto"
	"resolvemcp/internal/platform/config"
	"resolvemcp/internal/platform/logging"
)

var version = "dev"

func main() {
	defer plugin.CleanupClients()
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		plugin.CleanupClients()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "resolvemcp",
		Short:         "MCP server for DaVinci Resolve",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (optional)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newCheckCmd(&configPath))
	root.AddCommand(newPlatformCmd())
	root.AddCommand(newJournalCmd(&configPath))
	root.AddCommand(newMonitorCmd(&configPath))
	return root
}

func loadApp(configPath string) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, version, logging.New(cfg.Log))
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app.Logger.Info("serving MCP on stdio", "version", version)
			return app.Server.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newCheckCmd(configPath *string) *cobra.Command {
	var asJSON bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Connect to DaVinci Resolve and report what is open",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			report, err := app.ToolsCLI.Check(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline")
	return cmd
}

func newPlatformCmd() *cobra.Command {
	var platform string

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Print the scripting module location for a platform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			location, err := bootstrap.ResolveLocation(platform)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "platform: %s\n", location.Platform)
			_, _ = fmt.Fprintf(out, "modules: %s\n", location.ModulesPath)
			for _, kv := range location.Env() {
				_, _ = fmt.Fprintln(out, kv)
			}
			return nil
		},
	}
	defaultPlatform := strings.TrimSpace(os.Getenv(config.EnvPlatform))
	if defaultPlatform == "" {
		defaultPlatform = runtime.GOOS
	}
	cmd.Flags().StringVar(&platform, "platform", defaultPlatform, "darwin|windows|linux")
	return cmd
}

func newJournalCmd(configPath *string) *cobra.Command {
	journal := &cobra.Command{Use: "journal", Short: "Inspect recorded tool calls"}

	var offset, limit int
	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded tool calls, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			if app.JournalCLI == nil {
				return fmt.Errorf("journal is disabled (set journal.enabled or %s)", config.EnvJournal)
			}
			entries, err := app.JournalCLI.List(cmd.Context(), offset, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			out := cmd.OutOrStdout()
			for _, e := range entries.Items {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\tgen=%d\t%dms", e.StartedAt.Local().Format(time.RFC3339), e.Operation, e.Outcome, e.Generation, e.DurationMS)
				if e.Detail != "" {
					_, _ = fmt.Fprintf(out, "\t%s", e.Detail)
				}
				_, _ = fmt.Fprintln(out)
			}
			_, _ = fmt.Fprintf(out, "showing %d of %d (offset %d)", len(entries.Items), entries.Total, entries.Offset)
			if entries.HasMore {
				_, _ = fmt.Fprintf(out, ", next offset %d", entries.Offset+len(entries.Items))
			}
			_, _ = fmt.Fprintln(out)
			return nil
		},
	}
	listCmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	listCmd.Flags().IntVar(&limit, "limit", 20, "entries per page")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print the page as JSON")

	journal.AddCommand(listCmd)
	return journal
}

func newMonitorCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Watch the connection in a terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			// The TUI owns the terminal, so bridge and manager logs are dropped.
			app, err := bootstrap.New(cfg, version, logging.Discard())
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunMonitor(app)
		},
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(out io.Writer, report toolsdto.CheckReport) {
	_, _ = fmt.Fprintf(out, "product: %s\n", report.System.Product)
	_, _ = fmt.Fprintf(out, "version: %s\n", report.System.Version)
	_, _ = fmt.Fprintf(out, "page: %s\n", report.System.Page)
	_, _ = fmt.Fprintf(out, "generation: %d\n", report.System.Generation)
	_, _ = fmt.Fprintf(out, "projects: %s\n", joinOrNone(report.Projects))
	if report.CurrentProject != nil {
		_, _ = fmt.Fprintf(out, "current project: %s (%d timelines)\n", report.CurrentProject.Name, report.CurrentProject.TimelineCount)
	}
	if report.CurrentTimeline != nil {
		tl := report.CurrentTimeline
		_, _ = fmt.Fprintf(out, "current timeline: %s [%d-%d] at %s\n", tl.Name, tl.StartFrame, tl.EndFrame, tl.CurrentTimecode)
	}
	_, _ = fmt.Fprintf(out, "volumes: %s\n", joinOrNone(report.Volumes))
	for _, problem := range report.Problems {
		_, _ = fmt.Fprintf(out, "problem: %s\n", problem)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
