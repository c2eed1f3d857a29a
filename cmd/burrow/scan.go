package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/burrowscan/burrow/pkg/burrow/logging"
	"github.com/burrowscan/burrow/pkg/burrow/scanner"
	"github.com/burrowscan/burrow/pkg/burrow/types"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dirStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1).
			MarginTop(1)
)

// runScan drives one scan end to end: it starts the engine, consumes the
// event stream until a terminal event, and prints the summary.
func runScan(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	flags := cmd.Flags()
	quiet, _ := flags.GetBool("quiet")
	verbose, _ := flags.GetBool("verbose")
	top, _ := flags.GetInt("top")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var minSize int64
	if cfg.Scan.MinSize != "" {
		minSize, err = types.ParseSize(cfg.Scan.MinSize)
		if err != nil {
			return fmt.Errorf("invalid min-size: %w", err)
		}
	}

	logLevel := cfg.Logging.Level
	consoleLevel := cfg.Logging.ConsoleLevel
	if verbose {
		logLevel = "debug"
		consoleLevel = "debug"
	}
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}
	if err := logging.Init(logging.Config{
		Level:        logLevel,
		Path:         logPath,
		ConsoleLevel: consoleLevel,
		Components:   cfg.Logging.Components,
	}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	opts := scanner.DefaultOptions()
	opts.Workers = cfg.Scan.Workers
	opts.Exclude = cfg.Scan.Exclude
	opts.EventBuffer = cfg.Scan.EventBuffer
	opts.ProgressInterval = time.Duration(cfg.Scan.ProgressIntervalMS) * time.Millisecond
	opts.StopTimeout = time.Duration(cfg.Scan.StopTimeoutMS) * time.Millisecond
	// Per-entry events are only worth the channel traffic when the user
	// asked to see them.
	opts.EmitEntries = verbose

	ctrl := scanner.New(opts)
	events := ctrl.Events()

	// Ctrl-C requests a cooperative stop; the engine emits ScanStopped
	// once the workers have parked.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		_ = ctrl.Stop()
	}()

	if err := ctrl.Start(path); err != nil {
		return fmt.Errorf("starting scan: %w", err)
	}

	for ev := range events {
		switch ev.Type {
		case scanner.EventProgressUpdated:
			if !quiet {
				printProgress(ev.Progress)
			}
		case scanner.EventEntryDiscovered:
			if verbose {
				fmt.Fprintf(os.Stderr, "  %s\n", ev.Entry.Path)
			}
		case scanner.EventScanFailed:
			fmt.Fprintln(os.Stderr, warnStyle.Render("scan failed: "+ev.Err))
		case scanner.EventScanStopped:
			if !quiet {
				fmt.Fprintln(os.Stderr)
			}
			fmt.Println(warnStyle.Render("scan stopped"))
			return nil
		case scanner.EventScanCompleted:
			if !quiet {
				fmt.Fprintln(os.Stderr)
			}
			printSummary(ctrl, ev.Summary, ev.Message, minSize, top)
			return nil
		}
	}
	return nil
}

// printProgress rewrites a single status line on stderr.
func printProgress(p *types.ScanProgress) {
	current := p.CurrentPath
	if len(current) > 60 {
		current = "..." + current[len(current)-57:]
	}
	fmt.Fprintf(os.Stderr, "\r\033[K%s %d files, %d dirs, %s  %s",
		labelStyle.Render("scanning:"),
		p.TotalFiles, p.TotalDirectories,
		types.FormatSize(p.TotalSizeSoFar),
		labelStyle.Render(current))
}

// summaryChildren filters the listed children to those at or above the
// size threshold and caps the list at top entries. Children arrive
// pre-sorted by size descending.
func summaryChildren(children []types.FileStats, minSize int64, top int) []types.FileStats {
	if minSize > 0 {
		var kept []types.FileStats
		for _, child := range children {
			if child.Size >= minSize {
				kept = append(kept, child)
			}
		}
		children = kept
	}
	if top > 0 && top < len(children) {
		children = children[:top]
	}
	return children
}

// printSummary renders the terminal summary and the largest direct
// children of the scan root.
func printSummary(ctrl *scanner.Controller, summary *types.ScanSummary, message string, minSize int64, top int) {
	lines := titleStyle.Render("burrow: "+summary.Root) + "\n" + message
	if summary.SkippedEntries > 0 {
		lines += "\n" + warnStyle.Render(
			fmt.Sprintf("%d entries could not be read", summary.SkippedEntries))
	}
	fmt.Println(summaryStyle.Render(lines))

	details, ok := ctrl.Details(summary.Root)
	if !ok {
		return
	}
	children := summaryChildren(details.Children, minSize, top)
	if len(children) == 0 {
		return
	}

	fmt.Println(labelStyle.Render("largest entries:"))
	for _, child := range children {
		name := child.Path
		if child.IsDirectory {
			name = dirStyle.Render(name + string(os.PathSeparator))
		}
		fmt.Printf("  %10s  %s\n", types.FormatSize(child.Size), name)
	}
}
