// Package main is the entry point for the Unplug analytics TUI.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmctyres/unplug-analytics/internal/app"
	"github.com/tmctyres/unplug-analytics/internal/config"
	"github.com/tmctyres/unplug-analytics/internal/services"
	"github.com/tmctyres/unplug-analytics/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	// Run the application
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize the service manager
	// This opens the database, starts the session tracker and the
	// analytics pipeline, and computes the first snapshot.
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 3. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 4. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 5. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for scrolling
	)

	// 6. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		// Send quit message to the program
		p.Send(tea.Quit())
	}()

	// 7. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Unplug Analytics - offline time analytics dashboard

Usage:
  unplug [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  t               Cycle time range (7/30/90 days, all time)
  j/k, Up/Down    Scroll
  g/G             Jump to top/bottom
  r               Recompute analytics
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATABASE_PATH        SQLite database path
  SESSION_LOG_PATH     Session log file watched for new entries
  DEBOUNCE_WINDOW      Recompute debounce window (default: 5s)
  INSIGHT_LIMIT        Maximum insights per cycle (default: 8)
  WEEKLY_GOAL_MINUTES  Weekly offline-minutes goal (0 = derive from history)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/unplug/.env
  - ~/.unplug/.env

For more information, visit: https://github.com/tmctyres/unplug-analytics`)
}
