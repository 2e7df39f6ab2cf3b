package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"nextart/internal/clipboard"
	"nextart/internal/config"
	"nextart/internal/logging"
	"nextart/internal/ui"
)

var (
	debug bool

	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nextart",
	Short: "Box-art manager for rom collections",
	Long: "nextart indexes a roms folder, shows every collection's box art\n" +
		"and lets you replace it from the clipboard or from PNG files on disk.",
	Run: runTUI,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration file location and contents",
	Run:   runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nextart %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug output to the log file")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) {
	store := openStore()
	if dir := filepath.Dir(store.Path()); store.Path() != "" {
		if err := logging.Setup(dir, debug); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: no log file: %v\n", err)
		}
	}

	// A broken config is recoverable: start at setup and show what failed.
	chosenPath, loadErr := "", ""
	cfg, err := store.Load()
	switch {
	case err != nil:
		loadErr = err.Error()
		logging.Warnf("config load failed: %v", err)
	case cfg != nil:
		chosenPath = cfg.RomsPath
	}

	model := ui.NewModel(store, clipboard.NewSystem(), chosenPath, loadErr)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runConfig(cmd *cobra.Command, args []string) {
	store := openStore()
	if store.Path() == "" {
		fmt.Fprintln(os.Stderr, "No configuration location available on this system.")
		os.Exit(1)
	}

	fmt.Printf("Configuration file: %s\n\n", store.Path())

	data, err := os.ReadFile(store.Path())
	if os.IsNotExist(err) {
		fmt.Println("Config file does not exist yet; it is written after the first scan.")
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}

// openStore falls back to a pathless store when the platform offers no
// config directory; the TUI still runs, it just cannot persist the path.
func openStore() *config.FileStore {
	store, err := config.NewFileStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return config.NewFileStoreAt("")
	}
	return store
}
