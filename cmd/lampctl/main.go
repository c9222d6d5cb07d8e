// Lampctl is a command-line controller for network-attached smart lamps.
//
// The lamp exposes a small HTTP server; lampctl wraps its GET endpoints
// for turning the lamp on and off, querying status, and setting the
// device-side auto-off timer.
//
// Usage:
//
//	lampctl [<address> <command> [<minutes>]]
//
// Running without arguments launches the interactive menu.
// See 'lampctl --help' for the scan and watch subcommands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmcrae/lampctl/internal/lamp"
	"github.com/jmcrae/lampctl/internal/logging"
	"github.com/jmcrae/lampctl/internal/menu"
	"github.com/jmcrae/lampctl/internal/ui"
	"github.com/jmcrae/lampctl/internal/version"
)

func main() {
	_ = logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		// User-initiated interruption is a clean exit
		if errors.Is(err, menu.ErrInterrupted) || lamp.IsInterrupted(err) {
			fmt.Println(ui.Warn("Interrupted."))
			os.Exit(0)
		}

		var uerr *usageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, ui.Error("Error: "+uerr.msg))
			fmt.Fprintln(os.Stderr, usageText)
			os.Exit(1)
		}

		fmt.Fprintln(os.Stderr, ui.Error("Error: "+lamp.ShortMessage(err)))
		var devErr *lamp.DeviceError
		if errors.As(err, &devErr) {
			fmt.Fprintln(os.Stderr, ui.Muted(lamp.Hint(err)))
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lampctl [<address> <command> [<minutes>]]",
	Short: "Smart Lamp Controller",
	Long: `A command-line controller for network-attached smart lamps.

One-shot mode takes the lamp address and a command (on, off, status, timer)
and performs a single operation. With no arguments the interactive menu
launches instead.`,
	Version:       version.Version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lampctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
