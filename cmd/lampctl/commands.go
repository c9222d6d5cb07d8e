package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmcrae/lampctl/internal/config"
	"github.com/jmcrae/lampctl/internal/discovery"
	"github.com/jmcrae/lampctl/internal/lamp"
	"github.com/jmcrae/lampctl/internal/logging"
	"github.com/jmcrae/lampctl/internal/menu"
	"github.com/jmcrae/lampctl/internal/ui"
	"github.com/jmcrae/lampctl/internal/watch"
)

// usageError marks a bad command line; main() prints the usage text
// for these instead of a network troubleshooting hint
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

const usageText = `Usage: lampctl [<address> <command> [<minutes>]]

Commands:
  on               Turn the lamp on
  off              Turn the lamp off
  status           Show the lamp state and timer
  timer <minutes>  Set the auto-off timer (0 cancels)

Examples:
  lampctl 192.168.1.100 on
  lampctl 192.168.1.100 timer 30
  lampctl                          (interactive menu)`

var scanTimeoutSecs int

func init() {
	scanCmd.Flags().IntVarP(&scanTimeoutSecs, "timeout", "t", 10, "Scan timeout in seconds")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runMenu()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return runOneShot(ctx, cmd.OutOrStdout(), args)
}

// runOneShot performs a single lamp operation: <address> <command> [<minutes>].
// All argument validation happens before any network traffic.
func runOneShot(ctx context.Context, out io.Writer, args []string) error {
	if len(args) < 2 {
		return &usageError{msg: fmt.Sprintf("missing command for lamp at %s", args[0])}
	}

	address := args[0]
	command := strings.ToLower(args[1])

	var minutes int
	switch command {
	case "on", "off", "status":
	case "timer":
		if len(args) < 3 {
			return &usageError{msg: "timer command requires a minutes value"}
		}
		m, err := strconv.Atoi(args[2])
		if err != nil {
			return &usageError{msg: fmt.Sprintf("invalid minutes value %q: must be a whole number", args[2])}
		}
		minutes = m
	default:
		return &usageError{msg: fmt.Sprintf("unknown command %q (expected on, off, status or timer)", args[1])}
	}

	client := lamp.NewClient(address)

	switch command {
	case "on":
		fmt.Fprintln(out, ui.Warn("Turning lamp ON..."))
		if err := client.TurnOn(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success("Lamp turned ON successfully!"))

	case "off":
		fmt.Fprintln(out, ui.Warn("Turning lamp OFF..."))
		if err := client.TurnOff(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success("Lamp turned OFF successfully!"))

	case "status":
		status, err := client.Status(ctx)
		if err != nil {
			return err
		}
		if status == nil {
			fmt.Fprintln(out, ui.Muted("Lamp responded but returned no status data."))
			return nil
		}
		fmt.Fprintf(out, "Lamp is currently %s\n", ui.StateText(status.On))
		fmt.Fprintln(out, status.TimerText())

	case "timer":
		sent, err := client.SetTimer(ctx, minutes)
		if err != nil {
			return err
		}
		if sent == 0 {
			fmt.Fprintln(out, ui.Success("Timer cancelled successfully!"))
		} else {
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Timer set for %d minutes. Lamp will turn ON and auto-off!", sent)))
		}
	}

	return nil
}

// runMenu launches the interactive menu, seeded from the saved config
func runMenu() error {
	cfg, err := config.Load()
	if err != nil {
		logging.Warn("Failed to load config, using defaults", zap.Error(err))
		cfg = config.New()
	}

	opts := []menu.Option{
		menu.WithQuickTimers(cfg.QuickTimers),
		menu.WithAddressSaver(func(address string) {
			if err := cfg.RememberAddress(address); err != nil {
				logging.Warn("Failed to save lamp address", zap.Error(err))
			}
		}),
	}
	if cfg.LastAddress != "" {
		opts = append(opts, menu.WithAddress(cfg.LastAddress))
	}

	m := menu.New(os.Stdin, os.Stdout, opts...)
	return m.Run(context.Background())
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the local network for lamps",
	Long:  `Scan the local network for lamps using mDNS service discovery.`,
	Example: `  lampctl scan
  lampctl scan --timeout 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		timeout := time.Duration(scanTimeoutSecs) * time.Second

		fmt.Fprintf(out, "Scanning for lamps (%v)...\n\n", timeout)

		lamps, err := discovery.ScanForLamps(timeout)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if len(lamps) == 0 {
			fmt.Fprintln(out, ui.Warn("No lamps found."))
			fmt.Fprintln(out, ui.Muted("Troubleshooting:"))
			fmt.Fprintln(out, ui.Muted("  - Make sure the lamp is powered on and connected to WiFi"))
			fmt.Fprintln(out, ui.Muted("  - Make sure this computer is on the same network"))
			fmt.Fprintln(out, ui.Muted("  - Try a longer timeout: lampctl scan --timeout 30"))
			return nil
		}

		fmt.Fprintf(out, "Found %d lamp(s):\n\n", len(lamps))
		for _, l := range lamps {
			fmt.Fprintf(out, "  %s\n", ui.Accent(l.String()))
			if fw, ok := l.GetMetadata("fw"); ok {
				fmt.Fprintf(out, "    firmware: %s\n", fw)
			}
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Control one with: lampctl %s status\n", lamps[0].Address())
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <address>",
	Short: "Live status dashboard for a lamp",
	Long: `Watch a lamp's state and auto-off timer in a live terminal dashboard.

The dashboard polls the lamp every few seconds and supports turning the
lamp on and off and cancelling the timer without leaving the view.`,
	Example: `  lampctl watch 192.168.1.100`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := lamp.NewClient(args[0])

		p := tea.NewProgram(watch.New(client), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}
		return nil
	},
}
