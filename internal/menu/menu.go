// Package menu implements the interactive numbered menu shown when lampctl
// is invoked without arguments.
//
// The loop has a single per-action error boundary: a failed or interrupted
// action is reported and the menu continues. Interrupts outside an action
// (at a prompt) end the session, which main() maps to a clean exit.
package menu

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/jmcrae/lampctl/internal/lamp"
	"github.com/jmcrae/lampctl/internal/ui"
)

// ErrInterrupted is returned when the user interrupts the menu at a prompt
// (as opposed to during an action, which only aborts that action)
var ErrInterrupted = errors.New("interrupted")

// Controller is the set of lamp operations the menu drives.
// *lamp.Client satisfies it.
type Controller interface {
	TurnOn(ctx context.Context) error
	TurnOff(ctx context.Context) error
	Status(ctx context.Context) (*lamp.Status, error)
	SetTimer(ctx context.Context, minutes int) (int, error)
}

// Menu is the interactive session state
type Menu struct {
	in  io.Reader
	out io.Writer

	address     string
	quickTimers []int

	newController func(address string) Controller
	onAddress     func(address string)
	interrupts    chan os.Signal

	lines      <-chan string
	sig        <-chan os.Signal
	readerDone chan struct{}
}

// Option configures a Menu
type Option func(*Menu)

// WithAddress seeds the session with a lamp address, skipping the initial prompt
func WithAddress(address string) Option {
	return func(m *Menu) { m.address = address }
}

// WithQuickTimers sets the three quick-timer presets (minutes)
func WithQuickTimers(minutes []int) Option {
	return func(m *Menu) {
		if len(minutes) == 3 {
			m.quickTimers = minutes
		}
	}
}

// WithController overrides the controller factory (used in tests)
func WithController(factory func(address string) Controller) Option {
	return func(m *Menu) { m.newController = factory }
}

// WithAddressSaver registers a callback invoked when the user enters a new address
func WithAddressSaver(save func(address string)) Option {
	return func(m *Menu) { m.onAddress = save }
}

// WithInterrupts overrides the interrupt signal channel (used in tests).
// When not set, the menu subscribes to os.Interrupt itself.
func WithInterrupts(ch chan os.Signal) Option {
	return func(m *Menu) { m.interrupts = ch }
}

// New creates a menu reading from in and writing to out
func New(in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		in:          in,
		out:         out,
		quickTimers: []int{5, 30, 60},
		newController: func(address string) Controller {
			return lamp.NewClient(address)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes the menu loop until the user exits.
// Returns nil on a normal exit (including exhausted input) and
// ErrInterrupted when the user interrupts at a prompt.
func (m *Menu) Run(ctx context.Context) error {
	sig := m.interrupts
	if sig == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		defer signal.Stop(ch)
		sig = ch
	}
	m.sig = sig

	lines := make(chan string)
	quit := make(chan struct{})
	defer close(quit)
	m.readerDone = make(chan struct{})
	go func() {
		defer close(m.readerDone)
		defer close(lines)
		scanner := bufio.NewScanner(m.in)
		for scanner.Scan() {
			// Stop delivering once the session ends, even with input left
			select {
			case lines <- scanner.Text():
			case <-quit:
				return
			}
		}
	}()
	m.lines = lines

	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, ui.Banner("Smart Lamp Controller"))
		fmt.Fprintln(m.out)

		if m.address == "" {
			addr, err := m.prompt(ctx, "Enter lamp IP address: ")
			if err != nil {
				return exitErr(err)
			}
			addr = strings.TrimSpace(addr)
			if addr == "" {
				fmt.Fprintln(m.out, ui.Error("IP address cannot be empty!"))
				if err := m.pause(ctx); err != nil {
					return exitErr(err)
				}
				continue
			}
			m.address = addr
			if m.onAddress != nil {
				m.onAddress(addr)
			}
		}

		m.printOptions()

		choice, err := m.prompt(ctx, "Select option (0-9): ")
		if err != nil {
			return exitErr(err)
		}

		pause := true
		switch strings.TrimSpace(choice) {
		case "1":
			m.runAction(ctx, m.turnOn)
		case "2":
			m.runAction(ctx, m.turnOff)
		case "3":
			m.runAction(ctx, m.showStatus)
		case "4":
			entry, err := m.prompt(ctx, fmt.Sprintf("Enter timer minutes (1-%d, 0 to cancel): ", lamp.MaxTimerMinutes))
			if err != nil {
				return exitErr(err)
			}
			// Anything that isn't a number cancels the timer
			minutes, convErr := strconv.Atoi(strings.TrimSpace(entry))
			if convErr != nil {
				minutes = 0
			}
			m.runAction(ctx, m.setTimer(minutes))
		case "5":
			m.runAction(ctx, m.setTimer(m.quickTimers[0]))
		case "6":
			m.runAction(ctx, m.setTimer(m.quickTimers[1]))
		case "7":
			m.runAction(ctx, m.setTimer(m.quickTimers[2]))
		case "8":
			m.runAction(ctx, m.setTimer(0))
		case "9":
			// Clear the address; next iteration re-prompts
			m.address = ""
			pause = false
		case "0":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, ui.Error("Invalid choice!"))
		}

		if pause {
			if err := m.pause(ctx); err != nil {
				return exitErr(err)
			}
		}
	}
}

// exitErr maps prompt errors to Run's return value: exhausted input is a
// normal exit, an interrupt is reported to the caller
func exitErr(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// prompt prints a label and waits for one line of input, an interrupt, or
// context cancellation
func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, label)

	select {
	case line, ok := <-m.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-m.sig:
		fmt.Fprintln(m.out)
		return "", ErrInterrupted
	case <-ctx.Done():
		return "", ErrInterrupted
	}
}

// pause waits for Enter before redrawing the menu
func (m *Menu) pause(ctx context.Context) error {
	fmt.Fprintln(m.out)
	_, err := m.prompt(ctx, "Press Enter to continue...")
	return err
}

func (m *Menu) printOptions() {
	fmt.Fprintf(m.out, "Current lamp IP: %s\n\n", ui.Accent(m.address))
	fmt.Fprintln(m.out, "1. Turn lamp ON")
	fmt.Fprintln(m.out, "2. Turn lamp OFF")
	fmt.Fprintln(m.out, "3. Check status")
	fmt.Fprintln(m.out, "4. Set timer")
	fmt.Fprintf(m.out, "5. Quick timer - %s\n", formatPreset(m.quickTimers[0]))
	fmt.Fprintf(m.out, "6. Quick timer - %s\n", formatPreset(m.quickTimers[1]))
	fmt.Fprintf(m.out, "7. Quick timer - %s\n", formatPreset(m.quickTimers[2]))
	fmt.Fprintln(m.out, "8. Cancel timer")
	fmt.Fprintln(m.out, "9. Change IP address")
	fmt.Fprintln(m.out, "0. Exit")
	fmt.Fprintln(m.out)
}

// formatPreset renders a quick-timer preset ("30 minutes", "1 hour")
func formatPreset(minutes int) string {
	if minutes >= 60 && minutes%60 == 0 {
		hours := minutes / 60
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// runAction executes one menu action inside the per-action error boundary.
// An interrupt cancels the in-flight request and the loop continues.
func (m *Menu) runAction(ctx context.Context, action func(context.Context) error) {
	actx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- action(actx) }()

	var err error
	select {
	case err = <-done:
	case <-m.sig:
		cancel()
		<-done
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, ui.Warn("Operation cancelled."))
		return
	}

	if err != nil {
		if lamp.IsInterrupted(err) {
			fmt.Fprintln(m.out, ui.Warn("Operation cancelled."))
			return
		}
		fmt.Fprintln(m.out, ui.Error("Error: "+lamp.ShortMessage(err)))
		fmt.Fprintln(m.out, ui.Muted(lamp.Hint(err)))
	}
}

func (m *Menu) turnOn(ctx context.Context) error {
	fmt.Fprintln(m.out, ui.Warn("Turning lamp ON..."))
	if err := m.newController(m.address).TurnOn(ctx); err != nil {
		return err
	}
	fmt.Fprintln(m.out, ui.Success("Lamp turned ON successfully!"))
	return nil
}

func (m *Menu) turnOff(ctx context.Context) error {
	fmt.Fprintln(m.out, ui.Warn("Turning lamp OFF..."))
	if err := m.newController(m.address).TurnOff(ctx); err != nil {
		return err
	}
	fmt.Fprintln(m.out, ui.Success("Lamp turned OFF successfully!"))
	return nil
}

func (m *Menu) showStatus(ctx context.Context) error {
	fmt.Fprintln(m.out, ui.Warn("Getting lamp status..."))

	status, err := m.newController(m.address).Status(ctx)
	if err != nil {
		return err
	}
	if status == nil {
		fmt.Fprintln(m.out, ui.Muted("Lamp responded but returned no status data."))
		return nil
	}

	if raw, err := json.MarshalIndent(status, "", "  "); err == nil {
		fmt.Fprintf(m.out, "\n%s\n\n", ui.Muted(string(raw)))
	}

	fmt.Fprintf(m.out, "Lamp is currently %s\n", ui.StateText(status.On))
	if status.TimerActive() {
		fmt.Fprintln(m.out, ui.Warn(fmt.Sprintf("Timer is active - Time remaining: %s", lamp.FormatRemaining(status.RemainingSeconds))))
	} else {
		fmt.Fprintln(m.out, "No timer active")
	}
	return nil
}

// setTimer returns an action that sets or cancels the auto-off timer
func (m *Menu) setTimer(minutes int) func(context.Context) error {
	return func(ctx context.Context) error {
		clamped := lamp.ClampMinutes(minutes)
		if clamped == 0 {
			fmt.Fprintln(m.out, ui.Warn("Cancelling timer..."))
		} else {
			fmt.Fprintln(m.out, ui.Warn(fmt.Sprintf("Setting timer for %d minutes...", clamped)))
		}

		sent, err := m.newController(m.address).SetTimer(ctx, minutes)
		if err != nil {
			return err
		}

		if sent == 0 {
			fmt.Fprintln(m.out, ui.Success("Timer cancelled successfully!"))
		} else {
			fmt.Fprintln(m.out, ui.Success(fmt.Sprintf("Timer set for %d minutes. Lamp will turn ON and auto-off!", sent)))
		}
		return nil
	}
}
