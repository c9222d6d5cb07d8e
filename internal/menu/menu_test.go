package menu

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmcrae/lampctl/internal/lamp"
)

// fakeController records calls and returns canned results
type fakeController struct {
	calls  []string
	addrs  []string
	status *lamp.Status
	err    error
}

func (f *fakeController) factory(address string) Controller {
	f.addrs = append(f.addrs, address)
	return f
}

func (f *fakeController) TurnOn(ctx context.Context) error {
	f.calls = append(f.calls, "TurnOn")
	return f.err
}

func (f *fakeController) TurnOff(ctx context.Context) error {
	f.calls = append(f.calls, "TurnOff")
	return f.err
}

func (f *fakeController) Status(ctx context.Context) (*lamp.Status, error) {
	f.calls = append(f.calls, "Status")
	return f.status, f.err
}

func (f *fakeController) SetTimer(ctx context.Context, minutes int) (int, error) {
	clamped := lamp.ClampMinutes(minutes)
	f.calls = append(f.calls, fmt.Sprintf("SetTimer(%d)", clamped))
	return clamped, f.err
}

// runMenu runs a scripted session and returns the output
func runMenu(t *testing.T, fake *fakeController, script string, opts ...Option) string {
	t.Helper()

	var out bytes.Buffer
	opts = append(opts, WithController(fake.factory))
	m := New(strings.NewReader(script), &out, opts...)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	return out.String()
}

func TestMenu_ExitImmediately(t *testing.T) {
	fake := &fakeController{}
	out := runMenu(t, fake, "0\n", WithAddress("192.168.1.5"))

	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("output missing goodbye message:\n%s", out)
	}
	if len(fake.calls) != 0 {
		t.Errorf("no lamp calls expected, got %v", fake.calls)
	}
}

func TestMenu_PromptsForAddressAndRejectsEmpty(t *testing.T) {
	fake := &fakeController{}

	// empty address -> error + pause, then a valid address, then exit
	out := runMenu(t, fake, "\n\n192.168.1.5\n0\n")

	if !strings.Contains(out, "IP address cannot be empty!") {
		t.Errorf("output missing empty-address error:\n%s", out)
	}
	if !strings.Contains(out, "192.168.1.5") {
		t.Errorf("output should show the accepted address:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("session should end normally:\n%s", out)
	}
}

func TestMenu_ChangeAddressRejectsEmpty(t *testing.T) {
	fake := &fakeController{}

	// 9 clears the address; the empty entry is rejected and re-prompted
	out := runMenu(t, fake, "9\n\n\n10.0.0.8\n0\n", WithAddress("192.168.1.5"))

	if !strings.Contains(out, "IP address cannot be empty!") {
		t.Errorf("output missing empty-address error:\n%s", out)
	}
	if !strings.Contains(out, "10.0.0.8") {
		t.Errorf("output should show the replacement address:\n%s", out)
	}
}

func TestMenu_AddressSaverInvoked(t *testing.T) {
	fake := &fakeController{}
	var saved []string

	runMenu(t, fake, "192.168.1.5\n0\n", WithAddressSaver(func(addr string) {
		saved = append(saved, addr)
	}))

	if len(saved) != 1 || saved[0] != "192.168.1.5" {
		t.Errorf("saved addresses = %v, want [192.168.1.5]", saved)
	}
}

func TestMenu_TurnOnAndOff(t *testing.T) {
	fake := &fakeController{}

	out := runMenu(t, fake, "1\n\n2\n\n0\n", WithAddress("192.168.1.5"))

	if len(fake.calls) != 2 || fake.calls[0] != "TurnOn" || fake.calls[1] != "TurnOff" {
		t.Errorf("calls = %v, want [TurnOn TurnOff]", fake.calls)
	}
	if !strings.Contains(out, "Lamp turned ON successfully!") {
		t.Errorf("output missing ON confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Lamp turned OFF successfully!") {
		t.Errorf("output missing OFF confirmation:\n%s", out)
	}
	if len(fake.addrs) != 2 || fake.addrs[0] != "192.168.1.5" {
		t.Errorf("controller addresses = %v, want the session address", fake.addrs)
	}
}

func TestMenu_StatusDisplay(t *testing.T) {
	fake := &fakeController{
		status: &lamp.Status{On: true, TimeoutActive: true, RemainingSeconds: 125},
	}

	out := runMenu(t, fake, "3\n\n0\n", WithAddress("192.168.1.5"))

	if !strings.Contains(out, "ON") {
		t.Errorf("output missing lamp state:\n%s", out)
	}
	if !strings.Contains(out, "2:05") {
		t.Errorf("output missing formatted remaining time:\n%s", out)
	}
}

func TestMenu_StatusNoData(t *testing.T) {
	fake := &fakeController{status: nil}

	out := runMenu(t, fake, "3\n\n0\n", WithAddress("192.168.1.5"))

	if !strings.Contains(out, "no status data") {
		t.Errorf("output should report missing status data:\n%s", out)
	}
}

func TestMenu_NonIntegerTimerEntryCancels(t *testing.T) {
	fake := &fakeController{}

	out := runMenu(t, fake, "4\nabc\n\n0\n", WithAddress("192.168.1.5"))

	if len(fake.calls) != 1 || fake.calls[0] != "SetTimer(0)" {
		t.Errorf("calls = %v, want [SetTimer(0)]", fake.calls)
	}
	if !strings.Contains(out, "Cancelling timer...") {
		t.Errorf("non-integer entry should cancel the timer:\n%s", out)
	}
}

func TestMenu_SetTimerEntry(t *testing.T) {
	fake := &fakeController{}

	out := runMenu(t, fake, "4\n45\n\n0\n", WithAddress("192.168.1.5"))

	if len(fake.calls) != 1 || fake.calls[0] != "SetTimer(45)" {
		t.Errorf("calls = %v, want [SetTimer(45)]", fake.calls)
	}
	if !strings.Contains(out, "Timer set for 45 minutes") {
		t.Errorf("output missing timer confirmation:\n%s", out)
	}
}

func TestMenu_QuickTimersAndCancel(t *testing.T) {
	fake := &fakeController{}

	out := runMenu(t, fake, "5\n\n6\n\n7\n\n8\n\n0\n", WithAddress("192.168.1.5"))

	want := []string{"SetTimer(5)", "SetTimer(30)", "SetTimer(60)", "SetTimer(0)"}
	if len(fake.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
	for i, w := range want {
		if fake.calls[i] != w {
			t.Errorf("calls[%d] = %s, want %s", i, fake.calls[i], w)
		}
	}
	if !strings.Contains(out, "1 hour") {
		t.Errorf("quick timer label for 60 minutes should read 1 hour:\n%s", out)
	}
	if !strings.Contains(out, "Timer cancelled successfully!") {
		t.Errorf("output missing cancel confirmation:\n%s", out)
	}
}

func TestMenu_ActionFailureContinuesLoop(t *testing.T) {
	fake := &fakeController{
		err: &lamp.DeviceError{Type: lamp.ErrTypeNetwork, Address: "192.168.1.5"},
	}

	out := runMenu(t, fake, "1\n\n0\n", WithAddress("192.168.1.5"))

	if !strings.Contains(out, "Error:") {
		t.Errorf("output missing error report:\n%s", out)
	}
	if !strings.Contains(out, "192.168.1.5") {
		t.Errorf("error report should name the address:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("loop should continue to a clean exit after a failed action:\n%s", out)
	}
}

func TestMenu_InvalidChoice(t *testing.T) {
	fake := &fakeController{}

	out := runMenu(t, fake, "x\n\n0\n", WithAddress("192.168.1.5"))

	if !strings.Contains(out, "Invalid choice!") {
		t.Errorf("output missing invalid-choice report:\n%s", out)
	}
	if len(fake.calls) != 0 {
		t.Errorf("invalid choice must not trigger lamp calls, got %v", fake.calls)
	}
}

func TestMenu_ExhaustedInputExitsCleanly(t *testing.T) {
	fake := &fakeController{}
	var out bytes.Buffer

	m := New(strings.NewReader(""), &out, WithAddress("192.168.1.5"), WithController(fake.factory))
	if err := m.Run(context.Background()); err != nil {
		t.Errorf("Run() with exhausted input = %v, want nil", err)
	}
}

func TestMenu_ReaderStopsAfterExit(t *testing.T) {
	fake := &fakeController{}
	var out bytes.Buffer

	// Input left behind after exit must not strand the reader
	m := New(strings.NewReader("0\nleftover line\n"), &out,
		WithAddress("192.168.1.5"), WithController(fake.factory))
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	select {
	case <-m.readerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("input reader did not stop after the menu exited")
	}
}

func TestMenu_InterruptAtPromptEndsSession(t *testing.T) {
	fake := &fakeController{}
	sig := make(chan os.Signal, 1)

	// A pipe that is never written keeps the prompt blocked on input
	r, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	m := New(r, &out,
		WithAddress("192.168.1.5"),
		WithController(fake.factory),
		WithInterrupts(sig),
	)

	result := make(chan error, 1)
	go func() { result <- m.Run(context.Background()) }()

	sig <- os.Interrupt

	select {
	case err := <-result:
		if err != ErrInterrupted {
			t.Errorf("Run() = %v, want ErrInterrupted", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after interrupt")
	}
}
