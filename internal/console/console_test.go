package console_test

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/fulutas/cardaccess/internal/access/service"
	"github.com/fulutas/cardaccess/internal/access/store/memory"
	"github.com/fulutas/cardaccess/internal/console"
	"github.com/fulutas/cardaccess/internal/hardware"
)

// runConsole drives the menu with a scripted input and returns the rendered
// output plus the backing stores for inspection.
func runConsole(t *testing.T, script string, cfg console.Config) (string, *memory.UserStore, *memory.AccessLogStore) {
	t.Helper()

	users := memory.NewUserStore()
	logs := memory.NewAccessLogStore(users)
	svc := service.NewAccessService(users, logs)

	// Menu input and simulated scans share one buffered reader, exactly as
	// the console binary wires stdin.
	in := bufio.NewReader(strings.NewReader(script))
	reader := hardware.NewSimReader(in, log.New(io.Discard, "", 0))
	defer reader.Close()

	var out bytes.Buffer
	c := console.New(svc, reader, hardware.NopLED{}, in, &out, cfg)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), users, logs
}

func TestConsole_RegisterScanHistoryExit(t *testing.T) {
	script := strings.Join([]string{
		"2", "C1", "Alice", // add new card
		"1", "C1", // scan -> ENTRY
		"3",      // view history
		"4", "",  // exit
	}, "\n")

	out, _, logs := runConsole(t, script, console.Config{})

	if !strings.Contains(out, "Success! Card registered to Alice.") {
		t.Errorf("missing registration confirmation in output:\n%s", out)
	}
	if !strings.Contains(out, "SUCCESS: ENTRY logged for Alice (C1)") {
		t.Errorf("missing scan confirmation in output:\n%s", out)
	}
	if !strings.Contains(out, "ACCESS HISTORY") || !strings.Contains(out, "ENTRY") {
		t.Errorf("missing history table in output:\n%s", out)
	}

	entries := logs.Entries()
	if len(entries) != 1 || entries[0].CardID != "C1" {
		t.Errorf("expected one log row for C1, got %+v", entries)
	}
}

func TestConsole_UnknownCardWithoutInlineRegistration(t *testing.T) {
	script := strings.Join([]string{
		"1", "CX", // scan unknown card
		"4", "",   // exit
	}, "\n")

	out, users, logs := runConsole(t, script, console.Config{InlineRegistration: false})

	if !strings.Contains(out, "Card ID 'CX' not recognized.") {
		t.Errorf("missing rejection message in output:\n%s", out)
	}
	if !strings.Contains(out, "Please use 'Add New Card' option to register.") {
		t.Errorf("missing registration pointer in output:\n%s", out)
	}
	if _, ok, _ := users.Get(context.Background(), "CX"); ok {
		t.Error("unknown card must not be auto-registered")
	}
	if n := len(logs.Entries()); n != 0 {
		t.Errorf("expected no log rows, got %d", n)
	}
}

func TestConsole_InlineRegistration(t *testing.T) {
	script := strings.Join([]string{
		"1", "CX", // scan unknown card
		"y", "Bob", // accept inline registration
		"4", "",    // exit
	}, "\n")

	out, users, _ := runConsole(t, script, console.Config{InlineRegistration: true})

	if !strings.Contains(out, "Success! Card registered to Bob.") {
		t.Errorf("missing inline registration confirmation in output:\n%s", out)
	}
	u, ok, _ := users.Get(context.Background(), "CX")
	if !ok || u.FullName != "Bob" {
		t.Errorf("expected CX registered to Bob, got %+v (ok=%v)", u, ok)
	}
}

func TestConsole_DuplicateRegistration(t *testing.T) {
	script := strings.Join([]string{
		"2", "C1", "Alice", // first registration
		"2", "C1", // second attempt, same card
		"4", "",   // exit
	}, "\n")

	out, users, _ := runConsole(t, script, console.Config{})

	if !strings.Contains(out, "already registered to Alice") {
		t.Errorf("missing duplicate warning in output:\n%s", out)
	}
	u, _, _ := users.Get(context.Background(), "C1")
	if u.FullName != "Alice" {
		t.Errorf("expected original registration intact, got %q", u.FullName)
	}
}
