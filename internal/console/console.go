// Package console is the interactive operator menu: scan, register, view
// history, exit. It blocks on operator input between steps and drives the
// same AccessService as the listener and the HTTP API.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fulutas/cardaccess/internal/access/service"
	"github.com/fulutas/cardaccess/internal/hardware"
)

const separator = "--------------------------------------------------"

type Config struct {
	// InlineRegistration offers to register an unknown card right after a
	// failed scan instead of only pointing at the menu option.
	InlineRegistration bool
}

type Console struct {
	svc    *service.AccessService
	reader hardware.CardReader
	led    hardware.LED
	in     *bufio.Reader
	out    io.Writer
	cfg    Config
}

// New builds a console over the given input and output. When the card reader
// is a SimReader sharing the same input, menu choices and simulated scans
// read from one buffer and never steal each other's lines.
func New(svc *service.AccessService, reader hardware.CardReader, led hardware.LED, in io.Reader, out io.Writer, cfg Config) *Console {
	return &Console{
		svc:    svc,
		reader: reader,
		led:    led,
		in:     bufio.NewReader(in),
		out:    out,
		cfg:    cfg,
	}
}

// Run loops the menu until the operator exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out, separator)
		fmt.Fprintln(c.out, "CARD ACCESS SYSTEM")
		fmt.Fprintln(c.out, separator)
		fmt.Fprintln(c.out, "1. Scan Card (Entry/Exit)")
		fmt.Fprintln(c.out, "2. Add New Card")
		fmt.Fprintln(c.out, "3. View Access History")
		fmt.Fprintln(c.out, "4. Exit")

		choice, err := c.readLine("\nSelect an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			c.scanFlow(ctx)
		case "2":
			c.registerFlow(ctx)
		case "3":
			c.historyFlow(ctx)
		case "4":
			fmt.Fprintln(c.out, "System shutting down...")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid option, please try again.")
		}
	}
}

func (c *Console) scanFlow(ctx context.Context) {
	fmt.Fprintln(c.out, "\nWaiting for card scan (Entry/Exit)...")

	cardID, err := c.reader.ReadCard(ctx, 0)
	if err != nil {
		fmt.Fprintln(c.out, "Error: No card ID received.")
		return
	}

	entry, err := c.svc.Scan(ctx, cardID)
	switch {
	case errors.Is(err, service.ErrUnknownCard):
		fmt.Fprintln(c.out, separator)
		fmt.Fprintf(c.out, "Card ID '%s' not recognized.\n", cardID)
		if c.cfg.InlineRegistration {
			c.inlineRegister(ctx, cardID)
		} else {
			fmt.Fprintln(c.out, "Please use 'Add New Card' option to register.")
		}
		return
	case err != nil:
		fmt.Fprintf(c.out, "Error: failed to log scan: %v\n", err)
		return
	}

	c.led.Blink(hardware.BlinkCount(entry.Action))

	fmt.Fprintln(c.out, separator)
	fmt.Fprintf(c.out, "SUCCESS: %s logged for %s (%s)\n", entry.Action, entry.FullName, entry.CardID)
	fmt.Fprintf(c.out, "Time: %s\n", entry.ScanTime.Format("2006-01-02 15:04:05"))
}

func (c *Console) registerFlow(ctx context.Context) {
	fmt.Fprintln(c.out, separator)
	fmt.Fprintln(c.out, "ADD NEW CARD")
	fmt.Fprintln(c.out, "Please scan the new card now...")

	cardID, err := c.reader.ReadCard(ctx, 0)
	if err != nil {
		fmt.Fprintln(c.out, "Error: No card ID received.")
		return
	}

	if u, err := c.svc.GetUser(ctx, cardID); err == nil {
		fmt.Fprintf(c.out, "Error: Card '%s' is already registered to %s.\n", cardID, u.FullName)
		return
	}

	fmt.Fprintf(c.out, "Card ID captured: %s\n", cardID)
	c.registerCard(ctx, cardID)
}

func (c *Console) inlineRegister(ctx context.Context, cardID string) {
	answer, err := c.readLine("Register this card now? [y/N]: ")
	if err != nil || !strings.EqualFold(answer, "y") {
		fmt.Fprintln(c.out, "Please use 'Add New Card' option to register.")
		return
	}
	c.registerCard(ctx, cardID)
}

func (c *Console) registerCard(ctx context.Context, cardID string) {
	fullName, err := c.readLine("Enter Full Name for this card: ")
	if err != nil {
		return
	}

	u, err := c.svc.Register(ctx, cardID, fullName)
	switch {
	case errors.Is(err, service.ErrInvalidName):
		fmt.Fprintln(c.out, "Registration cancelled: Name is required.")
	case errors.Is(err, service.ErrCardRegistered):
		fmt.Fprintf(c.out, "Error: Card '%s' is already registered.\n", cardID)
	case err != nil:
		fmt.Fprintf(c.out, "Error: Failed to register card: %v\n", err)
	default:
		fmt.Fprintf(c.out, "Success! Card registered to %s.\n", u.FullName)
	}
}

func (c *Console) historyFlow(ctx context.Context) {
	fmt.Fprintln(c.out, separator)
	fmt.Fprintln(c.out, "ACCESS HISTORY")
	fmt.Fprintln(c.out, separator)

	logs, err := c.svc.History(ctx, "", 0)
	if err != nil {
		fmt.Fprintf(c.out, "Error: failed to load history: %v\n", err)
		return
	}

	if len(logs) == 0 {
		fmt.Fprintln(c.out, "No records found.")
		return
	}

	fmt.Fprintf(c.out, "%-20s | %-10s | %s\n", "TIME", "ACTION", "NAME")
	fmt.Fprintln(c.out, separator)
	for _, entry := range logs {
		fmt.Fprintf(c.out, "%-20s | %-10s | %s\n",
			entry.ScanTime.Format("2006-01-02 15:04:05"), entry.Action, entry.FullName)
	}
}

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
