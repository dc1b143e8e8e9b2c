// Package listener runs the unattended scan loop: poll the reader, log the
// scan, blink the LED, repeat. Unknown cards are rejected per scan; the
// listener never offers registration.
package listener

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fulutas/cardaccess/internal/access/service"
	"github.com/fulutas/cardaccess/internal/hardware"
)

// Listener polls the card reader with a short timeout so the loop stays
// responsive to shutdown, and is safe to stop via its context or Stop.
type Listener struct {
	svc         *service.AccessService
	reader      hardware.CardReader
	led         hardware.LED
	pollTimeout time.Duration
	logger      *log.Logger
	cancel      context.CancelFunc
	done        chan struct{}
}

type Config struct {
	// PollTimeout bounds each reader poll. Defaults to 1s.
	PollTimeout time.Duration
}

// New creates a listener but does not start it. Call Start to begin the loop.
func New(svc *service.AccessService, reader hardware.CardReader, led hardware.LED, cfg Config, logger *log.Logger) *Listener {
	poll := cfg.PollTimeout
	if poll <= 0 {
		poll = time.Second
	}

	return &Listener{
		svc:         svc,
		reader:      reader,
		led:         led,
		pollTimeout: poll,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Start begins the scan loop. The loop exits when ctx is cancelled, Stop is
// called, or the reader closes.
func (l *Listener) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)

	go l.loop(ctx)

	l.logger.Printf("card listener started (poll=%s)", l.pollTimeout)
}

// Stop signals the listener to exit and waits for it to finish.
func (l *Listener) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	<-l.done
}

func (l *Listener) loop(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cardID, err := l.reader.ReadCard(ctx, l.pollTimeout)
		switch {
		case errors.Is(err, hardware.ErrNoCard):
			continue
		case errors.Is(err, hardware.ErrReaderClosed):
			l.logger.Printf("card reader closed, stopping listener")
			return
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return
		case err != nil:
			l.logger.Printf("reader error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		l.handleScan(ctx, cardID)
	}
}

func (l *Listener) handleScan(ctx context.Context, cardID string) {
	entry, err := l.svc.Scan(ctx, cardID)
	switch {
	case errors.Is(err, service.ErrUnknownCard):
		l.logger.Printf("unknown card %q - register it before use", cardID)
		return
	case err != nil:
		// Store trouble shouldn't kill the loop; report and keep listening.
		l.logger.Printf("scan %q: %v", cardID, err)
		return
	}

	l.led.Blink(hardware.BlinkCount(entry.Action))
	l.logger.Printf("%s: %s (%s)", entry.Action, entry.FullName, entry.CardID)
}
