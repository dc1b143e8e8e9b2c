// Package hardware holds the contracts for the badge reader and the
// confirmation LED, plus the simulated implementations used for development
// and tests. Real drivers (PN532 over I2C, GPIO) are external collaborators
// that satisfy the same interfaces.
package hardware

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNoCard is returned when the timeout elapses with no card presented.
	ErrNoCard = errors.New("no card presented")

	// ErrReaderClosed is returned once the reader's input source is exhausted
	// or the reader has been closed.
	ErrReaderClosed = errors.New("card reader closed")
)

// CardReader waits for a badge and returns its identifier. timeout <= 0
// blocks until a card is presented, the reader closes, or ctx is cancelled.
type CardReader interface {
	ReadCard(ctx context.Context, timeout time.Duration) (string, error)
	Close() error
}

type lineResult struct {
	line string
	err  error
}

// SimReader substitutes typed input for a physical reader: each line on the
// input is one card ID. It reads lazily, so the underlying reader can be
// shared with other line-oriented input (the console menu does this).
type SimReader struct {
	logger *log.Logger
	br     *bufio.Reader

	mu       sync.Mutex
	inflight chan lineResult // non-nil while a background read is outstanding
	closed   bool
}

// NewSimReader wraps in as a simulated card reader. Passing an existing
// *bufio.Reader shares its buffer instead of stacking a second one.
func NewSimReader(in io.Reader, logger *log.Logger) *SimReader {
	logger.Printf("card reader in simulation mode (line input)")
	return &SimReader{
		logger: logger,
		br:     bufio.NewReader(in),
	}
}

func (s *SimReader) ReadCard(ctx context.Context, timeout time.Duration) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrReaderClosed
	}
	ch := s.inflight
	if ch == nil {
		// One outstanding read at a time. A read left over from a timed-out
		// call is reused here, so no input line is ever dropped.
		ch = make(chan lineResult, 1)
		s.inflight = ch
		go func() {
			line, err := s.br.ReadString('\n')
			ch <- lineResult{line: strings.TrimSpace(line), err: err}
		}()
	}
	s.mu.Unlock()

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case res := <-ch:
		s.mu.Lock()
		s.inflight = nil
		s.mu.Unlock()

		if res.err != nil {
			if res.line != "" {
				// Final line without a trailing newline still counts.
				return res.line, nil
			}
			return "", ErrReaderClosed
		}
		if res.line == "" {
			return "", ErrNoCard
		}
		return res.line, nil
	case <-timer:
		return "", ErrNoCard
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *SimReader) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.logger.Printf("card reader released")
	}
	return nil
}
