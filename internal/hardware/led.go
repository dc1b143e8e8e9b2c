package hardware

import (
	"log"

	"github.com/fulutas/cardaccess/internal/access/types"
)

// LED is the confirmation light. All operations are best-effort: failures are
// logged by the implementation, never propagated.
type LED interface {
	Blink(times int)
	On()
	Off()
	Cleanup()
}

// BlinkCount maps an action to its confirmation pattern: two blinks for
// ENTRY, three for EXIT.
func BlinkCount(a types.Action) int {
	if a == types.ActionExit {
		return 3
	}
	return 2
}

// SimLED logs blink patterns instead of driving a GPIO pin.
type SimLED struct {
	logger *log.Logger
	pin    int
}

func NewSimLED(pin int, logger *log.Logger) *SimLED {
	return &SimLED{logger: logger, pin: pin}
}

func (l *SimLED) Blink(times int) {
	l.logger.Printf("led(sim): blink x%d on pin %d", times, l.pin)
}

func (l *SimLED) On()  { l.logger.Printf("led(sim): on") }
func (l *SimLED) Off() { l.logger.Printf("led(sim): off") }

func (l *SimLED) Cleanup() {
	l.logger.Printf("led(sim): cleanup")
}

// NopLED is the degraded mode used when no LED is available at all.
type NopLED struct{}

func (NopLED) Blink(int) {}
func (NopLED) On()       {}
func (NopLED) Off()      {}
func (NopLED) Cleanup()  {}
