// Package irq defines the basic interface for raising a hardware
// interrupt against a 6502 family CPU. A source that wants to signal
// NMI, IRQ or a pause/RDY condition implements this interface so it
// can be handed to the CPU without cross coupling component logic.
package irq

// Sender defines the interface for an interrupt source. The CPU polls
// Raised() between instructions (never mid-instruction).
type Sender interface {
	// Raised indicates whether the interrupt line is currently held high.
	Raised() bool
}

// Line is a simple edge-settable Sender a driver can use directly for
// the interrupt_nmi/interrupt_irq/pause control signals described
// in the concurrency model.
type Line struct {
	raised bool
}

// Raised implements Sender.
func (l *Line) Raised() bool {
	return l.raised
}

// Set raises or lowers the line.
func (l *Line) Set(v bool) {
	l.raised = v
}
