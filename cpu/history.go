package cpu

import "github.com/mattbrant/sixtyfive/decode"

// HistoryEntry records one executed instruction for the Inspector's
// bounded execution history.
type HistoryEntry struct {
	PC        uint16
	Opcode    *decode.Opcode
	Operand   [2]uint8
	Registers Registers
}

// appendHistory records one completed instruction into the ring
// buffer, overwriting the oldest entry once full.
func (c *CPU) appendHistory(addr uint16, entry *decode.Opcode, opBytes []uint8) {
	if len(c.history) == 0 {
		return
	}
	var hist HistoryEntry
	hist.PC = addr
	hist.Opcode = entry
	copy(hist.Operand[:], opBytes)
	hist.Registers = c.Snapshot()

	c.history[c.historyPos] = hist
	c.historyPos = (c.historyPos + 1) % len(c.history)
	if c.historyLen < len(c.history) {
		c.historyLen++
	}
}

// History returns the recorded instructions, oldest first, newest last.
func (c *CPU) History() []HistoryEntry {
	out := make([]HistoryEntry, c.historyLen)
	start := (c.historyPos - c.historyLen + len(c.history)) % len(c.history)
	for i := 0; i < c.historyLen; i++ {
		out[i] = c.history[(start+i)%len(c.history)]
	}
	return out
}
