// Package harness defines the callback boundary for the debug-extension
// opcodes (VRFY/FAIL/HALT). The CPU invokes it at the right moments but
// never interprets the test-descriptor block itself; that grammar is
// entirely owned by the harness implementation.
package harness

// Callback receives notifications from a CPU running with the debug
// extension enabled.
type Callback interface {
	// Verify is called when VRFY executes, with the resolved operand
	// address of the test-descriptor block and a snapshot of A/X/Y at
	// the moment of the call. It returns whether the check passed.
	Verify(descriptor uint16, a, x, y uint8) bool

	// Fail is called when FAIL executes, meaning a prior Verify (or the
	// program itself) determined the test run failed.
	Fail()

	// Halt is called when HALT executes, meaning the program reached its
	// intended conformance-test end.
	Halt()
}

// NopCallback implements Callback by doing nothing and always passing
// Verify. Useful for running debug-extension-enabled ROMs without a
// real harness attached.
type NopCallback struct{}

// Verify always reports success.
func (NopCallback) Verify(descriptor uint16, a, x, y uint8) bool { return true }

// Fail does nothing.
func (NopCallback) Fail() {}

// Halt does nothing.
func (NopCallback) Halt() {}
