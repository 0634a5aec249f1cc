package harness

import "testing"

func TestNopCallbackVerifyAlwaysPasses(t *testing.T) {
	var cb Callback = NopCallback{}
	if !cb.Verify(0x1000, 1, 2, 3) {
		t.Errorf("NopCallback.Verify should always report success")
	}
	cb.Fail()
	cb.Halt()
}
