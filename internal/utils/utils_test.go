package utils

import "testing"

func TestGenToken(t *testing.T) {
	a := GenToken(32)
	b := GenToken(32)
	if len(a) != 64 {
		t.Errorf("GenToken(32) returned %d chars, want 64", len(a))
	}
	if a == b {
		t.Errorf("GenToken returned the same token twice: %s", a)
	}
}
