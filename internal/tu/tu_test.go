package tu

import "testing"

func TestInternReturnsSameUnderlyingString(t *testing.T) {
	u := New("t", []byte("int x;"))
	a := u.Intern("hello")
	b := u.Intern("hello")
	if a != b {
		t.Fatalf("Intern returned different values for the same string: %q != %q", a, b)
	}
}

func TestSetAbortTogglesBag(t *testing.T) {
	u := New("t", []byte(""))
	if u.Bag.Abort {
		t.Fatalf("new TU should not start in abort mode")
	}
	u.SetAbort(true)
	if !u.Bag.Abort {
		t.Fatalf("SetAbort(true) did not set the bag's Abort flag")
	}
}

func TestNewInitializesEmptyTables(t *testing.T) {
	u := New("t", []byte(""))
	if u.Types.Len() != 1 {
		t.Errorf("Types.Len() = %d, want 1 (just the None sentinel)", u.Types.Len())
	}
	if u.Scopes.Len() != 1 {
		t.Errorf("Scopes.Len() = %d, want 1 (just the sentinel)", u.Scopes.Len())
	}
	if u.NodeType == nil || u.NodeScope == nil {
		t.Errorf("NodeType/NodeScope binding maps should be initialized, not nil")
	}
}
