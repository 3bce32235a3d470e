package syntax

import "testing"

func TestPosOffset(t *testing.T) {
	p := MakePos("test.bas", 42, 3, 7)
	if p.Offset() != 42 {
		t.Errorf("Offset() = %d, want 42", p.Offset())
	}
	if p.Line() != 3 || p.Col() != 7 {
		t.Errorf("position = %d:%d, want 3:7", p.Line(), p.Col())
	}
	if p.Filename() != "test.bas" {
		t.Errorf("Filename() = %q, want test.bas", p.Filename())
	}

	q := NewPos("test.bas", 3, 7)
	if q.Offset() != 0 {
		t.Errorf("NewPos offset = %d, want 0", q.Offset())
	}
}

func TestPosString(t *testing.T) {
	if got := MakePos("m.bas", 10, 2, 5).String(); got != "m.bas:2:5" {
		t.Errorf("String() = %q, want m.bas:2:5", got)
	}
	if got := NewPos("", 2, 5).String(); got != "2:5" {
		t.Errorf("String() = %q, want 2:5", got)
	}
	var zero Pos
	if zero.IsValid() {
		t.Error("zero Pos should be invalid")
	}
}
