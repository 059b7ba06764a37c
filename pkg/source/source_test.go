package source

import "testing"

func TestLines(t *testing.T) {
	sf := NewEvalSource("let a = 1\nlet b = 2")
	if got := sf.Line(2); got != "let b = 2" {
		t.Errorf("expected second line, got %q", got)
	}
	if got := sf.Line(0); got != "" {
		t.Errorf("expected empty string out of range, got %q", got)
	}
	if got := sf.Line(3); got != "" {
		t.Errorf("expected empty string out of range, got %q", got)
	}
}

func TestNormalizeComposes(t *testing.T) {
	sf := NewReplSource("let cafe\u0301 = 1")
	sf.Lines()
	sf.Normalize()
	if sf.Content != "let caf\u00e9 = 1" {
		t.Errorf("expected NFC content, got %q", sf.Content)
	}
	if sf.Line(1) != sf.Content {
		t.Errorf("expected cached lines to be rebuilt")
	}
}

func TestDisplayPath(t *testing.T) {
	if got := FromFile("/tmp/x/main.snff", "").DisplayPath(); got != "/tmp/x/main.snff" {
		t.Errorf("expected the full path, got %q", got)
	}
	if got := FromFile("/tmp/x/main.snff", "").Name; got != "main.snff" {
		t.Errorf("expected the base name, got %q", got)
	}
	if got := NewStdinSource("").DisplayPath(); got != "<stdin>" {
		t.Errorf("expected <stdin>, got %q", got)
	}
}
