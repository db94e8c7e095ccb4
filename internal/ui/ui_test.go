package ui

import (
	"strings"
	"testing"
)

func TestSuccess(t *testing.T) {
	out := Success("done")
	if !strings.Contains(out, SymCheck) {
		t.Errorf("Success output should contain %q, got %q", SymCheck, out)
	}
	if !strings.Contains(out, "done") {
		t.Errorf("Success output should contain message, got %q", out)
	}
}

func TestError(t *testing.T) {
	out := Error("failed")
	if !strings.Contains(out, SymCross) {
		t.Errorf("Error output should contain %q, got %q", SymCross, out)
	}
}

func TestTable(t *testing.T) {
	out := Table([]string{"ID", "HOST"}, [][]string{{"1", "10.0.0.1"}})
	if !strings.Contains(out, "HOST") || !strings.Contains(out, "10.0.0.1") {
		t.Errorf("Table output should contain headers and cells, got %q", out)
	}
}
