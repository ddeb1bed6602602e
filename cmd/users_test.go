package cmd

import (
	"strings"
	"testing"
)

func TestRenderTableAlignment(t *testing.T) {
	out := renderTable(
		[]string{"ID", "EMAIL"},
		[][]string{
			{"u-1", "a@example.com"},
			{"u-22", "b@x.io"},
		},
		false,
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if lines[0] != "ID    EMAIL" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "u-1   a@example.com" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "u-22  b@x.io" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestRenderTableEmptyRows(t *testing.T) {
	out := renderTable([]string{"ID", "SUBJECT"}, nil, false)
	if strings.TrimRight(out, "\n") != "ID  SUBJECT" {
		t.Errorf("out = %q", out)
	}
}
