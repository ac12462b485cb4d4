package ui

import (
	"strings"
	"testing"
)

func TestKeyValuesAligns(t *testing.T) {
	out := KeyValues("", KV("name", "Alpha"), KV("topic", "IA"))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "Alpha") || !strings.Contains(lines[1], "IA") {
		t.Fatalf("values missing: %q", out)
	}
}

func TestTableContainsHeadersAndCells(t *testing.T) {
	out := Table([]string{"Name", "Topic"}, [][]string{{"Alpha", "IA"}, {"Beta", "IoT"}})
	for _, want := range []string{"Name", "Topic", "Alpha", "IoT"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestMessageHelpersAreSingleLine(t *testing.T) {
	for name, msg := range map[string]string{
		"success": SuccessMsg("created %q", "Alpha"),
		"warn":    WarnMsg("team %q already exists", "Alpha"),
		"error":   ErrorMsg("daemon unreachable"),
		"info":    InfoMsg("holder is %s", "n2"),
	} {
		if strings.Contains(msg, "\n") {
			t.Errorf("%s message has a newline: %q", name, msg)
		}
	}
}
