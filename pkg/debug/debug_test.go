package debug

import (
	"log/slog"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"single", "dispatch", map[string]bool{"dispatch": true}},
		{"multiple", "dispatch,tools", map[string]bool{"dispatch": true, "tools": true}},
		{"all", "all", map[string]bool{"all": true}},
		{"with spaces", " dispatch , tools ", map[string]bool{"dispatch": true, "tools": true}},
		{"uppercase normalized", "DISPATCH,Tools", map[string]bool{"dispatch": true, "tools": true}},
		{"empty segments", "dispatch,,tools", map[string]bool{"dispatch": true, "tools": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategories(tt.input)
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("got[%q] = %v, want %v", k, got[k], v)
				}
			}
			if len(got) != len(tt.want) {
				t.Errorf("len(got) = %d, want %d", len(got), len(tt.want))
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("dispatch,tools")

	if !Enabled("dispatch") {
		t.Error("dispatch should be enabled")
	}
	if !Enabled("tools") {
		t.Error("tools should be enabled")
	}
	if Enabled("transport") {
		t.Error("transport should not be enabled")
	}
}

func TestEnabled_All(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("all")

	if !Enabled("dispatch") {
		t.Error("dispatch should be enabled via 'all'")
	}
	if !Enabled("anything") {
		t.Error("every category should be enabled via 'all'")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{" info ", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate long = %q", got)
	}
}
