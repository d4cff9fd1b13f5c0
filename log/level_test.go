package log

import (
	"slices"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelInfo + 2, "info+2"},
		{LevelTrace - 2, "trace-2"},
		{LevelTrace + 1, "trace+1"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"TRACE", LevelTrace, false},
		{"debug", LevelDebug, false},
		{"Info", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"error", LevelError, false},
		{"info+2", LevelInfo + 2, false},
		{"verbose", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var l Level

			err := l.UnmarshalText([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}

			if !tt.wantErr && l != tt.want {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tt.input, l, tt.want)
			}
		})
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	for name := range Levels() {
		l := ParseLevel(name)

		text, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText: %v", err)
		}

		if string(text) != name {
			t.Errorf("expected %q, got %q", name, text)
		}
	}

	if got := ParseLevel("nonsense"); got != DefaultLevel {
		t.Errorf("expected default level for unknown name, got %v", got)
	}
}

func TestFormat_Parse(t *testing.T) {
	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("unexpected formats %v", got)
	}

	if ParseFormat("JSON") != FormatJSON || ParseFormat("text") != FormatText {
		t.Error("expected case-insensitive format names")
	}

	if ParseFormat("xml") != DefaultFormat {
		t.Error("expected default format for unknown name")
	}

	var f Format
	if err := f.UnmarshalText([]byte("yaml")); err == nil {
		t.Error("expected error for unknown format")
	}

	if Format(9).String() != "Format(9)" {
		t.Errorf("unexpected name for undefined format: %s", Format(9))
	}
}
