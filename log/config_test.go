package log

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	c := makeConfig(nil)

	if c.level != DefaultLevel || c.format != DefaultFormat {
		t.Errorf("unexpected defaults: level=%v format=%v", c.level, c.format)
	}

	if c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("unexpected defaults: caller=%v pretty=%v", c.caller, c.pretty)
	}

	if c.output == nil {
		t.Error("expected nil writer to be replaced")
	}
}

func TestConfig_Options(t *testing.T) {
	c := makeConfig(nil,
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		nil,
	)

	if c.level != LevelTrace || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("options not applied: %+v", c)
	}

	clone := c.clone(WithLevel(LevelError))
	if clone.level != LevelError || c.level != LevelTrace {
		t.Error("clone must not alter the original")
	}

	if clone.mutex == c.mutex {
		t.Error("clone must have its own mutex")
	}
}

func TestConfig_formatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano", "rfc3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"kitchen", "Kitchen", "2:30PM"},
		{"datetime", "DateTime", "2023-10-15 14:30:45"},
		{"milliseconds", "ms", "Oct 15 14:30:45.123"},
		{"custom", "2006/01/02", "2023/10/15"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"whitespace", "  \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})

			if got := c.formatTime(now); got != tt.want {
				t.Errorf("layout %q: expected %q, got %q", tt.layout, tt.want, got)
			}
		})
	}
}

func TestConfig_HandlerLevelNames(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf,
		WithLevel(LevelTrace),
		WithPretty(false),
		WithTimeLayout("none"),
	)
	logger.Trace("step")

	if buf.String() != "level=TRACE msg=step\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func BenchmarkConfig_formatTime(b *testing.B) {
	c := WithTimeLayout("RFC3339Nano")(config{})
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
