package availability

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	valid := []struct {
		input string
		want  Minute
	}{
		{"00:00", 0},
		{"09:30", 9*60 + 30},
		{"9:30", 9*60 + 30},
		{"23:59", 23*60 + 59},
		{" 17:00 ", 17 * 60},
	}
	for _, tc := range valid {
		got, err := ParseClock(tc.input)
		if err != nil {
			t.Fatalf("ParseClock(%q) returned error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseClock(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}

	invalid := []string{"", "24:00", "12:60", "12:5", "noon", "12", "12:345", "-1:00", "1200"}
	for _, input := range invalid {
		if _, err := ParseClock(input); !errors.Is(err, ErrInvalidTimeFormat) {
			t.Fatalf("ParseClock(%q) = %v, want ErrInvalidTimeFormat", input, err)
		}
	}
}

func TestMinuteString_RoundTrips(t *testing.T) {
	t.Parallel()

	for _, m := range []Minute{0, 1, 9 * 60, 9*60 + 5, 23*60 + 59} {
		parsed, err := ParseClock(m.String())
		if err != nil {
			t.Fatalf("ParseClock(%q) returned error: %v", m.String(), err)
		}
		if parsed != m {
			t.Fatalf("round trip of %d via %q produced %d", m, m.String(), parsed)
		}
	}
}

func TestMinuteOf(t *testing.T) {
	t.Parallel()

	instant := time.Date(2024, time.March, 4, 14, 45, 59, 0, time.UTC)
	if got := MinuteOf(instant); got != 14*60+45 {
		t.Fatalf("MinuteOf = %d, want %d", got, 14*60+45)
	}
}
