package domain

import (
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  RelativeDuration
	}{
		{"P1YT1S", RelativeDuration{Months: 12, Seconds: 1}},
		{"P2Y2M2DT2H2M2S", RelativeDuration{Months: 26, Seconds: ((2*24+2)*60+2)*60 + 2}},
		{"P1M", RelativeDuration{Months: 1}},
		{"PT10M", RelativeDuration{Seconds: 600}},
		{"PT1H", RelativeDuration{Seconds: 3600}},
		{"P1D", RelativeDuration{Seconds: 86400}},
		{"PT0S", RelativeDuration{}},
		{"P", RelativeDuration{}},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if err != nil {
			t.Errorf("ParseDuration(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestParseDurationErrors(t *testing.T) {
	for _, input := range []string{
		"",        // no prefix
		"1Y",      // no prefix
		"P1X",     // trailing junk in datespec
		"PT1Q",    // trailing junk in timespec
		"PxY",     // not an integer
		"P1Y2Mxx", // trailing junk after consumed fields
	} {
		if _, err := ParseDuration(input); err == nil {
			t.Errorf("ParseDuration(%q) should have failed", input)
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	// Serialising then reparsing must reproduce (months, seconds) exactly.
	cases := []RelativeDuration{
		{},
		{Months: 1},
		{Months: 12},
		{Months: 13},
		{Months: 26, Seconds: 180122},
		{Seconds: 1},
		{Seconds: 59},
		{Seconds: 60},
		{Seconds: 3600},
		{Seconds: 86400},
		{Seconds: 90061},
		{Months: 7, Seconds: 93784},
	}

	for _, d := range cases {
		s := d.String()
		got, err := ParseDuration(s)
		if err != nil {
			t.Fatalf("reparse of %q (from %+v) failed: %v", s, d, err)
		}
		if got != d {
			t.Errorf("round trip %+v -> %q -> %+v", d, s, got)
		}
	}
}

func TestDurationAddToCalendarAware(t *testing.T) {
	// One month over February lands on the same day of March, not +30d.
	feb1 := Timestamp(1706745600) // 2024-02-01T00:00:00Z
	got := Months(1).AddTo(feb1.Time())
	if got.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("P1M from 2024-02-01 = %s, want 2024-03-01", got.Format("2006-01-02"))
	}
}
