package parser

import (
	"testing"
	"time"
)

var now = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"Yesterday", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"3 days", time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
		{"2w ago", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"5 hours ago", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in, now, time.UTC)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "2024-02-30", "31/04/2024", "2024-13-01", "next week", "3 fortnights"} {
		if _, err := ParseDate(in, now, time.UTC); err == nil {
			t.Fatalf("ParseDate(%q) should fail", in)
		}
	}
}

func TestParseDate_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	got, err := ParseDate("2024-01-15", now, tokyo)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if want := time.Date(2024, 1, 14, 15, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected start of day in Tokyo (%v), got %v", want, got.UTC())
	}
}

func TestEndOfDay(t *testing.T) {
	got := EndOfDay(time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC))
	if want := time.Date(2024, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC); !got.Equal(want) {
		t.Fatalf("EndOfDay = %v, want %v", got, want)
	}
}

func TestParseMonth(t *testing.T) {
	year, month, err := ParseMonth("2024-01")
	if err != nil || year != 2024 || month != 1 {
		t.Fatalf("ParseMonth = %d, %d, %v", year, month, err)
	}
	for _, in := range []string{"2024-13", "2024", "01-2024", ""} {
		if _, _, err := ParseMonth(in); err == nil {
			t.Fatalf("ParseMonth(%q) should fail", in)
		}
	}
}

func TestParseDays(t *testing.T) {
	cases := map[string]int{
		"30":       30,
		"30d":      30,
		"365 days": 365,
		"2w":       14,
		"1 week":   7,
		"3 months": 90,
		"0":        0,
	}
	for in, want := range cases {
		got, err := ParseDays(in)
		if err != nil {
			t.Fatalf("ParseDays(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDays(%q) = %d, want %d", in, got, want)
		}
	}
	for _, in := range []string{"-5", "ten", "5 years", "999999"} {
		if _, err := ParseDays(in); err == nil {
			t.Fatalf("ParseDays(%q) should fail", in)
		}
	}
}

func TestParseAssignment(t *testing.T) {
	cases := []struct {
		in    string
		key   string
		value any
	}{
		{"focusTime=30", "focusTime", 30},
		{" soundEnabled = off ", "soundEnabled", false},
		{"ratio=1.5", "ratio", 1.5},
		{"theme=dark", "theme", "dark"},
		{`code="42"`, "code", "42"},
		{"empty=", "empty", ""},
	}
	for _, tc := range cases {
		key, value, err := ParseAssignment(tc.in)
		if err != nil {
			t.Fatalf("ParseAssignment(%q): %v", tc.in, err)
		}
		if key != tc.key || value != tc.value {
			t.Fatalf("ParseAssignment(%q) = %q, %#v; want %q, %#v", tc.in, key, value, tc.key, tc.value)
		}
	}
	for _, in := range []string{"focusTime", "=5", ""} {
		if _, _, err := ParseAssignment(in); err == nil {
			t.Fatalf("ParseAssignment(%q) should fail", in)
		}
	}
}
