package subtitles

import (
	"fmt"
	"math"
	"testing"

	"github.com/op5no29/subtitle-generator/internal/types"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{-5, "00:00:00,000"}, // clamped, never an error
		{1.5, "00:00:01,500"},
		{3600, "01:00:00,000"},
		{3661.2505, "01:01:01,250"},
		{0.083, "00:00:00,083"},
		{90000, "25:00:00,000"}, // hour field grows past 24 unwrapped
		{math.NaN(), "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTimestamp_RoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 0.9994, 1.5, 59.999, 60, 61.123, 3599.5, 3600.25, 86399.9, 359999.5}
	for _, s := range samples {
		var h, m, sec, ms int
		str := FormatTimestamp(s)
		if _, err := fmt.Sscanf(str, "%d:%d:%d,%d", &h, &m, &sec, &ms); err != nil {
			t.Fatalf("parse %q: %v", str, err)
		}
		back := float64(h)*3600 + float64(m)*60 + float64(sec) + float64(ms)/1000
		if diff := math.Abs(back - s); diff > 0.0011 { // millisecond truncation
			t.Errorf("round trip of %v lost %.6fs (%q)", s, diff, str)
		}
	}
}

func TestRenderSRT(t *testing.T) {
	cues := []types.SubtitleCue{
		{Index: 1, Start: 0, End: 2.5, Text: "Hello world."},
		{Index: 2, Start: 2.5, End: 5, Text: "Two lines\nof text."},
	}
	want := "1\n00:00:00,000 --> 00:00:02,500\nHello world.\n\n" +
		"2\n00:00:02,500 --> 00:00:05,000\nTwo lines\nof text.\n\n"
	if got := RenderSRT(cues); got != want {
		t.Errorf("RenderSRT mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderSRT_Empty(t *testing.T) {
	if got := RenderSRT(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
