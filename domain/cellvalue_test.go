package domain

import (
	"testing"
	"time"
)

func TestTextValueNormalizesToNFC(t *testing.T) {
	// "e" + combining acute accent (NFD) should normalize to the
	// precomposed "é" (NFC).
	decomposed := "é"
	v := TextValue(decomposed)
	want := "é"
	if v.Text != want {
		t.Fatalf("TextValue did not normalize to NFC: got %q (% x), want %q (% x)", v.Text, v.Text, want, want)
	}
}

func TestPlainTextProjection(t *testing.T) {
	text := TextValue("hello")
	if got := text.PlainText(); got != "hello" {
		t.Fatalf("PlainText() = %q; want %q", got, "hello")
	}

	rich := RichTextValue([]TextRun{{Text: "foo"}, {Text: "bar"}})
	if got := rich.PlainText(); got != "foobar" {
		t.Fatalf("PlainText() = %q; want %q", got, "foobar")
	}

	if got := Empty().PlainText(); got != "" {
		t.Fatalf("Empty().PlainText() = %q; want empty", got)
	}
}

func TestSerialDateRoundTrip(t *testing.T) {
	// 1970-01-01 is serial day 25569 in the 1900 date system.
	want := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	serial := FromTime(want)
	if serial != 25569 {
		t.Fatalf("FromTime(1970-01-01) = %v; want 25569", serial)
	}
	got := ToSerial(serial)
	if !got.Equal(want) {
		t.Fatalf("ToSerial(FromTime(t)) = %v; want %v", got, want)
	}
}

func TestSerialDateLeapYearBug(t *testing.T) {
	// Excel believes serial 60 is 1900-02-29 (a date that never existed);
	// both serial 59 and serial 60 must decode to the same underlying day
	// once ToSerial's one-day adjustment for serials >= 60 is applied.
	day59 := ToSerial(59)
	day60 := ToSerial(60)
	if !day59.Equal(day60) {
		t.Fatalf("serial 59 (%v) and serial 60 (%v) should collapse under the 1900 leap-year bug", day59, day60)
	}
	// Serial 61 (1900-03-01) must be one real day after that collapsed day.
	day61 := ToSerial(61)
	if day61.Sub(day59) != 24*time.Hour {
		t.Fatalf("serial 61 - serial 59 = %v; want 24h", day61.Sub(day59))
	}
}

func TestErrorValue(t *testing.T) {
	v := ErrorValue(ErrDiv0)
	if v.Kind != KindError || v.ErrKind != ErrDiv0 {
		t.Fatalf("ErrorValue(ErrDiv0) = %+v", v)
	}
}
