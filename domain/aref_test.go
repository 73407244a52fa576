package domain

import "testing"

func TestParseARefRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		col  int
		row  int
	}{
		{"A1", 0, 0},
		{"B7", 1, 6},
		{"Z1", 25, 0},
		{"AA1", 26, 0},
		{"AA104", 26, 103},
		{"XFD1048576", MaxCol, MaxRow},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ref, err := ParseARef(tt.in)
			if err != nil {
				t.Fatalf("ParseARef(%q): %v", tt.in, err)
			}
			if ref.Col() != tt.col || ref.Row() != tt.row {
				t.Fatalf("ParseARef(%q) = (%d,%d); want (%d,%d)", tt.in, ref.Col(), ref.Row(), tt.col, tt.row)
			}
			if got := ref.String(); got != tt.in {
				t.Fatalf("String() = %q; want %q", got, tt.in)
			}
		})
	}
}

func TestParseARefMalformed(t *testing.T) {
	for _, in := range []string{"", "1", "A", "1A", "A-1"} {
		if _, err := ParseARef(in); err == nil {
			t.Fatalf("ParseARef(%q): expected error, got nil", in)
		}
	}
}

func TestNewARefOutOfRange(t *testing.T) {
	if _, err := NewARef(-1, 0); err == nil {
		t.Fatalf("NewARef(-1, 0): expected error")
	}
	if _, err := NewARef(0, MaxRow+1); err == nil {
		t.Fatalf("NewARef(0, MaxRow+1): expected error")
	}
	if _, err := NewARef(MaxCol+1, 0); err == nil {
		t.Fatalf("NewARef(MaxCol+1, 0): expected error")
	}
}

func TestRangeString(t *testing.T) {
	a := MustARef(0, 0)
	b := MustARef(1, 1)
	r := Range{From: a, To: b}
	if got, want := r.String(), "A1:B2"; got != want {
		t.Fatalf("Range.String() = %q; want %q", got, want)
	}
	single := Range{From: a, To: a}
	if got, want := single.String(), "A1"; got != want {
		t.Fatalf("single Range.String() = %q; want %q", got, want)
	}
}
