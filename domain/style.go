package domain

import "fmt"

// HAlign and VAlign enumerate horizontal/vertical cell alignment, matching
// ECMA-376 §18.8.1's enumeration (spec.md §4.5).
type HAlign string

const (
	HAlignDefault         HAlign = ""
	HAlignGeneral         HAlign = "general"
	HAlignLeft            HAlign = "left"
	HAlignCenter          HAlign = "center"
	HAlignRight           HAlign = "right"
	HAlignFill             HAlign = "fill"
	HAlignJustify          HAlign = "justify"
	HAlignCenterContinuous HAlign = "centerContinuous"
	HAlignDistributed      HAlign = "distributed"
)

type VAlign string

const (
	VAlignDefault   VAlign = ""
	VAlignTop       VAlign = "top"
	VAlignMiddle    VAlign = "center" // domain name Middle maps to xml "center"
	VAlignBottom    VAlign = "bottom"
	VAlignJustify   VAlign = "justify"
	VAlignDistributed VAlign = "distributed"
)

// Alignment holds a cell's alignment properties. The zero value is "no
// alignment specified" and serializes to no <alignment> child (spec.md
// §4.5).
type Alignment struct {
	Horizontal      HAlign
	Vertical        VAlign
	WrapText        bool
	TextRotation    int
	Indent          int
	ShrinkToFit     bool
	JustifyLastLine bool
}

// IsZero reports whether the alignment equals the OOXML default (no
// <alignment> element should be emitted).
func (a Alignment) IsZero() bool {
	return a == Alignment{}
}

// BorderLine is one edge of a CellBorder.
type BorderLine struct {
	Style    string // "thin", "medium", "dashed", ... or "" for none
	ColorRGB string
}

// CellBorder holds the four edges plus the two diagonals.
type CellBorder struct {
	Left, Right, Top, Bottom BorderLine
	Diagonal                 BorderLine
	DiagonalUp, DiagonalDown bool
}

// PatternFill holds a cell's fill pattern.
type PatternFill struct {
	PatternType string // "none", "solid", "gray125", ...
	FgColorRGB  string
	BgColorRGB  string
}

// NumFmt is a number format: either a built-in ID or a custom format code.
type NumFmt struct {
	Code string // e.g. "0.00%", "" for General
}

// CellStyle is the canonical, source-independent representation of a
// cell's formatting (spec.md §3). NumFmtID, when non-nil, preserves the
// exact numeric format identifier the style was read with, so an
// untouched cell round-trips to the same ID even when a reverse lookup
// from Code would choose a different built-in.
type CellStyle struct {
	Font      Font
	Fill      PatternFill
	Border    CellBorder
	NumFmt    NumFmt
	NumFmtID  *int
	Alignment Alignment
}

// CanonicalKey produces a deterministic string identifying styles that are
// equivalent for deduplication purposes (spec.md §3, §4.5). It
// deliberately excludes NumFmtID: two cells that share every visible
// property but were read with different historical numFmtIds still
// dedup to the same style bucket when newly authored; NumFmtID is
// honored only when the StyleIndex assigns the numFmtId of a new xf.
// NumFmt.Code "General" and Fill.PatternType "none" key the same as
// their empty defaults, so a style read back from styles.xml matches an
// equivalent hand-built one.
func (s CellStyle) CanonicalKey() string {
	numFmt := s.NumFmt.Code
	if numFmt == "General" {
		numFmt = ""
	}
	pattern := s.Fill.PatternType
	if pattern == "none" {
		pattern = ""
	}
	return fmt.Sprintf(
		"font:%s|%.2f|%v|%v|%v|%v|%s|%d|%d|%s#fill:%s|%s|%s#border:%s|%s|%s|%s|%s|%v|%v|%s|%s#numfmt:%s#align:%s|%s|%v|%d|%d|%v|%v",
		s.Font.Name, s.Font.Size, s.Font.Bold, s.Font.Italic, s.Font.Underline, s.Font.Strike,
		s.Font.ColorRGB, s.Font.Family, s.Font.Charset, s.Font.Scheme,
		pattern, s.Fill.FgColorRGB, s.Fill.BgColorRGB,
		borderKey(s.Border.Left), borderKey(s.Border.Right), borderKey(s.Border.Top), borderKey(s.Border.Bottom),
		borderKey(s.Border.Diagonal), s.Border.DiagonalUp, s.Border.DiagonalDown,
		"", "",
		numFmt,
		s.Alignment.Horizontal, s.Alignment.Vertical, s.Alignment.WrapText, s.Alignment.TextRotation,
		s.Alignment.Indent, s.Alignment.ShrinkToFit, s.Alignment.JustifyLastLine,
	)
}

func borderKey(b BorderLine) string {
	return b.Style + ":" + b.ColorRGB
}

// DefaultCellStyle is the style at StyleIndex slot 0 (spec.md §4.5
// invariant 1).
func DefaultCellStyle() CellStyle {
	return CellStyle{}
}
