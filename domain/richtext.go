package domain

// Font describes the subset of font properties a rich-text run or a cell
// style can carry.
type Font struct {
	Name      string
	Size      float64 // points
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	ColorRGB  string // "RRGGBB" or "" for automatic
	Family    int
	Charset   int
	Scheme    string // "minor", "major", or ""
}

// TextRun is one run of a rich-text cell or comment body. Invariant
// (spec.md §3): at most one of {RawRPrXML, Font} contributes to output;
// RawRPrXML takes precedence when both are set, since it carries the
// exact source bytes the run was read with.
type TextRun struct {
	Text      string
	Font      *Font
	RawRPrXML string
}

// HasRawFormatting reports whether this run carries a preserved <rPr>
// fragment that must round-trip verbatim rather than being rebuilt from
// Font.
func (r TextRun) HasRawFormatting() bool { return r.RawRPrXML != "" }
