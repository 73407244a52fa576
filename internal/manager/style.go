// Package manager holds the workbook-wide indexing structures that sit
// between the domain model and the serialized parts: the style index
// (deduplicating CellStyle into styles.xml's font/fill/border/xf
// tables) and the shared strings table. Grounded on
// internal/manager/style.go in the teacher repo, generalized from
// paragraph/run style dedup to cell style dedup, and on excelize's
// xmlStyles.go for the styles.xml schema this index must produce
// (spec.md §4.5).
package manager

import (
	"fmt"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/xml"
)

// StyleIndex deduplicates domain.CellStyle values into the flat
// font/fill/border/numFmt/xf tables styles.xml requires, assigning each
// distinct style a workbook-wide cellXfs index (spec.md §4.5).
//
// Two prepended fills (index 0 "none", index 1 "gray125") are always
// present, matching ECMA-376's implicit requirement that every styles.xml
// declare at least these two fills before any custom ones (invariant 1).
type StyleIndex struct {
	fonts   []xml.FontRecord
	fills   []xml.FillRecord
	borders []xml.BorderRecord
	numFmts []xml.CustomNumFmt

	fontKey   map[string]int
	fillKey   map[string]int
	borderKey map[string]int
	numFmtKey map[string]int
	nextCustomNumFmtID int

	cellXfs    []xml.XfRecord
	cellXfKey  map[string]int

	// dxfs, after, and rootAttrs are carried through unexamined from a
	// source styles.xml so a hybrid write (which always regenerates
	// styles.xml, spec.md §4.12 step 2) preserves conditional-formatting
	// differential formats and any trailing opaque elements and root
	// namespace declarations exactly, rather than silently dropping them.
	dxfs      *xml.Element
	after     []*xml.Element
	rootAttrs []xml.Attr

	// withSource is non-nil when this index was built to preserve an
	// existing styles.xml (spec.md §4.5 "with-source" construction
	// mode): cellXfs entries already present keep their original index
	// even if a logically-identical style already exists elsewhere in
	// the table, so untouched cells keep their original numeric style
	// ID on a surgical write.
	withSource bool
}

const (
	numFmtGeneral     = 0
	firstCustomNumFmt = 164
)

// NewStyleIndex builds a StyleIndex with no source: every style is
// assigned the lowest free slot and deduplicated purely by canonical
// key (spec.md §4.5 "no-source" mode, used for fresh workbooks and full
// regeneration).
func NewStyleIndex() *StyleIndex {
	si := &StyleIndex{
		fontKey:            make(map[string]int),
		fillKey:            make(map[string]int),
		borderKey:          make(map[string]int),
		numFmtKey:          make(map[string]int),
		cellXfKey:          make(map[string]int),
		nextCustomNumFmtID: firstCustomNumFmt,
	}
	si.fills = append(si.fills, xml.FillRecord{PatternType: "none"})
	si.fills = append(si.fills, xml.FillRecord{PatternType: "gray125"})
	si.fontKey["font:Calibri|11|false|false||false|"] = si.addFont(xml.FontRecord{Name: "Calibri", Size: 11})
	si.borderKey["border:|||||false|false"] = si.addBorder(xml.BorderRecord{})
	si.cellXfs = append(si.cellXfs, xml.XfRecord{XfID: 0, HasXfID: true})
	si.cellXfKey[domain.DefaultCellStyle().CanonicalKey()] = 0
	return si
}

// NewStyleIndexFromSource builds a StyleIndex seeded from an existing
// styles.xml (spec.md §4.5 "with-source" mode): the original fonts,
// fills, borders, numFmts, and cellXfs are copied in verbatim and at
// their original indices, and new styles introduced by mutation are
// appended after the preserved entries, so an untouched cell's numeric
// style ID never changes, while a style that canonically matches a
// preserved entry reuses that entry's index instead of minting a
// duplicate.
func NewStyleIndexFromSource(source *xml.StylesPart) *StyleIndex {
	si := &StyleIndex{
		fontKey:    make(map[string]int),
		fillKey:    make(map[string]int),
		borderKey:  make(map[string]int),
		numFmtKey:  make(map[string]int),
		cellXfKey:  make(map[string]int),
		withSource: true,
		nextCustomNumFmtID: firstCustomNumFmt,
	}
	si.fonts = append(si.fonts, source.Fonts...)
	si.fills = append(si.fills, source.Fills...)
	si.borders = append(si.borders, source.Borders...)
	si.numFmts = append(si.numFmts, source.NumFmts...)
	si.cellXfs = append(si.cellXfs, source.CellXfs...)
	si.dxfs = source.Dxfs
	si.after = source.After
	si.rootAttrs = source.RootAttrs
	for _, nf := range si.numFmts {
		if nf.ID >= si.nextCustomNumFmtID {
			si.nextCustomNumFmtID = nf.ID + 1
		}
	}
	// Index the preserved prefix by canonical key too (first occurrence
	// wins), so Add reuses a preserved entry's original position when an
	// edited or newly-authored cell happens to match it canonically,
	// rather than appending a redundant duplicate at the end.
	for i, xf := range si.cellXfs {
		key := si.cellStyleFromXf(xf).CanonicalKey()
		if _, exists := si.cellXfKey[key]; !exists {
			si.cellXfKey[key] = i
		}
	}
	return si
}

// cellStyleFromXf reconstructs the domain.CellStyle a preserved cellXf
// entry represents, by resolving its font/fill/border/numFmt references
// against this index's own (source-seeded) component tables. Used only
// to compute canonical keys for the preserved prefix; mirrors
// internal/reader's decode-side cellStyleFromXf, kept separate since
// that package cannot be imported here without an import cycle
// (internal/reader already depends on internal/manager).
func (si *StyleIndex) cellStyleFromXf(xf xml.XfRecord) domain.CellStyle {
	cs := domain.CellStyle{}
	if xf.FontID >= 0 && xf.FontID < len(si.fonts) {
		f := si.fonts[xf.FontID]
		underline := f.Underline != ""
		cs.Font = domain.Font{
			Name: f.Name, Size: f.Size, Bold: f.Bold, Italic: f.Italic,
			Underline: underline, Strike: f.Strike, ColorRGB: f.ColorRGB,
			Family: f.Family, Charset: f.Charset, Scheme: f.Scheme,
		}
	}
	if xf.FillID >= 0 && xf.FillID < len(si.fills) {
		fl := si.fills[xf.FillID]
		cs.Fill = domain.PatternFill{PatternType: fl.PatternType, FgColorRGB: fl.FgColorRGB, BgColorRGB: fl.BgColorRGB}
	}
	if xf.BorderID >= 0 && xf.BorderID < len(si.borders) {
		b := si.borders[xf.BorderID]
		cs.Border = domain.CellBorder{
			Left: domain.BorderLine{Style: b.Left.Style, ColorRGB: b.Left.ColorRGB},
			Right: domain.BorderLine{Style: b.Right.Style, ColorRGB: b.Right.ColorRGB},
			Top: domain.BorderLine{Style: b.Top.Style, ColorRGB: b.Top.ColorRGB},
			Bottom: domain.BorderLine{Style: b.Bottom.Style, ColorRGB: b.Bottom.ColorRGB},
			Diagonal: domain.BorderLine{Style: b.Diagonal.Style, ColorRGB: b.Diagonal.ColorRGB},
			DiagonalUp: b.DiagonalUp, DiagonalDown: b.DiagonalDown,
		}
	}
	cs.NumFmt = domain.NumFmt{Code: si.numFmtCodeFor(xf.NumFmtID)}
	if xf.Alignment != nil {
		a := xf.Alignment
		cs.Alignment = domain.Alignment{
			Horizontal: domain.HAlign(a.Horizontal), Vertical: domain.VAlign(a.Vertical),
			WrapText: a.WrapText, TextRotation: a.TextRotation, Indent: a.Indent,
			ShrinkToFit: a.ShrinkToFit, JustifyLastLine: a.JustifyLastLine,
		}
	}
	return cs
}

func (si *StyleIndex) numFmtCodeFor(id int) string {
	for _, nf := range si.numFmts {
		if nf.ID == id {
			return nf.Code
		}
	}
	if code, ok := builtinNumFmtCode(id); ok {
		return code
	}
	return ""
}

// Add returns the workbook-wide cellXfs index for cs, creating new
// font/fill/border/xf entries as needed and reusing an existing xf
// whose canonical key matches (spec.md §4.5 invariant 2: "two cells
// with canonically-equal styles map to the same cellXfs index").
func (si *StyleIndex) Add(cs domain.CellStyle) int {
	key := cs.CanonicalKey()
	if id, ok := si.cellXfKey[key]; ok {
		return id
	}
	fontID := si.addFont(fontRecordOf(cs))
	fillID := si.addFill(fillRecordOf(cs))
	borderID := si.addBorder(borderRecordOf(cs))
	numFmtID := si.numFmtIDFor(cs)

	xf := xml.XfRecord{
		NumFmtID: numFmtID,
		FontID:   fontID,
		FillID:   fillID,
		BorderID: borderID,
		XfID:     0,
		HasXfID:  true,
	}
	xf.ApplyFont = fontID != 0
	xf.ApplyFill = fillID != 0
	xf.ApplyBorder = borderID != 0
	xf.ApplyNumFmt = numFmtID != numFmtGeneral
	if !cs.Alignment.IsZero() {
		xf.ApplyAlign = true
		xf.Alignment = applyAlignment(cs.Alignment)
	}

	id := len(si.cellXfs)
	si.cellXfs = append(si.cellXfs, xf)
	si.cellXfKey[key] = id
	return id
}

// numFmtIDFor returns cs's NumFmtID when the CellStyle carries one
// (preserving a round-tripped format exactly, per domain.CellStyle's
// doc comment), otherwise resolves/allocates one from the format code,
// consulting the built-in numFmtId table first (spec.md §10
// supplemented feature).
func (si *StyleIndex) numFmtIDFor(cs domain.CellStyle) int {
	if cs.NumFmtID != nil {
		return *cs.NumFmtID
	}
	if cs.NumFmt.Code == "" {
		return numFmtGeneral
	}
	if id, ok := builtinNumFmtID(cs.NumFmt.Code); ok {
		return id
	}
	if id, ok := si.numFmtKey[cs.NumFmt.Code]; ok {
		return id
	}
	id := si.nextCustomNumFmtID
	si.nextCustomNumFmtID++
	si.numFmts = append(si.numFmts, xml.CustomNumFmt{ID: id, Code: cs.NumFmt.Code})
	si.numFmtKey[cs.NumFmt.Code] = id
	return id
}

func (si *StyleIndex) addFont(f xml.FontRecord) int {
	key := fontKeyOf(f)
	if id, ok := si.fontKey[key]; ok {
		return id
	}
	id := len(si.fonts)
	si.fonts = append(si.fonts, f)
	si.fontKey[key] = id
	return id
}

func (si *StyleIndex) addFill(f xml.FillRecord) int {
	if f.PatternType == "" || f.PatternType == "none" {
		return 0
	}
	key := fillKeyOf(f)
	if id, ok := si.fillKey[key]; ok {
		return id
	}
	id := len(si.fills)
	si.fills = append(si.fills, f)
	si.fillKey[key] = id
	return id
}

func (si *StyleIndex) addBorder(b xml.BorderRecord) int {
	key := borderKeyOf(b)
	if id, ok := si.borderKey[key]; ok {
		return id
	}
	id := len(si.borders)
	si.borders = append(si.borders, b)
	si.borderKey[key] = id
	return id
}

// StylesPart produces the styles.xml struct layer for the final fonts/
// fills/borders/numFmts/cellXfs tables.
func (si *StyleIndex) StylesPart() *xml.StylesPart {
	return &xml.StylesPart{
		NumFmts: si.numFmts,
		Fonts:   si.fonts,
		Fills:   si.fills,
		Borders: si.borders,
		CellStyleXfs: []xml.XfRecord{{HasXfID: true}},
		CellXfs:      si.cellXfs,
		CellStyles:   []xml.CellStyleNameRecord{{Name: "Normal", XfID: 0}},
		Dxfs:         si.dxfs,
		After:        si.after,
		RootAttrs:    si.rootAttrs,
	}
}

func fontRecordOf(cs domain.CellStyle) xml.FontRecord {
	underline := ""
	if cs.Font.Underline {
		underline = "single"
	}
	return xml.FontRecord{
		Name: cs.Font.Name, Size: cs.Font.Size, Bold: cs.Font.Bold,
		Italic: cs.Font.Italic, Underline: underline, Strike: cs.Font.Strike,
		ColorRGB: cs.Font.ColorRGB, Family: cs.Font.Family,
		Charset: cs.Font.Charset, Scheme: cs.Font.Scheme,
	}
}

func fillRecordOf(cs domain.CellStyle) xml.FillRecord {
	return xml.FillRecord{
		PatternType: cs.Fill.PatternType, FgColorRGB: cs.Fill.FgColorRGB, BgColorRGB: cs.Fill.BgColorRGB,
	}
}

func borderLineRecordOf(b domain.BorderLine) xml.BorderLineRecord {
	return xml.BorderLineRecord{Style: b.Style, ColorRGB: b.ColorRGB}
}

func borderRecordOf(cs domain.CellStyle) xml.BorderRecord {
	return xml.BorderRecord{
		Left: borderLineRecordOf(cs.Border.Left), Right: borderLineRecordOf(cs.Border.Right),
		Top: borderLineRecordOf(cs.Border.Top), Bottom: borderLineRecordOf(cs.Border.Bottom),
		Diagonal: borderLineRecordOf(cs.Border.Diagonal),
		DiagonalUp: cs.Border.DiagonalUp, DiagonalDown: cs.Border.DiagonalDown,
	}
}

// applyAlignment maps a domain.Alignment to its xf-child record,
// mirroring the attribute set ECMA-376 §18.8.1 defines (spec.md §4.5).
func applyAlignment(a domain.Alignment) *xml.AlignmentRecord {
	return &xml.AlignmentRecord{
		Horizontal: string(a.Horizontal), Vertical: string(mapVAlign(a.Vertical)),
		WrapText: a.WrapText, TextRotation: a.TextRotation, Indent: a.Indent,
		ShrinkToFit: a.ShrinkToFit, JustifyLastLine: a.JustifyLastLine,
	}
}

func mapVAlign(v domain.VAlign) domain.VAlign {
	return v
}

func fontKeyOf(f xml.FontRecord) string {
	return fmt.Sprintf("%s|%v|%v|%v|%s|%v|%s|%d|%d|%s", f.Name, f.Size, f.Bold, f.Italic, f.Underline, f.Strike, f.ColorRGB, f.Family, f.Charset, f.Scheme)
}

func fillKeyOf(f xml.FillRecord) string {
	return f.PatternType + "|" + f.FgColorRGB + "|" + f.BgColorRGB
}

func borderKeyOf(b xml.BorderRecord) string {
	return borderLineKey(b.Left) + borderLineKey(b.Right) + borderLineKey(b.Top) + borderLineKey(b.Bottom) + borderLineKey(b.Diagonal) + fmt.Sprintf("%v|%v", b.DiagonalUp, b.DiagonalDown)
}

func borderLineKey(l xml.BorderLineRecord) string {
	return l.Style + ":" + l.ColorRGB + "|"
}

// builtinNumFmts is the ECMA-376 §18.8.30 built-in numFmtId table
// (spec.md §10 supplemented feature: "a complete read-modify-write
// engine needs this table so a cell newly formatted with e.g. '0.00%'
// reuses id 10 instead of minting a redundant custom id >= 164").
var builtinNumFmts = map[string]int{
	"General": 0, "0": 1, "0.00": 2, "#,##0": 3, "#,##0.00": 4,
	"0%": 9, "0.00%": 10, "0.00E+00": 11, "# ?/?": 12, "# ??/??": 13,
	"mm-dd-yy": 14, "d-mmm-yy": 15, "d-mmm": 16, "mmm-yy": 17,
	"h:mm AM/PM": 18, "h:mm:ss AM/PM": 19, "h:mm": 20, "h:mm:ss": 21,
	"m/d/yy h:mm": 22, "#,##0 ;(#,##0)": 37, "#,##0 ;[Red](#,##0)": 38,
	"#,##0.00;(#,##0.00)": 39, "#,##0.00;[Red](#,##0.00)": 40,
	"mm:ss": 45, "[h]:mm:ss": 46, "mmss.0": 47, "##0.0E+0": 48, "@": 49,
}

func builtinNumFmtID(code string) (int, bool) {
	id, ok := builtinNumFmts[code]
	return id, ok
}

var builtinNumFmtCodesByID = map[int]string{
	0: "General", 1: "0", 2: "0.00", 3: "#,##0", 4: "#,##0.00",
	9: "0%", 10: "0.00%", 11: "0.00E+00", 12: "# ?/?", 13: "# ??/??",
	14: "mm-dd-yy", 15: "d-mmm-yy", 16: "d-mmm", 17: "mmm-yy",
	18: "h:mm AM/PM", 19: "h:mm:ss AM/PM", 20: "h:mm", 21: "h:mm:ss",
	22: "m/d/yy h:mm", 37: "#,##0 ;(#,##0)", 38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)", 40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss", 46: "[h]:mm:ss", 47: "mmss.0", 48: "##0.0E+0", 49: "@",
}

func builtinNumFmtCode(id int) (string, bool) {
	code, ok := builtinNumFmtCodesByID[id]
	return code, ok
}
