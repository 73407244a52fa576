package reader

import (
	"github.com/shopspring/decimal"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/manager"
	"github.com/mmonterroca/xlsxcore/internal/xml"
)

// errorKindOf maps a cell's raw "e" value to domain.ErrorKind, defaulting
// to #VALUE! for unrecognized codes rather than failing the read
// (spec.md §4.3: undecodable error codes downgrade, they don't abort).
func errorKindOf(raw string) domain.ErrorKind {
	switch domain.ErrorKind(raw) {
	case domain.ErrRef, domain.ErrValue, domain.ErrDiv0, domain.ErrName,
		domain.ErrNA, domain.ErrNum, domain.ErrNull:
		return domain.ErrorKind(raw)
	default:
		return domain.ErrValue
	}
}

// decodeCellValue implements the cell-type dispatch of spec.md §4.7: a
// present <f> always means Formula, with the cached value inferred from
// t; otherwise dispatch is by t.
func decodeCellValue(rc xml.RawCell, sst *manager.SharedStringsTable) domain.CellValue {
	if rc.Formula != "" {
		cached := inferCachedValue(rc)
		return domain.FormulaValue(rc.Formula, cached)
	}
	return decodeTypedValue(rc, sst)
}

func inferCachedValue(rc xml.RawCell) *domain.CellValue {
	v := decodeTypedValue(rc, nil)
	if v.Kind == domain.KindEmpty && rc.ValueRaw == "" {
		return nil
	}
	return &v
}

func decodeTypedValue(rc xml.RawCell, sst *manager.SharedStringsTable) domain.CellValue {
	switch rc.Type {
	case "s":
		idx := parseIntDefault(rc.ValueRaw, -1)
		if sst == nil {
			return domain.ErrorValue(domain.ErrRef)
		}
		entry, ok := sst.Lookup(idx)
		if !ok {
			return domain.ErrorValue(domain.ErrRef)
		}
		if entry.IsRich {
			return domain.RichTextValue(runsFromSST(entry.Runs))
		}
		return domain.TextValue(entry.PlainText)
	case "str":
		return domain.TextValue(rc.ValueRaw)
	case "inlineStr":
		if len(rc.Inline) == 1 && rc.Inline[0].RawRPr == "" {
			return domain.TextValue(rc.Inline[0].Text)
		}
		return domain.RichTextValue(runsFromSST(rc.Inline))
	case "b":
		return domain.BoolValue(rc.ValueRaw == "1" || rc.ValueRaw == "true")
	case "e":
		return domain.ErrorValue(errorKindOf(rc.ValueRaw))
	case "n", "":
		if rc.ValueRaw == "" {
			return domain.Empty()
		}
		d, err := decimal.NewFromString(rc.ValueRaw)
		if err != nil {
			return domain.ErrorValue(domain.ErrValue)
		}
		return domain.NumberValue(d)
	default:
		return domain.ErrorValue(domain.ErrValue)
	}
}

func runsFromSST(runs []xml.SSTRun) []domain.TextRun {
	out := make([]domain.TextRun, len(runs))
	for i, r := range runs {
		out[i] = domain.TextRun{Text: r.Text, RawRPrXML: r.RawRPr}
	}
	return out
}

func parseIntDefault(s string, def int) int {
	n, ok := parseInt(s)
	if !ok {
		return def
	}
	return n
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(s) {
		return 0, false
	}
	n := 0
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// cellStylesFromPart translates a parsed StylesPart's cellXfs table into
// domain.CellStyle values indexed by the original cellXf ordinal, so the
// reader can resolve each raw cell/row style index directly.
func cellStylesFromPart(sp *xml.StylesPart) []domain.CellStyle {
	out := make([]domain.CellStyle, len(sp.CellXfs))
	for i, xf := range sp.CellXfs {
		out[i] = cellStyleFromXf(sp, xf)
	}
	return out
}

func cellStyleFromXf(sp *xml.StylesPart, xf xml.XfRecord) domain.CellStyle {
	cs := domain.CellStyle{}
	if xf.FontID >= 0 && xf.FontID < len(sp.Fonts) {
		f := sp.Fonts[xf.FontID]
		cs.Font = domain.Font{
			Name: f.Name, Size: f.Size, Bold: f.Bold, Italic: f.Italic,
			Underline: f.Underline != "", Strike: f.Strike, ColorRGB: f.ColorRGB,
			Family: f.Family, Charset: f.Charset, Scheme: f.Scheme,
		}
	}
	if xf.FillID >= 0 && xf.FillID < len(sp.Fills) {
		fl := sp.Fills[xf.FillID]
		cs.Fill = domain.PatternFill{PatternType: fl.PatternType, FgColorRGB: fl.FgColorRGB, BgColorRGB: fl.BgColorRGB}
	}
	if xf.BorderID >= 0 && xf.BorderID < len(sp.Borders) {
		b := sp.Borders[xf.BorderID]
		cs.Border = domain.CellBorder{
			Left: borderLineDomain(b.Left), Right: borderLineDomain(b.Right),
			Top: borderLineDomain(b.Top), Bottom: borderLineDomain(b.Bottom),
			Diagonal: borderLineDomain(b.Diagonal), DiagonalUp: b.DiagonalUp, DiagonalDown: b.DiagonalDown,
		}
	}
	numFmtID := xf.NumFmtID
	cs.NumFmtID = &numFmtID
	cs.NumFmt = domain.NumFmt{Code: numFmtCodeFor(sp, numFmtID)}
	if xf.Alignment != nil {
		a := xf.Alignment
		cs.Alignment = domain.Alignment{
			Horizontal: domain.HAlign(a.Horizontal), Vertical: mapVAlignIn(a.Vertical),
			WrapText: a.WrapText, TextRotation: a.TextRotation, Indent: a.Indent,
			ShrinkToFit: a.ShrinkToFit, JustifyLastLine: a.JustifyLastLine,
		}
	}
	return cs
}

func mapVAlignIn(v string) domain.VAlign {
	return domain.VAlign(v)
}

func borderLineDomain(l xml.BorderLineRecord) domain.BorderLine {
	return domain.BorderLine{Style: l.Style, ColorRGB: l.ColorRGB}
}

func numFmtCodeFor(sp *xml.StylesPart, id int) string {
	for _, nf := range sp.NumFmts {
		if nf.ID == id {
			return nf.Code
		}
	}
	if code, ok := builtinNumFmtCode(id); ok {
		return code
	}
	return ""
}

var builtinNumFmtCodes = map[int]string{
	0: "General", 1: "0", 2: "0.00", 3: "#,##0", 4: "#,##0.00",
	9: "0%", 10: "0.00%", 11: "0.00E+00", 12: "# ?/?", 13: "# ??/??",
	14: "mm-dd-yy", 15: "d-mmm-yy", 16: "d-mmm", 17: "mmm-yy",
	18: "h:mm AM/PM", 19: "h:mm:ss AM/PM", 20: "h:mm", 21: "h:mm:ss",
	22: "m/d/yy h:mm", 37: "#,##0 ;(#,##0)", 38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)", 40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss", 46: "[h]:mm:ss", 47: "mmss.0", 48: "##0.0E+0", 49: "@",
}

func builtinNumFmtCode(id int) (string, bool) {
	code, ok := builtinNumFmtCodes[id]
	return code, ok
}
