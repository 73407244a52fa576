package xml

import (
	"strconv"

	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
)

// CustomNumFmt is one <numFmt numFmtId="..." formatCode="..."/> entry.
type CustomNumFmt struct {
	ID   int
	Code string
}

// FontRecord is one <font> entry under <fonts>.
type FontRecord struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Underline string // "", "single", "double"
	Strike    bool
	ColorRGB  string
	Family    int
	Charset   int
	Scheme    string
}

// FillRecord is one <fill> entry under <fills>.
type FillRecord struct {
	PatternType string
	FgColorRGB  string
	BgColorRGB  string
}

// BorderRecord is one <border> entry under <borders>.
type BorderRecord struct {
	Left, Right, Top, Bottom BorderLineRecord
	Diagonal                 BorderLineRecord
	DiagonalUp, DiagonalDown bool
}

// BorderLineRecord is one edge of a BorderRecord.
type BorderLineRecord struct {
	Style    string
	ColorRGB string
}

// XfRecord is one <xf> entry under <cellStyleXfs> or <cellXfs>.
type XfRecord struct {
	NumFmtID     int
	FontID       int
	FillID       int
	BorderID     int
	XfID         int // only meaningful on cellXfs entries
	HasXfID      bool
	Alignment    *AlignmentRecord
	ApplyNumFmt  bool
	ApplyFont    bool
	ApplyFill    bool
	ApplyBorder  bool
	ApplyAlign   bool
}

// AlignmentRecord mirrors <alignment .../>.
type AlignmentRecord struct {
	Horizontal      string
	Vertical        string
	WrapText        bool
	TextRotation    int
	Indent          int
	ShrinkToFit     bool
	JustifyLastLine bool
}

// CellStyleNameRecord is one <cellStyle> entry (named cell styles, e.g.
// "Normal", "Comma").
type CellStyleNameRecord struct {
	Name   string
	XfID   int
	BuiltinID *int
}

// StylesPart mirrors xl/styles.xml. Dxfs (conditional formatting
// differential formats) and anything else this engine never
// interprets are preserved as opaque Elements (spec.md §9).
type StylesPart struct {
	NumFmts      []CustomNumFmt
	Fonts        []FontRecord
	Fills        []FillRecord
	Borders      []BorderRecord
	CellStyleXfs []XfRecord
	CellXfs      []XfRecord
	CellStyles   []CellStyleNameRecord

	Dxfs    *Element // preserved opaquely, including its <dxf> children
	After   []*Element

	// RootAttrs preserves the source <styleSheet> element's attributes
	// (including extension namespace declarations like mc/x14ac) so a
	// regenerated styles.xml keeps them (spec.md §6). Empty on a
	// from-scratch StylesPart, in which case Write falls back to the
	// bare spreadsheetML xmlns.
	RootAttrs []Attr
}

// ParseStylesPart hydrates a StylesPart from the root <styleSheet>
// Element.
func ParseStylesPart(root *Element) *StylesPart {
	sp := &StylesPart{}
	for _, a := range root.Attrs {
		sp.RootAttrs = append(sp.RootAttrs, Attr{Name: qualifiedName(a.Name), Value: a.Value})
	}
	for _, c := range root.Children {
		switch c.Name.Local {
		case "numFmts":
			for _, nf := range c.ChildrenNamed("numFmt") {
				id, _ := nf.Attr("numFmtId")
				code, _ := nf.Attr("formatCode")
				n, _ := strconv.Atoi(id)
				sp.NumFmts = append(sp.NumFmts, CustomNumFmt{ID: n, Code: code})
			}
		case "fonts":
			for _, f := range c.ChildrenNamed("font") {
				sp.Fonts = append(sp.Fonts, parseFontRecord(f))
			}
		case "fills":
			for _, f := range c.ChildrenNamed("fill") {
				sp.Fills = append(sp.Fills, parseFillRecord(f))
			}
		case "borders":
			for _, b := range c.ChildrenNamed("border") {
				sp.Borders = append(sp.Borders, parseBorderRecord(b))
			}
		case "cellStyleXfs":
			for _, xf := range c.ChildrenNamed("xf") {
				sp.CellStyleXfs = append(sp.CellStyleXfs, parseXfRecord(xf, false))
			}
		case "cellXfs":
			for _, xf := range c.ChildrenNamed("xf") {
				sp.CellXfs = append(sp.CellXfs, parseXfRecord(xf, true))
			}
		case "cellStyles":
			for _, cs := range c.ChildrenNamed("cellStyle") {
				name, _ := cs.Attr("name")
				xfid, _ := cs.Attr("xfId")
				n, _ := strconv.Atoi(xfid)
				rec := CellStyleNameRecord{Name: name, XfID: n}
				if b, ok := cs.Attr("builtinId"); ok {
					bv, _ := strconv.Atoi(b)
					rec.BuiltinID = &bv
				}
				sp.CellStyles = append(sp.CellStyles, rec)
			}
		case "dxfs":
			sp.Dxfs = c
		default:
			sp.After = append(sp.After, c)
		}
	}
	return sp
}

func parseFontRecord(f *Element) FontRecord {
	var fr FontRecord
	if sz := f.Child("sz"); sz != nil {
		v, _ := sz.Attr("val")
		fr.Size, _ = strconv.ParseFloat(v, 64)
	}
	if n := f.Child("name"); n != nil {
		fr.Name, _ = n.Attr("val")
	}
	fr.Bold = f.Child("b") != nil
	fr.Italic = f.Child("i") != nil
	fr.Strike = f.Child("strike") != nil
	if u := f.Child("u"); u != nil {
		if v, ok := u.Attr("val"); ok {
			fr.Underline = v
		} else {
			fr.Underline = "single"
		}
	}
	if color := f.Child("color"); color != nil {
		fr.ColorRGB, _ = color.Attr("rgb")
	}
	if fam := f.Child("family"); fam != nil {
		v, _ := fam.Attr("val")
		fr.Family, _ = strconv.Atoi(v)
	}
	if cs := f.Child("charset"); cs != nil {
		v, _ := cs.Attr("val")
		fr.Charset, _ = strconv.Atoi(v)
	}
	if sch := f.Child("scheme"); sch != nil {
		fr.Scheme, _ = sch.Attr("val")
	}
	return fr
}

func parseFillRecord(f *Element) FillRecord {
	var rec FillRecord
	pf := f.Child("patternFill")
	if pf == nil {
		return rec
	}
	rec.PatternType, _ = pf.Attr("patternType")
	if fg := pf.Child("fgColor"); fg != nil {
		rec.FgColorRGB, _ = fg.Attr("rgb")
	}
	if bg := pf.Child("bgColor"); bg != nil {
		rec.BgColorRGB, _ = bg.Attr("rgb")
	}
	return rec
}

func parseBorderLine(e *Element) BorderLineRecord {
	if e == nil {
		return BorderLineRecord{}
	}
	style, _ := e.Attr("style")
	var rgb string
	if c := e.Child("color"); c != nil {
		rgb, _ = c.Attr("rgb")
	}
	return BorderLineRecord{Style: style, ColorRGB: rgb}
}

func parseBorderRecord(b *Element) BorderRecord {
	rec := BorderRecord{
		Left:   parseBorderLine(b.Child("left")),
		Right:  parseBorderLine(b.Child("right")),
		Top:    parseBorderLine(b.Child("top")),
		Bottom: parseBorderLine(b.Child("bottom")),
		Diagonal: parseBorderLine(b.Child("diagonal")),
	}
	if v, ok := b.Attr("diagonalUp"); ok {
		rec.DiagonalUp = v == "1" || v == "true"
	}
	if v, ok := b.Attr("diagonalDown"); ok {
		rec.DiagonalDown = v == "1" || v == "true"
	}
	return rec
}

func parseXfRecord(xf *Element, withXfID bool) XfRecord {
	var rec XfRecord
	if v, ok := xf.Attr("numFmtId"); ok {
		rec.NumFmtID, _ = strconv.Atoi(v)
	}
	if v, ok := xf.Attr("fontId"); ok {
		rec.FontID, _ = strconv.Atoi(v)
	}
	if v, ok := xf.Attr("fillId"); ok {
		rec.FillID, _ = strconv.Atoi(v)
	}
	if v, ok := xf.Attr("borderId"); ok {
		rec.BorderID, _ = strconv.Atoi(v)
	}
	if withXfID {
		if v, ok := xf.Attr("xfId"); ok {
			rec.XfID, _ = strconv.Atoi(v)
			rec.HasXfID = true
		}
	}
	if v, ok := xf.Attr("applyNumberFormat"); ok {
		rec.ApplyNumFmt = v == "1" || v == "true"
	}
	if v, ok := xf.Attr("applyFont"); ok {
		rec.ApplyFont = v == "1" || v == "true"
	}
	if v, ok := xf.Attr("applyFill"); ok {
		rec.ApplyFill = v == "1" || v == "true"
	}
	if v, ok := xf.Attr("applyBorder"); ok {
		rec.ApplyBorder = v == "1" || v == "true"
	}
	if al := xf.Child("alignment"); al != nil {
		rec.ApplyAlign = true
		ar := &AlignmentRecord{}
		ar.Horizontal, _ = al.Attr("horizontal")
		ar.Vertical, _ = al.Attr("vertical")
		if v, ok := al.Attr("wrapText"); ok {
			ar.WrapText = v == "1" || v == "true"
		}
		if v, ok := al.Attr("textRotation"); ok {
			ar.TextRotation, _ = strconv.Atoi(v)
		}
		if v, ok := al.Attr("indent"); ok {
			ar.Indent, _ = strconv.Atoi(v)
		}
		if v, ok := al.Attr("shrinkToFit"); ok {
			ar.ShrinkToFit = v == "1" || v == "true"
		}
		if v, ok := al.Attr("justifyLastLine"); ok {
			ar.JustifyLastLine = v == "1" || v == "true"
		}
		rec.Alignment = ar
	}
	return rec
}

// Write emits styles.xml in ECMA-376-canonical child order: numFmts,
// fonts, fills, borders, cellStyleXfs, cellXfs, cellStyles, dxfs,
// tableStyles (spec.md §4.5, grounded on excelize's xmlStyles.go
// ordering).
func (sp *StylesPart) Write(s Sink) error {
	if err := s.StartDocument(); err != nil {
		return err
	}
	rootAttrs := sp.RootAttrs
	if len(rootAttrs) == 0 {
		rootAttrs = []Attr{{Name: "xmlns", Value: pkgconst.NamespaceSpreadsheetML}}
	}
	err := WithAttributes(s, "styleSheet", rootAttrs, func() error {
		if len(sp.NumFmts) > 0 {
			err := WithAttributes(s, "numFmts", []Attr{{Name: "count", Value: strconv.Itoa(len(sp.NumFmts))}}, func() error {
				for _, nf := range sp.NumFmts {
					if err := WithAttributes(s, "numFmt", []Attr{
						{Name: "numFmtId", Value: strconv.Itoa(nf.ID)},
						{Name: "formatCode", Value: nf.Code},
					}, nil); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		err := WithAttributes(s, "fonts", []Attr{{Name: "count", Value: strconv.Itoa(len(sp.Fonts))}}, func() error {
			for _, f := range sp.Fonts {
				if err := writeFontRecord(s, f); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		err = WithAttributes(s, "fills", []Attr{{Name: "count", Value: strconv.Itoa(len(sp.Fills))}}, func() error {
			for _, f := range sp.Fills {
				if err := writeFillRecord(s, f); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		err = WithAttributes(s, "borders", []Attr{{Name: "count", Value: strconv.Itoa(len(sp.Borders))}}, func() error {
			for _, b := range sp.Borders {
				if err := writeBorderRecord(s, b); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		err = WithAttributes(s, "cellStyleXfs", []Attr{{Name: "count", Value: strconv.Itoa(len(sp.CellStyleXfs))}}, func() error {
			for _, xf := range sp.CellStyleXfs {
				if err := writeXfRecord(s, xf, false); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		err = WithAttributes(s, "cellXfs", []Attr{{Name: "count", Value: strconv.Itoa(len(sp.CellXfs))}}, func() error {
			for _, xf := range sp.CellXfs {
				if err := writeXfRecord(s, xf, true); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		if len(sp.CellStyles) > 0 {
			err := WithAttributes(s, "cellStyles", []Attr{{Name: "count", Value: strconv.Itoa(len(sp.CellStyles))}}, func() error {
				for _, cs := range sp.CellStyles {
					attrs := []Attr{{Name: "name", Value: cs.Name}, {Name: "xfId", Value: strconv.Itoa(cs.XfID)}}
					if cs.BuiltinID != nil {
						attrs = append(attrs, Attr{Name: "builtinId", Value: strconv.Itoa(*cs.BuiltinID)})
					}
					if err := WithAttributes(s, "cellStyle", attrs, nil); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		if sp.Dxfs != nil {
			if err := writeOpaque(s, sp.Dxfs); err != nil {
				return err
			}
		}
		for _, e := range sp.After {
			if err := writeOpaque(s, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.EndDocument()
}

func writeFontRecord(s Sink, f FontRecord) error {
	return WithAttributes(s, "font", nil, func() error {
		if f.Bold {
			if err := WithAttributes(s, "b", nil, nil); err != nil {
				return err
			}
		}
		if f.Italic {
			if err := WithAttributes(s, "i", nil, nil); err != nil {
				return err
			}
		}
		if f.Strike {
			if err := WithAttributes(s, "strike", nil, nil); err != nil {
				return err
			}
		}
		if f.Underline != "" {
			attrs := []Attr(nil)
			if f.Underline != "single" {
				attrs = []Attr{{Name: "val", Value: f.Underline}}
			}
			if err := WithAttributes(s, "u", attrs, nil); err != nil {
				return err
			}
		}
		if err := WithAttributes(s, "sz", []Attr{{Name: "val", Value: strconv.FormatFloat(f.Size, 'f', -1, 64)}}, nil); err != nil {
			return err
		}
		if f.ColorRGB != "" {
			if err := WithAttributes(s, "color", []Attr{{Name: "rgb", Value: f.ColorRGB}}, nil); err != nil {
				return err
			}
		}
		if err := WithAttributes(s, "name", []Attr{{Name: "val", Value: f.Name}}, nil); err != nil {
			return err
		}
		if f.Family != 0 {
			if err := WithAttributes(s, "family", []Attr{{Name: "val", Value: strconv.Itoa(f.Family)}}, nil); err != nil {
				return err
			}
		}
		if f.Charset != 0 {
			if err := WithAttributes(s, "charset", []Attr{{Name: "val", Value: strconv.Itoa(f.Charset)}}, nil); err != nil {
				return err
			}
		}
		if f.Scheme != "" {
			if err := WithAttributes(s, "scheme", []Attr{{Name: "val", Value: f.Scheme}}, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFillRecord(s Sink, f FillRecord) error {
	return WithAttributes(s, "fill", nil, func() error {
		return WithAttributes(s, "patternFill", []Attr{{Name: "patternType", Value: f.PatternType}}, func() error {
			if f.FgColorRGB != "" {
				if err := WithAttributes(s, "fgColor", []Attr{{Name: "rgb", Value: f.FgColorRGB}}, nil); err != nil {
					return err
				}
			}
			if f.BgColorRGB != "" {
				if err := WithAttributes(s, "bgColor", []Attr{{Name: "rgb", Value: f.BgColorRGB}}, nil); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func writeBorderLine(s Sink, name string, l BorderLineRecord) error {
	attrs := []Attr(nil)
	if l.Style != "" {
		attrs = []Attr{{Name: "style", Value: l.Style}}
	}
	return WithAttributes(s, name, attrs, func() error {
		if l.ColorRGB != "" {
			return WithAttributes(s, "color", []Attr{{Name: "rgb", Value: l.ColorRGB}}, nil)
		}
		return nil
	})
}

func writeBorderRecord(s Sink, b BorderRecord) error {
	attrs := []Attr(nil)
	if b.DiagonalUp {
		attrs = append(attrs, Attr{Name: "diagonalUp", Value: "1"})
	}
	if b.DiagonalDown {
		attrs = append(attrs, Attr{Name: "diagonalDown", Value: "1"})
	}
	return WithAttributes(s, "border", attrs, func() error {
		if err := writeBorderLine(s, "left", b.Left); err != nil {
			return err
		}
		if err := writeBorderLine(s, "right", b.Right); err != nil {
			return err
		}
		if err := writeBorderLine(s, "top", b.Top); err != nil {
			return err
		}
		if err := writeBorderLine(s, "bottom", b.Bottom); err != nil {
			return err
		}
		return writeBorderLine(s, "diagonal", b.Diagonal)
	})
}

func writeXfRecord(s Sink, xf XfRecord, withXfID bool) error {
	attrs := []Attr{
		{Name: "numFmtId", Value: strconv.Itoa(xf.NumFmtID)},
		{Name: "fontId", Value: strconv.Itoa(xf.FontID)},
		{Name: "fillId", Value: strconv.Itoa(xf.FillID)},
		{Name: "borderId", Value: strconv.Itoa(xf.BorderID)},
	}
	if withXfID && xf.HasXfID {
		attrs = append(attrs, Attr{Name: "xfId", Value: strconv.Itoa(xf.XfID)})
	}
	if xf.ApplyNumFmt {
		attrs = append(attrs, Attr{Name: "applyNumberFormat", Value: "1"})
	}
	if xf.ApplyFont {
		attrs = append(attrs, Attr{Name: "applyFont", Value: "1"})
	}
	if xf.ApplyFill {
		attrs = append(attrs, Attr{Name: "applyFill", Value: "1"})
	}
	if xf.ApplyBorder {
		attrs = append(attrs, Attr{Name: "applyBorder", Value: "1"})
	}
	if xf.ApplyAlign {
		attrs = append(attrs, Attr{Name: "applyAlignment", Value: "1"})
	}
	return WithAttributes(s, "xf", attrs, func() error {
		if xf.Alignment == nil {
			return nil
		}
		a := xf.Alignment
		var aattrs []Attr
		if a.Horizontal != "" {
			aattrs = append(aattrs, Attr{Name: "horizontal", Value: a.Horizontal})
		}
		if a.Vertical != "" {
			aattrs = append(aattrs, Attr{Name: "vertical", Value: a.Vertical})
		}
		if a.WrapText {
			aattrs = append(aattrs, Attr{Name: "wrapText", Value: "1"})
		}
		if a.TextRotation != 0 {
			aattrs = append(aattrs, Attr{Name: "textRotation", Value: strconv.Itoa(a.TextRotation)})
		}
		if a.Indent != 0 {
			aattrs = append(aattrs, Attr{Name: "indent", Value: strconv.Itoa(a.Indent)})
		}
		if a.ShrinkToFit {
			aattrs = append(aattrs, Attr{Name: "shrinkToFit", Value: "1"})
		}
		if a.JustifyLastLine {
			aattrs = append(aattrs, Attr{Name: "justifyLastLine", Value: "1"})
		}
		return WithAttributes(s, "alignment", aattrs, nil)
	})
}
