package xml

import (
	"strconv"

	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
)

// RawCell is a worksheet cell as parsed straight off the wire, before
// internal/reader resolves its type/style into a domain.Cell.
type RawCell struct {
	Ref      string
	Type     string // "", "s" (shared string), "str" (formula string), "inlineStr", "b", "e"
	StyleIdx int
	HasStyle bool
	Formula  string
	ValueRaw string
	Inline   []SSTRun
}

// RawRow is a worksheet <row> as parsed straight off the wire.
type RawRow struct {
	Index        int // 0-based
	Spans        string // raw "min:max" column-span hint, preserved verbatim
	Height       float64
	HasHeight    bool
	CustomHeight bool
	Hidden       bool
	OutlineLevel int
	Collapsed    bool
	ThickTop     bool
	ThickBot     bool
	DyDescent    string // raw x14ac:dyDescent value, preserved verbatim
	StyleIdx     int
	HasStyle     bool
	Cells        []RawCell
}

// WorksheetPart mirrors one xl/worksheets/sheet{N}.xml. Sections this
// engine never interprets (sheetViews, sheetFormatPr, cols,
// conditionalFormatting, dataValidations, hyperlinks, pageSetup,
// headerFooter, drawing, and anything unrecognized) are preserved as
// opaque Elements split around the regenerated sections (sheetData,
// mergeCells, tableParts) (spec.md §9).
type WorksheetPart struct {
	Rows []RawRow

	Merges     []string // raw range refs, e.g. "A1:B2"
	TableParts []string // raw r:id references

	LegacyDrawingRID string
	CommentsRID      string // resolved by the reader via the sheet's .rels, not stored in the XML itself

	Before     []*Element // before <sheetData>
	AfterData  []*Element // between </sheetData> and <mergeCells>/<tableParts>/end, excluding those two
	After      []*Element // after <tableParts> (or after AfterData's position if neither merges nor tableParts present)
}

// ParseWorksheetPart hydrates a WorksheetPart from the root
// <worksheet> Element.
func ParseWorksheetPart(root *Element) *WorksheetPart {
	wp := &WorksheetPart{}
	seenData, seenMerges, seenTableParts := false, false, false
	for _, c := range root.Children {
		switch c.Name.Local {
		case "dimension":
			// recomputed on write, never preserved
		case "sheetData":
			seenData = true
			for _, r := range c.ChildrenNamed("row") {
				wp.Rows = append(wp.Rows, parseRawRow(r))
			}
		case "mergeCells":
			seenMerges = true
			for _, m := range c.ChildrenNamed("mergeCell") {
				if ref, ok := m.Attr("ref"); ok {
					wp.Merges = append(wp.Merges, ref)
				}
			}
		case "tableParts":
			seenTableParts = true
			for _, t := range c.ChildrenNamed("tablePart") {
				if rid, ok := t.Attr("id"); ok {
					wp.TableParts = append(wp.TableParts, rid)
				}
			}
		case "legacyDrawing":
			if rid, ok := c.Attr("id"); ok {
				wp.LegacyDrawingRID = rid
			}
		default:
			switch {
			case !seenData:
				wp.Before = append(wp.Before, c)
			case !seenMerges && !seenTableParts:
				wp.AfterData = append(wp.AfterData, c)
			default:
				wp.After = append(wp.After, c)
			}
		}
	}
	return wp
}

func parseRawRow(r *Element) RawRow {
	row := RawRow{}
	if v, ok := r.Attr("r"); ok {
		n, _ := strconv.Atoi(v)
		row.Index = n - 1
	}
	if v, ok := r.Attr("spans"); ok {
		row.Spans = v
	}
	if v, ok := r.Attr("ht"); ok {
		row.Height, _ = strconv.ParseFloat(v, 64)
		row.HasHeight = true
	}
	if v, ok := r.Attr("customHeight"); ok {
		row.CustomHeight = v == "1" || v == "true"
	}
	if v, ok := r.Attr("hidden"); ok {
		row.Hidden = v == "1" || v == "true"
	}
	if v, ok := r.Attr("outlineLevel"); ok {
		row.OutlineLevel, _ = strconv.Atoi(v)
	}
	if v, ok := r.Attr("collapsed"); ok {
		row.Collapsed = v == "1" || v == "true"
	}
	if v, ok := r.Attr("s"); ok {
		row.StyleIdx, _ = strconv.Atoi(v)
		row.HasStyle = true
	}
	if v, ok := r.Attr("thickTop"); ok {
		row.ThickTop = v == "1" || v == "true"
	}
	if v, ok := r.Attr("thickBot"); ok {
		row.ThickBot = v == "1" || v == "true"
	}
	if v, ok := r.Attr("dyDescent"); ok {
		row.DyDescent = v
	}
	for _, c := range r.ChildrenNamed("c") {
		row.Cells = append(row.Cells, parseRawCell(c))
	}
	return row
}

func parseRawCell(c *Element) RawCell {
	rc := RawCell{}
	rc.Ref, _ = c.Attr("r")
	rc.Type, _ = c.Attr("t")
	if v, ok := c.Attr("s"); ok {
		rc.StyleIdx, _ = strconv.Atoi(v)
		rc.HasStyle = true
	}
	if f := c.Child("f"); f != nil {
		rc.Formula = f.Text
	}
	if rc.Type == "inlineStr" {
		if is := c.Child("is"); is != nil {
			rc.Inline = []SSTRun{}
			if t := is.Child("t"); t != nil {
				rc.Inline = append(rc.Inline, SSTRun{Text: t.Text})
			}
			for _, r := range is.ChildrenNamed("r") {
				run := SSTRun{}
				if t := r.Child("t"); t != nil {
					run.Text = t.Text
				}
				if rpr := r.Child("rPr"); rpr != nil {
					run.RawRPr = renderRawElement(rpr)
				}
				rc.Inline = append(rc.Inline, run)
			}
		}
	} else if v := c.Child("v"); v != nil {
		rc.ValueRaw = v.Text
	}
	return rc
}

// Write emits sheet{N}.xml: preserved Before elements, a recomputed
// <dimension>, <sheetData> built from rows, preserved AfterData
// elements, <mergeCells>, <tableParts>, preserved After elements
// (spec.md §4.9).
func (wp *WorksheetPart) Write(s Sink, dimensionRef string) error {
	if err := s.StartDocument(); err != nil {
		return err
	}
	rootAttrs := []Attr{
		{Name: "xmlns", Value: pkgconst.NamespaceSpreadsheetML},
		{Name: "xmlns:r", Value: pkgconst.NamespaceRelationships},
	}
	err := WithAttributes(s, "worksheet", rootAttrs, func() error {
		for _, e := range wp.Before {
			if err := writeOpaque(s, e); err != nil {
				return err
			}
		}
		if dimensionRef != "" {
			if err := WithAttributes(s, "dimension", []Attr{{Name: "ref", Value: dimensionRef}}, nil); err != nil {
				return err
			}
		}
		err := WithAttributes(s, "sheetData", nil, func() error {
			for _, r := range wp.Rows {
				if err := writeRawRow(s, r); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, e := range wp.AfterData {
			if err := writeOpaque(s, e); err != nil {
				return err
			}
		}
		if len(wp.Merges) > 0 {
			err := WithAttributes(s, "mergeCells", []Attr{{Name: "count", Value: strconv.Itoa(len(wp.Merges))}}, func() error {
				for _, m := range wp.Merges {
					if err := WithAttributes(s, "mergeCell", []Attr{{Name: "ref", Value: m}}, nil); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		if wp.LegacyDrawingRID != "" {
			if err := WithAttributes(s, "legacyDrawing", []Attr{{Name: "r:id", Value: wp.LegacyDrawingRID}}, nil); err != nil {
				return err
			}
		}
		if len(wp.TableParts) > 0 {
			err := WithAttributes(s, "tableParts", []Attr{{Name: "count", Value: strconv.Itoa(len(wp.TableParts))}}, func() error {
				for _, rid := range wp.TableParts {
					if err := WithAttributes(s, "tablePart", []Attr{{Name: "r:id", Value: rid}}, nil); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		for _, e := range wp.After {
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

func writeRawRow(s Sink, r RawRow) error {
	attrs := []Attr{{Name: "r", Value: strconv.Itoa(r.Index + 1)}}
	if r.Spans != "" {
		attrs = append(attrs, Attr{Name: "spans", Value: r.Spans})
	}
	if r.HasStyle {
		attrs = append(attrs, Attr{Name: "s", Value: strconv.Itoa(r.StyleIdx)}, Attr{Name: "customFormat", Value: "1"})
	}
	if r.HasHeight {
		attrs = append(attrs, Attr{Name: "ht", Value: strconv.FormatFloat(r.Height, 'f', -1, 64)})
	}
	if r.CustomHeight {
		attrs = append(attrs, Attr{Name: "customHeight", Value: "1"})
	}
	if r.Hidden {
		attrs = append(attrs, Attr{Name: "hidden", Value: "1"})
	}
	if r.OutlineLevel != 0 {
		attrs = append(attrs, Attr{Name: "outlineLevel", Value: strconv.Itoa(r.OutlineLevel)})
	}
	if r.Collapsed {
		attrs = append(attrs, Attr{Name: "collapsed", Value: "1"})
	}
	if r.ThickBot {
		attrs = append(attrs, Attr{Name: "thickBot", Value: "1"})
	}
	if r.ThickTop {
		attrs = append(attrs, Attr{Name: "thickTop", Value: "1"})
	}
	if r.DyDescent != "" {
		attrs = append(attrs, Attr{Name: "x14ac:dyDescent", Value: r.DyDescent})
	}
	return WithAttributes(s, "row", attrs, func() error {
		for _, c := range r.Cells {
			if err := writeRawCell(s, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRawCell(s Sink, c RawCell) error {
	attrs := []Attr{{Name: "r", Value: c.Ref}}
	if c.HasStyle {
		attrs = append(attrs, Attr{Name: "s", Value: strconv.Itoa(c.StyleIdx)})
	}
	if c.Type != "" {
		attrs = append(attrs, Attr{Name: "t", Value: c.Type})
	}
	return WithAttributes(s, "c", attrs, func() error {
		if c.Formula != "" {
			if err := WithAttributes(s, "f", nil, func() error { return s.WriteCharacters(c.Formula) }); err != nil {
				return err
			}
		}
		if c.Type == "inlineStr" {
			return WithAttributes(s, "is", nil, func() error {
				for _, run := range c.Inline {
					if run.RawRPr == "" && len(c.Inline) == 1 {
						return writeSSTText(s, run.Text)
					}
					err := WithAttributes(s, "r", nil, func() error {
						if run.RawRPr != "" {
							if err := s.WriteRaw(run.RawRPr); err != nil {
								return err
							}
						}
						return writeSSTText(s, run.Text)
					})
					if err != nil {
						return err
					}
				}
				return nil
			})
		}
		if c.ValueRaw != "" {
			return WithAttributes(s, "v", nil, func() error { return s.WriteCharacters(c.ValueRaw) })
		}
		return nil
	})
}
