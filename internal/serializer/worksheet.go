// Package serializer turns a domain.Sheet's current state into the
// xl/worksheets/sheet{N}.xml structural layer (internal/xml.WorksheetPart),
// merging freshly authored cell data with whatever opaque source
// metadata the sheet carries (spec.md §4.9). Grounded on the teacher's
// internal/serializer package, which performs the analogous merge of
// paragraph/run domain state into word/document.xml's typed layer.
package serializer

import (
	"sort"
	"strconv"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/manager"
	"github.com/mmonterroca/xlsxcore/internal/xml"
)

// SerializeWorksheet produces the WorksheetPart for sheet. When sheet
// carries preserved source metadata and the caller reports it unmodified,
// the preserved row/merge/table data is reused verbatim (its cell style
// and shared-string indices are still valid, since both StyleIndex and
// SharedStringsTable preserve their source prefixes at fixed positions
// in with-source mode) rather than re-walking domain.Sheet.Cells —
// exactly reproducing the source content. Modified or source-less sheets
// are regenerated fully from current domain state (spec.md §4.9).
func SerializeWorksheet(sheet *domain.Sheet, modified bool, si *manager.StyleIndex, sst *manager.SharedStringsTable, sstPolicy manager.SSTPolicy, legacyDrawingRID string, escapeFormulas bool) *xml.WorksheetPart {
	preserved, hasPreserved := sheet.SourcePreserved.(*xml.WorksheetPart)

	wsPart := &xml.WorksheetPart{}
	if hasPreserved {
		wsPart.Before = preserved.Before
		wsPart.AfterData = preserved.AfterData
		wsPart.After = preserved.After
	}

	if hasPreserved && !modified {
		wsPart.Rows = preserved.Rows
		wsPart.Merges = preserved.Merges
		wsPart.TableParts = preserved.TableParts
		wsPart.LegacyDrawingRID = preserved.LegacyDrawingRID
		wsPart.CommentsRID = preserved.CommentsRID
		return wsPart
	}

	var preservedRows map[int]xml.RawRow
	if hasPreserved {
		preservedRows = make(map[int]xml.RawRow, len(preserved.Rows))
		for _, r := range preserved.Rows {
			preservedRows[r.Index] = r
		}
	}

	useSST := sst.ShouldUseSST(sstPolicy)
	wsPart.Rows = buildRows(sheet, si, sst, useSST, escapeFormulas, preservedRows)
	for _, m := range sheet.Merges {
		wsPart.Merges = append(wsPart.Merges, m.String())
	}
	wsPart.LegacyDrawingRID = legacyDrawingRID
	return wsPart
}

// buildRows walks every row index that carries a cell, explicit row
// properties, or a preserved source row, emitting RawRow entries in
// ascending order. A preserved row is copied and then overlaid with the
// current domain.RowProperties (if any) and the current cell set, so a
// row's non-tracked source attributes (spans, thickTop/thickBot,
// x14ac:dyDescent) round-trip even on a sheet with a modified cell, and
// an empty preserved row with no tracked attributes and no domain cells
// is still retained (spec.md §4.9: "retain empty rows that existed in
// the source... emit empty rows for domain-only row properties").
func buildRows(sheet *domain.Sheet, si *manager.StyleIndex, sst *manager.SharedStringsTable, useSST bool, escapeFormulas bool, preservedRows map[int]xml.RawRow) []xml.RawRow {
	byRow := make(map[int][]domain.ARef)
	rowSet := make(map[int]struct{})
	for ref := range sheet.Cells {
		byRow[ref.Row()] = append(byRow[ref.Row()], ref)
		rowSet[ref.Row()] = struct{}{}
	}
	for idx := range sheet.RowProps {
		rowSet[idx] = struct{}{}
	}
	for idx := range preservedRows {
		rowSet[idx] = struct{}{}
	}

	indices := make([]int, 0, len(rowSet))
	for idx := range rowSet {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	rows := make([]xml.RawRow, 0, len(indices))
	for _, idx := range indices {
		refs := byRow[idx]
		sort.Slice(refs, func(i, j int) bool { return refs[i].Col() < refs[j].Col() })

		row := xml.RawRow{Index: idx}
		if pres, ok := preservedRows[idx]; ok {
			row = pres
			row.Cells = nil
		}
		if p, ok := sheet.RowProps[idx]; ok {
			row.Height = p.Height
			row.HasHeight = p.Height != 0 || p.CustomHeight
			row.CustomHeight = p.CustomHeight
			row.Hidden = p.Hidden
			row.OutlineLevel = p.OutlineLevel
			row.Collapsed = p.Collapsed
			row.StyleIdx = p.StyleID
			row.HasStyle = p.HasStyle
		}
		for _, ref := range refs {
			cell := sheet.Cells[ref]
			row.Cells = append(row.Cells, encodeCell(ref, cell, sheet.Styles, si, sst, useSST, escapeFormulas))
		}
		rows = append(rows, row)
	}
	return rows
}

func encodeCell(ref domain.ARef, cell domain.Cell, registry *domain.StyleRegistry, si *manager.StyleIndex, sst *manager.SharedStringsTable, useSST bool, escapeFormulas bool) xml.RawCell {
	rc := xml.RawCell{Ref: ref.String()}
	if cell.StyleID != 0 {
		if cs, ok := registry.Get(cell.StyleID); ok {
			rc.StyleIdx = si.Add(cs)
			rc.HasStyle = true
		}
	}
	encodeValue(&rc, cell.Value, sst, useSST, escapeFormulas)
	return rc
}

func encodeValue(rc *xml.RawCell, v domain.CellValue, sst *manager.SharedStringsTable, useSST bool, escapeFormulas bool) {
	switch v.Kind {
	case domain.KindEmpty:
		// no type, no value
	case domain.KindNumber:
		rc.ValueRaw = v.Number.String()
	case domain.KindDateTime:
		rc.ValueRaw = strconv.FormatFloat(domain.FromTime(v.DateTime), 'f', -1, 64)
	case domain.KindBool:
		rc.Type = "b"
		if v.Bool {
			rc.ValueRaw = "1"
		} else {
			rc.ValueRaw = "0"
		}
	case domain.KindError:
		rc.Type = "e"
		rc.ValueRaw = string(v.ErrKind)
	case domain.KindText:
		text := v.Text
		if escapeFormulas {
			text = escapeFormulaInjection(text)
		}
		encodeText(rc, text, nil, sst, useSST, escapeFormulas)
	case domain.KindRichText:
		encodeText(rc, "", v.Runs, sst, useSST, escapeFormulas)
	case domain.KindFormula:
		rc.Formula = v.FormulaExpr
		if v.FormulaCached != nil {
			encodeCachedValue(rc, *v.FormulaCached)
		}
	}
}

// encodeCachedValue fills in a formula cell's cached-result type/value
// without touching Formula, mirroring ECMA-376's allowance for a <f>
// element followed by a cached <v> (spec.md §4.9).
func encodeCachedValue(rc *xml.RawCell, cached domain.CellValue) {
	switch cached.Kind {
	case domain.KindNumber:
		rc.ValueRaw = cached.Number.String()
	case domain.KindBool:
		rc.Type = "b"
		if cached.Bool {
			rc.ValueRaw = "1"
		} else {
			rc.ValueRaw = "0"
		}
	case domain.KindError:
		rc.Type = "e"
		rc.ValueRaw = string(cached.ErrKind)
	case domain.KindText:
		rc.Type = "str"
		rc.ValueRaw = cached.Text
	case domain.KindDateTime:
		rc.ValueRaw = strconv.FormatFloat(domain.FromTime(cached.DateTime), 'f', -1, 64)
	}
}

// encodeText writes a text or rich-text value either via the shared
// strings table or as an inline string, per the SST policy decision
// (spec.md §4.6).
func encodeText(rc *xml.RawCell, plain string, runs []domain.TextRun, sst *manager.SharedStringsTable, useSST bool, escapeFormulas bool) {
	if runs == nil {
		runs = []domain.TextRun{{Text: plain}}
	} else if len(runs) > 0 && escapeFormulas {
		runs = append([]domain.TextRun(nil), runs...)
		runs[0].Text = escapeFormulaInjection(runs[0].Text)
	}

	if useSST {
		rc.Type = "s"
		var idx int
		if len(runs) == 1 && !runs[0].HasRawFormatting() {
			idx = sst.AddPlainText(runs[0].Text)
		} else {
			idx = sst.AddRichText(runs)
		}
		rc.ValueRaw = strconv.Itoa(idx)
		return
	}

	rc.Type = "inlineStr"
	for _, r := range runs {
		run := xml.SSTRun{Text: r.Text}
		if r.HasRawFormatting() {
			run.RawRPr = r.RawRPrXML
		}
		rc.Inline = append(rc.Inline, run)
	}
}

// escapeFormulaInjection prefixes text beginning with a character Excel
// (or a downstream CSV-consuming tool) could reinterpret as a formula
// lead-in with a literal apostrophe, matching how Excel itself escapes
// pasted text (spec.md §10 supplemented feature). The reader does not
// strip this back off: there is no way to distinguish an
// engine-inserted escape from a genuine leading apostrophe in
// independently authored content, so this is a write-only mitigation.
func escapeFormulaInjection(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	default:
		return s
	}
}
