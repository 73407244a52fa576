package writer

import (
	"strconv"
	"strings"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/manager"
	"github.com/mmonterroca/xlsxcore/internal/reader"
	"github.com/mmonterroca/xlsxcore/internal/xml"
	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
)

func sheetPartPath(n int) string      { return pkgconst.PathWorksheetDir + "sheet" + strconv.Itoa(n) + ".xml" }
func sheetRelsPartPath(n int) string  { return pkgconst.PathWorksheetRelsDir + "sheet" + strconv.Itoa(n) + ".xml.rels" }
func commentsPartPath(n int) string   { return pkgconst.PathCommentsPrefix + strconv.Itoa(n) + ".xml" }
func vmlDrawingPartPath(n int) string { return pkgconst.PathVMLDrawingPrefix + strconv.Itoa(n) + ".vml" }
func tablePartPath(n int) string      { return pkgconst.PathTablesDir + "table" + strconv.Itoa(n) + ".xml" }

// sheetFileNumbers assigns each sheet the N in its xl/worksheets/sheet{N}.xml
// part name: a surviving sheet keeps the file number it had on read, so an
// unrelated sheet's path never changes just because another sheet was
// deleted or reordered, and a newly added sheet gets the next unused
// number (spec.md §4.12, grounded on reader.SourceArtifacts.SheetFileNum).
func sheetFileNumbers(wb *domain.Workbook, artifacts *reader.SourceArtifacts) map[*domain.Sheet]int {
	out := make(map[*domain.Sheet]int, len(wb.Sheets))
	next := 1
	if artifacts != nil {
		next = artifacts.NextSheetNum
	}
	for _, s := range wb.Sheets {
		if artifacts != nil {
			if n, ok := artifacts.SheetFileNum[s]; ok {
				out[s] = n
				continue
			}
		}
		out[s] = next
		next++
	}
	return out
}

// assignSheetIDs fills in SheetID for any sheet that doesn't already carry
// one preserved from source, per spec.md §4.7: "new sheets receive
// max(existingSheetId)+1".
func assignSheetIDs(wb *domain.Workbook) {
	max := 0
	for _, s := range wb.Sheets {
		if s.SheetID > max {
			max = s.SheetID
		}
	}
	for _, s := range wb.Sheets {
		if s.SheetID == 0 {
			max++
			s.SheetID = max
		}
	}
}

// assignTableIDs fills in ID for any table that doesn't already carry a
// workbook-global id preserved from source, threading a running counter
// across every sheet so ids stay unique workbook-wide (spec.md §4.7:
// "Table IDs are assigned globally across the workbook").
func assignTableIDs(wb *domain.Workbook, next int) {
	for _, s := range wb.Sheets {
		for i := range s.Tables {
			t := &s.Tables[i]
			if t.ID == 0 {
				t.ID = next
			}
			if t.ID >= next {
				next = t.ID + 1
			}
		}
	}
}

func buildSheetRefs(wb *domain.Workbook, ridFor map[*domain.Sheet]string) []xml.SheetRef {
	refs := make([]xml.SheetRef, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		refs = append(refs, xml.SheetRef{
			Name: s.Name, SheetID: strconv.Itoa(s.SheetID), RID: ridFor[s],
			StateHidden:     s.Visibility == domain.VisibilityHidden,
			StateVeryHidden: s.Visibility == domain.VisibilityVeryHidden,
		})
	}
	return refs
}

// buildRootRels assembles _rels/.rels: the officeDocument relationship
// this engine owns, plus any other relationship (e.g. docProps) the
// source carried, which must still be referenced even though this part
// is always regenerated as a structural part (spec.md §4.12).
func buildRootRels(preserved xml.RelationshipsPart) xml.RelationshipsPart {
	rp := xml.RelationshipsPart{}
	haveOfficeDoc := false
	for _, r := range preserved.Relationships {
		if r.Type == pkgconst.RelTypeOfficeDocument {
			haveOfficeDoc = true
		}
		rp.Relationships = append(rp.Relationships, r)
	}
	if !haveOfficeDoc {
		rp.Relationships = append(rp.Relationships, xml.Relationship{ID: rp.NextID(), Type: pkgconst.RelTypeOfficeDocument, Target: pkgconst.PathWorkbook})
	}
	return rp
}

// buildWorkbookRels assembles xl/_rels/workbook.xml.rels: every relation
// this engine doesn't own (theme, etc.) is kept from the preserved source
// part, then sheets/styles/sharedStrings are (re)assigned fresh rIds
// (spec.md §4.7: "relationshipId is reassigned by ordinal").
func buildWorkbookRels(wb *domain.Workbook, fileNum map[*domain.Sheet]int, hasSST bool, preserved xml.RelationshipsPart) (xml.RelationshipsPart, map[*domain.Sheet]string) {
	rp := xml.RelationshipsPart{}
	for _, r := range preserved.Relationships {
		switch r.Type {
		case pkgconst.RelTypeWorksheet, pkgconst.RelTypeStyles, pkgconst.RelTypeSharedStrings:
			continue
		default:
			rp.Relationships = append(rp.Relationships, r)
		}
	}
	ridFor := make(map[*domain.Sheet]string, len(wb.Sheets))
	for _, s := range wb.Sheets {
		rid := rp.NextID()
		ridFor[s] = rid
		rp.Relationships = append(rp.Relationships, xml.Relationship{
			ID: rid, Type: pkgconst.RelTypeWorksheet,
			Target: "worksheets/sheet" + strconv.Itoa(fileNum[s]) + ".xml",
		})
	}
	stylesRID := rp.NextID()
	rp.Relationships = append(rp.Relationships, xml.Relationship{ID: stylesRID, Type: pkgconst.RelTypeStyles, Target: "styles.xml"})
	if hasSST {
		sstRID := rp.NextID()
		rp.Relationships = append(rp.Relationships, xml.Relationship{ID: sstRID, Type: pkgconst.RelTypeSharedStrings, Target: "sharedStrings.xml"})
	}
	return rp, ridFor
}

// buildSheetRels assembles one sheet's own .rels part: comments first
// (rId1), its legacy VML drawing second (rId2) when the sheet has
// comments (spec.md §4.9: "synthesize one pointing at rId2"), then one
// relationship per structured table.
func buildSheetRels(hasComments bool, commentsNum, vmlNum int, tableIDs []int) (rels xml.RelationshipsPart, commentsRID, vmlRID string, tableRIDs []string) {
	if hasComments {
		commentsRID = rels.NextID()
		rels.Relationships = append(rels.Relationships, xml.Relationship{
			ID: commentsRID, Type: pkgconst.RelTypeComments, Target: "../comments" + strconv.Itoa(commentsNum) + ".xml",
		})
		vmlRID = rels.NextID()
		rels.Relationships = append(rels.Relationships, xml.Relationship{
			ID: vmlRID, Type: pkgconst.RelTypeVMLDrawing, Target: "../drawings/vmlDrawing" + strconv.Itoa(vmlNum) + ".vml",
		})
	}
	for _, id := range tableIDs {
		rid := rels.NextID()
		tableRIDs = append(tableRIDs, rid)
		rels.Relationships = append(rels.Relationships, xml.Relationship{
			ID: rid, Type: pkgconst.RelTypeTable, Target: "../tables/table" + strconv.Itoa(id) + ".xml",
		})
	}
	return rels, commentsRID, vmlRID, tableRIDs
}

// isEnginePartName reports whether PartName names a part this writer owns
// and always regenerates, so a preserved [Content_Types].xml's override
// for it must be dropped rather than duplicated.
func isEnginePartName(partName string) bool {
	p := strings.TrimPrefix(partName, "/")
	switch p {
	case pkgconst.PathWorkbook, pkgconst.PathStyles, pkgconst.PathSharedStrings:
		return true
	}
	if strings.HasPrefix(p, pkgconst.PathWorksheetDir) && strings.HasSuffix(p, ".xml") {
		return true
	}
	if strings.HasPrefix(p, pkgconst.PathCommentsPrefix) {
		return true
	}
	if strings.HasPrefix(p, pkgconst.PathTablesDir) {
		return true
	}
	return false
}

func ensureDefault(ct *xml.ContentTypesPart, ext, contentType string) {
	for _, d := range ct.Defaults {
		if d.Extension == ext {
			return
		}
	}
	ct.Defaults = append(ct.Defaults, xml.Default{Extension: ext, ContentType: contentType})
}

// buildContentTypes assembles [Content_Types].xml: Defaults/Overrides
// this engine doesn't own are kept from the preserved source part, then
// the overrides for every currently-live sheet/comments/table are added
// fresh, so a deleted sheet's override simply isn't re-added (spec.md
// §4.12: "content-types overrides ... for them are omitted").
func buildContentTypes(wb *domain.Workbook, fileNum map[*domain.Sheet]int, hasSST bool, sheetHasComments map[*domain.Sheet]bool, sheetTableIDs map[*domain.Sheet][]int, preserved *xml.ContentTypesPart) *xml.ContentTypesPart {
	ct := &xml.ContentTypesPart{}
	if preserved != nil {
		ct.Defaults = append(ct.Defaults, preserved.Defaults...)
		for _, o := range preserved.Overrides {
			if !isEnginePartName(o.PartName) {
				ct.Overrides = append(ct.Overrides, o)
			}
		}
	}
	ensureDefault(ct, "rels", pkgconst.ContentTypeRelationships)
	ensureDefault(ct, "xml", pkgconst.ContentTypeXML)
	for _, has := range sheetHasComments {
		if has {
			ensureDefault(ct, "vml", pkgconst.ContentTypeVML)
			break
		}
	}

	ct.AddOverride("/"+pkgconst.PathWorkbook, pkgconst.ContentTypeWorkbook)
	ct.AddOverride("/"+pkgconst.PathStyles, pkgconst.ContentTypeStyles)
	if hasSST {
		ct.AddOverride("/"+pkgconst.PathSharedStrings, pkgconst.ContentTypeSharedStrings)
	}
	for _, s := range wb.Sheets {
		n := fileNum[s]
		ct.AddOverride("/"+sheetPartPath(n), pkgconst.ContentTypeWorksheet)
		if sheetHasComments[s] {
			ct.AddOverride("/"+commentsPartPath(n), pkgconst.ContentTypeComments)
		}
		for _, id := range sheetTableIDs[s] {
			ct.AddOverride("/"+tablePartPath(id), pkgconst.ContentTypeTable)
		}
	}
	return ct
}

// buildCommentsPart converts a sheet's domain comments into a fresh
// CommentsPart, reserving author index 0 for the empty/unauthored author
// when present (spec.md §4.7) and synthesizing the bold "Author:" run
// plus leading newline this engine always writes for the display text.
func buildCommentsPart(sheet *domain.Sheet) (*xml.CommentsPart, bool) {
	if len(sheet.Comments) == 0 {
		return nil, false
	}
	cp := &xml.CommentsPart{}
	authorIdx := make(map[string]int)
	hasEmpty := false
	for _, c := range sheet.Comments {
		if c.Author == "" {
			hasEmpty = true
		}
	}
	if hasEmpty {
		authorIdx[""] = 0
		cp.Authors = append(cp.Authors, "")
	}
	for _, c := range sheet.Comments {
		if _, ok := authorIdx[c.Author]; !ok {
			authorIdx[c.Author] = len(cp.Authors)
			cp.Authors = append(cp.Authors, c.Author)
		}
	}
	for _, c := range sheet.Comments {
		var runs []xml.CommentRun
		if c.Author != "" {
			runs = append(runs, xml.CommentRun{Text: c.Author + ":", Bold: true})
		}
		for i, r := range c.Body {
			text := r.Text
			if i == 0 {
				text = "\n" + text
			}
			runs = append(runs, xml.CommentRun{Text: text})
		}
		cp.Entries = append(cp.Entries, xml.CommentEntry{Ref: c.Ref.String(), AuthorID: authorIdx[c.Author], Runs: runs})
	}
	return cp, true
}

// vmlFor renders the legacyDrawing VML accompanying a sheet's comments.
func vmlFor(sheetIndex int, cp *xml.CommentsPart) string {
	return xml.VMLDrawingFor(sheetIndex, cp.Entries, func(ref string) (int, int) {
		a, err := domain.ParseARef(ref)
		if err != nil {
			return 0, 0
		}
		return a.Col(), a.Row()
	})
}

// buildTableParts converts a sheet's domain tables into fresh
// xml.TablePart values. Table numbering reuses each table's preserved
// workbook-global ID (assignTableIDs has already filled one in for every
// table), so an unmodified sheet copied verbatim from source still
// references the exact table part path its raw .rels expects; only the
// xr:uid identifiers are freshly minted every write, since domain.Table
// carries no UID field to round-trip (spec.md §4.12 step 6: "Emit tables
// (always regenerated from domain)").
func buildTableParts(sheet *domain.Sheet) []*xml.TablePart {
	out := make([]*xml.TablePart, 0, len(sheet.Tables))
	for _, t := range sheet.Tables {
		names := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			names[i] = c.Name
		}
		headerRowCount := t.HeaderRowCount
		if headerRowCount == 0 {
			headerRowCount = 1
		}
		tp := xml.NewTablePart(t.ID, t.Name, t.DisplayName, t.Ref.String(), headerRowCount, names)
		tp.TotalsRowCount = t.TotalsRowCount
		tp.TotalsRowShown = t.TotalsRowShown
		tp.HasAutoFilter = t.HasAutoFilter
		if t.HasAutoFilter {
			tp.AutoFilterRef = t.Ref.String()
		}
		out = append(out, tp)
	}
	return out
}

func tableIDsOf(tps []*xml.TablePart) []int {
	out := make([]int, len(tps))
	for i, tp := range tps {
		out[i] = tp.ID
	}
	return out
}

// writeContentTypes, writeRelationships, writeWorkbookPart, etc. adapt
// each part codec's Write signature to the packageZipWriter's sinkFor, so
// the assembly functions below read as a flat sequence of part emissions
// (spec.md §4.13's canonical entry order).

func writeContentTypes(zw *packageZipWriter, ct *xml.ContentTypesPart) error {
	sink, err := zw.sinkFor(pkgconst.PathContentTypes)
	if err != nil {
		return err
	}
	return ct.Write(sink)
}

func writeRelationships(zw *packageZipWriter, path string, rp xml.RelationshipsPart) error {
	sink, err := zw.sinkFor(path)
	if err != nil {
		return err
	}
	return rp.Write(sink)
}

func writeWorkbookPart(zw *packageZipWriter, wp *xml.WorkbookPart, sheets []xml.SheetRef, definedNames []xml.DefinedNameRef) error {
	sink, err := zw.sinkFor(pkgconst.PathWorkbook)
	if err != nil {
		return err
	}
	return wp.Write(sink, sheets, definedNames)
}

func writeStylesPart(zw *packageZipWriter, sp *xml.StylesPart) error {
	sink, err := zw.sinkFor(pkgconst.PathStyles)
	if err != nil {
		return err
	}
	return sp.Write(sink)
}

func writeSharedStrings(zw *packageZipWriter, sp *xml.SharedStringsPart) error {
	sink, err := zw.sinkFor(pkgconst.PathSharedStrings)
	if err != nil {
		return err
	}
	return sp.Write(sink)
}

func writeWorksheetPart(zw *packageZipWriter, path string, wp *xml.WorksheetPart, dimensionRef string) error {
	sink, err := zw.sinkFor(path)
	if err != nil {
		return err
	}
	return wp.Write(sink, dimensionRef)
}

func writeCommentsPart(zw *packageZipWriter, path string, cp *xml.CommentsPart) error {
	sink, err := zw.sinkFor(path)
	if err != nil {
		return err
	}
	return cp.Write(sink)
}

func writeTablePart(zw *packageZipWriter, path string, tp *xml.TablePart) error {
	sink, err := zw.sinkFor(path)
	if err != nil {
		return err
	}
	return tp.Write(sink)
}

// sstPolicyUseSST mirrors manager.SharedStringsTable.ShouldUseSST but
// named here for readability at writer call sites.
func sstPolicyUseSST(sst *manager.SharedStringsTable, policy manager.SSTPolicy) bool {
	return sst.ShouldUseSST(policy)
}
