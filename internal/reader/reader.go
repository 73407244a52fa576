package reader

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/manager"
	"github.com/mmonterroca/xlsxcore/internal/manifest"
	"github.com/mmonterroca/xlsxcore/internal/xml"
	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
	pkgerrors "github.com/mmonterroca/xlsxcore/pkg/errors"
)

const opReadPackage = "reader.ReadPackage"

// ReadResult is the outcome of a successful read: the hydrated workbook
// plus any non-fatal degradation warnings (spec.md §7).
type ReadResult struct {
	Workbook *domain.Workbook
	Warnings []string
}

// SourceArtifacts bundles the parsed structural/styles/SST state a
// write needs to reconstruct a source package surgically, attached to
// domain.Workbook.SourcePreserved as an opaque value (spec.md §3, §4.10
// -§4.12). internal/writer type-asserts it back; domain never imports
// this package.
type SourceArtifacts struct {
	WorkbookPart  *xml.WorkbookPart
	ContentTypes  *xml.ContentTypesPart
	RootRels      xml.RelationshipsPart
	WorkbookRels  xml.RelationshipsPart
	Styles        *xml.StylesPart
	SharedStrings *xml.SharedStringsPart

	// SheetFileNum maps a sheet's pointer identity to the N in its
	// source xl/worksheets/sheet{N}.xml, so the writer can preserve the
	// original file name even after sheets are added, deleted, or
	// reordered (those operations mutate domain.Workbook.Sheets but
	// never replace a surviving *domain.Sheet). Sheets with no entry
	// are new and get the next free number on write.
	SheetFileNum map[*domain.Sheet]int

	// SheetOrigIndex maps a sheet's pointer identity to its 0-based
	// position in the source workbook.xml's <sheets> list at read time —
	// the index space RelGraph's dependency sets were built against.
	// Workbook.Sheets may since have been reordered, had sheets deleted,
	// or had sheets appended, so this is generally not the same as a
	// sheet's current slice position. Sheets with no entry are new.
	SheetOrigIndex map[*domain.Sheet]int

	NextSheetNum int
	NextTableID  int
}

// ReadPackage opens path, enforces limits, and hydrates a domain.Workbook
// (spec.md §4.3).
func ReadPackage(path string, limits Limits) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.WrapWithCode(err, pkgerrors.ErrCodeIO, opReadPackage)
	}
	defer f.Close()

	op, err := openPackage(f, limits)
	if err != nil {
		return nil, err
	}
	return hydrate(path, op, limits)
}

func hydrate(path string, op *openedPackage, limits Limits) (*ReadResult, error) {
	man := manifest.New()
	byPath := make(map[string]rawEntry, len(op.entries))
	for _, e := range op.entries {
		kind := manifest.KindUnparsed
		if e.known {
			kind = manifest.KindParsed
		}
		man.Add(manifest.PartEntry{
			Path: e.path, UncompressedSize: e.uncompressedSize, CompressedSize: e.compressedSize,
			CRC32: e.crc32, CompressionMethod: e.compressionMethod, Kind: kind,
		})
		byPath[e.path] = e
	}

	var warnings []string

	wbEntry, ok := byPath[pkgconst.PathWorkbook]
	if !ok {
		return nil, pkgerrors.Errorf(pkgerrors.ErrCodeInvalidWorkbook, opReadPackage, "missing required part %s", pkgconst.PathWorkbook)
	}
	wbRoot, err := safeDecodeNamed(wbEntry.data, pkgconst.PathWorkbook)
	if err != nil {
		return nil, err
	}
	wbPart := xml.ParseWorkbookPart(wbRoot)

	var wbRels xml.RelationshipsPart
	if e, ok := byPath[pkgconst.PathWorkbookRels]; ok {
		root, err := safeDecodeNamed(e.data, pkgconst.PathWorkbookRels)
		if err != nil {
			return nil, err
		}
		wbRels = xml.ParseRelationships(root)
	}

	var rootRels xml.RelationshipsPart
	if e, ok := byPath[pkgconst.PathRootRels]; ok {
		root, err := safeDecodeNamed(e.data, pkgconst.PathRootRels)
		if err != nil {
			return nil, err
		}
		rootRels = xml.ParseRelationships(root)
	}

	var contentTypes *xml.ContentTypesPart
	if e, ok := byPath[pkgconst.PathContentTypes]; ok {
		root, err := safeDecodeNamed(e.data, pkgconst.PathContentTypes)
		if err != nil {
			return nil, err
		}
		ct := xml.ParseContentTypes(root)
		contentTypes = &ct
	}

	sst := manager.NewSharedStringsTable()
	var sstPart *xml.SharedStringsPart
	if e, ok := byPath[pkgconst.PathSharedStrings]; ok {
		root, err := safeDecodeNamed(e.data, pkgconst.PathSharedStrings)
		if err != nil {
			return nil, err
		}
		sp := xml.ParseSharedStringsPart(root)
		sstPart = sp
		sst = manager.NewSharedStringsTableFromSource(sp)
	} else {
		warnings = append(warnings, "missing optional part "+pkgconst.PathSharedStrings+"; treating workbook as having no shared strings")
	}

	var stylesPart *xml.StylesPart
	var cellStyles []domain.CellStyle
	if e, ok := byPath[pkgconst.PathStyles]; ok {
		root, err := safeDecodeNamed(e.data, pkgconst.PathStyles)
		if err != nil {
			return nil, err
		}
		stylesPart = xml.ParseStylesPart(root)
		cellStyles = cellStylesFromPart(stylesPart)
	} else {
		warnings = append(warnings, "missing optional part "+pkgconst.PathStyles+"; using default styling")
		stylesPart = &xml.StylesPart{}
		cellStyles = []domain.CellStyle{domain.DefaultCellStyle()}
	}

	if _, ok := byPath[pkgconst.PathTheme]; !ok {
		warnings = append(warnings, "missing optional part "+pkgconst.PathTheme)
	}

	sheetPathIndex := buildSheetPathIndex(wbPart, wbRels)

	wb := &domain.Workbook{}
	wb.Sheets = make([]*domain.Sheet, len(wbPart.Sheets))

	graph := manifest.NewRelGraph()
	sheetFileNum := make(map[*domain.Sheet]int, len(wbPart.Sheets))
	sheetOrigIndex := make(map[*domain.Sheet]int, len(wbPart.Sheets))
	nextSheetNum := 1

	for i, shRef := range wbPart.Sheets {
		sheet := domain.NewSheet(shRef.Name)
		switch {
		case shRef.StateVeryHidden:
			sheet.Visibility = domain.VisibilityVeryHidden
		case shRef.StateHidden:
			sheet.Visibility = domain.VisibilityHidden
		}
		sheet.SheetID = parseIntDefault(shRef.SheetID, 0)

		fileNum := nextSheetNum
		for path, idx := range sheetPathIndex {
			if idx == i {
				if n, ok := sheetNumber(path); ok {
					fileNum = n
				}
			}
		}
		if fileNum >= nextSheetNum {
			nextSheetNum = fileNum + 1
		}
		sheetFileNum[sheet] = fileNum
		sheetOrigIndex[sheet] = i
		graph.AddDependency(sheetPartPath(fileNum), i)

		sheetEntry, ok := byPath[sheetPartPath(fileNum)]
		if !ok {
			return nil, pkgerrors.Errorf(pkgerrors.ErrCodeInvalidWorkbook, opReadPackage, "referenced worksheet part %s is missing", sheetPartPath(fileNum))
		}
		sheetRoot, err := safeDecodeNamed(sheetEntry.data, sheetPartPath(fileNum))
		if err != nil {
			return nil, err
		}
		wsPart := xml.ParseWorksheetPart(sheetRoot)

		if err := hydrateSheetCells(sheet, wsPart, cellStyles, sst, limits); err != nil {
			return nil, err
		}
		hydrateRowColProps(sheet, wsPart)
		if err := hydrateMerges(sheet, wsPart); err != nil {
			return nil, err
		}
		sheet.SourcePreserved = wsPart

		var sheetRels xml.RelationshipsPart
		if e, ok := byPath[sheetRelsPartPath(fileNum)]; ok {
			root, err := safeDecodeNamed(e.data, sheetRelsPartPath(fileNum))
			if err != nil {
				return nil, err
			}
			sheetRels = xml.ParseRelationships(root)
			addSheetRelsDependencies(graph, i, sheetRels, len(wbPart.Sheets))
		}

		if err := hydrateComments(sheet, byPath, sheetRels); err != nil {
			return nil, err
		}
		if err := hydrateTables(sheet, byPath, sheetRels); err != nil {
			return nil, err
		}

		wb.Sheets[i] = sheet
	}

	for _, dn := range wbPart.DefinedNames {
		wb.DefinedNames = append(wb.DefinedNames, domain.DefinedName{Name: dn.Name, Value: dn.Value})
	}

	nextTableID := 1
	for _, e := range op.entries {
		if n, ok := tableNumber(e.path); ok && n >= nextTableID {
			nextTableID = n + 1
		}
	}

	wb.SourcePreserved = &SourceArtifacts{
		WorkbookPart: wbPart, ContentTypes: contentTypes, RootRels: rootRels, WorkbookRels: wbRels,
		Styles: stylesPart, SharedStrings: sstPart,
		SheetFileNum: sheetFileNum, SheetOrigIndex: sheetOrigIndex,
		NextSheetNum: nextSheetNum, NextTableID: nextTableID,
	}

	fp := manifest.Fingerprint{Size: op.size, Digest: op.digest}
	wb.AttachSource(domain.NewSourceContext(path, man, graph, fp))

	return &ReadResult{Workbook: wb, Warnings: warnings}, nil
}

func safeDecodeNamed(data []byte, path string) (*xml.Element, error) {
	el, err := xml.SafeDecode(data)
	if err != nil {
		return nil, pkgerrors.WrapWithContext(err, pkgerrors.CodeOf(err), opReadPackage, map[string]interface{}{"part": path})
	}
	return el, nil
}

func hydrateSheetCells(sheet *domain.Sheet, wsPart *xml.WorksheetPart, cellStyles []domain.CellStyle, sst *manager.SharedStringsTable, limits Limits) error {
	cellCount := 0
	for _, row := range wsPart.Rows {
		for _, rc := range row.Cells {
			cellCount++
			if limits.MaxCellCount > 0 && cellCount > limits.MaxCellCount {
				return pkgerrors.SecurityError(opReadPackage, "sheet cell count exceeds configured limit")
			}
			if limits.MaxStringLength > 0 {
				if len(rc.ValueRaw) > limits.MaxStringLength {
					return pkgerrors.SecurityError(opReadPackage, "cell value exceeds configured maximum string length")
				}
				for _, run := range rc.Inline {
					if len(run.Text) > limits.MaxStringLength {
						return pkgerrors.SecurityError(opReadPackage, "cell value exceeds configured maximum string length")
					}
				}
			}
			ref, err := domain.ParseARef(rc.Ref)
			if err != nil {
				continue
			}
			value := decodeCellValue(rc, sst)
			cell := domain.Cell{Value: value}
			if rc.HasStyle {
				if cs, ok := styleAt(cellStyles, rc.StyleIdx); ok {
					cell.StyleID = sheet.Styles.Add(cs)
				}
			}
			sheet.Cells[ref] = cell
		}
	}
	return nil
}

func styleAt(styles []domain.CellStyle, idx int) (domain.CellStyle, bool) {
	if idx < 0 || idx >= len(styles) {
		return domain.CellStyle{}, false
	}
	return styles[idx], true
}

func hydrateRowColProps(sheet *domain.Sheet, wsPart *xml.WorksheetPart) {
	for _, row := range wsPart.Rows {
		if !row.HasHeight && !row.Hidden && row.OutlineLevel == 0 && !row.Collapsed && !row.HasStyle {
			continue
		}
		sheet.RowProps[row.Index] = domain.RowProperties{
			Height: row.Height, CustomHeight: row.CustomHeight, Hidden: row.Hidden,
			OutlineLevel: row.OutlineLevel, Collapsed: row.Collapsed,
			StyleID: row.StyleIdx, HasStyle: row.HasStyle,
		}
	}
}

func hydrateMerges(sheet *domain.Sheet, wsPart *xml.WorksheetPart) error {
	for _, m := range wsPart.Merges {
		parts := strings.SplitN(m, ":", 2)
		if len(parts) != 2 {
			continue
		}
		from, err := domain.ParseARef(parts[0])
		if err != nil {
			continue
		}
		to, err := domain.ParseARef(parts[1])
		if err != nil {
			continue
		}
		sheet.Merges = append(sheet.Merges, domain.Range{From: from, To: to})
	}
	return nil
}

func hydrateComments(sheet *domain.Sheet, byPath map[string]rawEntry, sheetRels xml.RelationshipsPart) error {
	var commentsTarget string
	for _, r := range sheetRels.Relationships {
		if r.Type == pkgconst.RelTypeComments {
			resolved, ok := resolveRelTarget("xl/worksheets", r.Target)
			if ok {
				commentsTarget = resolved
			}
		}
	}
	if commentsTarget == "" {
		return nil
	}
	e, ok := byPath[commentsTarget]
	if !ok {
		return nil
	}
	root, err := xml.SafeDecode(e.data)
	if err != nil {
		return pkgerrors.WrapWithContext(err, pkgerrors.CodeOf(err), opReadPackage, map[string]interface{}{"part": commentsTarget})
	}
	cp := xml.ParseCommentsPart(root)
	for _, entry := range cp.Entries {
		if entry.AuthorID < 0 || entry.AuthorID >= len(cp.Authors) {
			return pkgerrors.ParseError(opReadPackage, commentsTarget, fmt.Sprintf("comment references out-of-range authorId %d", entry.AuthorID))
		}
		ref, err := domain.ParseARef(entry.Ref)
		if err != nil {
			continue
		}
		sheet.Comments = append(sheet.Comments, domain.Comment{
			Ref: ref, Author: cp.Authors[entry.AuthorID],
			Body: stripAuthorPrefix(cp.Authors[entry.AuthorID], entry.Runs),
		})
	}
	return nil
}

// stripAuthorPrefix removes the synthesized bold "Author:" run plus its
// following leading newline that this engine itself writes (spec.md
// §4.7), but only when it detects that exact shape: a first run that is
// bold and equals "<author>:", followed by a second run whose text
// begins with a newline. Anything else passes through unchanged so
// comments authored by other tools aren't mangled (spec.md §9 open
// question).
func stripAuthorPrefix(author string, runs []xml.CommentRun) []domain.TextRun {
	if author != "" && len(runs) >= 2 && runs[0].Bold && runs[0].Text == author+":" && strings.HasPrefix(runs[1].Text, "\n") {
		body := make([]domain.TextRun, 0, len(runs)-1)
		body = append(body, domain.TextRun{Text: strings.TrimPrefix(runs[1].Text, "\n")})
		for _, r := range runs[2:] {
			body = append(body, domain.TextRun{Text: r.Text})
		}
		return body
	}
	out := make([]domain.TextRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, domain.TextRun{Text: r.Text})
	}
	return out
}

func hydrateTables(sheet *domain.Sheet, byPath map[string]rawEntry, sheetRels xml.RelationshipsPart) error {
	var targets []string
	for _, r := range sheetRels.Relationships {
		if r.Type == pkgconst.RelTypeTable {
			if resolved, ok := resolveRelTarget("xl/worksheets", r.Target); ok {
				targets = append(targets, resolved)
			}
		}
	}
	sort.Strings(targets)
	for _, target := range targets {
		e, ok := byPath[target]
		if !ok {
			continue
		}
		root, err := safeDecodeNamed(e.data, target)
		if err != nil {
			return err
		}
		tp := xml.ParseTablePart(root)
		t := domain.Table{
			ID: tp.ID, Name: tp.Name, DisplayName: tp.DisplayName,
			HeaderRowCount: tp.HeaderRowCount, TotalsRowCount: tp.TotalsRowCount,
			TotalsRowShown: tp.TotalsRowShown, HasAutoFilter: tp.HasAutoFilter,
		}
		if rng, err := parseRangeRef(tp.Ref); err == nil {
			t.Ref = rng
		}
		for _, c := range tp.Columns {
			t.Columns = append(t.Columns, domain.TableColumn{Name: c.Name})
		}
		sheet.Tables = append(sheet.Tables, t)
	}
	return nil
}

func parseRangeRef(ref string) (domain.Range, error) {
	parts := strings.SplitN(ref, ":", 2)
	from, err := domain.ParseARef(parts[0])
	if err != nil {
		return domain.Range{}, err
	}
	to := from
	if len(parts) == 2 {
		to, err = domain.ParseARef(parts[1])
		if err != nil {
			return domain.Range{}, err
		}
	}
	return domain.Range{From: from, To: to}, nil
}
