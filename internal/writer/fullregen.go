package writer

import (
	"io"
	"os"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/manager"
	"github.com/mmonterroca/xlsxcore/internal/serializer"
	"github.com/mmonterroca/xlsxcore/internal/xml"
	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
	"github.com/mmonterroca/xlsxcore/pkg/errors"
)

const opFullRegen = "writer.fullRegen"

func writeFullRegenToFile(path string, wb *domain.Workbook, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeIO, opFullRegen)
	}
	werr := assembleFullRegen(wb, f, opts)
	cerr := f.Close()
	if werr != nil {
		os.Remove(path)
		return werr
	}
	if cerr != nil {
		os.Remove(path)
		return errors.WrapWithCode(cerr, errors.ErrCodeIO, opFullRegen)
	}
	return nil
}

type builtSheet struct {
	sheet    *domain.Sheet
	fileNum  int
	ws       *xml.WorksheetPart
	comments *xml.CommentsPart
	tables   []*xml.TablePart
	rels     xml.RelationshipsPart
	hasRels  bool
}

// assembleFullRegen builds a brand-new package purely from domain state:
// no source part is ever copied (spec.md §4.11, strategy 1).
func assembleFullRegen(wb *domain.Workbook, w io.Writer, opts Options) error {
	assignSheetIDs(wb)
	assignTableIDs(wb, 1)
	fileNum := sheetFileNumbers(wb, nil)

	si := manager.NewStyleIndex()
	sst := manager.NewSharedStringsTable()

	entries := make([]builtSheet, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		n := fileNum[s]
		cp, hasComments := buildCommentsPart(s)
		tps := buildTableParts(s)
		rels, _, vmlRID, _ := buildSheetRels(hasComments, n, n, tableIDsOf(tps))

		ws := serializer.SerializeWorksheet(s, true, si, sst, opts.SSTPolicy, vmlRID, opts.EscapeFormulas)
		entries = append(entries, builtSheet{
			sheet: s, fileNum: n, ws: ws, comments: cp, tables: tps,
			rels: rels, hasRels: hasComments || len(tps) > 0,
		})
	}

	hasSST := sstPolicyUseSST(sst, opts.SSTPolicy)

	sheetHasComments := make(map[*domain.Sheet]bool, len(entries))
	sheetTableIDs := make(map[*domain.Sheet][]int, len(entries))
	for _, e := range entries {
		sheetHasComments[e.sheet] = e.comments != nil
		sheetTableIDs[e.sheet] = tableIDsOf(e.tables)
	}

	wp := &xml.WorkbookPart{}
	wbRels, ridFor := buildWorkbookRels(wb, fileNum, hasSST, xml.RelationshipsPart{})
	sheetRefs := buildSheetRefs(wb, ridFor)
	definedNames := make([]xml.DefinedNameRef, 0, len(wb.DefinedNames))
	for _, dn := range wb.DefinedNames {
		definedNames = append(definedNames, xml.DefinedNameRef{Name: dn.Name, Value: dn.Value})
	}

	rootRels := buildRootRels(xml.RelationshipsPart{})
	ct := buildContentTypes(wb, fileNum, hasSST, sheetHasComments, sheetTableIDs, nil)

	zw := newPackageZipWriter(w, opts)

	if err := writeContentTypes(zw, ct); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
	}
	if err := writeRelationships(zw, pkgconst.PathRootRels, rootRels); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
	}
	if err := writeWorkbookPart(zw, wp, sheetRefs, definedNames); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
	}
	if err := writeRelationships(zw, pkgconst.PathWorkbookRels, wbRels); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
	}
	if err := writeStylesPart(zw, si.StylesPart()); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
	}
	if hasSST {
		if err := writeSharedStrings(zw, sst.StringsPart()); err != nil {
			return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
		}
	}

	for _, e := range entries {
		if err := emitSheetEntry(zw, e); err != nil {
			return err
		}
	}

	return zw.Close()
}

// emitSheetEntry writes one sheet's freshly built parts: worksheet XML,
// its .rels if it has comments or tables, its comments + VML drawing, and
// every structured table (spec.md §6's per-sheet part family).
func emitSheetEntry(zw *packageZipWriter, e builtSheet) error {
	dimRef := ""
	if r, ok := e.sheet.Dimension(); ok {
		dimRef = r.String()
	}
	if err := writeWorksheetPart(zw, sheetPartPath(e.fileNum), e.ws, dimRef); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
	}
	if e.hasRels {
		if err := writeRelationships(zw, sheetRelsPartPath(e.fileNum), e.rels); err != nil {
			return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
		}
	}
	if e.comments != nil {
		if err := writeCommentsPart(zw, commentsPartPath(e.fileNum), e.comments); err != nil {
			return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
		}
		if err := zw.writeRaw(vmlDrawingPartPath(e.fileNum), []byte(vmlFor(e.fileNum, e.comments))); err != nil {
			return errors.WrapWithCode(err, errors.ErrCodeIO, opFullRegen)
		}
	}
	for _, tp := range e.tables {
		if err := writeTablePart(zw, tablePartPath(tp.ID), tp); err != nil {
			return errors.WrapWithCode(err, errors.ErrCodeXML, opFullRegen)
		}
	}
	return nil
}
