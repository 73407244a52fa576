package xml

import (
	"fmt"
	"strconv"

	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
)

// CommentRun is one formatted run inside a comment's <text> body.
type CommentRun struct {
	Text string
	Bold bool
}

// CommentEntry is one <comment> element: a cell reference, an author
// index, and a run sequence (spec.md §4.7: the display text is
// synthesized on emit as a bold "Author:" run, a leading newline, then
// the user's rich-text body).
type CommentEntry struct {
	Ref      string
	AuthorID int
	Runs     []CommentRun
}

// PlainText concatenates every run's text, discarding formatting —
// what the reader's stripAuthorPrefix compares against.
func (e CommentEntry) PlainText() string {
	out := ""
	for _, r := range e.Runs {
		out += r.Text
	}
	return out
}

// CommentsPart mirrors one xl/comments{N}.xml.
type CommentsPart struct {
	Authors []string
	Entries []CommentEntry
}

// ParseCommentsPart hydrates a CommentsPart from the root <comments>
// Element.
func ParseCommentsPart(root *Element) *CommentsPart {
	cp := &CommentsPart{}
	if authors := root.Child("authors"); authors != nil {
		for _, a := range authors.ChildrenNamed("author") {
			cp.Authors = append(cp.Authors, a.Text)
		}
	}
	if list := root.Child("commentList"); list != nil {
		for _, c := range list.ChildrenNamed("comment") {
			ref, _ := c.Attr("ref")
			authorIdx := 0
			if v, ok := c.Attr("authorId"); ok {
				authorIdx, _ = strconv.Atoi(v)
			}
			var runs []CommentRun
			if t := c.Child("text"); t != nil {
				for _, r := range t.ChildrenNamed("r") {
					tt := r.Child("t")
					if tt == nil {
						continue
					}
					bold := false
					if rpr := r.Child("rPr"); rpr != nil {
						bold = rpr.Child("b") != nil
					}
					runs = append(runs, CommentRun{Text: tt.Text, Bold: bold})
				}
				if len(runs) == 0 {
					if tt := t.Child("t"); tt != nil {
						runs = []CommentRun{{Text: tt.Text}}
					}
				}
			}
			cp.Entries = append(cp.Entries, CommentEntry{Ref: ref, AuthorID: authorIdx, Runs: runs})
		}
	}
	return cp
}

// Write emits comments{N}.xml in canonical order: authors, then
// commentList.
func (cp *CommentsPart) Write(s Sink) error {
	if err := s.StartDocument(); err != nil {
		return err
	}
	err := WithAttributes(s, "comments", []Attr{{Name: "xmlns", Value: pkgconst.NamespaceSpreadsheetML}}, func() error {
		err := WithAttributes(s, "authors", nil, func() error {
			for _, a := range cp.Authors {
				if err := WithAttributes(s, "author", nil, func() error { return s.WriteCharacters(a) }); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		return WithAttributes(s, "commentList", nil, func() error {
			for _, e := range cp.Entries {
				err := WithAttributes(s, "comment", []Attr{
					{Name: "ref", Value: e.Ref},
					{Name: "authorId", Value: strconv.Itoa(e.AuthorID)},
				}, func() error {
					return WithAttributes(s, "text", nil, func() error {
						for _, run := range e.Runs {
							if err := writeCommentRun(s, run); err != nil {
								return err
							}
						}
						return nil
					})
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	return s.EndDocument()
}

// writeCommentRun emits one <r> element inside a comment's <text>,
// adding a bold <rPr> when the run is bold (spec.md §4.7: the
// synthesized "Author:" run is bold, the body runs are not).
func writeCommentRun(s Sink, run CommentRun) error {
	return WithAttributes(s, "r", nil, func() error {
		if run.Bold {
			err := WithAttributes(s, "rPr", nil, func() error {
				return WithAttributes(s, "b", nil, nil)
			})
			if err != nil {
				return err
			}
		}
		return writeSSTText(s, run.Text)
	})
}

// VMLDrawingFor renders the legacyDrawing VML part accompanying a
// comments part. Each comment becomes one shape positioned over its
// cell; spec.md §10 supplements this as a literal string template
// rather than a parsed/regenerated struct tree, since VML's shape
// markup is emitted procedurally in a fixed layout and never read back.
func VMLDrawingFor(sheetIndex int, entries []CommentEntry, cellAnchor func(ref string) (col, row int)) string {
	out := `<xml xmlns:v="` + pkgconst.NamespaceVML + `" xmlns:o="` + pkgconst.NamespaceOffice +
		`" xmlns:x="` + pkgconst.NamespaceExcel + `">` + "\n"
	out += `<o:shapelayout v:ext="edit"><o:idmap v:ext="edit" data="1"/></o:shapelayout>` + "\n"
	out += `<v:shapetype id="_x0000_t202" coordsize="21600,21600" o:spt="202" path="m,l,21600r21600,l21600,xe">` +
		`<v:stroke joinstyle="miter"/><v:path gradientshapeok="t" o:connecttype="rect"/></v:shapetype>` + "\n"
	baseID := sheetIndex*pkgconst.VMLShapeIDSheetSpacing + 1024
	for i, e := range entries {
		col, row := 0, 0
		if cellAnchor != nil {
			col, row = cellAnchor(e.Ref)
		}
		shapeID := baseID + i
		out += fmt.Sprintf(
			`<v:shape id="_x0000_s%d" type="#_x0000_t202" style='position:absolute;margin-left:59.25pt;margin-top:1.5pt;width:108pt;height:59.25pt;z-index:%d;visibility:hidden' fillcolor="#ffffe1" o:insetmode="auto">`+
				`<v:fill color2="#ffffe1"/><v:shadow on="t" color="black" obscured="t"/><v:path o:connecttype="none"/>`+
				`<v:textbox style='mso-direction-alt:auto'><div style='text-align:left'></div></v:textbox>`+
				`<x:ClientData ObjectType="Note"><x:MoveWithCells/><x:SizeWithCells/>`+
				`<x:Anchor>%d, 15, %d, 2, %d, 31, %d, 2</x:Anchor>`+
				`<x:AutoFill>False</x:AutoFill><x:Row>%d</x:Row><x:Column>%d</x:Column></x:ClientData></v:shape>`+"\n",
			shapeID, i+1, col+1, row, col+3, row+4, row, col,
		)
	}
	out += `</xml>`
	return out
}
