package xml

import pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"

// SheetRef is one <sheet name="..." sheetId="..." r:id="..."/> entry in
// workbook.xml.
type SheetRef struct {
	Name       string
	SheetID    string
	RID        string
	StateHidden  bool
	StateVeryHidden bool
}

// WorkbookPart mirrors xl/workbook.xml. Sections the engine never
// interprets (fileVersion, workbookPr, bookViews, workbookProtection,
// calcPr, AlternateContent, revisionPtr, extLst, and any unrecognized
// child) are kept as opaque Elements and re-emitted in their original
// position and byte form (spec.md §9).
type WorkbookPart struct {
	Sheets       []SheetRef
	DefinedNames []DefinedNameRef

	RootAttrs []Attr

	// Preserved verbatim, in encounter order, around the sheets/
	// definedNames we regenerate.
	Before []*Element // elements that appeared before <sheets>
	Middle []*Element // elements between </sheets> and <definedNames> (or </sheets> and next, if no definedNames)
	After  []*Element // elements after <definedNames> (or after </sheets>)

	hadDefinedNames bool
}

// DefinedNameRef is one <definedName> entry.
type DefinedNameRef struct {
	Name  string
	Value string
}

// ParseWorkbookPart hydrates a WorkbookPart from the root <workbook>
// Element, splitting children into the regenerated sections (sheets,
// definedNames) and everything else, which is preserved opaquely
// (spec.md §9).
func ParseWorkbookPart(root *Element) *WorkbookPart {
	wp := &WorkbookPart{}
	for _, a := range root.Attrs {
		wp.RootAttrs = append(wp.RootAttrs, Attr{Name: qualifiedName(a.Name), Value: a.Value})
	}

	seenSheets := false
	seenDefinedNames := false
	for _, c := range root.Children {
		switch c.Name.Local {
		case "sheets":
			seenSheets = true
			for _, sh := range c.ChildrenNamed("sheet") {
				name, _ := sh.Attr("name")
				id, _ := sh.Attr("sheetId")
				rid, _ := sh.Attr("id")
				state, _ := sh.Attr("state")
				wp.Sheets = append(wp.Sheets, SheetRef{
					Name: name, SheetID: id, RID: rid,
					StateHidden:     state == "hidden",
					StateVeryHidden: state == "veryHidden",
				})
			}
		case "definedNames":
			seenDefinedNames = true
			wp.hadDefinedNames = true
			for _, dn := range c.ChildrenNamed("definedName") {
				name, _ := dn.Attr("name")
				wp.DefinedNames = append(wp.DefinedNames, DefinedNameRef{Name: name, Value: dn.Text})
			}
		default:
			switch {
			case !seenSheets:
				wp.Before = append(wp.Before, c)
			case seenSheets && !seenDefinedNames:
				wp.Middle = append(wp.Middle, c)
			default:
				wp.After = append(wp.After, c)
			}
		}
	}
	return wp
}

// Write emits workbook.xml: preserved Before elements, <sheets>,
// preserved Middle elements, <definedNames> (if any), preserved After
// elements (spec.md §4.8, §9).
func (wp *WorkbookPart) Write(s Sink, sheets []SheetRef, definedNames []DefinedNameRef) error {
	if err := s.StartDocument(); err != nil {
		return err
	}
	rootAttrs := wp.RootAttrs
	if len(rootAttrs) == 0 {
		rootAttrs = []Attr{
			{Name: "xmlns", Value: pkgconst.NamespaceSpreadsheetML},
			{Name: "xmlns:r", Value: pkgconst.NamespaceRelationships},
		}
	}
	err := WithAttributes(s, "workbook", rootAttrs, func() error {
		for _, e := range wp.Before {
			if err := writeOpaque(s, e); err != nil {
				return err
			}
		}
		err := WithAttributes(s, "sheets", nil, func() error {
			for _, sh := range sheets {
				attrs := []Attr{
					{Name: "name", Value: sh.Name},
					{Name: "sheetId", Value: sh.SheetID},
					{Name: "r:id", Value: sh.RID},
				}
				if sh.StateVeryHidden {
					attrs = append(attrs, Attr{Name: "state", Value: "veryHidden"})
				} else if sh.StateHidden {
					attrs = append(attrs, Attr{Name: "state", Value: "hidden"})
				}
				if err := WithAttributes(s, "sheet", attrs, nil); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, e := range wp.Middle {
			if err := writeOpaque(s, e); err != nil {
				return err
			}
		}
		if len(definedNames) > 0 {
			err := WithAttributes(s, "definedNames", nil, func() error {
				for _, dn := range definedNames {
					if err := s.StartElement("definedName", Attr{Name: "name", Value: dn.Name}); err != nil {
						return err
					}
					if err := s.WriteCharacters(dn.Value); err != nil {
						return err
					}
					if err := s.EndElement("definedName"); err != nil {
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

// writeOpaque re-emits a preserved Element subtree byte-for-meaning
// unchanged: same element names, attributes (in their original order),
// and text.
func writeOpaque(s Sink, e *Element) error {
	attrs := make([]Attr, len(e.Attrs))
	for i, a := range e.Attrs {
		attrs[i] = Attr{Name: qualifiedName(a.Name), Value: a.Value}
	}
	if err := s.StartElement(e.Name.Local, attrs...); err != nil {
		return err
	}
	if e.Text != "" {
		if err := s.WriteCharacters(e.Text); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := writeOpaque(s, c); err != nil {
			return err
		}
	}
	return s.EndElement(e.Name.Local)
}
