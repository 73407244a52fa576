package xml

import (
	"strconv"

	"github.com/google/uuid"
	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
)

// TableColumnEntry is one <tableColumn> entry.
type TableColumnEntry struct {
	ID   int
	Name string
	UID  string
}

// TablePart mirrors one xl/tables/table{N}.xml (spec.md §4.7
// supplemented feature, grounded on adnsv/go-xl's writer for xr:uid
// generation).
type TablePart struct {
	ID             int
	Name           string
	DisplayName    string
	Ref            string
	HeaderRowCount int
	TotalsRowCount int
	TotalsRowShown bool
	HasAutoFilter  bool
	AutoFilterRef  string
	Columns        []TableColumnEntry
	UID            string
}

// ParseTablePart hydrates a TablePart from the root <table> Element.
func ParseTablePart(root *Element) *TablePart {
	tp := &TablePart{}
	if v, ok := root.Attr("id"); ok {
		tp.ID, _ = strconv.Atoi(v)
	}
	tp.Name, _ = root.Attr("name")
	tp.DisplayName, _ = root.Attr("displayName")
	tp.Ref, _ = root.Attr("ref")
	tp.UID, _ = root.Attr("xr:uid")
	if v, ok := root.Attr("headerRowCount"); ok {
		tp.HeaderRowCount, _ = strconv.Atoi(v)
	} else {
		tp.HeaderRowCount = 1
	}
	if v, ok := root.Attr("totalsRowCount"); ok {
		tp.TotalsRowCount, _ = strconv.Atoi(v)
	}
	if v, ok := root.Attr("totalsRowShown"); ok {
		tp.TotalsRowShown = v == "1" || v == "true"
	}
	if af := root.Child("autoFilter"); af != nil {
		tp.HasAutoFilter = true
		tp.AutoFilterRef, _ = af.Attr("ref")
	}
	if cols := root.Child("tableColumns"); cols != nil {
		for _, c := range cols.ChildrenNamed("tableColumn") {
			id, _ := c.Attr("id")
			name, _ := c.Attr("name")
			uid, _ := c.Attr("xr:uid")
			n, _ := strconv.Atoi(id)
			tp.Columns = append(tp.Columns, TableColumnEntry{ID: n, Name: name, UID: uid})
		}
	}
	return tp
}

// NewTablePart builds a fresh TablePart, generating xr:uid identifiers
// the way adnsv/go-xl's writer does for newly authored tables (spec.md
// §6 DOMAIN STACK: google/uuid).
func NewTablePart(id int, name, displayName, ref string, headerRowCount int, columnNames []string) *TablePart {
	tp := &TablePart{
		ID: id, Name: name, DisplayName: displayName, Ref: ref,
		HeaderRowCount: headerRowCount,
		UID:            "{" + uuid.New().String() + "}",
	}
	for i, n := range columnNames {
		tp.Columns = append(tp.Columns, TableColumnEntry{
			ID: i + 1, Name: n, UID: "{" + uuid.New().String() + "}",
		})
	}
	return tp
}

// Write emits table{N}.xml.
func (tp *TablePart) Write(s Sink) error {
	if err := s.StartDocument(); err != nil {
		return err
	}
	attrs := []Attr{
		{Name: "xmlns", Value: pkgconst.NamespaceSpreadsheetML},
		{Name: "xmlns:mc", Value: pkgconst.NamespaceMC},
		{Name: "mc:Ignorable", Value: "xr xr3"},
		{Name: "xmlns:xr", Value: pkgconst.NamespaceXR},
		{Name: "xmlns:xr3", Value: pkgconst.NamespaceXR3},
		{Name: "id", Value: strconv.Itoa(tp.ID)},
		{Name: "name", Value: tp.Name},
		{Name: "displayName", Value: tp.DisplayName},
		{Name: "ref", Value: tp.Ref},
	}
	if tp.UID != "" {
		attrs = append(attrs, Attr{Name: "xr:uid", Value: tp.UID})
	}
	if tp.HeaderRowCount != 1 {
		attrs = append(attrs, Attr{Name: "headerRowCount", Value: strconv.Itoa(tp.HeaderRowCount)})
	}
	if tp.TotalsRowCount > 0 {
		attrs = append(attrs, Attr{Name: "totalsRowCount", Value: strconv.Itoa(tp.TotalsRowCount)})
	} else {
		attrs = append(attrs, Attr{Name: "totalsRowShown", Value: boolAttr(tp.TotalsRowShown)})
	}
	// Excel is strict about attribute order on this root element, unlike
	// most of the schema, so this bypasses SortAttrs's alphabetical
	// ordering and writes attrs in the literal order assembled above.
	if err := s.StartElement("table", attrs...); err != nil {
		return err
	}
	err := func() error {
		if tp.HasAutoFilter {
			if err := WithAttributes(s, "autoFilter", []Attr{{Name: "ref", Value: tp.AutoFilterRef}}, nil); err != nil {
				return err
			}
		}
		return WithAttributes(s, "tableColumns", []Attr{{Name: "count", Value: strconv.Itoa(len(tp.Columns))}}, func() error {
			for _, c := range tp.Columns {
				attrs := []Attr{{Name: "id", Value: strconv.Itoa(c.ID)}, {Name: "name", Value: c.Name}}
				if c.UID != "" {
					attrs = append(attrs, Attr{Name: "xr:uid", Value: c.UID})
				}
				if err := WithAttributes(s, "tableColumn", attrs, nil); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	if err := s.EndElement("table"); err != nil {
		return err
	}
	return s.EndDocument()
}

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
