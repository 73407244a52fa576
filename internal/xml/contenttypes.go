package xml

import pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"

// ContentTypesPart mirrors [Content_Types].xml (spec.md §4.7).
type ContentTypesPart struct {
	Defaults  []Default
	Overrides []Override
}

// Default is a <Default Extension="..." ContentType="..."/> entry.
type Default struct {
	Extension   string
	ContentType string
}

// Override is an <Override PartName="..." ContentType="..."/> entry.
type Override struct {
	PartName    string
	ContentType string
}

// ParseContentTypes reads [Content_Types].xml from its opaque Element
// tree.
func ParseContentTypes(root *Element) ContentTypesPart {
	var ct ContentTypesPart
	for _, c := range root.Children {
		switch c.Name.Local {
		case "Default":
			ext, _ := c.Attr("Extension")
			typ, _ := c.Attr("ContentType")
			ct.Defaults = append(ct.Defaults, Default{Extension: ext, ContentType: typ})
		case "Override":
			pn, _ := c.Attr("PartName")
			typ, _ := c.Attr("ContentType")
			ct.Overrides = append(ct.Overrides, Override{PartName: pn, ContentType: typ})
		}
	}
	return ct
}

// AddOverride appends an override if its part name isn't already present.
func (ct *ContentTypesPart) AddOverride(partName, contentType string) {
	for _, o := range ct.Overrides {
		if o.PartName == partName {
			return
		}
	}
	ct.Overrides = append(ct.Overrides, Override{PartName: partName, ContentType: contentType})
}

// Write emits [Content_Types].xml with Defaults sorted by extension and
// Overrides sorted by part name (spec.md §4.7).
func (ct ContentTypesPart) Write(s Sink) error {
	sortDefaults(ct.Defaults)
	sortOverrides(ct.Overrides)

	if err := s.StartDocument(); err != nil {
		return err
	}
	err := WithAttributes(s, "Types", []Attr{{Name: "xmlns", Value: pkgconst.NamespaceContentTypes}}, func() error {
		for _, d := range ct.Defaults {
			if err := WithAttributes(s, "Default", []Attr{
				{Name: "Extension", Value: d.Extension},
				{Name: "ContentType", Value: d.ContentType},
			}, nil); err != nil {
				return err
			}
		}
		for _, o := range ct.Overrides {
			if err := WithAttributes(s, "Override", []Attr{
				{Name: "PartName", Value: o.PartName},
				{Name: "ContentType", Value: o.ContentType},
			}, nil); err != nil {
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

func sortDefaults(d []Default) {
	for i := 1; i < len(d); i++ {
		for j := i; j > 0 && d[j-1].Extension > d[j].Extension; j-- {
			d[j-1], d[j] = d[j], d[j-1]
		}
	}
}

func sortOverrides(o []Override) {
	for i := 1; i < len(o); i++ {
		for j := i; j > 0 && o[j-1].PartName > o[j].PartName; j-- {
			o[j-1], o[j] = o[j], o[j-1]
		}
	}
}
