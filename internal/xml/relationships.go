package xml

import pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"

// Relationship is one <Relationship> entry in a .rels part.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string // "", "Internal", or "External"
}

// RelationshipsPart mirrors a _rels/*.rels part.
type RelationshipsPart struct {
	Relationships []Relationship
}

// ParseRelationships reads a .rels part from its opaque Element tree.
func ParseRelationships(root *Element) RelationshipsPart {
	var rp RelationshipsPart
	for _, c := range root.ChildrenNamed("Relationship") {
		id, _ := c.Attr("Id")
		typ, _ := c.Attr("Type")
		target, _ := c.Attr("Target")
		mode, _ := c.Attr("TargetMode")
		rp.Relationships = append(rp.Relationships, Relationship{ID: id, Type: typ, Target: target, TargetMode: mode})
	}
	return rp
}

// NextID returns "rId<n>" where n is one more than the highest numeric
// rId already present.
func (rp RelationshipsPart) NextID() string {
	max := 0
	for _, r := range rp.Relationships {
		n := 0
		fmtScanRID(r.ID, &n)
		if n > max {
			max = n
		}
	}
	return fmtRID(max + 1)
}

func fmtScanRID(id string, n *int) {
	if len(id) < 4 || id[:3] != "rId" {
		return
	}
	v := 0
	for _, r := range id[3:] {
		if r < '0' || r > '9' {
			return
		}
		v = v*10 + int(r-'0')
	}
	*n = v
}

func fmtRID(n int) string {
	digits := []byte{}
	if n == 0 {
		digits = []byte{'0'}
	}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return "rId" + string(digits)
}

// Write emits a .rels part, sorted by Id (spec.md §4.7's determinism
// contract extended to relationship parts).
func (rp RelationshipsPart) Write(s Sink) error {
	rels := append([]Relationship(nil), rp.Relationships...)
	for i := 1; i < len(rels); i++ {
		for j := i; j > 0 && rels[j-1].ID > rels[j].ID; j-- {
			rels[j-1], rels[j] = rels[j], rels[j-1]
		}
	}
	if err := s.StartDocument(); err != nil {
		return err
	}
	err := WithAttributes(s, "Relationships", []Attr{{Name: "xmlns", Value: pkgconst.NamespacePackageRels}}, func() error {
		for _, r := range rels {
			attrs := []Attr{
				{Name: "Id", Value: r.ID},
				{Name: "Type", Value: r.Type},
				{Name: "Target", Value: r.Target},
			}
			if r.TargetMode != "" {
				attrs = append(attrs, Attr{Name: "TargetMode", Value: r.TargetMode})
			}
			if err := WithAttributes(s, "Relationship", attrs, nil); err != nil {
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
