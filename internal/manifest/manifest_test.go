package manifest

import "testing"

func TestManifestOrderAndLookup(t *testing.T) {
	m := New()
	m.Add(PartEntry{Path: "a", Kind: KindUnparsed})
	m.Add(PartEntry{Path: "b", Kind: KindParsed})
	m.Add(PartEntry{Path: "c", Kind: KindUnparsed})

	if m.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", m.Len())
	}
	entries := m.Entries()
	for i, want := range []string{"a", "b", "c"} {
		if entries[i].Path != want {
			t.Fatalf("Entries()[%d].Path = %q; want %q", i, entries[i].Path, want)
		}
	}

	e, ok := m.Lookup("b")
	if !ok || e.Kind != KindParsed {
		t.Fatalf("Lookup(b) = %+v, %v", e, ok)
	}
	if _, ok := m.Lookup("missing"); ok {
		t.Fatalf("Lookup(missing) should report not found")
	}
}

func TestFingerprintEqual(t *testing.T) {
	d1 := NewDigestStream()
	d1.Write([]byte("hello"))
	f1 := d1.Finish()

	d2 := NewDigestStream()
	d2.Write([]byte("hel"))
	d2.Write([]byte("lo"))
	f2 := d2.Finish()

	if !f1.Equal(f2) {
		t.Fatalf("fingerprints of the same bytes written in different chunks should be equal: %v vs %v", f1, f2)
	}

	d3 := NewDigestStream()
	d3.Write([]byte("world"))
	f3 := d3.Finish()
	if f1.Equal(f3) {
		t.Fatalf("fingerprints of different content should not be equal")
	}
}

func TestDigestStreamFinishIsIdempotent(t *testing.T) {
	d := NewDigestStream()
	d.Write([]byte("abc"))
	first := d.Finish()
	second := d.Finish()
	if !first.Equal(second) {
		t.Fatalf("calling Finish twice should return the same fingerprint")
	}
}

func TestRelGraphDependenciesForIsSortedAndDeduped(t *testing.T) {
	g := NewRelGraph()
	g.AddDependency("sheet1.xml", 3)
	g.AddDependency("sheet1.xml", 1)
	g.AddDependency("sheet1.xml", 2)
	g.AddDependency("sheet1.xml", 1) // duplicate, should not appear twice

	got := g.DependenciesFor("sheet1.xml")
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("DependenciesFor = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DependenciesFor = %v; want %v", got, want)
		}
	}

	if got := g.DependenciesFor("unknown.xml"); got != nil {
		t.Fatalf("DependenciesFor(unknown) = %v; want nil", got)
	}
}

func TestRelGraphIntersectsAny(t *testing.T) {
	g := NewRelGraph()
	g.AddDependency("shared.xml", 0)
	g.AddDependency("shared.xml", 2)

	if !g.IntersectsAny("shared.xml", map[int]struct{}{2: {}, 5: {}}) {
		t.Fatalf("expected intersection on sheet 2")
	}
	if g.IntersectsAny("shared.xml", map[int]struct{}{7: {}}) {
		t.Fatalf("expected no intersection")
	}
	if g.IntersectsAny("unknown.xml", map[int]struct{}{0: {}}) {
		t.Fatalf("unknown path should never intersect")
	}
}

func TestRelGraphIsSheetAgnostic(t *testing.T) {
	g := NewRelGraph()
	g.AddDependency("sheet1.xml", 0)

	if g.IsSheetAgnostic("sheet1.xml") {
		t.Fatalf("sheet1.xml has a dependency, should not be agnostic")
	}
	if !g.IsSheetAgnostic("theme1.xml") {
		t.Fatalf("a part never added should be sheet-agnostic")
	}
}
