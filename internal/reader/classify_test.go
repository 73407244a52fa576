package reader

import "testing"

func TestResolveRelTargetRelative(t *testing.T) {
	got, ok := resolveRelTarget("xl/worksheets", "../styles.xml")
	if !ok || got != "xl/styles.xml" {
		t.Fatalf("resolveRelTarget = %q, %v; want xl/styles.xml, true", got, ok)
	}
}

func TestResolveRelTargetAbsoluteWithinXlRoot(t *testing.T) {
	got, ok := resolveRelTarget("xl/worksheets", "/xl/styles.xml")
	if !ok || got != "xl/styles.xml" {
		t.Fatalf("resolveRelTarget = %q, %v; want xl/styles.xml, true", got, ok)
	}
}

func TestResolveRelTargetRejectsRelativeEscape(t *testing.T) {
	if _, ok := resolveRelTarget("xl", "../../etc/passwd"); ok {
		t.Fatalf("a relative target escaping the xl/ root must be rejected")
	}
}

func TestResolveRelTargetRejectsAbsoluteEscape(t *testing.T) {
	if _, ok := resolveRelTarget("xl/worksheets", "/../../evil"); ok {
		t.Fatalf("an absolute target that normalizes outside xl/ must be rejected, not accepted verbatim")
	}
}

func TestResolveRelTargetRejectsAbsoluteOutsideXlRoot(t *testing.T) {
	if _, ok := resolveRelTarget("xl/worksheets", "/etc/passwd"); ok {
		t.Fatalf("an absolute target missing the xl/ prefix must be rejected")
	}
}
