package domain

import "github.com/mmonterroca/xlsxcore/internal/manifest"

// SourceContext binds a workbook to the file it was read from: its path,
// its part manifest, its fingerprint, and the modification tracker
// (spec.md §3). Lifetime: created on read, owned exclusively by the
// Workbook, consulted on write, released when the workbook is garbage
// collected. It never holds an open file handle.
type SourceContext struct {
	SourcePath  string
	Manifest    *manifest.Manifest
	RelGraph    *manifest.RelGraph
	Fingerprint manifest.Fingerprint
	Tracker     *ModificationTracker
}

// NewSourceContext builds a SourceContext for a freshly read workbook.
func NewSourceContext(path string, m *manifest.Manifest, g *manifest.RelGraph, fp manifest.Fingerprint) *SourceContext {
	return &SourceContext{
		SourcePath:  path,
		Manifest:    m,
		RelGraph:    g,
		Fingerprint: fp,
		Tracker:     NewModificationTracker(),
	}
}

// IsClean reports whether the bound workbook has been mutated since read.
func (c *SourceContext) IsClean() bool {
	if c == nil {
		return true
	}
	return c.Tracker.IsClean()
}
