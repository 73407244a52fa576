package domain

// ModificationTracker records which sheet indices a caller mutated,
// deleted, or reordered since the workbook was read (spec.md §3, §4.8).
// A workbook is clean iff all three fields are empty/false. The domain
// does not autodetect modifications: every mutating method on Sheet and
// Workbook calls markModified cooperatively.
type ModificationTracker struct {
	modifiedSheets  map[int]struct{}
	deletedSheets   map[int]struct{}
	reorderedSheets bool
}

// NewModificationTracker returns a clean tracker.
func NewModificationTracker() *ModificationTracker {
	return &ModificationTracker{
		modifiedSheets: make(map[int]struct{}),
		deletedSheets:  make(map[int]struct{}),
	}
}

// MarkModified records that sheet i was mutated.
func (t *ModificationTracker) MarkModified(i int) {
	if t == nil {
		return
	}
	t.modifiedSheets[i] = struct{}{}
}

// MarkReordered records that sheets were inserted, renamed, or reordered.
func (t *ModificationTracker) MarkReordered() {
	if t == nil {
		return
	}
	t.reorderedSheets = true
}

// MarkDeleted records that sheet i was deleted and shifts the indices of
// already-modified sheets above it down by one, matching the index shift
// callers observe once the sheet is physically removed from the slice.
func (t *ModificationTracker) MarkDeleted(i int) {
	if t == nil {
		return
	}
	t.deletedSheets[i] = struct{}{}
	delete(t.modifiedSheets, i)

	shifted := make(map[int]struct{}, len(t.modifiedSheets))
	for idx := range t.modifiedSheets {
		if idx > i {
			shifted[idx-1] = struct{}{}
		} else {
			shifted[idx] = struct{}{}
		}
	}
	t.modifiedSheets = shifted

	shiftedDeleted := make(map[int]struct{}, len(t.deletedSheets))
	for idx := range t.deletedSheets {
		if idx > i {
			shiftedDeleted[idx-1] = struct{}{}
		} else {
			shiftedDeleted[idx] = struct{}{}
		}
	}
	t.deletedSheets = shiftedDeleted
}

// ModifiedSheets returns the set of modified sheet indices.
func (t *ModificationTracker) ModifiedSheets() map[int]struct{} {
	if t == nil {
		return nil
	}
	return t.modifiedSheets
}

// DeletedSheets returns the set of deleted sheet indices.
func (t *ModificationTracker) DeletedSheets() map[int]struct{} {
	if t == nil {
		return nil
	}
	return t.deletedSheets
}

// Reordered reports whether sheets were inserted, renamed, or reordered.
func (t *ModificationTracker) Reordered() bool {
	return t != nil && t.reorderedSheets
}

// IsClean reports whether no mutation has been recorded at all.
func (t *ModificationTracker) IsClean() bool {
	if t == nil {
		return true
	}
	return len(t.modifiedSheets) == 0 && len(t.deletedSheets) == 0 && !t.reorderedSheets
}
