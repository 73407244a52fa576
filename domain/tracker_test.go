package domain

import "testing"

func TestModificationTrackerIsClean(t *testing.T) {
	tr := NewModificationTracker()
	if !tr.IsClean() {
		t.Fatalf("new tracker should be clean")
	}
	tr.MarkModified(2)
	if tr.IsClean() {
		t.Fatalf("tracker should not be clean after MarkModified")
	}
}

func TestMarkDeletedShiftsModifiedIndices(t *testing.T) {
	tr := NewModificationTracker()
	tr.MarkModified(0)
	tr.MarkModified(2)
	tr.MarkModified(4)

	tr.MarkDeleted(2)

	mod := tr.ModifiedSheets()
	if _, ok := mod[2]; ok {
		t.Fatalf("deleted sheet's own modification record should be dropped")
	}
	if _, ok := mod[0]; !ok {
		t.Fatalf("sheet 0 (before the deletion point) should be unaffected")
	}
	if _, ok := mod[3]; !ok {
		t.Fatalf("sheet originally at index 4 should shift down to 3")
	}
	if len(mod) != 2 {
		t.Fatalf("len(ModifiedSheets()) = %d; want 2", len(mod))
	}
}

func TestMarkDeletedShiftsDeletedIndices(t *testing.T) {
	tr := NewModificationTracker()
	tr.MarkDeleted(5)
	tr.MarkDeleted(1)

	del := tr.DeletedSheets()
	if _, ok := del[1]; !ok {
		t.Fatalf("first deletion at index 1 should remain at 1")
	}
	if _, ok := del[4]; !ok {
		t.Fatalf("deletion originally at index 5 should shift down to 4 once index 1 is removed")
	}
}

func TestNilTrackerIsCleanAndSafe(t *testing.T) {
	var tr *ModificationTracker
	if !tr.IsClean() {
		t.Fatalf("nil tracker should report clean")
	}
	tr.MarkModified(0) // must not panic
	tr.MarkDeleted(0)  // must not panic
	tr.MarkReordered() // must not panic
	if tr.Reordered() {
		t.Fatalf("nil tracker should report not reordered")
	}
}
