package model

import "testing"

func TestGenerationKind_Valid(t *testing.T) {
	tests := []struct {
		kind GenerationKind
		want bool
	}{
		{GenerationKindSummary, true},
		{GenerationKindQA, true},
		{"flashcards", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("GenerationKind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestFileRecord_BeforeCreate(t *testing.T) {
	f := &FileRecord{}
	if err := f.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate() error: %v", err)
	}
	if len(f.ID) != 36 {
		t.Errorf("ID = %q, want uuid", f.ID)
	}

	kept := &FileRecord{ID: "fixed"}
	_ = kept.BeforeCreate(nil)
	if kept.ID != "fixed" {
		t.Errorf("ID = %q, want fixed", kept.ID)
	}
}

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("U1", "notes.pdf"); got != "U1/notes.pdf" {
		t.Errorf("ObjectKey() = %q", got)
	}
}
