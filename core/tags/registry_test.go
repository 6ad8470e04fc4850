package tags

import "testing"

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	r := Default()
	if r.Len() != 84 {
		t.Fatalf("Len = %d, want 84", r.Len())
	}

	for _, id := range []string{"APIC", "TIT2", "TXXX", "WXXX", "AENC"} {
		if !r.IsValid(id) {
			t.Errorf("IsValid(%q) = false", id)
		}
	}

	for _, id := range []string{"", "TIT", "tit2", "XXXX", "\x00\x00\x00\x00", "TIT22"} {
		if r.IsValid(id) {
			t.Errorf("IsValid(%q) = true", id)
		}
	}

	if got := r.Describe("TIT2"); got != "Title/songname/content description" {
		t.Fatalf("Describe(TIT2) = %q", got)
	}
	if got := r.Describe("NOPE"); got != "" {
		t.Fatalf("Describe(NOPE) = %q, want empty", got)
	}
}

func TestRegistryAllIsSortedCopy(t *testing.T) {
	t.Parallel()

	r := New([]Mapping{{"TIT2", "Title"}, {"APIC", "Picture"}, {"BAD", "skipped"}, {"TIT2", "Title v2"}})
	all := r.All()
	if len(all) != 2 {
		t.Fatalf("len(All) = %d, want 2", len(all))
	}
	if all[0].ID != "APIC" || all[1].ID != "TIT2" {
		t.Fatalf("All order = %v", all)
	}
	if all[1].Description != "Title v2" {
		t.Fatalf("duplicate did not win: %q", all[1].Description)
	}

	all[0].ID = "ZZZZ"
	if r.All()[0].ID != "APIC" {
		t.Fatal("All must return a copy")
	}
}

func TestIsValidBytes(t *testing.T) {
	t.Parallel()

	r := Default()
	if !r.IsValidBytes([]byte("COMM")) {
		t.Fatal("COMM must be valid")
	}
	if r.IsValidBytes([]byte{0xFF, 0xFB, 0x90, 0x64}) {
		t.Fatal("audio sync bytes must not be valid")
	}
	if r.IsValidBytes([]byte("CO")) {
		t.Fatal("short id must not be valid")
	}
}
