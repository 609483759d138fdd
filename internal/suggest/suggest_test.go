package suggest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindExactPurpose(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches := s.Find("video editing")
	if len(matches) == 0 {
		t.Fatal("no matches for video editing")
	}
	if matches[0].Purpose != "video editing" {
		t.Errorf("top purpose = %q, want video editing", matches[0].Purpose)
	}
	if matches[0].Score != 100 {
		t.Errorf("exact match score = %d, want 100", matches[0].Score)
	}
	if len(matches[0].Apps) == 0 {
		t.Error("video editing purpose carries no apps")
	}
}

func TestFindNormalizesPhrases(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches := s.Find("apps to edit videos")
	if len(matches) == 0 {
		t.Fatal("no matches for phrase query")
	}
	if matches[0].Purpose != "video editing" {
		t.Errorf("top purpose = %q, want video editing", matches[0].Purpose)
	}
}

func TestFindStripsStopWords(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches := s.Find("i want apps for gaming")
	if len(matches) == 0 {
		t.Fatal("no matches for gaming query")
	}
	if matches[0].Purpose != "gaming" {
		t.Errorf("top purpose = %q, want gaming", matches[0].Purpose)
	}
}

func TestFindNoMatch(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if matches := s.Find("quantum entanglement simulator"); len(matches) != 0 {
		t.Errorf("got %d matches for an unknown purpose", len(matches))
	}
	if matches := s.Find("   "); matches != nil {
		t.Errorf("blank query returned matches")
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "purposes.yaml")
	data := "note taking:\n  - obsidian\n  - joplin\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	matches := s.Find("note taking")
	if len(matches) != 1 || matches[0].Apps[0] != "obsidian" {
		t.Errorf("custom mapping not used: %+v", matches)
	}

	if _, err := NewFromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file should error")
	}
}
