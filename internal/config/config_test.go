package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DefaultStyle != "apa" {
		t.Errorf("DefaultStyle = %q, want %q", cfg.DefaultStyle, "apa")
	}
	if cfg.StyleCacheTTLDays != 7 {
		t.Errorf("StyleCacheTTLDays = %d, want 7", cfg.StyleCacheTTLDays)
	}
	if cfg.ExcerptMaxChars != 500 {
		t.Errorf("ExcerptMaxChars = %d, want 500", cfg.ExcerptMaxChars)
	}
	if cfg.Locale != "en-US" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "en-US")
	}
}

func TestLoad_FileOverridesScalars(t *testing.T) {
	dir := t.TempDir()
	content := `{"default_style": "ieee", "style_cache_ttl_days": 14}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DefaultStyle != "ieee" {
		t.Errorf("DefaultStyle = %q, want %q", cfg.DefaultStyle, "ieee")
	}
	if cfg.StyleCacheTTLDays != 14 {
		t.Errorf("StyleCacheTTLDays = %d, want 14", cfg.StyleCacheTTLDays)
	}
	// Untouched keys keep defaults
	if cfg.ExcerptMaxChars != 500 {
		t.Errorf("ExcerptMaxChars = %d, want 500", cfg.ExcerptMaxChars)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestMerge_ArraysDeduplicated(t *testing.T) {
	base := &Config{DisabledTools: []string{"source_purge", "source_delete"}}
	overlay := &Config{DisabledTools: []string{" source_purge ", "source_cite"}}

	got := Merge(base, overlay).DisabledTools
	want := []string{"source_purge", "source_delete", "source_cite"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DisabledTools = %v, want %v", got, want)
	}
}
