package assets

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint("folio.js", []byte("console.log(1)"))
	b := Fingerprint("folio.js", []byte("console.log(2)"))

	pattern := regexp.MustCompile(`^folio\.[0-9a-f]{16}\.js$`)
	if !pattern.MatchString(a) {
		t.Errorf("Fingerprint = %q, want folio.<16 hex>.js", a)
	}
	if a == b {
		t.Errorf("different content produced the same name %q", a)
	}
	if again := Fingerprint("folio.js", []byte("console.log(1)")); again != a {
		t.Errorf("Fingerprint not stable: %q vs %q", again, a)
	}
	if got := Fingerprint("LICENSE", nil); !regexp.MustCompile(`^LICENSE\.[0-9a-f]{16}$`).MatchString(got) {
		t.Errorf("Fingerprint without extension = %q", got)
	}
}

func TestManifestAddAndSource(t *testing.T) {
	m := NewManifest()
	resolved := m.Add("folio.js", []byte("x"))

	if got := m.Resolve("folio.js"); got != resolved {
		t.Errorf("Resolve = %q, want %q", got, resolved)
	}
	source, ok := m.Source(resolved)
	if !ok || source != "folio.js" {
		t.Errorf("Source(%q) = %q, %v", resolved, source, ok)
	}
	if _, ok := m.Source("folio.js"); ok {
		t.Error("Source of an unfingerprinted name should not be found")
	}
}

func TestManifestResolve(t *testing.T) {
	m := NewManifest()
	m.Set("folio.js", "folio.abc123.js")
	m.Set("styles.css", "styles.def456.css")

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"script", "folio.js", "folio.abc123.js"},
		{"stylesheet", "styles.css", "styles.def456.css"},
		{"missing entry unchanged", "unknown.js", "unknown.js"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Resolve(tt.source); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}

	if !m.Has("folio.js") || m.Has("unknown.js") {
		t.Error("Has reports wrong membership")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}

	all := m.All()
	all["c.js"] = "c.789.js"
	if m.Has("c.js") {
		t.Error("All should return a copy")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(file, []byte(`{"folio.js": "folio.abc123.js"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Resolve("folio.js"); got != "folio.abc123.js" {
		t.Errorf("Resolve = %q", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load of a missing file should fail")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load of invalid JSON should fail")
	}

	empty := filepath.Join(dir, "null.json")
	if err := os.WriteFile(empty, []byte("null"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err = Load(empty)
	if err != nil {
		t.Fatalf("Load(null): %v", err)
	}
	m.Set("a.js", "a.1.js")
}

func TestResolvers(t *testing.T) {
	m := NewManifest()
	m.Set("folio.js", "folio.abc123.js")

	tests := []struct {
		name     string
		resolver Resolver
		source   string
		want     string
	}{
		{"manifest with prefix", NewResolver(m, "/_folio/"), "folio.js", "/_folio/folio.abc123.js"},
		{"manifest missing entry", NewResolver(m, "/_folio/"), "other.js", "/_folio/other.js"},
		{"manifest without prefix", NewResolver(m, ""), "folio.js", "folio.abc123.js"},
		{"passthrough", NewPassthroughResolver("/_folio/"), "folio.js", "/_folio/folio.js"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resolver.Asset(tt.source); got != tt.want {
				t.Errorf("Asset(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}
