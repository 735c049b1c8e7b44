// Package assets maps static asset names to content-fingerprinted names.
//
// The server fingerprints the embedded client script at startup and links
// the page to the fingerprinted path, so browsers can cache it forever:
//
//	m := assets.NewManifest()
//	m.Add("folio.js", clientdist.FolioJS)
//	resolver := assets.NewResolver(m, "/_folio/")
//	resolver.Asset("folio.js") // "/_folio/folio.3f9a61c2d0b4e871.js"
//
// A manifest may also be loaded from a JSON file produced by a build step:
//
//	{"folio.js": "folio.3f9a61c2d0b4e871.js"}
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path"
	"strings"
	"sync"
)

// Manifest maps source asset names to fingerprinted names.
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// Load reads a JSON manifest of the form {"source.js": "source.abc123.js"}.
func Load(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Manifest{entries: entries}, nil
}

// Fingerprint returns name with the first 16 hex digits of the SHA-256 of
// data inserted before the extension: "folio.js" becomes
// "folio.3f9a61c2d0b4e871.js".
func Fingerprint(name string, data []byte) string {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:8])

	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + hash + ext
}

// Add fingerprints data and records it under source. It returns the
// fingerprinted name.
func (m *Manifest) Add(source string, data []byte) string {
	resolved := Fingerprint(source, data)
	m.Set(source, resolved)
	return resolved
}

// Resolve returns the fingerprinted name for source, or source unchanged
// if the manifest has no entry for it.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Source is the reverse of Resolve: it returns the source name recorded
// for a fingerprinted name.
func (m *Manifest) Source(resolved string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for source, r := range m.entries {
		if r == resolved {
			return source, true
		}
	}
	return "", false
}

// Has reports whether the manifest has an entry for source.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or replaces an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// All returns a copy of the entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}
