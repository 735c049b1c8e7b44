package assets

// Resolver turns an asset name into the URL path the page links to.
type Resolver interface {
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver resolves names through m and prepends prefix:
//
//	NewResolver(m, "/_folio/").Asset("folio.js") // "/_folio/folio.3f9a61c2d0b4e871.js"
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{manifest: m, prefix: prefix}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver prepends prefix without fingerprinting. Useful
// while editing the client script, when cache busting gets in the way.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}
