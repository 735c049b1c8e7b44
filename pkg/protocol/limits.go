package protocol

// Default decoding limits. A portfolio page has a handful of sections and
// cards, so these are generous.
const (
	DefaultMaxMessageBytes = 64 * 1024
	DefaultMaxValueBytes   = 16 * 1024
	DefaultMaxSections     = 64
	DefaultMaxTargets      = 256
)

// Limits bounds what DecodeEventWithLimits accepts. Zero disables a limit.
type Limits struct {
	MaxMessageBytes int
	MaxValueBytes   int
	MaxSections     int
	MaxTargets      int
}

// DefaultLimits returns the default decoding limits.
func DefaultLimits() Limits {
	return Limits{
		MaxMessageBytes: DefaultMaxMessageBytes,
		MaxValueBytes:   DefaultMaxValueBytes,
		MaxSections:     DefaultMaxSections,
		MaxTargets:      DefaultMaxTargets,
	}
}
