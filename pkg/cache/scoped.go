package cache

// ScopedKeyer prefixes every key of an inner Keyer. It separates namespaces
// that share one backend, for example several users of a Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// AtlasKey returns the prefixed atlas key.
func (k *ScopedKeyer) AtlasKey(maxOrder int) string {
	return k.prefix + k.inner.AtlasKey(maxOrder)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(reportHash, opts)
}
