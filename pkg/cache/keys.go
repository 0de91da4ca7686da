package cache

import "time"

// AtlasFormat versions the cached atlas encoding. Bump it whenever the
// atlas ordering or serialization changes so stale entries are ignored.
const AtlasFormat = 1

// Keyer derives cache keys.
type Keyer interface {
	// AtlasKey identifies the atlas of graphs up to maxOrder vertices.
	AtlasKey(maxOrder int) string

	// ArtifactKey identifies a rendered artifact of a classification report.
	ArtifactKey(reportHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that affect an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Layout   string `json:"layout"`
	Capacity int    `json:"capacity"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AtlasKey returns atlas:<hash>.
func (DefaultKeyer) AtlasKey(maxOrder int) string {
	return hashKey("atlas", AtlasFormat, maxOrder)
}

// ArtifactKey returns artifact:<hash>.
func (DefaultKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", reportHash, opts)
}

// Cache TTLs.
const (
	// TTLAtlas is zero: the atlas is a pure function of its order and the
	// format version, so it never goes stale.
	TTLAtlas = 0

	// TTLArtifact bounds how long rendered documents are kept.
	TTLArtifact = 7 * 24 * time.Hour
)
