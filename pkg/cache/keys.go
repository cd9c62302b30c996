package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Hash returns the hex SHA-256 of data. Catalog and layout hashes chain
// through it, so equal content always lands on equal keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "kind:<sha256 of the JSON encoding of parts>".
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) CatalogKey(source string) string {
	return hashKey("catalog", source)
}

func (DefaultKeyer) LayoutKey(catalogHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", catalogHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// VersionedKeyer tags every key of an inner Keyer with a release, so a
// new build never reads layouts or snapshots written by an older one. The
// tag goes after the kind, keeping "kind:" first for instrumentation and
// the file layout.
//
//	keyer := cache.NewVersionedKeyer(nil, buildinfo.Version)
//	keyer.LayoutKey(h, opts) // "layout:v1.2.0:9c1e..."
type VersionedKeyer struct {
	inner   Keyer
	version string
}

// NewVersionedKeyer wraps inner (DefaultKeyer when nil).
func NewVersionedKeyer(inner Keyer, version string) *VersionedKeyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return &VersionedKeyer{inner: inner, version: version}
}

func (k *VersionedKeyer) tag(key string) string {
	kind, rest, _ := strings.Cut(key, ":")
	return kind + ":" + k.version + ":" + rest
}

func (k *VersionedKeyer) HTTPKey(namespace, key string) string {
	return k.tag(k.inner.HTTPKey(namespace, key))
}

func (k *VersionedKeyer) CatalogKey(source string) string {
	return k.tag(k.inner.CatalogKey(source))
}

func (k *VersionedKeyer) LayoutKey(catalogHash string, opts LayoutKeyOpts) string {
	return k.tag(k.inner.LayoutKey(catalogHash, opts))
}

func (k *VersionedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.tag(k.inner.ArtifactKey(layoutHash, opts))
}
