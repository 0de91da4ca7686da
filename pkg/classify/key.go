package classify

import (
	"strconv"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
)

// Key identifies a bucket: an atlas index or the "unclassified" sentinel.
// The zero value is Index(0).
type Key struct {
	index     int
	unmatched bool
}

// NoMatch is the key for graphs with no atlas entry.
var NoMatch = Key{unmatched: true}

// unclassified is the text form of NoMatch.
const unclassified = "unclassified"

// Index returns the key for atlas index i.
func Index(i int) Key { return Key{index: i} }

// IsMatch reports whether k is an atlas index.
func (k Key) IsMatch() bool { return !k.unmatched }

// Index returns the atlas index. ok is false for NoMatch.
func (k Key) Index() (i int, ok bool) { return k.index, !k.unmatched }

// Compare orders keys by ascending index with NoMatch last.
func (k Key) Compare(o Key) int {
	switch {
	case k.unmatched && o.unmatched:
		return 0
	case k.unmatched:
		return 1
	case o.unmatched:
		return -1
	case k.index < o.index:
		return -1
	case k.index > o.index:
		return 1
	}
	return 0
}

// Less reports whether k sorts before o.
func (k Key) Less(o Key) bool { return k.Compare(o) < 0 }

// String returns the decimal index or "unclassified".
func (k Key) String() string {
	if k.unmatched {
		return unclassified
	}
	return strconv.Itoa(k.index)
}

// MarshalText implements encoding.TextMarshaler so keys can be used as
// JSON and TOML map keys.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the output of MarshalText.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey parses a decimal index or "unclassified".
func ParseKey(s string) (Key, error) {
	if s == unclassified {
		return NoMatch, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return Key{}, errs.New(errs.ErrCodeInvalidFormat, "invalid classification key %q", s)
	}
	return Index(i), nil
}
