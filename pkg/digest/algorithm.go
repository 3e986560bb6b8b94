// Package digest resolves content digest algorithms by name and hashes files
// read through a storage backend.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/sdejongh/hadidi/pkg/models"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// DefaultAlgorithm is used when no algorithm is configured
const DefaultAlgorithm = "md5"

// Algorithm describes a digest algorithm
type Algorithm struct {
	// Name is the canonical lowercase name, e.g. "sha3_256"
	Name string
	// Label is the name as it was requested, e.g. "SHA3-256"
	Label   string
	newFunc func() hash.Hash
}

// New returns a fresh hash state
func (a *Algorithm) New() hash.Hash {
	return a.newFunc()
}

func (a *Algorithm) String() string {
	return a.Name
}

// blake2 constructors only fail for oversized keys
func unkeyed(fn func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
}

var registry = map[string]func() hash.Hash{
	"md5":         md5.New,
	"sha1":        sha1.New,
	"sha224":      sha256.New224,
	"sha256":      sha256.New,
	"sha384":      sha512.New384,
	"sha512":      sha512.New,
	"sha512_224":  sha512.New512_224,
	"sha512_256":  sha512.New512_256,
	"sha3_224":    sha3.New224,
	"sha3_256":    sha3.New256,
	"sha3_384":    sha3.New384,
	"sha3_512":    sha3.New512,
	"blake2b":     unkeyed(blake2b.New512),
	"blake2b_256": unkeyed(blake2b.New256),
	"blake2s":     unkeyed(blake2s.New256),
	"md4":         md4.New,
	"ripemd160":   ripemd160.New,
	"blake3":      func() hash.Hash { return blake3.New() },
}

// Lookup resolves an algorithm name. Matching ignores case, and dashes may
// stand in for underscores or be omitted ("SHA-256", "sha3-256").
func Lookup(name string) (*Algorithm, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	candidates := []string{
		normalized,
		strings.ReplaceAll(normalized, "-", "_"),
		strings.ReplaceAll(normalized, "-", ""),
	}

	for _, candidate := range candidates {
		if fn, ok := registry[candidate]; ok {
			return &Algorithm{Name: candidate, Label: strings.TrimSpace(name), newFunc: fn}, nil
		}
	}

	return nil, models.NewError(models.KindUnsupportedAlgorithm, "",
		fmt.Errorf("unknown algorithm %q (supported: %s)", name, strings.Join(Supported(), ", ")))
}

// Supported returns the canonical names of all algorithms in sorted order
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
