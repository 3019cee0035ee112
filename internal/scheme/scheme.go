// Package scheme provides the catalog of random-value generation schemes
// the search engine can target, plus a thread-safe registry for looking
// them up by key.
package scheme

import (
	"fmt"
	"math"
	"sort"

	"github.com/puzpuzpuz/xsync/v4"
)

// Enumerator maps integer indices bijectively onto a scheme's value
// space. Only schemes whose space fits a bounded integer range carry
// one; it is what makes exhaustive sequential search possible.
type Enumerator interface {
	// TotalCount returns the number of distinct values the scheme can
	// produce.
	TotalCount() uint64

	// FromIndex returns the value at index i. i must be < TotalCount().
	FromIndex(i uint64) string
}

// Scheme describes one generation scheme: a key, an entropy rating in
// bits, a generator, and an optional enumerator.
//
// Schemes are immutable after registration.
type Scheme struct {
	Key      string
	Bits     float64
	Generate func() string
	Enum     Enumerator // nil when the space is not enumerable
}

// Enumerable reports whether the scheme supports sequential enumeration.
func (s *Scheme) Enumerable() bool {
	return s != nil && s.Enum != nil
}

// Registry maps scheme keys to schemes. Safe for concurrent use.
type Registry struct {
	schemes *xsync.Map[string, *Scheme]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemes: xsync.NewMap[string, *Scheme]()}
}

// Register adds a scheme to the registry. Registering a key twice is an
// error so a typo cannot silently shadow a catalog entry.
func (r *Registry) Register(s *Scheme) error {
	if s == nil || s.Key == "" {
		return fmt.Errorf("register scheme: missing key")
	}
	if s.Generate == nil {
		return fmt.Errorf("register scheme %q: nil generator", s.Key)
	}
	if _, loaded := r.schemes.LoadOrStore(s.Key, s); loaded {
		return fmt.Errorf("register scheme %q: already registered", s.Key)
	}
	return nil
}

// Lookup returns the scheme for key, if registered.
func (r *Registry) Lookup(key string) (*Scheme, bool) {
	return r.schemes.Load(key)
}

// Keys returns all registered scheme keys in sorted order.
func (r *Registry) Keys() []string {
	var keys []string
	r.schemes.Range(func(key string, _ *Scheme) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys
}

// bitsOf converts a space size to an entropy rating.
func bitsOf(total uint64) float64 {
	return math.Log2(float64(total))
}
