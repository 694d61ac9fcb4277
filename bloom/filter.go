// Package bloom provides body-text deduplication using Bloom filters.
package bloom

import (
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a short stable fingerprint of the body text. The
// same fingerprint is stored alongside each question row and used to
// warm filters on startup.
func Fingerprint(bodyText string) string {
	return strconv.FormatUint(xxhash.Sum64String(bodyText), 16)
}

// Filter wraps a Bloom filter for body-text deduplication. A negative
// Test answer is authoritative; a positive one still needs the stored
// rows checked.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a fingerprint to the filter.
func (f *Filter) Add(fingerprint string) {
	f.f.AddString(fingerprint)
}

// Test returns true if the fingerprint might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(fingerprint string) bool {
	return f.f.TestString(fingerprint)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
