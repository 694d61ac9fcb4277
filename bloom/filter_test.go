package bloom_test

import (
	"fmt"
	"testing"

	"github.com/awalczyk/qbank/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := bloom.Fingerprint("A 45-year-old man presents with chest pain.")
	b := bloom.Fingerprint("A 45-year-old man presents with chest pain.")
	c := bloom.Fingerprint("A different question body.")

	assert.Equal(t, a, b, "same text yields same fingerprint")
	assert.NotEqual(t, a, c)
	assert.NotEmpty(t, a)
}

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	fp := bloom.Fingerprint("question body one")

	// Fingerprint not yet added should return false
	assert.False(t, f.Test(fp))

	f.Add(fp)
	assert.True(t, f.Test(fp))

	// Different fingerprint should still return false
	assert.False(t, f.Test(bloom.Fingerprint("question body two")))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add(bloom.Fingerprint("one"))
	f.Add(bloom.Fingerprint("two"))
	f.Add(bloom.Fingerprint("three"))

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	fp := bloom.Fingerprint("repeated body")

	f.Add(fp)
	countAfterFirst := f.EstimatedCount()

	f.Add(fp)
	f.Add(fp)

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.Test(fp))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(bloom.Fingerprint(fmt.Sprintf("added body %d", i)))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(bloom.Fingerprint(fmt.Sprintf("not added body %d", i))) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
