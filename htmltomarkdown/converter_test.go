package htmltomarkdown_test

import (
	"testing"

	"github.com/awalczyk/qbank"
	"github.com/awalczyk/qbank/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements qbank.Converter at compile time.
var _ qbank.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>A 45-year-old man presents with chest pain.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "A 45-year-old man presents with chest pain.")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<h1>Question</h1><h2>Explanation</h2>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Question")
		assert.Contains(t, md, "## Explanation")
	})

	t.Run("converts answer choice lists", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<ol><li>Aspirin</li><li>Heparin</li><li>Warfarin</li></ol>`)

		require.NoError(t, err)
		assert.Contains(t, md, "1. Aspirin")
		assert.Contains(t, md, "2. Heparin")
		assert.Contains(t, md, "3. Warfarin")
	})

	t.Run("converts bold and italic", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p><strong>Correct</strong> answer is <em>B</em>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "**Correct**")
		assert.Contains(t, md, "*B*")
	})

	t.Run("converts lab value tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Test</th><th>Result</th></tr></thead>
<tbody><tr><td>Hemoglobin</td><td>9.1</td></tr><tr><td>Platelets</td><td>140</td></tr></tbody>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		// Table cells may have padding for alignment, so check for content
		assert.Contains(t, md, "Hemoglobin")
		assert.Contains(t, md, "Platelets")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("")

		require.Error(t, err)
		assert.Equal(t, qbank.EINVALID, qbank.ErrorCode(err))
	})
}
