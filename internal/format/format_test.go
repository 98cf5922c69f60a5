package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irammini/ecosystem/internal/catalog"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   catalog.Memory
		want string
	}{
		{name: "below a gigabyte", in: catalog.MemoryMB(512), want: "512 MB"},
		{name: "exact gigabytes drop .0", in: catalog.MemoryMB(2048), want: "2 GB"},
		{name: "fractional gigabytes", in: catalog.MemoryMB(1536), want: "1.5 GB"},
		{name: "boundary", in: catalog.MemoryMB(1024), want: "1 GB"},
		{name: "free text", in: catalog.MemoryText("Managed"), want: "Managed"},
		{name: "missing", in: catalog.Memory{}, want: "N/A"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Memory(tc.in, "N/A"))
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("é", 150)
	got := Excerpt(long)
	require.Equal(t, strings.Repeat("é", ExcerptRunes)+"...", got)
	require.Equal(t, "short...", Excerpt("short"))
}

func TestInitial(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Ä", Initial("Äpfel"))
	assert.Equal(t, "?", Initial(""))
}

func TestHighlightEmptyTermEscapesOnly(t *testing.T) {
	t.Parallel()
	got := Highlight(`<b>Kairo & "co"</b>`, "")
	assert.Equal(t, `&lt;b&gt;Kairo &amp; &#34;co&#34;&lt;/b&gt;`, string(got))
	assert.NotContains(t, string(got), "<mark")
}

func TestHighlightTreatsTermLiterally(t *testing.T) {
	t.Parallel()
	got := Highlight("a.b*c-x axbbc", "a.b*c")
	assert.Equal(t, `<mark class="search-hit">a.b*c</mark>-x axbbc`, string(got))
}

func TestHighlightCaseInsensitiveOrderPreserving(t *testing.T) {
	t.Parallel()
	got := Highlight("Rust or rust or RUST", "rust")
	want := `<mark class="search-hit">Rust</mark> or <mark class="search-hit">rust</mark> or <mark class="search-hit">RUST</mark>`
	assert.Equal(t, want, string(got))
}

func TestHighlightEscapesEachSpan(t *testing.T) {
	t.Parallel()
	got := Highlight("<i>bot</i>", "bot")
	assert.Equal(t, `&lt;i&gt;<mark class="search-hit">bot</mark>&lt;/i&gt;`, string(got))
}

func TestHighlightSegmentsNoOverlap(t *testing.T) {
	t.Parallel()
	segs := HighlightSegments("aaaa", "aa")
	require.Len(t, segs, 2)
	for _, s := range segs {
		assert.True(t, s.Match)
		assert.Equal(t, "aa", s.Text)
	}
	assert.Nil(t, HighlightSegments("", "x"))
}

func TestRichTextSanitizes(t *testing.T) {
	t.Parallel()
	got := string(RichText("Hi **there** <script>alert(1)</script>"))
	assert.Contains(t, got, "<strong>there</strong>")
	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "alert(1)")
	assert.Equal(t, "", string(RichText("")))
}

func TestRichTextKeepsSafeInlineHTML(t *testing.T) {
	t.Parallel()
	got := string(RichText(`Built with <b>love</b> and <a href="https://example.com" onclick="x()">friends</a><br>`))
	assert.Contains(t, got, "<b>love</b>")
	assert.Contains(t, got, `href="https://example.com"`)
	assert.Contains(t, got, "nofollow")
	assert.NotContains(t, got, "onclick")
	assert.Contains(t, got, "<br")
}
