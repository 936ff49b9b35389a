package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRenderRoundTrip(t *testing.T) {
	cases := []string{
		"<p>plain</p>",
		"<h2>title</h2><p>body</p>",
		"<p><strong>bold</strong> and <em>italic</em></p>",
		`<p><a href="https://example.com">link</a></p>`,
		"<ul><li><p>a</p></li><li><p>b</p></li></ul>",
		"<ol><li><p>one</p></li></ol>",
		"<blockquote><p>quoted</p></blockquote>",
		`<img src="https://img.local/x.png" alt="x">`,
		"<p>line<br>break</p>",
	}
	for _, markup := range cases {
		require.Equal(t, markup, Parse(markup).HTML(), "round trip of %q", markup)
	}
}

func TestParseNeverFails(t *testing.T) {
	cases := []string{
		"",
		"just text",
		"<p>unclosed <strong>bold",
		"<p></div></p>",
		"<<<>>>",
		"<ul><p>stray</p></ul>",
	}
	for _, markup := range cases {
		doc := Parse(markup)
		require.NotNil(t, doc, "parse of %q", markup)
		// whatever came out must survive its own round trip
		require.Equal(t, doc.HTML(), Parse(doc.HTML()).HTML(), "restabilize %q", markup)
	}
}

func TestParseBareTextBecomesParagraph(t *testing.T) {
	require.Equal(t, "<p>hello</p>", Parse("hello").HTML())
}

func TestParseRecoversUnclosedTags(t *testing.T) {
	require.Equal(t, "<p>unclosed <strong>bold</strong></p>", Parse("<p>unclosed <strong>bold").HTML())
}

func TestParseDropsDangerousElements(t *testing.T) {
	require.Equal(t, "<p>a</p>", Parse("<p>a</p><script>alert(1)</script>").HTML())
	require.Equal(t, "<p>a</p>", Parse(`<p>a</p><iframe src="https://evil"></iframe>`).HTML())
	require.Equal(t, "<p>a</p>", Parse("<style>p{}</style><p>a</p>").HTML())
}

func TestParseUnwrapsUnknownContainers(t *testing.T) {
	require.Equal(t, "<p>a</p>", Parse("<div><p>a</p></div>").HTML())
	require.Equal(t, "<p>a</p>", Parse("<p><span>a</span></p>").HTML())
}

func TestParseClampsHeadingLevels(t *testing.T) {
	require.Equal(t, "<h2>t</h2>", Parse("<h1>t</h1>").HTML())
	require.Equal(t, "<h2>t</h2>", Parse("<h2>t</h2>").HTML())
	require.Equal(t, "<h3>t</h3>", Parse("<h4>t</h4>").HTML())
	require.Equal(t, "<h3>t</h3>", Parse("<h6>t</h6>").HTML())
}

func TestParseNestedMarks(t *testing.T) {
	doc := Parse("<p><strong><em>both</em></strong></p>")
	require.Len(t, doc.Blocks, 1)
	text := doc.Blocks[0].Children[0]
	require.True(t, text.Marks.Bold)
	require.True(t, text.Marks.Italic)
}

func TestPlainText(t *testing.T) {
	doc := Parse("<h2>title</h2><p>first line</p><ul><li><p>item</p></li></ul>")
	require.Equal(t, "title\nfirst line\nitem", doc.PlainText())
}

func TestPlainTextEscapedEntities(t *testing.T) {
	doc := Parse("<p>a &amp; b</p>")
	require.Equal(t, "a & b", doc.PlainText())
}

func TestIsEmpty(t *testing.T) {
	require.True(t, Parse("").IsEmpty())
	require.True(t, Parse("<p></p>").IsEmpty())
	require.True(t, Parse("<p>   </p>").IsEmpty())
	require.False(t, Parse("<p>x</p>").IsEmpty())
	require.False(t, Parse(`<img src="https://img.local/a.png">`).IsEmpty())
}
