package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripPreservesAssets(t *testing.T) {
	t.Parallel()

	conv := NewLocalConverter()
	bodies := map[string]string{
		"paragraphs":   `<p>Hello <strong>world</strong></p><p><img src="https://cdn.example.com/post_images/u1/a.png"></p>`,
		"query string": `<p><img src="https://cdn.example.com/o/post_images%2Fu1%2Fb.png?alt=media&amp;token=abc-123" alt="cover"></p>`,
		"unsafe url":   `<p><img src="https://cdn.example.com/a (1).png"></p>`,
		"list":         `<ul><li>one <img src="https://cdn.example.com/l1.png"></li><li>two<ul><li><img src="https://cdn.example.com/l2.png"></li></ul></li></ul>`,
		"quote":        `<blockquote><p>said <img src="https://cdn.example.com/q.png" alt="q"></p></blockquote>`,
		"heading":      `<h2>Title <img src="https://cdn.example.com/h.png"></h2>`,
		"linked image": `<p><a href="https://example.com/x"><img src="https://cdn.example.com/link.png"></a></p>`,
		"code block":   `<pre>fmt.Println()<img src="https://cdn.example.com/pre.png"></pre>`,
		"odd alt":      `<p><img src="https://cdn.example.com/alt.png" alt="a [b] c"></p>`,
		"inline code":  `<p><code><img src="https://cdn.example.com/c.png"></code></p>`,
		"code and img": `<p>run <code>make<img src="https://cdn.example.com/c2.png"></code> now</p>`,
		"non ascii":    `<p><img src="https://cdn.example.com/café.png"></p>`,
		"no assets":    `<p>just <em>text</em></p>`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			lite, err := conv.ToMarkupLite(ctx, body)
			require.NoError(t, err)
			rich, err := conv.ToRich(ctx, lite)
			require.NoError(t, err)

			assert.Equal(t, ExtractAssets(body).Sorted(), ExtractAssets(rich).Sorted(), "lite: %s", lite)
		})
	}
}

func TestLiteRoundTripPreservesAssets(t *testing.T) {
	t.Parallel()

	conv := NewLocalConverter()
	bodies := map[string]string{
		"angle brackets": "![c](<https://cdn.example.com/a b.png>)",
		"non ascii":      "![c](https://cdn.example.com/café.png)",
		"entity":         "![c](https://cdn.example.com/x?a=1&amp;b=2)",
		"title":          `![c](https://cdn.example.com/t.png "cover")`,
		"reference":      "![c][fig]\n\n[fig]: https://cdn.example.com/ref.png",
		"code span":      "`![x](https://cdn.example.com/no.png)` is literal",
		"raw html":       `text <img src="https://cdn.example.com/raw (1).png" alt="">`,
	}

	for name, lite := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			want := ExtractAssets(lite).Sorted()

			rich, err := conv.ToRich(ctx, lite)
			require.NoError(t, err)
			assert.Equal(t, want, ExtractAssets(rich).Sorted(), "rich: %s", rich)

			back, err := conv.ToMarkupLite(ctx, rich)
			require.NoError(t, err)
			again, err := conv.ToRich(ctx, back)
			require.NoError(t, err)
			assert.Equal(t, want, ExtractAssets(again).Sorted(), "lite: %s", back)
		})
	}
}

func TestToRichKeepsImageDestination(t *testing.T) {
	t.Parallel()

	got, err := NewLocalConverter().ToRich(context.Background(), "![c](<https://cdn.example.com/a b.png>)")
	require.NoError(t, err)
	assert.Contains(t, got, `<img src="https://cdn.example.com/a b.png" alt="c">`)
	assert.NotContains(t, got, "%20")
}

func TestToMarkupLite(t *testing.T) {
	t.Parallel()

	conv := NewLocalConverter()
	ctx := context.Background()

	tests := []struct {
		name string
		rich string
		want string
	}{
		{
			name: "heading and nested list",
			rich: `<h2>Sub</h2><ul><li>a</li><li>b<ul><li>c</li></ul></li></ul>`,
			want: "## Sub\n\n- a\n- b\n    - c",
		},
		{
			name: "ordered list",
			rich: `<ol><li>first</li><li>second</li></ol>`,
			want: "1. first\n2. second",
		},
		{
			name: "emphasis keeps outer spaces",
			rich: `<p><strong>bold </strong>text <em>it</em></p>`,
			want: "**bold** text *it*",
		},
		{
			name: "empty editor paragraphs dropped",
			rich: `<p>one</p><p><br></p><p>two</p>`,
			want: "one\n\ntwo",
		},
		{
			name: "markdown syntax in text is escaped",
			rich: `<p>a_b *c*</p>`,
			want: `a\_b \*c\*`,
		},
		{
			name: "link",
			rich: `<p><a href="https://example.com/a">site</a></p>`,
			want: "[site](https://example.com/a)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := conv.ToMarkupLite(ctx, tt.rich)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToRich(t *testing.T) {
	t.Parallel()

	got, err := NewLocalConverter().ToRich(context.Background(), "# Title\n\n~~gone~~ and **kept**")
	require.NoError(t, err)
	assert.Contains(t, got, "<h1>Title</h1>")
	assert.Contains(t, got, "<del>gone</del>")
	assert.Contains(t, got, "<strong>kept</strong>")
}

func TestConvertMalformed(t *testing.T) {
	t.Parallel()

	conv := NewLocalConverter()
	ctx := context.Background()

	_, err := conv.ToRich(ctx, "bad \xff bytes")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = conv.ToMarkupLite(ctx, "<p>nul\x00</p>")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestConvertSameMode(t *testing.T) {
	t.Parallel()

	got, err := Convert(context.Background(), nil, "<p>x</p>", ModeRich, ModeRich)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", got)
}
