package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kova98/threadtext/enums"
)

func comment(author, body string, score float64, replies ...any) map[string]any {
	data := map[string]any{
		"author": author,
		"body":   body,
		"score":  score,
	}
	if len(replies) > 0 {
		data["replies"] = map[string]any{
			"kind": "Listing",
			"data": map[string]any{"children": replies},
		}
	} else {
		data["replies"] = ""
	}
	return map[string]any{"kind": "t1", "data": data}
}

func more() map[string]any {
	return map[string]any{
		"kind": "more",
		"data": map[string]any{"count": float64(12), "children": []any{"abc", "def"}},
	}
}

func thread(post map[string]any, comments ...any) []any {
	return []any{
		map[string]any{
			"kind": "Listing",
			"data": map[string]any{"children": []any{
				map[string]any{"kind": "t3", "data": post},
			}},
		},
		map[string]any{
			"kind": "Listing",
			"data": map[string]any{"children": comments},
		},
	}
}

func helloPost() map[string]any {
	return map[string]any{
		"title":       "Hello",
		"author":      "alice",
		"subreddit":   "test",
		"permalink":   "/r/test/comments/1/hello/",
		"created_utc": float64(100),
		"selftext":    "body text",
	}
}

func lines(s string) []string {
	return strings.Split(s, "\n")
}

func TestRender_Thread(t *testing.T) {
	out := Render(thread(helloPost(), comment("bob", "hi\nthere", 5)))

	expected := strings.Join([]string{
		"# Hello",
		"",
		"Author: u/alice",
		"Subreddit: r/test",
		"URL: https://www.reddit.com/r/test/comments/1/hello/",
		"Created (UTC): 100",
		"",
		"body text",
		"",
		"---",
		"## Comments",
		"",
		"- hi there — u/bob (score: 5)",
	}, "\n")
	assert.Equal(t, expected, out)
}

func TestRender_ThreadWithoutSelftext(t *testing.T) {
	post := helloPost()
	delete(post, "selftext")

	out := Render(thread(post))

	assert.NotContains(t, out, "body text")
	assert.True(t, strings.HasSuffix(out, "---\n## Comments"), "trailing whitespace is trimmed")
	assert.Contains(t, out, "Created (UTC): 100\n\n---")
}

func TestRender_ThreadMissingPost(t *testing.T) {
	out := Render([]any{map[string]any{"kind": "Listing"}})

	assert.Contains(t, lines(out), "# ")
	assert.Contains(t, lines(out), "Author: u/")
	assert.Contains(t, lines(out), "Subreddit: r/")
	assert.Contains(t, lines(out), "URL: https://www.reddit.com")
	assert.Contains(t, lines(out), "Created (UTC): ")
}

func TestRender_ThreadFloatTimestamp(t *testing.T) {
	post := helloPost()
	post["created_utc"] = float64(1700000000)

	out := Render(thread(post))

	assert.Contains(t, lines(out), "Created (UTC): 1700000000")
}

func TestRender_NestedReplies(t *testing.T) {
	tree := comment("a", "root", 3,
		comment("b", "child", 2,
			comment("c", "grandchild", 1),
		),
		comment("d", "second child", 0),
	)

	out := Render(thread(helloPost(), tree))
	l := lines(out)

	idx := -1
	for i, line := range l {
		if line == "- root — u/a (score: 3)" {
			idx = i
		}
	}
	require.NotEqual(t, -1, idx)
	require.True(t, len(l) >= idx+4)
	assert.Equal(t, "  - child — u/b (score: 2)", l[idx+1])
	assert.Equal(t, "    - grandchild — u/c (score: 1)", l[idx+2])
	assert.Equal(t, "  - second child — u/d (score: 0)", l[idx+3])
}

func TestRender_TopLevelCommentsSeparatedByBlankLine(t *testing.T) {
	out := Render(thread(helloPost(), comment("a", "one", 1), comment("b", "two", 2)))

	assert.True(t, strings.HasSuffix(out, "- one — u/a (score: 1)\n\n- two — u/b (score: 2)"))
}

func TestRender_MoreIsDropped(t *testing.T) {
	tree := comment("a", "root", 1,
		more(),
		comment("b", "reply", 1, more()),
	)

	out := Render(thread(helloPost(), tree, more()))

	assert.NotContains(t, out, "more")
	assert.NotContains(t, out, "abc")
	assert.Contains(t, out, "- root — u/a (score: 1)\n  - reply — u/b (score: 1)")
}

func TestRender_CommentDefaults(t *testing.T) {
	out := Render(thread(helloPost(), map[string]any{"kind": "t1", "data": map[string]any{}}))

	assert.True(t, strings.HasSuffix(out, "-  — u/[deleted] (score: 0)"))
}

func TestRender_CommentCarriageReturns(t *testing.T) {
	out := Render(thread(helloPost(), comment("a", "one\r\ntwo\n\nthree", 1)))

	assert.Contains(t, out, "- one two  three — u/a (score: 1)")
}

func TestRender_MalformedComments(t *testing.T) {
	comments := []any{
		nil,
		"not a node",
		float64(3),
		map[string]any{"kind": "t1", "data": "oops"},
		map[string]any{"kind": "t1", "data": map[string]any{"author": float64(5), "replies": map[string]any{"data": "x"}}},
	}

	assert.NotPanics(t, func() {
		out := Render(thread(helloPost(), comments...))
		assert.Contains(t, out, "## Comments")
	})
}

func TestRender_DeepThread(t *testing.T) {
	const depth = 5000

	node := comment("leaf", "bottom", 1)
	for i := 0; i < depth; i++ {
		node = comment("u", "level", 1, node)
	}

	out := Render(thread(helloPost(), node))
	l := lines(out)

	last := l[len(l)-1]
	assert.Equal(t, strings.Repeat("  ", depth)+"- bottom — u/leaf (score: 1)", last)
}

func TestRender_Listing(t *testing.T) {
	listing := map[string]any{
		"kind": "Listing",
		"data": map[string]any{"children": []any{
			map[string]any{"kind": "t3", "data": map[string]any{
				"title":                   "A post",
				"author":                  "alice",
				"subreddit":               "golang",
				"subreddit_name_prefixed": "r/golang",
			}},
			map[string]any{"kind": "t1", "data": map[string]any{
				"body":      "A comment",
				"author":    "bob",
				"subreddit": "rust",
			}},
		}},
	}

	out := Render(listing)
	l := lines(out)

	require.Len(t, l, 2)
	assert.Equal(t, "- A post — by alice (r/golang)", l[0])
	assert.Equal(t, "- A comment — by bob (rust)", l[1])
}

func TestRender_ListingMalformedChild(t *testing.T) {
	listing := map[string]any{"data": map[string]any{"children": []any{nil, "x"}}}

	out := Render(listing)

	assert.Equal(t, "-  — by  ()\n-  — by  ()", out)
}

func TestRender_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"null", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"string", "hello <b>", `"hello <b>"`},
		{"number", float64(42), "42"},
		{"children not array", map[string]any{"data": map[string]any{"children": "x"}}, "{\n  \"data\": {\n    \"children\": \"x\"\n  }\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.input))
			assert.Equal(t, enums.ShapeRaw, ShapeOf(tt.input))
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	input := thread(helloPost(), comment("a", "x", 1, comment("b", "y", 2)), more())

	assert.Equal(t, Render(input), Render(input))
}

func TestShapeOf(t *testing.T) {
	assert.Equal(t, enums.ShapeThread, ShapeOf([]any{nil}))
	assert.Equal(t, enums.ShapeListing, ShapeOf(map[string]any{"data": map[string]any{"children": []any{}}}))
	assert.Equal(t, enums.ShapeRaw, ShapeOf(true))
}

func TestDecode(t *testing.T) {
	v, err := Decode([]byte(`[{"data":{"children":[{"data":{"title":"T","created_utc":1.5}}]}}]`))
	require.NoError(t, err)

	assert.Equal(t, enums.ShapeThread, ShapeOf(v))
	assert.Contains(t, Render(v), "Created (UTC): 1.5")

	_, err = Decode([]byte(`{"data":`))
	assert.Error(t, err)
}

func TestDecode_RenderNeverPanics(t *testing.T) {
	inputs := []string{
		`null`, `[]`, `{}`, `0`, `"s"`, `true`, `[null]`, `[1, 2]`, `[[], []]`,
		`[{"data":{"children":[null]}}, {"data":{"children":[null, {"kind":"more"}]}}]`,
		`{"data":{"children":[{"data":null}]}}`,
	}

	for _, in := range inputs {
		v, err := Decode([]byte(in))
		require.NoError(t, err, in)
		assert.NotPanics(t, func() { Render(v) }, in)
	}
}
