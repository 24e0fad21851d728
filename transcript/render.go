package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/kova98/threadtext/enums"
)

const redditBaseURL = "https://www.reddit.com"

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ")

// Decode parses a JSON document into the generic value tree Render accepts.
func Decode(b []byte) (any, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, errors.Wrap(err, "decode reddit json")
	}
	return v, nil
}

// ShapeOf reports which rendering branch Render takes for v.
func ShapeOf(v any) enums.Shape {
	if arr, ok := v.([]any); ok && len(arr) > 0 {
		return enums.ShapeThread
	}
	if _, ok := lookup(v, "data", "children").([]any); ok {
		return enums.ShapeListing
	}
	return enums.ShapeRaw
}

// Render turns a decoded Reddit response into a plain-text transcript.
// It never fails. Unknown shapes come back as indented JSON.
func Render(v any) string {
	switch ShapeOf(v) {
	case enums.ShapeThread:
		return renderThread(v.([]any))
	case enums.ShapeListing:
		return renderListing(list(lookup(v, "data", "children")))
	default:
		return dump(v)
	}
}

func renderThread(thread []any) string {
	post := lookup(thread, 0, "data", "children", 0, "data")

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", str(lookup(post, "title"), ""))
	fmt.Fprintf(&b, "Author: u/%s\n", str(lookup(post, "author"), ""))
	fmt.Fprintf(&b, "Subreddit: r/%s\n", str(lookup(post, "subreddit"), ""))
	fmt.Fprintf(&b, "URL: %s%s\n", redditBaseURL, str(lookup(post, "permalink"), ""))
	fmt.Fprintf(&b, "Created (UTC): %s\n\n", number(lookup(post, "created_utc"), ""))

	if selftext := str(lookup(post, "selftext"), ""); selftext != "" {
		b.WriteString(selftext)
		b.WriteString("\n\n")
	}
	b.WriteString("---\n## Comments\n\n")

	comments := list(lookup(thread, 1, "data", "children"))
	rendered := make([]string, 0, len(comments))
	for _, c := range comments {
		rendered = append(rendered, renderComment(c, 0))
	}
	b.WriteString(strings.Join(rendered, "\n"))

	return strings.TrimSpace(b.String())
}

func renderListing(children []any) string {
	lines := make([]string, 0, len(children))
	for _, child := range children {
		d := lookup(child, "data")
		text := str(lookup(d, "title"), str(lookup(d, "body"), ""))
		author := str(lookup(d, "author"), "")
		sub := str(lookup(d, "subreddit_name_prefixed"), str(lookup(d, "subreddit"), ""))
		lines = append(lines, fmt.Sprintf("- %s — by %s (%s)", text, author, sub))
	}
	return strings.Join(lines, "\n")
}

type frame struct {
	node  any
	depth int
}

// renderComment writes node and its replies in pre-order. It walks with an
// explicit stack, so arbitrarily deep threads don't grow the goroutine stack.
func renderComment(node any, depth int) string {
	var b strings.Builder
	stack := []frame{{node, depth}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		obj, ok := f.node.(map[string]any)
		if !ok || obj["kind"] == "more" {
			continue
		}
		d := obj["data"]

		body := newlines.Replace(str(lookup(d, "body"), ""))
		author := str(lookup(d, "author"), "[deleted]")
		score := number(lookup(d, "score"), "0")
		fmt.Fprintf(&b, "%s- %s — u/%s (score: %s)\n", strings.Repeat("  ", f.depth), body, author, score)

		replies := list(lookup(d, "replies", "data", "children"))
		for i := len(replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{replies[i], f.depth + 1})
		}
	}
	return b.String()
}

func dump(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
