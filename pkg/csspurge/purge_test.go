package csspurge

import (
	"testing"

	"github.com/dchest/cssmin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html>
<html>
<head><title>t</title></head>
<body>
  <nav id="top" class="menu">
    <a class="link live" href="/">home</a>
  </nav>
  <main>
    <p>hello</p>
    <input type="text" name="q">
  </main>
</body>
</html>`

func purge(t *testing.T, opts Options, html, css string) string {
	t.Helper()
	out, err := New(opts).Purge(html, css)
	require.NoError(t, err)
	return out
}

func TestPurgeKeepsUsedTagDropsUnusedClass(t *testing.T) {
	out := purge(t, Options{Minify: true}, "<p>only a paragraph</p>", ".unused { color: red; } p { color: blue; }")

	assert.Contains(t, out, "p{")
	assert.Contains(t, out, "color:blue")
	assert.NotContains(t, out, ".unused")
	assert.NotContains(t, out, "red")
}

func TestPurgeSelectorKinds(t *testing.T) {
	css := `
	.menu { display: flex }
	#top { margin: 0 }
	#bottom { margin: 1px }
	nav > a.live { color: green }
	nav > a.dead { color: gray }
	main p { line-height: 2 }
	aside p { line-height: 3 }
	input[type="text"] { border: none }
	input[type="checkbox"] { border: solid }
	`
	out := purge(t, Options{}, page, css)

	for _, kept := range []string{".menu", "#top", "a.live", "main p", `input[type=`} {
		assert.Contains(t, out, kept)
	}
	for _, dropped := range []string{"#bottom", "a.dead", "aside", "checkbox"} {
		assert.NotContains(t, out, dropped)
	}
}

func TestPurgeFiltersSelectorList(t *testing.T) {
	out := purge(t, Options{}, page, `.ghost, p, .phantom { color: blue }`)

	assert.Contains(t, out, "p{")
	assert.NotContains(t, out, "ghost")
	assert.NotContains(t, out, "phantom")
}

func TestPurgeIgnoresDynamicPseudos(t *testing.T) {
	css := `
	a.link:hover { color: red }
	.menu a:focus-visible { outline: auto }
	p::first-line { font-weight: bold }
	p:after { content: "x" }
	.dead:hover { color: gray }
	::selection { background: yellow }
	`
	out := purge(t, Options{}, page, css)

	assert.Contains(t, out, "a.link:hover")
	assert.Contains(t, out, ":focus-visible")
	assert.Contains(t, out, "p::first-line")
	assert.Contains(t, out, "p:after")
	assert.Contains(t, out, "::selection")
	assert.NotContains(t, out, ".dead")
}

func TestPurgeGroupingRules(t *testing.T) {
	css := `
	@media (max-width: 600px) { p { color: red } .dead { color: gray } }
	@media print { .dead { display: none } }
	@supports (display: grid) { main { display: grid } }
	`
	out := purge(t, Options{}, page, css)

	assert.Contains(t, out, "@media (max-width")
	assert.Contains(t, out, "@supports")
	assert.NotContains(t, out, "print")
	assert.NotContains(t, out, "dead")
}

func TestPurgeKeepsOtherAtRules(t *testing.T) {
	css := `
	@charset "UTF-8";
	@keyframes spin { from { opacity: 0 } to { opacity: 1 } }
	@font-face { font-family: Trickster; font-weight: 400 }
	.dead { animation: spin 1s }
	`
	out := purge(t, Options{}, page, css)

	assert.Contains(t, out, "@charset")
	assert.Contains(t, out, "@keyframes spin")
	assert.Contains(t, out, "@font-face")
	assert.NotContains(t, out, "dead")
}

func TestPurgeSafelist(t *testing.T) {
	css := `.is-open { display: block } #modal { z-index: 9 } dialog { margin: auto } .dead { color: gray }`
	out := purge(t, Options{Safelist: []string{".is-open", "modal", "dialog"}}, page, css)

	assert.Contains(t, out, "is-open")
	assert.Contains(t, out, "#modal")
	assert.Contains(t, out, "dialog")
	assert.NotContains(t, out, "dead")
}

func TestPurgeKeepsSelectorsItCannotEvaluate(t *testing.T) {
	out := purge(t, Options{}, page, `p:unknown-state(1) { color: blue }`)

	assert.Contains(t, out, "unknown-state")
}

func TestPurgeEmptyStylesheet(t *testing.T) {
	out := purge(t, Options{Minify: true}, page, "")
	assert.Empty(t, out)
}

func TestPurgeAllRulesUnused(t *testing.T) {
	out := purge(t, Options{Minify: true}, page, ".a { color: red } .b { color: blue }")
	assert.Empty(t, out)
}

func TestPurgeKeepsDeclarationsIntact(t *testing.T) {
	out := purge(t, Options{}, page, `p { width: 50%; margin: 10% 0 } main { width: calc(100% - var(--x)) }`)

	assert.Contains(t, out, "width: 50%")
	assert.Contains(t, out, "margin: 10% 0")
	assert.Contains(t, out, "calc(100% - var(--x))")
}

func TestPurgeUsedStylesheetRoundTrips(t *testing.T) {
	css := `@charset "UTF-8";
@import url("base.css");
:root { --gap: 4px; }
html, body { margin: 0; padding: 0 }
nav#top.menu > a.link { color: #0a0; background: url('img/bg.png') no-repeat 50% 0 }
main p { width: calc(100% - var(--gap) * 2); font: 400 1.25rem/1.5 "Helvetica Neue", sans-serif }
input[type="text"] { border: 1px solid rgba(0, 0, 0, .5) }
a.link:hover { color: red !important }
p::before { content: "\201C" }
@media (min-width: 40em) { main { display: grid; grid-template-columns: 1fr 2fr } }
@font-face { font-family: "Trickster"; src: local("Trickster"), url("trickster.woff2") format("woff2") }
@keyframes fade { from { opacity: 0% } to { opacity: 100% } }
`
	out := purge(t, Options{Minify: true}, page, css)

	assert.Equal(t, string(cssmin.Minify([]byte(css))), out)
}

func TestPurgeEscapedSelectors(t *testing.T) {
	css := `.md\:flex { display: flex } .w-1\/2 { width: 50% } .\31 23 { order: 1 }`

	used := purge(t, Options{}, `<div class="md:flex w-1/2 123"></div>`, css)
	assert.Contains(t, used, `.md\3a flex{display: flex}`)
	assert.Contains(t, used, `.w-1\2f 2{width: 50%}`)
	assert.Contains(t, used, `.\31 23{order: 1}`)

	// The re-escaped selectors still match the markup after a second pass.
	assert.Equal(t, used, purge(t, Options{}, `<div class="md:flex w-1/2 123"></div>`, used))

	// "md" alone must not satisfy a selector for "md:flex".
	assert.Empty(t, purge(t, Options{}, `<div class="md flex w-1"></div>`, css))
}

func TestPurgeStringsWithEscapedQuotes(t *testing.T) {
	css := `p::before { content: "\"" } p::after { content: 'it\'s' } p { color: red }`
	out := purge(t, Options{}, page, css)

	assert.Contains(t, out, `content: "\""`)
	assert.Contains(t, out, `content: 'it\'s'`)
	assert.Contains(t, out, "color: red")
}

func TestTokenizeStrings(t *testing.T) {
	toks, err := tokenize(`/* don't */ a[title="x, y"], b { content: "}" }`)
	require.NoError(t, err)

	rules := parseRules(toks)
	require.Len(t, rules, 1)
	assert.Len(t, splitSelectors(rules[0].prelude), 2)
	assert.Equal(t, `content: "}"`, rules[0].block.String())

	_, err = tokenize(`p { content: "open }`)
	assert.Error(t, err)
}

func TestSplitSelectorsRespectsParentheses(t *testing.T) {
	toks, err := tokenize(`a:is(.x, .y), p`)
	require.NoError(t, err)

	sels := splitSelectors(toks)
	require.Len(t, sels, 2)
	assert.Equal(t, "p", sels[1].String())
}

func TestStaticSelector(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a:hover", "a"},
		{"a:hover > span", "a > span"},
		{":hover", "*"},
		{"ul > :focus", "ul > *"},
		{"p::before", "p"},
		{"input::-webkit-input-placeholder", "input"},
		{"li:first-child", "li:first-child"},
		{"p:not(.x)", "p:not(.x)"},
	}
	for _, tt := range tests {
		toks, err := tokenize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, staticSelector(trimSpace(toks)), tt.in)
	}
}

func TestParseRulesStructure(t *testing.T) {
	toks, err := tokenize(`@import url("a.css"); @media screen { p { x: y } } p { a: b }`)
	require.NoError(t, err)

	rules := parseRules(toks)
	require.Len(t, rules, 3)
	assert.Equal(t, "import", rules[0].atName)
	assert.False(t, rules[0].hasBlock)
	assert.True(t, rules[1].grouping())
	assert.Len(t, rules[1].children, 1)
	assert.Equal(t, "p", rules[2].prelude.String())
}
