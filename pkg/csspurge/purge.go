package csspurge

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/dchest/cssmin"
	"golang.org/x/net/html"
)

// Options configures an Engine.
type Options struct {
	// Safelist holds class, id or type names whose selectors are always kept.
	Safelist []string
	// Minify compresses the output.
	Minify bool
}

// Engine removes unused rules from stylesheets. It is safe for concurrent
// use; all per-call state lives in Purge.
type Engine struct {
	safelist map[string]struct{}
	minify   bool
}

// New returns an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		safelist: make(map[string]struct{}, len(opts.Safelist)),
		minify:   opts.Minify,
	}
	for _, name := range opts.Safelist {
		e.safelist[strings.TrimLeft(name, ".#")] = struct{}{}
	}
	return e
}

// Purge returns css reduced to the rules used by htmlText.
func (e *Engine) Purge(htmlText, css string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	toks, err := tokenize(css)
	if err != nil {
		return "", err
	}

	m := &matcher{
		engine: e,
		root:   doc.Nodes[0],
		seen:   make(map[string]bool),
	}
	rules := m.filter(parseRules(toks))

	var b strings.Builder
	writeRules(&b, rules)
	out := b.String()
	if e.minify {
		out = string(cssmin.Minify([]byte(out)))
	}
	return out, nil
}

// matcher evaluates selectors against one document.
type matcher struct {
	engine *Engine
	root   *html.Node
	seen   map[string]bool
}

func (m *matcher) filter(rules []*rule) []*rule {
	kept := make([]*rule, 0, len(rules))
	for _, r := range rules {
		switch {
		case r.grouping():
			r.children = m.filter(r.children)
			if len(r.children) == 0 {
				continue
			}
		case r.atName != "":
			// @font-face, @keyframes, @import and friends stay as written.
		default:
			var live []tokenstream
			for _, sel := range splitSelectors(r.prelude) {
				if m.used(sel) {
					live = append(live, sel)
				}
			}
			if len(live) == 0 {
				continue
			}
			r.prelude = joinSelectors(live)
		}
		kept = append(kept, r)
	}
	return kept
}

func (m *matcher) used(sel tokenstream) bool {
	for _, name := range selectorNames(sel) {
		if _, ok := m.engine.safelist[name]; ok {
			return true
		}
	}

	query := staticSelector(sel)
	if query == "" {
		return true
	}
	if used, ok := m.seen[query]; ok {
		return used
	}

	used := true
	if compiled, err := cascadia.Compile(query); err == nil {
		used = compiled.MatchFirst(m.root) != nil
	}
	m.seen[query] = used
	return used
}
