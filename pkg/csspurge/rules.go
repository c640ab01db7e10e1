package csspurge

import (
	"strings"

	"github.com/speedata/css/scanner"
)

// groupingRules contain rule lists that are purged like the top level.
var groupingRules = map[string]bool{
	"media":          true,
	"supports":       true,
	"container":      true,
	"layer":          true,
	"document":       true,
	"-moz-document":  true,
	"starting-style": true,
}

// rule is one node of a stylesheet. Style rules have an empty atName.
type rule struct {
	atName   string
	prelude  tokenstream // selector list, or the at-rule prelude
	hasBlock bool
	block    tokenstream // declarations, for non-grouping rules
	children []*rule     // nested rules, for grouping at-rules
}

func (r *rule) grouping() bool {
	return r.hasBlock && groupingRules[r.atName]
}

// parseRules splits a token list into top level rules.
func parseRules(toks tokenstream) []*rule {
	var rules []*rule
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Type == scanner.S || isDelim(t, ";") || isDelim(t, "}") {
			i++
			continue
		}

		end := preludeEnd(toks, i)
		r := &rule{}
		if t.Type == scanner.AtKeyword {
			r.atName = strings.ToLower(strings.TrimPrefix(t.Value, "@"))
			r.prelude = trimSpace(toks[i+1 : end])
		} else {
			r.prelude = trimSpace(toks[i:end])
		}

		if end == len(toks) || isDelim(toks[end], ";") {
			// Only at-rules may end without a block.
			if r.atName != "" {
				rules = append(rules, r)
			}
			i = end + 1
			continue
		}

		inner, next := blockContents(toks, end)
		r.hasBlock = true
		if r.grouping() {
			r.children = parseRules(inner)
		} else {
			r.block = trimSpace(inner)
		}
		rules = append(rules, r)
		i = next
	}
	return rules
}

// preludeEnd returns the index of the "{" or ";" that ends the prelude
// starting at i, ignoring those nested in parentheses or brackets.
func preludeEnd(toks tokenstream, i int) int {
	depth := 0
	for ; i < len(toks); i++ {
		t := toks[i]
		if t.Type == scanner.Function {
			depth++
			continue
		}
		if t.Type != scanner.Delim {
			continue
		}
		switch t.Value {
		case "(", "[":
			depth++
		case ")", "]":
			if depth > 0 {
				depth--
			}
		case "{", ";":
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks)
}

// blockContents returns the tokens between the "{" at open and its
// matching "}", and the index after that brace. An unclosed block runs to
// the end of the input.
func blockContents(toks tokenstream, open int) (tokenstream, int) {
	level := 0
	for k := open; k < len(toks); k++ {
		if toks[k].Type != scanner.Delim {
			continue
		}
		switch toks[k].Value {
		case "{":
			level++
		case "}":
			level--
			if level == 0 {
				return toks[open+1 : k], k + 1
			}
		}
	}
	return toks[open+1:], len(toks)
}

func writeRules(b *strings.Builder, rules []*rule) {
	for _, r := range rules {
		r.write(b)
	}
}

func (r *rule) write(b *strings.Builder) {
	if r.atName != "" {
		b.WriteString("@" + r.atName)
		if len(r.prelude) > 0 {
			b.WriteByte(' ')
		}
	}
	b.WriteString(r.prelude.String())
	if !r.hasBlock {
		b.WriteString(";")
		return
	}
	b.WriteString("{")
	if r.grouping() {
		writeRules(b, r.children)
	} else {
		b.WriteString(r.block.String())
	}
	b.WriteString("}")
}
