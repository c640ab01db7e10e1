package csspurge

import (
	"strings"

	"github.com/speedata/css/scanner"
)

// Pseudo-classes that depend on user interaction or browser state and can
// never be observed in static markup.
var dynamicPseudoClasses = map[string]bool{
	"hover":             true,
	"focus":             true,
	"focus-within":      true,
	"focus-visible":     true,
	"active":            true,
	"visited":           true,
	"link":              true,
	"any-link":          true,
	"target":            true,
	"target-within":     true,
	"checked":           true,
	"indeterminate":     true,
	"valid":             true,
	"invalid":           true,
	"user-valid":        true,
	"user-invalid":      true,
	"in-range":          true,
	"out-of-range":      true,
	"placeholder-shown": true,
	"autofill":          true,
	"fullscreen":        true,
	"modal":             true,
	"popover-open":      true,
	"open":              true,
	"closed":            true,
	"playing":           true,
	"paused":            true,
	"defined":           true,
}

// Pseudo-elements that older stylesheets write with a single colon.
var legacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
	"selection":    true,
	"placeholder":  true,
	"marker":       true,
	"backdrop":     true,
}

// splitSelectors splits a selector list at top level commas.
func splitSelectors(toks tokenstream) []tokenstream {
	var out []tokenstream
	depth, start := 0, 0
	for i, t := range toks {
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
		case ",":
			if depth == 0 {
				if sel := trimSpace(toks[start:i]); len(sel) > 0 {
					out = append(out, sel)
				}
				start = i + 1
			}
		}
	}
	if sel := trimSpace(toks[start:]); len(sel) > 0 {
		out = append(out, sel)
	}
	return out
}

func joinSelectors(sels []tokenstream) tokenstream {
	var out tokenstream
	for i, sel := range sels {
		if i > 0 {
			out = append(out, commaToken)
		}
		out = append(out, sel...)
	}
	return out
}

// staticSelector returns sel as text with dynamic pseudo-classes and
// pseudo-elements removed, so that it can be matched against markup.
func staticSelector(sel tokenstream) string {
	var parts []string
	for i := 0; i < len(sel); i++ {
		t := sel[i]
		if !isDelim(t, ":") {
			parts = append(parts, text(t))
			continue
		}

		j := i + 1
		element := false
		if j < len(sel) && isDelim(sel[j], ":") {
			element = true
			j++
		}
		if j >= len(sel) {
			parts = append(parts, text(t))
			continue
		}

		name := sel[j]
		var pseudo string
		switch name.Type {
		case scanner.Ident:
			pseudo = strings.ToLower(name.Value)
		case scanner.Function:
			pseudo = strings.ToLower(strings.TrimSuffix(name.Value, "("))
		default:
			parts = append(parts, text(t))
			continue
		}

		if !element && !dynamicPseudoClasses[pseudo] && !legacyPseudoElements[pseudo] && !strings.HasPrefix(pseudo, "-") {
			parts = append(parts, text(t))
			continue
		}

		end := j + 1
		if name.Type == scanner.Function {
			end = closingParen(sel, j+1)
		}
		if needsUniversal(parts) {
			parts = append(parts, "*")
		}
		i = end - 1
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// closingParen returns the index after the ")" that closes a function
// whose arguments start at i.
func closingParen(toks tokenstream, i int) int {
	depth := 1
	for ; i < len(toks); i++ {
		t := toks[i]
		if t.Type == scanner.Function {
			depth++
			continue
		}
		if isDelim(t, "(") {
			depth++
		} else if isDelim(t, ")") {
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(toks)
}

// needsUniversal reports whether removing a pseudo here would leave an
// empty compound selector.
func needsUniversal(parts []string) bool {
	if len(parts) == 0 {
		return true
	}
	switch strings.TrimSpace(parts[len(parts)-1]) {
	case "", ">", "+", "~":
		return true
	}
	return false
}

// selectorNames returns the class, id and type names a selector mentions.
func selectorNames(sel tokenstream) []string {
	var names []string
	compoundStart := true
	for i, t := range sel {
		switch {
		case t.Type == scanner.Hash:
			names = append(names, strings.TrimPrefix(t.Value, "#"))
		case t.Type == scanner.Ident && i > 0 && isDelim(sel[i-1], "."):
			names = append(names, t.Value)
		case t.Type == scanner.Ident && compoundStart:
			names = append(names, strings.ToLower(t.Value))
		}
		compoundStart = t.Type == scanner.S || isDelim(t, ">") || isDelim(t, "+") || isDelim(t, "~")
	}
	return names
}
