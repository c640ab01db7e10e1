package csspurge

import (
	"errors"
	"strings"

	"github.com/speedata/css/scanner"
)

// tokenstream is a list of CSS tokens
type tokenstream []*scanner.Token

var commaToken = &scanner.Token{Type: scanner.Delim, Value: ","}

// tokenize returns the significant tokens of css. Comments and HTML comment
// markers are dropped.
//
// Quoted strings are cut out before scanning because the scanner ends a
// string at the first matching quote, even an escaped one. Their tokens
// carry the literal source text, quotes included.
func tokenize(css string) (tokenstream, error) {
	var toks tokenstream
	start := 0
	for i := 0; i < len(css); i++ {
		switch c := css[i]; {
		case c == '\\':
			i++
		case c == '/' && i+1 < len(css) && css[i+1] == '*':
			end := strings.Index(css[i+2:], "*/")
			if end < 0 {
				// The scanner reports the unclosed comment.
				i = len(css)
				break
			}
			i += end + 3
		case c == '"' || c == '\'':
			end := stringEnd(css, i)
			if end < 0 {
				return nil, errors.New("css syntax error near " + css[i:min(len(css), i+20)])
			}
			seg, err := scan(css[start:i])
			if err != nil {
				return nil, err
			}
			toks = append(toks, seg...)
			toks = append(toks, &scanner.Token{Type: scanner.String, Value: css[i : end+1]})
			start = end + 1
			i = end
		}
	}
	seg, err := scan(css[start:])
	if err != nil {
		return nil, err
	}
	return append(toks, seg...), nil
}

// stringEnd returns the index of the quote closing the string that opens
// at css[open], or -1 if a raw newline or the end of input comes first.
func stringEnd(css string, open int) int {
	q := css[open]
	for j := open + 1; j < len(css); j++ {
		switch css[j] {
		case '\\':
			j++
		case '\n', '\r', '\f':
			return -1
		case q:
			return j
		}
	}
	return -1
}

func scan(css string) (tokenstream, error) {
	s := scanner.New(css)
	var toks tokenstream
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.EOF:
			return toks, nil
		case scanner.Error:
			return nil, errors.New("css syntax error near " + tok.Value)
		case scanner.Comment, scanner.CDO, scanner.CDC, scanner.BOM:
			continue
		}
		toks = append(toks, tok)
	}
}

func isDelim(t *scanner.Token, v string) bool {
	return t.Type == scanner.Delim && t.Value == v
}

func trimSpace(toks tokenstream) tokenstream {
	for len(toks) > 0 && toks[0].Type == scanner.S {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].Type == scanner.S {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// text renders a token back to CSS source. Escapes the scanner decoded are
// written out again as hex escapes.
func text(t *scanner.Token) string {
	switch t.Type {
	case scanner.S:
		return " "
	case scanner.String:
		return t.Value
	}
	var b strings.Builder
	// Emit only fails for Error and EOF tokens, which tokenize never keeps.
	_ = t.Emit(&b)
	return b.String()
}

func (toks tokenstream) String() string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(text(t))
	}
	return b.String()
}
