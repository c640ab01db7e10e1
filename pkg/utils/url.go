package utils

import (
	"net/url"
	"path"
	"strings"
)

// ToAbsoluteURL converts a reference to an absolute URL given a base URL.
// A reference that already carries a scheme is returned verbatim.
func ToAbsoluteURL(base *url.URL, ref string) (string, error) {
	relURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if relURL.IsAbs() {
		return ref, nil
	}
	return base.ResolveReference(relURL).String(), nil
}

// ArtifactName derives the output file name for a stylesheet URL: the last
// segment of the escaped path without query string, joined to prefix.
// Trailing slashes are ignored, so ".../assets/" names "assets". A path with
// no segment at all uses fallback.
func ArtifactName(rawURL, prefix, fallback string) string {
	return prefix + baseName(rawURL, fallback)
}

func baseName(rawURL, fallback string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.EscapedPath()
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return fallback
	}
	name := path.Base(p)
	if name == "" || name == "." || name == ".." || name == "/" {
		return fallback
	}
	return name
}
