package entity

// StylesheetRef is an absolute URL of a stylesheet linked from a page.
type StylesheetRef struct {
	URL string
	// Href is the attribute value as written in the document.
	Href string
}

// ReferenceOutcome is the result of running the purge pipeline for one
// reference. Exactly one of Artifact and SkipReason is set.
type ReferenceOutcome struct {
	Ref        StylesheetRef
	Artifact   *Artifact
	SkipReason string
}

// Produced reports whether the reference yielded an artifact.
func (o ReferenceOutcome) Produced() bool {
	return o.Artifact != nil
}

// SourceDocument is a fetched page and the stylesheets it links, in
// document order. It lives for one request only.
type SourceDocument struct {
	URL         string
	HTML        string
	Stylesheets []StylesheetRef
}
