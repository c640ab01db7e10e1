package entity

// Artifact is a purged stylesheet that was written to the output directory.
type Artifact struct {
	Name string `json:"name"`
	URL  string `json:"url"` // root-relative public path
}

// SkippedRef records a stylesheet reference that produced no artifact.
type SkippedRef struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// PurgeResult is the outcome of one purge request, in discovery order.
type PurgeResult struct {
	Artifacts []Artifact
	Skipped   []SkippedRef
}
