package model

// ExhibitLink is a candidate exhibit page discovered on the filing's root
// page. The absolute URL is the identity of the link; two anchors that
// resolve to the same URL are the same exhibit.
type ExhibitLink struct {
	// URL is the absolute URL of the exhibit page.
	URL string `json:"url"`

	// Title is the anchor's visible text, trimmed. Never empty: the
	// scanner substitutes a placeholder when the anchor has no text.
	Title string `json:"title"`
}

// Resolution is the outcome of searching an exhibit page for a concrete
// document URL.
//
// Design decision: A miss is modeled as Found=false rather than an error
// because a page without a PDF is an expected condition, not a failure.
// Callers log it and move on to the next exhibit.
type Resolution struct {
	// URL is the absolute URL of the document binary. Empty when not found.
	URL string `json:"url,omitempty"`

	// Found reports whether any of the resolver's fallback rules matched.
	Found bool `json:"found"`
}

// DownloadOutcome classifies what happened to a single download target.
type DownloadOutcome int

const (
	// OutcomeDownloaded means the file was transferred and renamed into place.
	OutcomeDownloaded DownloadOutcome = iota

	// OutcomeSkipped means a local file with the same name and byte size
	// already existed, so no transfer was performed.
	OutcomeSkipped

	// OutcomeDuplicate means the resolved URL was already downloaded
	// earlier in the same run via a different exhibit page.
	OutcomeDuplicate

	// OutcomeFailed means the transfer was attempted and failed.
	OutcomeFailed
)

// String returns the human-readable outcome name.
func (o DownloadOutcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DownloadResult records the outcome of one download target.
type DownloadResult struct {
	// ExhibitURL is the exhibit page the document was resolved from.
	ExhibitURL string `json:"exhibit_url"`

	// PDFURL is the resolved document binary URL.
	PDFURL string `json:"pdf_url"`

	// Title is the exhibit's display title.
	Title string `json:"title"`

	// Path is the local filesystem path the file was written to, or
	// would have been written to for failed downloads.
	Path string `json:"path,omitempty"`

	// Size is the number of bytes on disk after the download or skip.
	Size int64 `json:"size"`

	// DocumentID is the numeric token extracted from the document URL,
	// empty when the URL carries none.
	DocumentID string `json:"document_id,omitempty"`

	// Outcome classifies the result.
	Outcome DownloadOutcome `json:"outcome"`

	// Error is the failure message for OutcomeFailed results.
	Error string `json:"error,omitempty"`
}
