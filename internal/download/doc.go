// Package download derives collision-safe filenames from exhibit titles
// and streams resolved documents to the output directory.
//
// Re-run behavior: a local file whose byte size equals the remote
// Content-Length is skipped without a transfer. This size-based skip is
// the only dedup policy; enumerated "(2)" suffixes are deliberately not
// used because the two strategies are mutually exclusive ways of handling
// an existing file.
package download
