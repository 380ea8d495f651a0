package download

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxSlugLen is the maximum length of a generated slug in bytes.
const DefaultMaxSlugLen = 120

// fallbackSlug is used when the input title produces an empty slug.
const fallbackSlug = "exhibit"

var (
	// asciiFold decomposes accented characters and drops the combining
	// marks along with any remaining non-ASCII runes, so "Schéma" folds
	// to "Schema" rather than being stripped entirely.
	asciiFold = transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)

	disallowedChars = regexp.MustCompile(`[^\w\s.\-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	idBeforePDF     = regexp.MustCompile(`(?i)(\d+)\.pdf$`)
	trailingDigits  = regexp.MustCompile(`(\d+)$`)
)

// Slug converts a free-form exhibit title into a filesystem-safe name.
// The title is folded to ASCII, stripped of characters outside word
// characters, whitespace, dots and hyphens, and whitespace runs collapse
// to a single underscore. An empty result becomes "exhibit". maxLen
// bounds the slug length in bytes; non-positive values fall back to
// DefaultMaxSlugLen.
func Slug(title string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxSlugLen
	}

	s, _, err := transform.String(asciiFold, title)
	if err != nil {
		s = title
	}
	s = disallowedChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespaceRuns.ReplaceAllString(s, "_")
	if s == "" {
		s = fallbackSlug
	}
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// DocumentID extracts a numeric document identifier from a PDF URL.
// It prefers digits immediately preceding the ".pdf" extension and
// falls back to a trailing digit run in the final path segment's stem.
// URLs without a usable digit run yield an empty string.
func DocumentID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	if m := idBeforePDF.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}

	stem := path.Base(u.Path)
	if ext := path.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}
	if m := trailingDigits.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return ""
}

// Filename builds the local filename for a document: the slugged title,
// an optional "-<id>" suffix when the URL carries a document identifier,
// and the URL's extension (".pdf" when the URL has none).
func Filename(title, rawURL string, maxLen int) string {
	name := Slug(title, maxLen)
	if id := DocumentID(rawURL); id != "" {
		name += "-" + id
	}

	ext := ".pdf"
	if u, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = strings.ToLower(e)
		}
	}
	return name + ext
}
