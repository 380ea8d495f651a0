package exhibit

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/exhibitfetch/internal/model"
)

// DefaultLookaheadWindow is the number of document nodes inspected after
// an anchor when searching for the marker phrase.
const DefaultLookaheadWindow = 12

// DefaultTitle is substituted when an exhibit anchor has no visible text.
const DefaultTitle = "exhibit"

// Scanner finds exhibit links on a filing's root page.
//
// Design decision: We parse with golang.org/x/net/html rather than regex
// because:
//  1. It correctly handles the malformed HTML common on the web
//  2. The lookahead needs a real node sequence, not byte offsets
//  3. Standard library extension, well-maintained
type Scanner struct {
	// rootURL is the filing's root page, used for resolving relative hrefs
	// and for the "not the root itself" exclusion.
	rootURL *url.URL

	// filingPrefix is the path prefix an exhibit URL must fall under,
	// e.g. "/BCG-E8726A/".
	filingPrefix string

	// markerPhrase is matched case-insensitively against the lookahead text.
	markerPhrase string

	// window is the number of nodes inspected after each anchor.
	window int
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithMarkerPhrase sets the marker phrase. Matching is case-insensitive.
func WithMarkerPhrase(phrase string) ScannerOption {
	return func(s *Scanner) {
		s.markerPhrase = strings.ToLower(phrase)
	}
}

// WithLookaheadWindow sets the node window examined after each anchor.
func WithLookaheadWindow(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.window = n
		}
	}
}

// NewScanner creates a Scanner for the given filing root URL.
// Exhibit candidates must live under the root's path segment, so a root
// of "https://host/BCG-E8726A" restricts matches to "/BCG-E8726A/...".
func NewScanner(rootURL string, opts ...ScannerOption) (*Scanner, error) {
	u, err := url.Parse(rootURL)
	if err != nil {
		return nil, err
	}

	s := &Scanner{
		rootURL:      u,
		filingPrefix: strings.TrimSuffix(u.Path, "/") + "/",
		markerPhrase: "adobe acrobat pdf",
		window:       DefaultLookaheadWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Scan parses the root page and returns the exhibit links whose nearby
// text contains the marker phrase. The result is de-duplicated by
// absolute URL with first-seen order preserved.
func (s *Scanner) Scan(content io.Reader) ([]model.ExhibitLink, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	// Flatten the document into its node sequence once; the per-anchor
	// lookahead is a bounded slice walk over it.
	nodes := flatten(doc)

	links := make([]model.ExhibitLink, 0)
	seen := make(map[string]bool)

	for i, n := range nodes {
		if n.Type != html.ElementNode || n.Data != "a" {
			continue
		}
		href := getAttr(n, "href")
		if href == "" {
			continue
		}

		resolved := s.resolveURL(href)
		if resolved == "" || !s.underFiling(resolved) || s.isRoot(resolved) {
			continue
		}
		if !s.markerNearby(nodes, i) {
			continue
		}
		if seen[resolved] {
			continue
		}
		seen[resolved] = true

		title := strings.TrimSpace(nodeText(n))
		if title == "" {
			title = DefaultTitle
		}
		links = append(links, model.ExhibitLink{URL: resolved, Title: title})
	}

	return links, nil
}

// markerNearby reports whether the marker phrase appears in the combined
// text of the next window nodes after the anchor at index i, stopping
// early if another anchor element is encountered.
//
// The window bound and the anchor early-stop are load-bearing: they keep
// one exhibit row's marker from leaking into the previous row's anchor.
func (s *Scanner) markerNearby(nodes []*html.Node, i int) bool {
	var texts []string
	for j := i + 1; j <= i+s.window && j < len(nodes); j++ {
		n := nodes[j]
		if n.Type == html.ElementNode && n.Data == "a" {
			break
		}
		switch n.Type {
		case html.TextNode:
			texts = append(texts, n.Data)
		case html.ElementNode:
			texts = append(texts, nodeText(n))
		}
	}
	blob := strings.ToLower(strings.Join(texts, " "))
	return strings.Contains(blob, s.markerPhrase)
}

// underFiling reports whether an absolute URL falls under the filing's
// path segment on the same host.
func (s *Scanner) underFiling(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Host, s.rootURL.Host) {
		return false
	}
	return strings.HasPrefix(u.Path, s.filingPrefix)
}

// isRoot reports whether the URL is the root page itself, ignoring a
// trailing slash.
func (s *Scanner) isRoot(link string) bool {
	return strings.TrimSuffix(link, "/") == strings.TrimSuffix(s.rootURL.String(), "/")
}

// resolveURL resolves a relative href against the root URL.
// Non-navigational schemes are dropped.
func (s *Scanner) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		href == "#" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return s.rootURL.ResolveReference(u).String()
}

// flatten returns the document's nodes in document (pre-)order.
func flatten(doc *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		nodes = append(nodes, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return nodes
}

// nodeText returns the concatenated text of a node's descendants.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
