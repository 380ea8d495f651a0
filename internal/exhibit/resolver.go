package exhibit

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/exhibitfetch/internal/model"
)

// pdfExtension is the document extension the resolver looks for.
const pdfExtension = ".pdf"

// Resolver locates the concrete document URL on an exhibit page.
//
// The fallback chain is strict, in priority order:
//  1. first anchor whose href ends in ".pdf"
//  2. first anchor whose href contains "download"
//  3. first iframe or embed whose src ends in ".pdf" or contains "download"
//
// All comparisons are case-insensitive; each rule considers the whole
// document, so a direct .pdf anchor late in the page still beats a
// "download" anchor early in it.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve parses an exhibit page and applies the fallback chain.
// A page without any match yields Resolution{Found: false} and a nil
// error; only unparseable input or a bad page URL is an error.
func (r *Resolver) Resolve(pageURL string, content io.Reader) (model.Resolution, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return model.Resolution{}, err
	}

	doc, err := html.Parse(content)
	if err != nil {
		return model.Resolution{}, err
	}

	// One walk collects the first match for each rule; priority is
	// applied afterwards.
	var pdfAnchor, downloadAnchor, frameSource string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if href := getAttr(n, "href"); href != "" {
					lower := strings.ToLower(href)
					if pdfAnchor == "" && strings.HasSuffix(lower, pdfExtension) {
						pdfAnchor = href
					}
					if downloadAnchor == "" && strings.Contains(lower, "download") {
						downloadAnchor = href
					}
				}
			case "iframe", "embed":
				if src := getAttr(n, "src"); src != "" && frameSource == "" {
					lower := strings.ToLower(src)
					if strings.HasSuffix(lower, pdfExtension) || strings.Contains(lower, "download") {
						frameSource = src
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, candidate := range []string{pdfAnchor, downloadAnchor, frameSource} {
		if candidate == "" {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(candidate))
		if err != nil {
			continue
		}
		return model.Resolution{URL: base.ResolveReference(u).String(), Found: true}, nil
	}

	return model.Resolution{Found: false}, nil
}
