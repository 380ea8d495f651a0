package exhibit

import (
	"strings"
	"testing"
)

// TestResolver tests the document URL fallback chain on exhibit pages.
func TestResolver(t *testing.T) {
	t.Parallel()

	pageURL := "https://fccid.io/BCG-E8726A/Internal-Photos"

	t.Run("direct pdf anchor wins", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/downloads/viewer?id=1">Download</a>
			<a href="/pdfs/internal-photos-8024702.pdf">View PDF</a>
		</body></html>`

		res, err := NewResolver().Resolve(pageURL, strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}

		if !res.Found {
			t.Fatal("expected a resolution")
		}
		if res.URL != "https://fccid.io/pdfs/internal-photos-8024702.pdf" {
			t.Errorf("unexpected URL %q", res.URL)
		}
	})

	t.Run("pdf anchor late in page beats earlier download anchor", func(t *testing.T) {
		t.Parallel()

		// Rule priority is document-wide, not first-match-in-order.
		html := `<html><body>
			<a href="/dl/download.cgi?id=9">Download</a>
			<p>lots of text</p>
			<a href="report.pdf">report</a>
		</body></html>`

		res, err := NewResolver().Resolve(pageURL, strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}

		if !res.Found {
			t.Fatal("expected a resolution")
		}
		if !strings.HasSuffix(res.URL, "/BCG-E8726A/report.pdf") {
			t.Errorf("expected the .pdf anchor to win, got %q", res.URL)
		}
	})

	t.Run("download anchor used when no pdf anchor exists", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/dl/download.cgi?id=9">Get the file</a>
		</body></html>`

		res, err := NewResolver().Resolve(pageURL, strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}

		if !res.Found {
			t.Fatal("expected a resolution")
		}
		if res.URL != "https://fccid.io/dl/download.cgi?id=9" {
			t.Errorf("unexpected URL %q", res.URL)
		}
	})

	t.Run("iframe src is the last fallback", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/BCG-E8726A">Back</a>
			<iframe src="/viewer/embed-1234.pdf"></iframe>
		</body></html>`

		res, err := NewResolver().Resolve(pageURL, strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}

		if !res.Found {
			t.Fatal("expected a resolution")
		}
		if res.URL != "https://fccid.io/viewer/embed-1234.pdf" {
			t.Errorf("unexpected URL %q", res.URL)
		}
	})

	t.Run("embed element is also accepted", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<embed src="/files/download?id=77" type="application/pdf">
		</body></html>`

		res, err := NewResolver().Resolve(pageURL, strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}

		if !res.Found {
			t.Fatal("expected a resolution")
		}
		if res.URL != "https://fccid.io/files/download?id=77" {
			t.Errorf("unexpected URL %q", res.URL)
		}
	})

	t.Run("case-insensitive matching", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/pdfs/MANUAL.PDF">manual</a>
		</body></html>`

		res, err := NewResolver().Resolve(pageURL, strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}

		if !res.Found {
			t.Fatal("expected a resolution")
		}
		if res.URL != "https://fccid.io/pdfs/MANUAL.PDF" {
			t.Errorf("original casing must be preserved, got %q", res.URL)
		}
	})

	t.Run("no match yields Found false without error", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/BCG-E8726A">Back to filing</a>
			<p>Nothing to see here.</p>
		</body></html>`

		res, err := NewResolver().Resolve(pageURL, strings.NewReader(html))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if res.Found {
			t.Errorf("expected no resolution, got %q", res.URL)
		}
	})
}
