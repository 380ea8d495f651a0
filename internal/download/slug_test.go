package download

import (
	"strings"
	"testing"
)

// TestSlug tests filename slug derivation from exhibit titles.
func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		title  string
		maxLen int
		want   string
	}{
		{
			name:  "plain title",
			title: "Internal Photos",
			want:  "Internal_Photos",
		},
		{
			name:  "strips unsafe characters",
			title: `Cover Letter (rev. 2) <final>`,
			want:  "Cover_Letter_rev._2_final",
		},
		{
			name:  "folds accents to ascii",
			title: "Schéma électrique",
			want:  "Schema_electrique",
		},
		{
			name:  "collapses whitespace runs",
			title: "Test   Report \t Part\n15",
			want:  "Test_Report_Part_15",
		},
		{
			name:  "empty title falls back",
			title: "",
			want:  "exhibit",
		},
		{
			name:  "only unsafe characters falls back",
			title: "///***!!!",
			want:  "exhibit",
		},
		{
			name:   "truncates to max length",
			title:  strings.Repeat("a", 200),
			maxLen: 10,
			want:   strings.Repeat("a", 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Slug(tt.title, tt.maxLen)
			if got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}

	t.Run("default max length applies", func(t *testing.T) {
		t.Parallel()

		got := Slug(strings.Repeat("b", 500), 0)
		if len(got) != DefaultMaxSlugLen {
			t.Errorf("expected length %d, got %d", DefaultMaxSlugLen, len(got))
		}
	})
}

// TestDocumentID tests numeric identifier extraction from document URLs.
func TestDocumentID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "digits before pdf extension",
			url:  "https://fccid.io/pdfs/internal-photos-8024702.pdf",
			want: "8024702",
		},
		{
			name: "uppercase extension",
			url:  "https://fccid.io/pdfs/MANUAL-123.PDF",
			want: "123",
		},
		{
			name: "trailing digits in stem without pdf suffix",
			url:  "https://fccid.io/dl/document-4567",
			want: "4567",
		},
		{
			name: "trailing digits before non-pdf extension",
			url:  "https://fccid.io/dl/report-99.cgi",
			want: "99",
		},
		{
			name: "no digits",
			url:  "https://fccid.io/pdfs/manual.pdf",
			want: "",
		},
		{
			name: "digits only mid-segment",
			url:  "https://fccid.io/pdfs/rev2-final.pdf",
			want: "",
		},
		{
			name: "query string is ignored",
			url:  "https://fccid.io/dl/file-321?session=987",
			want: "321",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DocumentID(tt.url)
			if got != tt.want {
				t.Errorf("DocumentID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// TestFilename tests local filename construction.
func TestFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		url   string
		want  string
	}{
		{
			name:  "slug with id and pdf extension",
			title: "Internal Photos",
			url:   "https://fccid.io/pdfs/photos-8024702.pdf",
			want:  "Internal_Photos-8024702.pdf",
		},
		{
			name:  "no id in url",
			title: "Users Manual",
			url:   "https://fccid.io/pdfs/manual.pdf",
			want:  "Users_Manual.pdf",
		},
		{
			name:  "extension defaults to pdf",
			title: "Test Report",
			url:   "https://fccid.io/dl/download",
			want:  "Test_Report.pdf",
		},
		{
			name:  "non-pdf extension is kept",
			title: "Report",
			url:   "https://fccid.io/dl/report-7.cgi",
			want:  "Report-7.cgi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Filename(tt.title, tt.url, 0)
			if got != tt.want {
				t.Errorf("Filename(%q, %q) = %q, want %q", tt.title, tt.url, got, tt.want)
			}
		})
	}
}
