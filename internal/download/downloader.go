package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/exhibitfetch/internal/fetcher"
	"github.com/nao1215/exhibitfetch/internal/model"
)

// DefaultChunkSize is the buffer size for streaming document bodies.
const DefaultChunkSize = 64 * 1024

// partSuffix marks an in-progress transfer. The temporary file is
// renamed into place only after the full body has been written, so a
// crash mid-transfer never leaves a truncated file under the final name.
const partSuffix = ".part"

// Downloader streams resolved documents into the output directory.
// It is scoped to a single run: the set of already-handled document
// URLs lives on the Downloader, so two exhibit pages resolving to the
// same PDF produce one transfer.
//
// Design decision: dedup is keyed on the resolved document URL, not the
// derived filename, because:
//  1. Two distinct documents can slug to the same filename and must both
//     be written (the identifier suffix keeps them apart).
//  2. The same document linked from two exhibit pages must be fetched
//     once regardless of which title each page gave it.
type Downloader struct {
	fetcher    *fetcher.Fetcher
	outDir     string
	chunkSize  int
	sizeProbe  bool
	maxSlugLen int
	logger     *slog.Logger
	seen       map[string]bool
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithChunkSize sets the streaming buffer size in bytes.
func WithChunkSize(n int) Option {
	return func(d *Downloader) {
		if n > 0 {
			d.chunkSize = n
		}
	}
}

// WithSizeProbe enables or disables the HEAD-based skip of files that
// already exist locally with the remote's exact size.
func WithSizeProbe(enabled bool) Option {
	return func(d *Downloader) {
		d.sizeProbe = enabled
	}
}

// WithMaxSlugLen sets the maximum slug length used for filenames.
func WithMaxSlugLen(n int) Option {
	return func(d *Downloader) {
		if n > 0 {
			d.maxSlugLen = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDownloader creates a Downloader writing into outDir.
func NewDownloader(f *fetcher.Fetcher, outDir string, opts ...Option) *Downloader {
	d := &Downloader{
		fetcher:    f,
		outDir:     outDir,
		chunkSize:  DefaultChunkSize,
		sizeProbe:  true,
		maxSlugLen: DefaultMaxSlugLen,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		seen:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches pdfURL into the output directory under a name derived
// from title. The returned result always carries the target path and the
// outcome; the error is non-nil only for OutcomeFailed.
func (d *Downloader) Download(ctx context.Context, pdfURL, title string) (model.DownloadResult, error) {
	result := model.DownloadResult{
		PDFURL:     pdfURL,
		Title:      title,
		DocumentID: DocumentID(pdfURL),
	}

	if d.seen[pdfURL] {
		result.Outcome = model.OutcomeDuplicate
		d.logger.Debug("document already handled in this run", "url", pdfURL)
		return result, nil
	}

	name := Filename(title, pdfURL, d.maxSlugLen)
	result.Path = filepath.Join(d.outDir, name)

	if d.sizeProbe {
		if skipped, size := d.alreadyComplete(ctx, pdfURL, result.Path); skipped {
			d.seen[pdfURL] = true
			result.Outcome = model.OutcomeSkipped
			result.Size = size
			d.logger.Debug("local file matches remote size, skipping",
				"path", result.Path, "size", size)
			return result, nil
		}
	}

	size, err := d.stream(ctx, pdfURL, result.Path)
	if err != nil {
		result.Outcome = model.OutcomeFailed
		result.Error = err.Error()
		return result, err
	}

	d.seen[pdfURL] = true
	result.Outcome = model.OutcomeDownloaded
	result.Size = size
	return result, nil
}

// alreadyComplete reports whether the file at path exists with exactly
// the remote document's size. A failed probe or an unknown remote size
// never suppresses the transfer.
func (d *Downloader) alreadyComplete(ctx context.Context, pdfURL, path string) (bool, int64) {
	remote := d.fetcher.Probe(ctx, pdfURL)
	if remote < 0 {
		return false, 0
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, 0
	}
	if info.Size() != remote {
		return false, 0
	}
	return true, remote
}

// stream writes the document body to path via a temporary ".part" file
// and an atomic rename, returning the number of bytes written.
func (d *Downloader) stream(ctx context.Context, pdfURL, path string) (int64, error) {
	if err := os.MkdirAll(d.outDir, 0o750); err != nil {
		return 0, fmt.Errorf("failed to create output directory %s: %w", d.outDir, err)
	}

	body, err := d.fetcher.Download(ctx, pdfURL)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck // read side, best effort

	tmpPath := path + partSuffix
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file %s: %w", tmpPath, err)
	}

	written, err := io.CopyBuffer(tmp, body, make([]byte, d.chunkSize))
	if err != nil {
		tmp.Close()          //nolint:errcheck // already failing
		os.Remove(tmpPath)   //nolint:errcheck // best effort cleanup
		return 0, fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // best effort cleanup
		return 0, fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // best effort cleanup
		return 0, fmt.Errorf("failed to rename %s to %s: %w", tmpPath, path, err)
	}
	return written, nil
}
