// Package fetcher performs the HTTP requests exhibitfetch needs: HTML page
// fetches, HEAD size probes, and streamed binary downloads. Failures are
// classified into transport and status kinds so callers can report them
// precisely without retrying.
package fetcher
