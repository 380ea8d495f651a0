// Package log provides slog-based logging helpers for exhibitfetch.
//
// Filing configurations may carry session cookies or authorization headers
// for hosts that gate exhibit pages. The RedactHandler keeps those values
// out of diagnostic output while leaving everything else untouched.
package log
