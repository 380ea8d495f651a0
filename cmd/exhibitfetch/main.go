// Package main provides the entry point for the exhibitfetch CLI.
//
// exhibitfetch scans an FCC equipment filing page, finds its PDF
// exhibit sub-pages, and downloads each exhibit document exactly once.
//
// Usage:
//
//	exhibitfetch fetch <filing-url>
//	exhibitfetch history
//
// See --help for all available options.
package main

// main is the entry point for exhibitfetch.
func main() {
	Execute()
}
