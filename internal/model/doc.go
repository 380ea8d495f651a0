// Package model defines the core data structures shared across the
// exhibitfetch pipeline: discovered exhibit links, resolved document URLs,
// download outcomes, and the per-run report.
package model
