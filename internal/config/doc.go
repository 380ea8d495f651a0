// Package config provides configuration structures and utilities for
// exhibitfetch. It defines the run options for scanning a filing page,
// per-filing overrides loaded from the .exhibitfetch file, and report
// generation preferences.
package config
