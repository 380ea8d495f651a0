package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// FilingConfig holds overrides for a single filing.
// This allows customizing scrape behavior per document host section,
// e.g. a longer delay for a rate-limited filing or a different marker
// phrase for a host that labels exhibits differently.
type FilingConfig struct {
	// MarkerPhrase overrides the global marker phrase for this filing.
	MarkerPhrase string `yaml:"markerPhrase,omitempty"`

	// OutputDir overrides the global output directory for this filing.
	OutputDir string `yaml:"outputDir,omitempty"`

	// FetchDelay overrides the global delay between exhibit page fetches.
	FetchDelay time.Duration `yaml:"fetchDelay,omitempty"`

	// Cookie is an HTTP cookie to send when fetching this filing.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this filing.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// UnmarshalYAML decodes a filing entry, parsing fetchDelay from a Go
// duration string such as "400ms" or "1s". The yaml package cannot
// decode duration strings into time.Duration on its own.
func (fc *FilingConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawFilingConfig struct {
		MarkerPhrase string            `yaml:"markerPhrase,omitempty"`
		OutputDir    string            `yaml:"outputDir,omitempty"`
		FetchDelay   string            `yaml:"fetchDelay,omitempty"`
		Cookie       string            `yaml:"cookie,omitempty"`
		Headers      map[string]string `yaml:"headers,omitempty"`
	}

	var raw rawFilingConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	fc.MarkerPhrase = raw.MarkerPhrase
	fc.OutputDir = raw.OutputDir
	fc.Cookie = raw.Cookie
	fc.Headers = raw.Headers

	if raw.FetchDelay != "" {
		d, err := time.ParseDuration(raw.FetchDelay)
		if err != nil {
			return fmt.Errorf("invalid fetchDelay %q: %w", raw.FetchDelay, err)
		}
		fc.FetchDelay = d
	}

	return nil
}

// File represents the structure of the .exhibitfetch configuration file.
type File struct {
	// Filings maps filing identifiers (the trailing path segment of the
	// filing URL, e.g. "BCG-E8726A") to their overrides.
	Filings map[string]FilingConfig `yaml:"filings,omitempty"`

	// Defaults contains overrides applied to every filing unless the
	// filing-specific entry overrides them again.
	Defaults FilingConfig `yaml:"defaults,omitempty"`
}

// GetFilingConfig returns the configuration for a specific filing ID,
// merging the filing-specific entry over the defaults.
func (cf *File) GetFilingConfig(filingID string) FilingConfig {
	result := cf.Defaults

	if fc, ok := cf.Filings[filingID]; ok {
		if fc.MarkerPhrase != "" {
			result.MarkerPhrase = fc.MarkerPhrase
		}
		if fc.OutputDir != "" {
			result.OutputDir = fc.OutputDir
		}
		if fc.FetchDelay != 0 {
			result.FetchDelay = fc.FetchDelay
		}
		if fc.Cookie != "" {
			result.Cookie = fc.Cookie
		}
		if len(fc.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range fc.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
