package export

import "fmt"

// Document names and extensions.
const (
	IndexName     = "conversation_list.md"
	MarkdownExt   = ".md"
	HTMLExt       = ".html"
	contentIndent = "    "
)

// Granularity selects how date folders are derived from the update timestamp.
type Granularity string

// Supported folder granularities.
const (
	GranularityMonth Granularity = "month" // YYYY-MM
	GranularityDay   Granularity = "day"   // YYYY-MM-DD
)

// layout returns the time layout for folder names. The zero value means month.
func (g Granularity) layout() string {
	if g == GranularityDay {
		return "2006-01-02"
	}
	return "2006-01"
}

// Precision selects the resolution of timestamps in conversation documents.
type Precision string

// Supported timestamp precisions.
const (
	PrecisionMinute Precision = "minute"
	PrecisionSecond Precision = "second"
)

// layout returns the time layout for headers and message lines.
// The zero value means minute.
func (p Precision) layout() string {
	if p == PrecisionSecond {
		return "01/02/06 15:04:05"
	}
	return "01/02/06 15:04"
}

// Options control rendering. The zero value renders raw names into a flat
// directory with minute timestamps; DefaultOptions turns name escaping on.
type Options struct {
	// UseFullName replaces sender identifiers with display names from the
	// user directory when an entry exists.
	UseFullName bool
	// OrganizeByDate places conversation documents in folders derived from
	// their update timestamp.
	OrganizeByDate    bool
	FolderGranularity Granularity
	Precision         Precision
	// EscapeNames escapes conversation names wherever they are emitted.
	EscapeNames bool
	// Frontmatter prefixes conversation documents with YAML metadata.
	Frontmatter bool
	// HTML writes a sanitized .html companion next to every document.
	HTML bool
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{
		FolderGranularity: GranularityMonth,
		Precision:         PrecisionMinute,
		EscapeNames:       true,
	}
}

// Validate rejects unknown granularity and precision values.
func (o Options) Validate() error {
	switch o.FolderGranularity {
	case "", GranularityMonth, GranularityDay:
	default:
		return fmt.Errorf("unknown folder granularity %q", o.FolderGranularity)
	}
	switch o.Precision {
	case "", PrecisionMinute, PrecisionSecond:
	default:
		return fmt.Errorf("unknown timestamp precision %q", o.Precision)
	}
	return nil
}
