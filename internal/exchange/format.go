// Package exchange reads and writes transactions as CSV and JSON files.
package exchange

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an import/export file format.
type Format string

// Formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatOFX  Format = "ofx"
)

// DateLayout is the timestamp layout written to exports.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// DetectFormat picks the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".ofx", ".qfx":
		return FormatOFX, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (want .csv, .json, .ofx or .qfx)", filepath.Ext(path))
	}
}

// ParseFormat resolves a format name given on the command line.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or json)", name)
	}
}
