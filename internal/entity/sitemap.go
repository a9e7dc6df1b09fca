package entity

import (
	"fmt"
	"time"
)

// URLRecord is one <url> entry of the sitemap.
type URLRecord struct {
	Location        string
	LastModified    time.Time
	ChangeFrequency string // Optional, empty when absent
	Priority        string // Optional, empty when absent
}

// Diagnostic reports a recoverable per-item problem.
type Diagnostic struct {
	Path  string
	Field string
	Value any
	Err   error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %v", d.Path, d.Field, d.Err)
}

// Document is a rendered sitemap.
type Document struct {
	RunID       string
	Filename    string
	Content     []byte
	ETag        string
	URLCount    int
	GeneratedAt time.Time

	// Problems found while assembling, not persisted.
	Diagnostics []Diagnostic
}
