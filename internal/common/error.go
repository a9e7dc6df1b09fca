package common

import "fmt"

var (
	ErrSourceNotFound         = fmt.Errorf("source file not found")
	ErrLayoutNotFound         = fmt.Errorf("layout not found")
	ErrLayoutCycle            = fmt.Errorf("layout chain cycle")
	ErrInvalidChangeFrequency = fmt.Errorf("invalid change frequency")
	ErrInvalidPriority        = fmt.Errorf("invalid priority")
	ErrOutputWrite            = fmt.Errorf("cannot write sitemap")
	ErrSitemapNotFound        = fmt.Errorf("sitemap not found")
	ErrInvalidConfig          = fmt.Errorf("invalid config")
)
