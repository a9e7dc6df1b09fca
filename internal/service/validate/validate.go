// Package validate checks optional sitemap fields against the values the
// sitemap protocol allows.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jgivc/sitemapgen/internal/common"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ChangeFrequency string

const (
	Always  ChangeFrequency = "always"
	Hourly  ChangeFrequency = "hourly"
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
	Yearly  ChangeFrequency = "yearly"
	Never   ChangeFrequency = "never"

	minPriority = 0.0
	maxPriority = 1.0
)

// decimalRegexp is the xsd:decimal lexical form without a sign, priorities are never negative.
var decimalRegexp = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

var changeFrequencies = map[ChangeFrequency]struct{}{
	Always:  {},
	Hourly:  {},
	Daily:   {},
	Weekly:  {},
	Monthly: {},
	Yearly:  {},
	Never:   {},
}

// ChangeFrequencyOf returns the lower-cased change frequency for v.
func ChangeFrequencyOf(v any) (ChangeFrequency, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %v is not a string", common.ErrInvalidChangeFrequency, v)
	}

	cf := ChangeFrequency(cases.Lower(language.Und).String(s))
	if _, exists := changeFrequencies[cf]; !exists {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidChangeFrequency, s)
	}

	return cf, nil
}

// Priority returns the text to emit for v. Strings are kept as written,
// numbers are printed in their shortest form.
func Priority(v any) (string, error) {
	var (
		f    float64
		text string
	)

	switch p := v.(type) {
	case string:
		text = strings.TrimSpace(p)

		if !decimalRegexp.MatchString(text) {
			return "", fmt.Errorf("%w: %q is not a decimal", common.ErrInvalidPriority, p)
		}

		var err error
		if f, err = strconv.ParseFloat(text, 64); err != nil {
			return "", fmt.Errorf("%w: %q is not a number", common.ErrInvalidPriority, p)
		}
	case float64:
		f = p
	case float32:
		f = float64(p)
	case int:
		f = float64(p)
	case int64:
		f = float64(p)
	case uint64:
		f = float64(p)
	default:
		return "", fmt.Errorf("%w: %v is not a number", common.ErrInvalidPriority, v)
	}

	if math.IsNaN(f) || f < minPriority || f > maxPriority {
		return "", fmt.Errorf("%w: %v is out of [0.0, 1.0]", common.ErrInvalidPriority, v)
	}

	if text == "" {
		text = strconv.FormatFloat(f, 'f', -1, 64)
	}

	return text, nil
}
