// Package normalize holds the small set of text and time helpers shared by
// reconciliation, adapters, and checks: case/whitespace folding for names
// and roles, and date-window parsing for the upstream provider contract.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Name folds a stakeholder or role name down to a comparison key: Unicode
// NFKC normalized, trimmed, collapsed internal whitespace, case-folded.
// Mirrors original_source's _norm_name (`unicodedata.normalize('NFKC',
// s).casefold()`), per spec §3's "Unicode NFKC, collapse internal
// whitespace, case-folded" name-comparison rule.
func Name(s string) string {
	folded := norm.NFKC.String(s)
	fields := strings.Fields(folded)
	return strings.ToLower(strings.Join(fields, " "))
}

// EqualFold reports whether two names normalize to the same key.
func EqualFold(a, b string) bool {
	return Name(a) == Name(b)
}

const dateLayout = "2006-01-02"

// DateWindow is a parsed "YYYY-MM-DD-YYYY-MM-DD" voyage date range.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// ParseDateWindow parses the provider-facing date window format. The format
// is two ISO dates joined by a bare hyphen, which is ambiguous with the
// hyphens inside each date, so it must split into exactly six
// hyphen-delimited groups: the first three form the start date and the last
// three the end date.
func ParseDateWindow(s string) (DateWindow, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 6 {
		return DateWindow{}, fmt.Errorf("normalize: invalid date window %q", s)
	}
	startStr := strings.Join(parts[0:3], "-")
	endStr := strings.Join(parts[3:6], "-")
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return DateWindow{}, fmt.Errorf("normalize: invalid start date %q: %w", startStr, err)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return DateWindow{}, fmt.Errorf("normalize: invalid end date %q: %w", endStr, err)
	}
	if end.Before(start) {
		return DateWindow{}, fmt.Errorf("normalize: end date %s before start date %s", endStr, startStr)
	}
	return DateWindow{Start: start, End: end}, nil
}

// String renders the window back into the provider's wire format.
func (w DateWindow) String() string {
	return fmt.Sprintf("%s-%s", w.Start.Format(dateLayout), w.End.Format(dateLayout))
}
