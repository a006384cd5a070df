package assets

import (
	"cmp"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"
)

// SortDirection orders search results by publication time.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection parses s case-insensitively. An empty string yields DESC.
func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(strings.ToUpper(strings.TrimSpace(s))) {
	case "", SortDesc:
		return SortDesc, nil
	case SortAsc:
		return SortAsc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
}

// Criteria selects assets for a search. Nil fields are not filtered on.
//
// Start and End bound PublishedAt inclusively; assets without a publication
// time never match a bounded range. Filename is a pattern in which '*'
// matches any run of characters and everything else is literal. ContentType
// matches exactly. Results are ordered by PublishedAt in Sort direction with
// unpublished assets last; the zero Sort means DESC.
type Criteria struct {
	Start       *time.Time
	End         *time.Time
	Filename    *string
	ContentType *string
	Sort        SortDirection
}

// Validate rejects empty patterns, an unknown sort direction, and a range
// whose start is after its end.
func (c Criteria) Validate() error {
	if c.Filename != nil && strings.TrimSpace(*c.Filename) == "" {
		return fmt.Errorf("%w: filename must not be empty", ErrInvalidCriteria)
	}
	if c.ContentType != nil && strings.TrimSpace(*c.ContentType) == "" {
		return fmt.Errorf("%w: filetype must not be empty", ErrInvalidCriteria)
	}
	if c.Start != nil && c.End != nil && c.Start.After(*c.End) {
		return fmt.Errorf("%w: start is after end", ErrInvalidCriteria)
	}
	if c.Sort != "" && c.Sort != SortAsc && c.Sort != SortDesc {
		return fmt.Errorf("%w: %q", ErrInvalidSort, c.Sort)
	}
	return nil
}

// Match reports whether a satisfies every filter of c.
func (c Criteria) Match(a Asset) bool {
	return c.matcher()(a)
}

func (c Criteria) matcher() func(Asset) bool {
	var filename *regexp.Regexp
	if c.Filename != nil {
		filename = filenameRegexp(*c.Filename)
	}

	return func(a Asset) bool {
		if c.Start != nil || c.End != nil {
			if a.PublishedAt == nil {
				return false
			}
			if c.Start != nil && a.PublishedAt.Before(*c.Start) {
				return false
			}
			if c.End != nil && a.PublishedAt.After(*c.End) {
				return false
			}
		}
		if c.ContentType != nil && a.ContentType != *c.ContentType {
			return false
		}
		if filename != nil && !filename.MatchString(a.Filename) {
			return false
		}
		return true
	}
}

// FilenameLikePattern translates a '*' wildcard pattern into a SQL LIKE
// pattern that uses backslash as the escape character.
func FilenameLikePattern(pattern string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `*`, `%`)
	return escaper.Replace(pattern)
}

func filenameRegexp(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`^(?s:` + strings.Join(parts, ".*") + `)$`)
}

// Sort orders list in place by PublishedAt in direction d, nil last.
// The zero direction sorts descending. Ties keep their relative order.
func (d SortDirection) Sort(list []Asset) {
	slices.SortStableFunc(list, func(a, b Asset) int {
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
			return 0
		case a.PublishedAt == nil:
			return 1
		case b.PublishedAt == nil:
			return -1
		}

		c := a.PublishedAt.Compare(*b.PublishedAt)
		if d != SortAsc {
			c = -c
		}
		return cmp.Compare(c, 0)
	})
}

// Query parameter names accepted by ParseCriteria. The camelCase aliases are
// the names used by earlier clients.
var criteriaParams = []struct {
	name  string
	alias string
}{
	{"upload_date_start", "uploadDateStart"},
	{"upload_date_end", "uploadDateEnd"},
	{"filename", "filename"},
	{"filetype", "filetype"},
	{"sort_direction", "sortDirection"},
}

// ParseCriteria reads search criteria from URL query parameters.
// Timestamps are RFC 3339 and truncated to millisecond precision.
// The returned criteria have been validated.
func ParseCriteria(values url.Values) (Criteria, error) {
	get := func(i int) (string, bool) {
		p := criteriaParams[i]
		if values.Has(p.name) {
			return values.Get(p.name), true
		}
		if values.Has(p.alias) {
			return values.Get(p.alias), true
		}
		return "", false
	}

	var c Criteria

	for i, target := range []**time.Time{&c.Start, &c.End} {
		raw, ok := get(i)
		if !ok {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: %s: invalid date format", ErrInvalidCriteria, criteriaParams[i].name)
		}
		t = t.UTC().Truncate(time.Millisecond)
		*target = &t
	}

	if v, ok := get(2); ok {
		c.Filename = &v
	}
	if v, ok := get(3); ok {
		c.ContentType = &v
	}

	raw, _ := get(4)
	sort, err := ParseSortDirection(raw)
	if err != nil {
		return Criteria{}, err
	}
	c.Sort = sort

	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}
