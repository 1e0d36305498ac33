package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// maxPageFilterSpan caps a single range so "1-999999999" cannot allocate unbounded memory.
const maxPageFilterSpan = 10000

// ParsePageFilter parses a comma-separated list of 1-based page numbers and
// inclusive ranges, e.g. "2", "1,3" or "1-3,7". Blank input selects every page
// and returns nil.
func ParsePageFilter(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := pageNumber(lo)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = pageNumber(hi); err != nil {
				return nil, err
			}
		}
		if end < start || end-start >= maxPageFilterSpan {
			return nil, fmt.Errorf("%w: range %q", ErrInvalidPageFilter, part)
		}
		for n := start; n <= end; n++ {
			pages = append(pages, n)
		}
	}
	return pages, nil
}

func pageNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a page number", ErrInvalidPageFilter, s)
	}
	return n, nil
}
