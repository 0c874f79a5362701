package article

import (
	"fmt"
	"strings"

	"feedrelay/app/config"
)

// FilterResult reports whether an article was suppressed by the feed's
// filter rules and why.
type FilterResult struct {
	Filtered bool
	Reason   string
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run evaluates the feed's filter rules against one article. Excludes win over
// includes; when includes are configured, at least one must match.
func (f *Filterer) Run(a Article, filters []config.Filter) FilterResult {
	for _, filter := range filters {
		value, _ := a.Field(filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matches(value, exclude) {
				return FilterResult{
					Filtered: true,
					Reason:   fmt.Sprintf("excluded by %s filter: contains '%s'", filter.Field, exclude),
				}
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matches(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return FilterResult{
					Filtered: true,
					Reason:   fmt.Sprintf("excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes),
				}
			}
		}
	}

	return FilterResult{}
}

func (f *Filterer) matches(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}
