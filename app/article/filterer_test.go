package article

import (
	"testing"

	"feedrelay/app/config"
)

func TestFiltererNoRules(t *testing.T) {
	filterer := NewFilterer()

	a := Article{ID: "id-1", Fields: map[string]string{"title": "anything"}}
	if result := filterer.Run(a, nil); result.Filtered {
		t.Errorf("expected article to pass with no rules, got %q", result.Reason)
	}
}

func TestFiltererExcludes(t *testing.T) {
	filterer := NewFilterer()
	filters := []config.Filter{
		{Field: "title", Excludes: []string{"sponsored"}},
	}

	a := Article{ID: "id-1", Fields: map[string]string{"title": "A Sponsored Post"}}
	if result := filterer.Run(a, filters); !result.Filtered {
		t.Error("expected excluded article to be filtered")
	}

	a = Article{ID: "id-2", Fields: map[string]string{"title": "Regular Post"}}
	if result := filterer.Run(a, filters); result.Filtered {
		t.Errorf("expected regular article to pass, got %q", result.Reason)
	}
}

func TestFiltererIncludes(t *testing.T) {
	filterer := NewFilterer()
	filters := []config.Filter{
		{Field: "title", Includes: []string{"golang", "go"}},
	}

	a := Article{ID: "id-1", Fields: map[string]string{"title": "Golang Weekly"}}
	if result := filterer.Run(a, filters); result.Filtered {
		t.Errorf("expected matching article to pass, got %q", result.Reason)
	}

	a = Article{ID: "id-2", Fields: map[string]string{"title": "Rust News"}}
	if result := filterer.Run(a, filters); !result.Filtered {
		t.Error("expected non-matching article to be filtered")
	}
}

func TestFiltererExcludeWinsOverInclude(t *testing.T) {
	filterer := NewFilterer()
	filters := []config.Filter{
		{Field: "title", Includes: []string{"go"}, Excludes: []string{"sponsored"}},
	}

	a := Article{ID: "id-1", Fields: map[string]string{"title": "Sponsored: Go Hosting"}}
	if result := filterer.Run(a, filters); !result.Filtered {
		t.Error("expected exclude rule to win over a matching include")
	}
}
