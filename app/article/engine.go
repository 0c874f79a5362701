package article

import (
	"context"
	"fmt"

	"feedrelay/app/database"
)

// StoreOptions tunes a StoreArticles call. ComparisonFields lists the field
// names, beyond the article id, to materialize as comparison dimensions for
// the feed.
type StoreOptions struct {
	ComparisonFields []string
}

// Engine persists article fingerprints. It only writes observations and
// comparison registrations; the new/changed/seen verdict belongs to the
// Classifier, which callers run before storing a batch.
type Engine struct {
	fieldRepo      database.ArticleFieldRepository
	comparisonRepo database.ComparisonRepository
}

func NewEngine(fieldRepo database.ArticleFieldRepository, comparisonRepo database.ComparisonRepository) *Engine {
	return &Engine{
		fieldRepo:      fieldRepo,
		comparisonRepo: comparisonRepo,
	}
}

// HasPriorArticles reports whether any fingerprint exists for the feed.
// False means the current cycle is the feed's baseline: everything should be
// stored, nothing reported as new. That suppression is the caller's policy,
// not the engine's.
func (e *Engine) HasPriorArticles(ctx context.Context, feedID string) (bool, error) {
	return e.fieldRepo.HasAnyObservation(ctx, feedID)
}

// StoreArticles records fingerprints for a batch. Every article id is
// observed unconditionally; comparison fields are registered once per distinct
// name in the batch, then each article's present values for the feed's active
// comparison set are observed. All writes are insert-if-absent, so storing an
// identical batch twice adds no rows and raises no error.
func (e *Engine) StoreArticles(ctx context.Context, feedID string, articles []Article, opts StoreOptions) error {
	for _, a := range articles {
		if err := e.fieldRepo.Observe(ctx, feedID, FieldID, a.ID); err != nil {
			return fmt.Errorf("failed to observe article id: %w", err)
		}
	}

	if len(opts.ComparisonFields) > 0 {
		registered := make(map[string]bool, len(opts.ComparisonFields))
		for _, name := range opts.ComparisonFields {
			if registered[name] {
				continue
			}
			registered[name] = true
			if err := e.comparisonRepo.RegisterIfAbsent(ctx, feedID, name); err != nil {
				return fmt.Errorf("failed to register comparison field %q: %w", name, err)
			}
		}
	}

	activeFields, err := e.comparisonRepo.ListActiveFields(ctx, feedID)
	if err != nil {
		return fmt.Errorf("failed to list active comparison fields: %w", err)
	}
	if len(activeFields) == 0 {
		return nil
	}

	for _, a := range articles {
		for _, name := range activeFields {
			value, ok := a.Fields[name]
			if !ok {
				// A comparison field is optional per article.
				continue
			}
			if err := e.fieldRepo.Observe(ctx, feedID, name, value); err != nil {
				return fmt.Errorf("failed to observe field %q: %w", name, err)
			}
		}
	}

	return nil
}
