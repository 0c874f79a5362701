package article

import (
	"context"
	"fmt"

	"feedrelay/app/database"
)

// Classifier decides whether an article is new, changed, or already seen by
// querying stored fingerprints. It must run before the batch is stored, since
// StoreArticles makes every current value an observed one.
type Classifier struct {
	fieldRepo database.ArticleFieldRepository
}

func NewClassifier(fieldRepo database.ArticleFieldRepository) *Classifier {
	return &Classifier{fieldRepo: fieldRepo}
}

// Run classifies one article. An unobserved id means New. A known id with
// unobserved comparison field values means Changed, where the strategy decides
// how many present fields must have changed. Fields absent on the article are
// skipped.
func (c *Classifier) Run(ctx context.Context, feedID string, a Article, comparisonFields []string, strategy MatchStrategy) (Classification, error) {
	idSeen, err := c.fieldRepo.IsObserved(ctx, feedID, FieldID, a.ID)
	if err != nil {
		return ClassSeen, fmt.Errorf("failed to check article id: %w", err)
	}
	if !idSeen {
		return ClassNew, nil
	}

	presentFields := 0
	changedFields := 0
	for _, name := range comparisonFields {
		value, ok := a.Fields[name]
		if !ok {
			continue
		}
		presentFields++

		observed, err := c.fieldRepo.IsObserved(ctx, feedID, name, value)
		if err != nil {
			return ClassSeen, fmt.Errorf("failed to check field %q: %w", name, err)
		}
		if !observed {
			changedFields++
		}
	}

	if presentFields == 0 || changedFields == 0 {
		return ClassSeen, nil
	}

	switch strategy {
	case MatchAllFields:
		if changedFields == presentFields {
			return ClassChanged, nil
		}
		return ClassSeen, nil
	default:
		// MatchAnyChangedField
		return ClassChanged, nil
	}
}
