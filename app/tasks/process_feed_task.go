package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"feedrelay/app/article"
	"feedrelay/app/config"
	"feedrelay/app/database"
	"feedrelay/app/delivery"
)

// ProcessFeedTask runs one ingestion cycle for a feed: fetch, parse, classify
// against stored fingerprints, persist the new fingerprints, then deliver the
// new and changed articles and record every outcome in the ledger.
type ProcessFeedTask struct {
	Task
	FeedConfig *config.FeedConfig
	httpClient *http.Client
	parser     *article.Parser
	engine     *article.Engine
	classifier *article.Classifier
	filterer   *article.Filterer
	ledger     *delivery.Ledger
	limiter    *delivery.RateLimiter
	mediums    []delivery.Medium
	feedRepo   database.FeedRepository
	userAgent  string
}

func NewProcessFeedTask(feedConfig *config.FeedConfig, httpClient *http.Client,
	parser *article.Parser, engine *article.Engine, classifier *article.Classifier,
	filterer *article.Filterer, ledger *delivery.Ledger, limiter *delivery.RateLimiter,
	mediums []delivery.Medium, feedRepo database.FeedRepository, userAgent string) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:       NewTask(TaskTypeProcessFeed, feedConfig.Feed.ID),
		FeedConfig: feedConfig,
		httpClient: httpClient,
		parser:     parser,
		engine:     engine,
		classifier: classifier,
		filterer:   filterer,
		ledger:     ledger,
		limiter:    limiter,
		mediums:    mediums,
		feedRepo:   feedRepo,
		userAgent:  userAgent,
	}
}

func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.FeedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping", "feed", t.FeedID)
		return nil
	}

	data, err := t.fetchFeed(ctx, t.FeedConfig.Feed.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	// A parse failure aborts the cycle before anything is stored; the next
	// scheduled run retries from scratch.
	doc, err := t.parser.ParseDocument(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	if doc.Title != "" {
		if err := t.feedRepo.UpdateFeedTitle(ctx, t.FeedID, doc.Title); err != nil {
			slog.Warn("Failed to update feed title", "feed", t.FeedID, "error", err)
		}
	}

	articles := doc.Articles
	if limit := t.FeedConfig.Settings.MaxArticles; len(articles) > limit {
		articles = articles[:limit]
	}

	hasPrior, err := t.engine.HasPriorArticles(ctx, t.FeedID)
	if err != nil {
		return fmt.Errorf("failed to check prior articles: %w", err)
	}

	storeOpts := article.StoreOptions{ComparisonFields: t.FeedConfig.Comparisons.Fields}

	if !hasPrior {
		// First cycle is baseline-only: remember everything, deliver nothing.
		if err := t.engine.StoreArticles(ctx, t.FeedID, articles, storeOpts); err != nil {
			return fmt.Errorf("failed to store baseline articles: %w", err)
		}
		if err := t.scheduleNextFetch(ctx); err != nil {
			return err
		}

		slog.Info("Task completed",
			"type", "ProcessFeed",
			"feed", t.FeedID,
			"duration", t.GetDuration(),
			"total", len(articles),
			"baseline", true)
		return nil
	}

	// Classification must happen before the batch is stored, otherwise every
	// current value would already count as observed.
	strategy := article.MatchStrategy(t.FeedConfig.Comparisons.Strategy)
	var toDeliver []article.Article
	for _, a := range articles {
		class, err := t.classifier.Run(ctx, t.FeedID, a, t.FeedConfig.Comparisons.Fields, strategy)
		if err != nil {
			return fmt.Errorf("failed to classify article: %w", err)
		}
		if class != article.ClassSeen {
			toDeliver = append(toDeliver, a)
		}
	}

	if err := t.engine.StoreArticles(ctx, t.FeedID, articles, storeOpts); err != nil {
		return fmt.Errorf("failed to store articles: %w", err)
	}

	states, filteredCount, suppressedCount, err := t.deliverArticles(ctx, toDeliver)
	if err != nil {
		return err
	}

	if len(states) > 0 {
		if err := t.ledger.Store(ctx, t.FeedID, states); err != nil {
			return fmt.Errorf("failed to store delivery states: %w", err)
		}
	}

	if err := t.scheduleNextFetch(ctx); err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "ProcessFeed",
		"feed", t.FeedID,
		"duration", t.GetDuration(),
		"total", len(articles),
		"to_deliver", len(toDeliver),
		"filtered", filteredCount,
		"rate_suppressed", suppressedCount)

	return nil
}

// deliverArticles runs filters and mediums for each deliverable article and
// collects the resulting delivery states. The rate budget is checked once
// before the burst; articles past the budget are suppressed without a ledger
// record because no attempt reached the destination.
func (t *ProcessFeedTask) deliverArticles(ctx context.Context, toDeliver []article.Article) ([]delivery.State, int, int, error) {
	if len(toDeliver) == 0 || len(t.mediums) == 0 {
		return nil, 0, 0, nil
	}

	remaining, err := t.limiter.Remaining(ctx, t.FeedID,
		t.FeedConfig.Settings.DeliveryRateLimit, t.FeedConfig.Settings.DeliveryRateWindow)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to check delivery rate: %w", err)
	}

	var states []delivery.State
	filteredCount := 0
	suppressedCount := 0

	for _, a := range toDeliver {
		if result := t.filterer.Run(a, t.FeedConfig.Filters); result.Filtered {
			filteredCount++
			for _, medium := range t.mediums {
				states = append(states, delivery.State{
					ID:       a.ID,
					MediumID: medium.ID(),
					Status:   delivery.StatusFilteredOut,
				})
			}
			continue
		}

		for _, medium := range t.mediums {
			if remaining == 0 {
				suppressedCount++
				slog.Warn("Delivery rate limit reached, suppressing send",
					"feed", t.FeedID, "article", a.ID)
				continue
			}

			details := delivery.Details{
				DeliveryID: fmt.Sprintf("%s-%d", t.FeedID, time.Now().UnixNano()),
				MediumID:   medium.ID(),
				FeedID:     t.FeedConfig.Feed.ID,
				FeedName:   t.FeedConfig.Feed.Name,
				FeedURL:    t.FeedConfig.Feed.URL,
			}

			state := medium.DeliverArticle(ctx, a, details)
			states = append(states, state)

			if remaining > 0 && (state.Status == delivery.StatusSent || state.Status == delivery.StatusRejected) {
				remaining--
			}
		}
	}

	return states, filteredCount, suppressedCount, nil
}

func (t *ProcessFeedTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.FeedConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (t *ProcessFeedTask) scheduleNextFetch(ctx context.Context) error {
	nextFetch := time.Now().UTC().Add(time.Duration(t.FeedConfig.Settings.RefreshInterval) * time.Second)
	if err := t.feedRepo.UpdateNextFetch(ctx, t.FeedID, nextFetch); err != nil {
		return fmt.Errorf("failed to update next fetch time: %w", err)
	}
	return nil
}
