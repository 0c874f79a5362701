package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"feedrelay/app/config"
	"feedrelay/app/database"
	"feedrelay/app/delivery"
)

func NewHandler(configs map[string]*config.FeedConfig, feedRepo database.FeedRepository,
	fieldRepo database.ArticleFieldRepository, deliveryRepo database.DeliveryRepository,
	ledger *delivery.Ledger, version string) *Handler {
	return &Handler{
		configs:      configs,
		feedRepo:     feedRepo,
		fieldRepo:    fieldRepo,
		deliveryRepo: deliveryRepo,
		ledger:       ledger,
		version:      version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	}

	if feedCount, err := h.feedRepo.GetFeedCount(c.Request.Context()); err == nil {
		health["feeds"] = feedCount
	}

	health["loaded_configurations"] = len(h.configs)

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats := map[string]interface{}{
		"loaded_configurations": len(h.configs),
	}

	if feeds, err := h.feedRepo.ListFeeds(ctx); err == nil {
		stats["feeds"] = len(feeds)

		observations := make(map[string]int, len(feeds))
		for _, feed := range feeds {
			if count, err := h.fieldRepo.GetObservationCount(ctx, feed.Name); err == nil {
				observations[feed.Name] = count
			}
		}
		stats["observations"] = observations
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListFeeds(c *gin.Context) {
	ctx := c.Request.Context()

	feeds := make([]map[string]interface{}, 0, len(h.configs))
	for _, feedConfig := range h.configs {
		feedInfo := map[string]interface{}{
			"id":               feedConfig.Feed.ID,
			"name":             feedConfig.Feed.Name,
			"url":              feedConfig.Feed.URL,
			"enabled":          feedConfig.Settings.Enabled,
			"refresh_interval": (time.Duration(feedConfig.Settings.RefreshInterval) * time.Second).String(),
			"comparisons":      feedConfig.Comparisons.Fields,
			"filters":          len(feedConfig.Filters),
			"mediums":          len(feedConfig.Mediums),
		}

		if feed, err := h.feedRepo.GetFeed(ctx, feedConfig.Feed.ID); err == nil && feed != nil {
			feedInfo["title"] = feed.Title
			feedInfo["last_fetched_at"] = feed.LastFetchedAt
			feedInfo["next_fetch_at"] = feed.NextFetchAt
		}

		feeds = append(feeds, feedInfo)
	}

	c.JSON(http.StatusOK, gin.H{"feeds": feeds})
}

// APIGetDeliveries returns the trailing-window delivery count and the most
// recent ledger records for one feed.
func (h *Handler) APIGetDeliveries(c *gin.Context) {
	ctx := c.Request.Context()

	feedID := c.Param("id")
	if _, ok := h.configs[feedID]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		return
	}

	windowSeconds := 3600
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window parameter"})
			return
		}
		windowSeconds = parsed
	}

	count, err := h.ledger.CountDeliveriesInPastTimeframe(ctx, feedID, windowSeconds)
	if err != nil {
		slog.Error("Database error", "operation", "count_deliveries", "feed", feedID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	records, err := h.deliveryRepo.GetRecentRecords(ctx, feedID, 50)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_records", "feed", feedID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	recent := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		entry := map[string]interface{}{
			"article_id": record.ID,
			"medium_id":  record.MediumID,
			"status":     record.Status,
			"created_at": record.CreatedAt.Format(time.RFC3339),
		}
		if record.ErrorCode != "" {
			entry["error_code"] = record.ErrorCode
		}
		recent = append(recent, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"feed":            feedID,
		"window_seconds":  windowSeconds,
		"count_in_window": count,
		"recent":          recent,
	})
}
