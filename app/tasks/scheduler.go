package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"feedrelay/app/article"
	"feedrelay/app/cfg"
	"feedrelay/app/config"
	"feedrelay/app/database"
	"feedrelay/app/delivery"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	configs     map[string]*config.FeedConfig
	feedRepo    database.FeedRepository
	httpClient  *http.Client
	parser      *article.Parser
	engine      *article.Engine
	classifier  *article.Classifier
	filterer    *article.Filterer
	ledger      *delivery.Ledger
	limiter     *delivery.RateLimiter
	userAgent   string
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(configs map[string]*config.FeedConfig, feedRepo database.FeedRepository,
	httpClient *http.Client, parser *article.Parser, engine *article.Engine,
	classifier *article.Classifier, filterer *article.Filterer,
	ledger *delivery.Ledger, limiter *delivery.RateLimiter) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		configs:     configs,
		feedRepo:    feedRepo,
		httpClient:  httpClient,
		parser:      parser,
		engine:      engine,
		classifier:  classifier,
		filterer:    filterer,
		ledger:      ledger,
		limiter:     limiter,
		userAgent:   c.UserAgent,
		interval:    time.Duration(c.SchedulerInterval) * time.Second,
		workerCount: c.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	if len(s.configs) == 0 {
		slog.Debug("No feed configurations found")
		return
	}

	slog.Debug("Processing feed configurations", "count", len(s.configs))

	for _, feedConfig := range s.configs {
		syncTask := NewSyncFeedConfigTask(feedConfig, s.feedRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncFeedConfigTask", "feed", feedConfig.Feed.ID, "error", err)
			continue
		}

		if !feedConfig.Settings.Enabled {
			slog.Debug("Feed disabled, skipping ProcessFeedTask", "feed", feedConfig.Feed.ID)
			continue
		}

		if err := s.EnqueueTask(s.newProcessTask(feedConfig)); err != nil {
			slog.Warn("Failed to enqueue ProcessFeedTask", "feed", feedConfig.Feed.ID, "error", err)
		}
	}
}

func (s *Scheduler) enqueueDueTasks() {
	for _, feedConfig := range s.configs {
		if !feedConfig.Settings.Enabled {
			continue
		}

		feed, err := s.feedRepo.GetFeed(s.ctx, feedConfig.Feed.ID)
		if err != nil {
			slog.Warn("Failed to get feed from database, skipping", "feed", feedConfig.Feed.ID, "error", err)
			continue
		}
		if feed == nil {
			slog.Warn("Feed not found in database, skipping", "feed", feedConfig.Feed.ID)
			continue
		}

		now := time.Now().UTC()
		if feed.NextFetchAt != nil && feed.NextFetchAt.After(now) {
			slog.Debug("Feed not due for refresh yet", "feed", feedConfig.Feed.ID, "next_fetch_at", feed.NextFetchAt)
			continue
		}

		if err := s.EnqueueTask(s.newProcessTask(feedConfig)); err != nil {
			slog.Warn("Failed to enqueue ProcessFeedTask", "feed", feedConfig.Feed.ID, "error", err)
		}
	}
}

func (s *Scheduler) newProcessTask(feedConfig *config.FeedConfig) *ProcessFeedTask {
	mediums := make([]delivery.Medium, 0, len(feedConfig.Mediums))
	for _, entry := range feedConfig.Mediums {
		mediums = append(mediums, delivery.NewWebhookMedium(entry.ID, entry.URL, s.httpClient))
	}

	return NewProcessFeedTask(feedConfig, s.httpClient, s.parser, s.engine,
		s.classifier, s.filterer, s.ledger, s.limiter, mediums, s.feedRepo, s.userAgent)
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "feed", task.GetFeedID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
