package background

import (
	"context"
	"log"
	"sync"
	"time"

	"quotabill/internal/caching"
	"quotabill/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring background jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	statsSvc  *jobs.StatsRefreshService
	cacheSvc  caching.CacheService
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(statsSvc *jobs.StatsRefreshService, cacheSvc caching.CacheService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		statsSvc:  statsSvc,
		cacheSvc:  cacheSvc,
		jobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	statsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(js.refreshStats, context.Background()),
		gocron.WithName("document-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stats refresh job: %v", err)
	} else {
		js.registerJob("stats-refresh", statsJob)
	}

	cacheJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.flushCaches, context.Background()),
		gocron.WithName("cache-flush"),
	)
	if err != nil {
		log.Printf("Failed to create cache flush job: %v", err)
	} else {
		js.registerJob("cache-flush", cacheJob)
	}
}

func (js *JobScheduler) registerJob(name string, job gocron.Job) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.jobs[name] = job
}

func (js *JobScheduler) refreshStats(ctx context.Context) {
	if _, err := js.statsSvc.RefreshAll(ctx); err != nil {
		log.Printf("Stats refresh sweep failed: %v", err)
	}
}

// flushCaches drops every cached entry once a day so stale draft listings
// and stats cannot outlive their TTL after a Redis misconfiguration.
func (js *JobScheduler) flushCaches(ctx context.Context) {
	if err := js.cacheSvc.InvalidateAllCache(ctx); err != nil {
		log.Printf("Cache flush failed: %v", err)
	}
}

// JobNames lists the registered jobs, for the health endpoint and tests.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
