package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

// DailyScheduler enqueues the end-of-day maintenance jobs shortly after
// midnight: stale-task deactivation and refresh-token cleanup.
type DailyScheduler struct {
	queue     *JobQueue
	queueName string
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewDailyScheduler(queue *JobQueue, queueName string) *DailyScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &DailyScheduler{
		queue:     queue,
		queueName: queueName,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *DailyScheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *DailyScheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *DailyScheduler) run() {
	defer s.wg.Done()

	for {
		wait := untilNextMidnight(time.Now())
		log.Printf("Scheduler sleeping %s until next daily run", wait.Round(time.Second))

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(wait):
			s.enqueueDailyJobs()
		}
	}
}

func (s *DailyScheduler) enqueueDailyJobs() {
	if err := s.queue.Enqueue(s.queueName, JobTypeDeactivateStale, nil); err != nil {
		log.Printf("Failed to enqueue stale-task deactivation: %v", err)
	}
	if err := s.queue.Enqueue(s.queueName, JobTypeTokenCleanup, nil); err != nil {
		log.Printf("Failed to enqueue token cleanup: %v", err)
	}
}

func untilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	return next.Sub(now)
}
