package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/config"
	"hireflow/ats-platform/internal/repositories"
)

const pendingBatchSize = 10

// Worker analyzes uploaded resumes in the background.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(resumeID uuid.UUID)
}

type worker struct {
	resumes      repositories.ResumeRepository
	processor    ResumeProcessor
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	log          *zap.Logger

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewWorker(
	resumes repositories.ResumeRepository,
	processor ResumeProcessor,
	cfg config.WorkerConfig,
	log *zap.Logger,
) Worker {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 100
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	return &worker{
		resumes:      resumes,
		processor:    processor,
		jobQueue:     make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		log:          log.Named("worker"),
		inflight:     make(map[uuid.UUID]struct{}),
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("🚀 Starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.log.Info("✅ Worker started successfully")
}

// Stop implements Worker. Queued resumes that were not picked up stay
// pending and are found again by the poller on the next start.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.log.Info("✅ Worker stopped")
	})
}

// Enqueue implements Worker. It never blocks; a full queue is drained by
// the poller later.
func (w *worker) Enqueue(resumeID uuid.UUID) {
	w.mu.Lock()
	if _, ok := w.inflight[resumeID]; ok {
		w.mu.Unlock()
		return
	}
	w.inflight[resumeID] = struct{}{}
	w.mu.Unlock()

	select {
	case <-w.stopChan:
		w.release(resumeID)
		w.log.Warn("⚠️  Worker stopped, cannot enqueue resume", zap.String("resume_id", resumeID.String()))
	case w.jobQueue <- resumeID:
		w.log.Debug("📥 Resume enqueued", zap.String("resume_id", resumeID.String()))
	default:
		w.release(resumeID)
		w.log.Warn("⚠️  Queue full, resume left for the poller", zap.String("resume_id", resumeID.String()))
	}
}

func (w *worker) release(resumeID uuid.UUID) {
	w.mu.Lock()
	delete(w.inflight, resumeID)
	w.mu.Unlock()
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			log.Debug("👷 Worker stopped")
			return
		case <-ctx.Done():
			return
		case resumeID := <-w.jobQueue:
			log.Info("👷 Processing resume", zap.String("resume_id", resumeID.String()))
			if err := w.processor.Process(ctx, resumeID); err != nil {
				log.Error("❌ Failed to process resume", zap.String("resume_id", resumeID.String()), zap.Error(err))
			} else {
				log.Info("✅ Resume processed", zap.String("resume_id", resumeID.String()))
			}
			w.release(resumeID)
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.log.Info("🔄 Starting pending resumes poller")

	for {
		select {
		case <-w.stopChan:
			w.log.Info("🔄 Pending resumes poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.resumes.FindPending(ctx, pendingBatchSize)
			if err != nil {
				w.log.Warn("⚠️  Failed to fetch pending resumes", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.log.Info("📋 Found pending resumes", zap.Int("count", len(pending)))
			}

			for _, resume := range pending {
				w.Enqueue(resume.ID)
			}
		}
	}
}
