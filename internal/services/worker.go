package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/metrics"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

// TranscriptJob appends turns of one interview to its stored chat.
type TranscriptJob struct {
	InterviewID string
	UserID      *uuid.UUID
	Messages    []models.ChatMessage
}

type TranscriptQueue interface {
	Enqueue(job TranscriptJob) bool
}

type Worker interface {
	TranscriptQueue
	Start(ctx context.Context)
	Stop()
}

type worker struct {
	chatRepo    repositories.ChatRepository
	jobQueue    chan TranscriptJob
	concurrency int
	wg          sync.WaitGroup
	mu          sync.RWMutex
	stopped     bool
	log         *zap.Logger
	metrics     *metrics.Metrics
}

func NewWorker(
	chatRepo repositories.ChatRepository,
	concurrency int,
	queueSize int,
	log *zap.Logger,
	m *metrics.Metrics,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 100
	}

	return &worker{
		chatRepo:    chatRepo,
		jobQueue:    make(chan TranscriptJob, queueSize),
		concurrency: concurrency,
		log:         log,
		metrics:     m,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("🚀 Starting transcript worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(i + 1)
	}

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
}

// Stop closes the queue and waits until queued jobs are written.
func (w *worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		w.wg.Wait()
		return
	}
	w.stopped = true
	close(w.jobQueue)
	w.mu.Unlock()

	w.log.Info("🛑 Stopping transcript worker, draining queue")
	w.wg.Wait()
	w.log.Info("✅ Transcript worker stopped")
}

// Enqueue implements TranscriptQueue. It never blocks: when the queue is
// full or the worker is stopped the job is dropped and false is returned.
func (w *worker) Enqueue(job TranscriptJob) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		w.log.Warn("Worker stopped, dropping transcript job", zap.String("interview_id", job.InterviewID))
		w.metrics.TranscriptJob("dropped")
		return false
	}

	select {
	case w.jobQueue <- job:
		return true
	default:
		w.log.Warn("Transcript queue full, dropping job", zap.String("interview_id", job.InterviewID))
		w.metrics.TranscriptJob("dropped")
		return false
	}
}

func (w *worker) processJobs(workerID int) {
	defer w.wg.Done()

	for job := range w.jobQueue {
		if err := w.chatRepo.AppendMessages(job.InterviewID, job.UserID, job.Messages); err != nil {
			w.log.Error("Failed to persist transcript",
				zap.Int("worker", workerID),
				zap.String("interview_id", job.InterviewID),
				zap.Error(err))
			w.metrics.TranscriptJob("error")
			continue
		}
		w.metrics.TranscriptJob("success")
	}
}
