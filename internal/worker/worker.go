// Package worker runs reel render jobs off the request path: it drains the
// Redis queue and hands each job to the engine, recording progress in the
// optional job-history store.
package worker

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daone764/reelsmaker-master/internal/composer"
	"github.com/daone764/reelsmaker-master/internal/db"
	"github.com/daone764/reelsmaker-master/internal/models"
	"github.com/daone764/reelsmaker-master/internal/queue"
	"github.com/daone764/reelsmaker-master/internal/reels"
	"github.com/daone764/reelsmaker-master/internal/speech"
)

const dequeueTimeout = 5 * time.Second

// diagnosticsLimit caps how much engine stderr lands in the job record.
const diagnosticsLimit = 2000

type Worker struct {
	db     *db.DB // nil disables job history
	queue  *queue.Queue
	engine *reels.Engine
}

func New(database *db.DB, q *queue.Queue, engine *reels.Engine) *Worker {
	return &Worker{
		db:     database,
		queue:  q,
		engine: engine,
	}
}

// Start begins processing render jobs. It blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context, concurrency int) {
	log.Printf("[Worker] started with concurrency: %d", concurrency)

	for i := 0; i < concurrency; i++ {
		go w.processLoop(ctx)
	}

	<-ctx.Done()
	log.Println("[Worker] shutting down...")
}

func (w *Worker) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			job, err := w.queue.Dequeue(ctx, dequeueTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("[Worker] error dequeuing: %v", err)
				continue
			}
			if job == nil {
				continue // No job available, retry
			}

			log.Printf("[Worker] processing job %s (provider: %s)", job.ID, job.Request.Provider)
			w.setStatus(ctx, job.ID, models.JobStatusRendering)

			if err := w.handleRenderReel(ctx, job); err != nil {
				log.Printf("[Worker] job %s failed: %v", job.ID, err)
				w.setError(ctx, job.ID, err.Error())
			} else {
				log.Printf("[Worker] job %s completed", job.ID)
			}
		}
	}
}

func (w *Worker) handleRenderReel(ctx context.Context, job *queue.Job) error {
	req := job.Request
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid job payload: %w", err)
	}

	outcome, err := w.engine.Start(ctx, reels.Job{
		VideoType: req.ResolveVideoType(),
		Style:     req.ResolveStyle(),
		Provider:  speech.ProviderKind(req.Provider),
		VoiceID:   req.VoiceID,
		Script:    req.Script,
		Prompt:    req.Prompt,
		ClipURLs:  req.ClipURLs,
		MusicURL:  req.MusicURL,
	})
	if err != nil {
		return err
	}

	switch outcome.Kind {
	case composer.OutcomeSuccess:
		w.setResult(ctx, job.ID, outcome.OutputPath)
		return nil
	case composer.OutcomeEngineFailure:
		return fmt.Errorf("render engine failed: %s", truncate(outcome.Diagnostics, diagnosticsLimit))
	default:
		return fmt.Errorf("render rejected: %s", outcome.Reason)
	}
}

func (w *Worker) setStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) {
	if w.db == nil {
		return
	}
	if err := w.db.UpdateJobStatus(ctx, id, status); err != nil {
		log.Printf("[Worker] failed to update job status: %v", err)
	}
}

func (w *Worker) setResult(ctx context.Context, id uuid.UUID, outputPath string) {
	if w.db == nil {
		return
	}
	if err := w.db.UpdateJobResult(ctx, id, outputPath); err != nil {
		log.Printf("[Worker] failed to record job result: %v", err)
	}
}

func (w *Worker) setError(ctx context.Context, id uuid.UUID, message string) {
	if w.db == nil {
		return
	}
	if err := w.db.UpdateJobError(ctx, id, message); err != nil {
		log.Printf("[Worker] failed to record job error: %v", err)
	}
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
