package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daone764/reelsmaker-master/internal/models"
)

func (db *DB) CreateJob(ctx context.Context, job *models.ReelJob) error {
	query := `
		INSERT INTO reel_jobs (
			id, status, video_type, provider, voice_id, prompt
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	return db.QueryRowContext(
		ctx, query,
		job.ID, job.Status, job.VideoType, job.Provider, job.VoiceID, job.Prompt,
	).Scan(&job.CreatedAt)
}

func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*models.ReelJob, error) {
	query := `
		SELECT
			id, status, video_type, provider, voice_id, prompt,
			output_path, error_message, started_at, finished_at, created_at
		FROM reel_jobs
		WHERE id = $1
	`

	job := &models.ReelJob{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.Status, &job.VideoType, &job.Provider, &job.VoiceID,
		&job.Prompt, &job.OutputPath, &job.ErrorMessage,
		&job.StartedAt, &job.FinishedAt, &job.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

func (db *DB) ListRecentJobs(ctx context.Context, limit int) ([]models.ReelJob, error) {
	query := `
		SELECT
			id, status, video_type, provider, voice_id, prompt,
			output_path, error_message, started_at, finished_at, created_at
		FROM reel_jobs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.ReelJob
	for rows.Next() {
		var job models.ReelJob
		err := rows.Scan(
			&job.ID, &job.Status, &job.VideoType, &job.Provider, &job.VoiceID,
			&job.Prompt, &job.OutputPath, &job.ErrorMessage,
			&job.StartedAt, &job.FinishedAt, &job.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func (db *DB) UpdateJobStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) error {
	now := time.Now()
	query := `UPDATE reel_jobs SET status = $1, started_at = $2 WHERE id = $3`

	if status == models.JobStatusCompleted || status == models.JobStatusFailed {
		query = `UPDATE reel_jobs SET status = $1, finished_at = $2 WHERE id = $3`
	}

	_, err := db.ExecContext(ctx, query, status, now, id)
	return err
}

func (db *DB) UpdateJobResult(ctx context.Context, id uuid.UUID, outputPath string) error {
	query := `
		UPDATE reel_jobs
		SET status = $1, output_path = $2, finished_at = $3
		WHERE id = $4
	`
	_, err := db.ExecContext(ctx, query, models.JobStatusCompleted, outputPath, time.Now(), id)
	return err
}

func (db *DB) UpdateJobError(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE reel_jobs
		SET status = $1, error_message = $2, finished_at = $3
		WHERE id = $4
	`
	_, err := db.ExecContext(ctx, query, models.JobStatusFailed, errorMessage, time.Now(), id)
	return err
}
