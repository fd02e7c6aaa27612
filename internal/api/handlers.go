package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daone764/reelsmaker-master/internal/db"
	"github.com/daone764/reelsmaker-master/internal/models"
	"github.com/daone764/reelsmaker-master/internal/queue"
)

type Handler struct {
	db    *db.DB // nil when job history is disabled
	queue *queue.Queue
}

func NewHandler(database *db.DB, q *queue.Queue) *Handler {
	return &Handler{
		db:    database,
		queue: q,
	}
}

// CreateReel handles POST /v1/reels
func (h *Handler) CreateReel(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID := uuid.New()

	if h.db != nil {
		job := &models.ReelJob{
			ID:        jobID,
			Status:    models.JobStatusQueued,
			VideoType: string(req.ResolveVideoType()),
			Provider:  req.Provider,
			VoiceID:   req.VoiceID,
		}
		if req.Prompt != "" {
			job.Prompt = &req.Prompt
		}
		if err := h.db.CreateJob(r.Context(), job); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to record job")
			return
		}
	}

	if err := h.queue.EnqueueRenderReel(r.Context(), jobID, req); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	respondJSON(w, http.StatusAccepted, models.CreateReelResponse{
		JobID:  jobID,
		Status: models.JobStatusQueued,
	})
}

// GetJob handles GET /v1/reels/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, "Job history is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.db.GetJob(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /v1/reels
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, "Job history is not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	jobs, err := h.db.ListRecentJobs(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"limit": limit,
	})
}

// QueueStats handles GET /v1/queue
func (h *Handler) QueueStats(w http.ResponseWriter, r *http.Request) {
	length, err := h.queue.Length(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read queue length")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"pending": length})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Health check
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
