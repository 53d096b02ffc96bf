package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/aegis-universe/internal/scheduler"
	"github.com/wonny/aegis-universe/pkg/logger"
)

// JobSource is the read side of the scheduler
type JobSource interface {
	GetJobStats() map[string]scheduler.JobStats
	GetJobHistory(jobName string) (*scheduler.JobHistory, error)
}

// SchedulerHandler exposes job statistics and recent runs
type SchedulerHandler struct {
	jobs   JobSource
	logger *logger.Logger
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(jobs JobSource, log *logger.Logger) *SchedulerHandler {
	return &SchedulerHandler{
		jobs:   jobs,
		logger: log,
	}
}

// GetJobs returns statistics for every registered job, ordered by name
// GET /api/scheduler/jobs
func (h *SchedulerHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	stats := h.jobs.GetJobStats()

	list := make([]scheduler.JobStats, 0, len(stats))
	for _, st := range stats {
		list = append(list, st)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].JobName < list[j].JobName
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// GetJobHistory returns the latest runs of one job
// GET /api/scheduler/jobs/{name}/history?limit=20
func (h *SchedulerHandler) GetJobHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	history, err := h.jobs.GetJobHistory(name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	results := history.GetLatestResults(limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"job":          name,
		"results":      results,
		"count":        len(results),
		"success_rate": history.GetSuccessRate(),
	})
}
