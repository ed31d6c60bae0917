package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/taskqueue"
	"github.com/joshaeeee/klyq-backend/pkg/apiErrors"
)

const defaultJobListLimit = 50

type submitJobRequest struct {
	Kind    string          `json:"kind"`
	StoreID string          `json:"store_id"`
	Payload json.RawMessage `json:"payload"`
}

// SubmitJob enfileira um job avulso pelo kind. O payload segue cru para o
// handler do kind, que é quem o decodifica.
func SubmitJob(dispatcher *taskqueue.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Kind == "" {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "kind é obrigatório", nil)
			return
		}

		job, err := dispatcher.Enqueue(r.Context(), req.Kind, req.StoreID, req.Payload)
		if err != nil {
			writeEnqueueError(w, req.Kind, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(job)
	}
}

func writeEnqueueError(w http.ResponseWriter, kind string, err error) {
	logger := logrus.WithField("kind", kind).WithError(err)

	switch {
	case errors.Is(err, taskqueue.ErrUnknownKind):
		logger.Warn("submissão rejeitada: kind desconhecido")
		apiErrors.WriteError(w, apiErrors.ErrUnknownJobKind, "Tipo de job desconhecido", map[string]string{"kind": kind})
	default:
		logger.Error("erro ao enfileirar job")
		apiErrors.WriteError(w, apiErrors.ErrQueueRejected, "Não foi possível enfileirar o job", nil)
	}
}

// ListJobs devolve os descritores mais recentes, com filtro opcional por
// status (?status=pending,running).
func ListJobs(repo repository.SyncJobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := parseStatuses(r.URL.Query().Get("status"))
		limit := parseLimit(r.URL.Query().Get("limit"), defaultJobListLimit)

		jobs, err := repo.ListByStatus(r.Context(), statuses, limit)
		if err != nil {
			logrus.WithError(err).Error("erro ao listar jobs")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar jobs", nil)
			return
		}

		writeJSON(w, jobs)
	}
}

// GetJob devolve um descritor pelo id.
func GetJob(repo repository.SyncJobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		job, err := repo.GetByID(r.Context(), id)
		if err != nil {
			logrus.WithError(err).Error("erro ao buscar job")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar job", nil)
			return
		}
		if job == nil {
			apiErrors.WriteError(w, apiErrors.ErrJobNotFound, "Job não encontrado", nil)
			return
		}

		writeJSON(w, job)
	}
}

// ListJobFailures devolve os jobs em estado terminal FAILED, mais recentes
// primeiro.
func ListJobFailures(repo repository.SyncJobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseLimit(r.URL.Query().Get("limit"), defaultJobListLimit)

		jobs, err := repo.ListFailures(r.Context(), limit)
		if err != nil {
			logrus.WithError(err).Error("erro ao listar falhas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar falhas", nil)
			return
		}

		writeJSON(w, jobs)
	}
}

// RequeueJob cria um descritor novo a partir de um job FAILED. O original é
// preservado para auditoria.
func RequeueJob(dispatcher *taskqueue.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		job, err := dispatcher.Requeue(r.Context(), id)
		if err != nil {
			logrus.WithField("job_id", id).WithError(err).Warn("erro ao reenfileirar job")
			apiErrors.WriteError(w, apiErrors.ErrQueueRejected, "Não foi possível reenfileirar o job", map[string]string{"reason": err.Error()})
			return
		}
		if job == nil {
			apiErrors.WriteError(w, apiErrors.ErrJobNotFound, "Job não encontrado", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(job)
	}
}

func parseStatuses(raw string) []domain.JobStatus {
	if raw == "" {
		return nil
	}

	known := map[string]domain.JobStatus{
		string(domain.JobStatusPending):        domain.JobStatusPending,
		string(domain.JobStatusRunning):        domain.JobStatusRunning,
		string(domain.JobStatusCompleted):      domain.JobStatusCompleted,
		string(domain.JobStatusFailed):         domain.JobStatusFailed,
		string(domain.JobStatusRetryScheduled): domain.JobStatusRetryScheduled,
	}

	var statuses []domain.JobStatus
	for _, part := range strings.Split(raw, ",") {
		if status, ok := known[strings.TrimSpace(part)]; ok {
			statuses = append(statuses, status)
		}
	}
	return statuses
}

func parseLimit(raw string, fallback uint64) uint64 {
	if raw == "" {
		return fallback
	}
	limit, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || limit == 0 {
		return fallback
	}
	return limit
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Warn("erro ao serializar resposta")
	}
}
