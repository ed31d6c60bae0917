package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/internal/scheduler"
	"github.com/joshaeeee/klyq-backend/pkg/apiErrors"
)

// GetCronStatus devolve a tabela de recorrência com o último disparo e o
// último skip de cada entrada.
func GetCronStatus(periodic *scheduler.PeriodicScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, periodic.GetStatus())
	}
}

// RunCronJob enfileira imediatamente uma ocorrência avulsa de um job
// periódico, fora da grade do cron.
func RunCronJob(periodic *scheduler.PeriodicScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := httprouter.ParamsFromContext(r.Context()).ByName("kind")
		if kind == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de job não especificado", nil)
			return
		}

		job, err := periodic.RunNow(r.Context(), kind)
		if err != nil {
			logrus.WithField("kind", kind).WithError(err).Warn("erro ao disparar job periódico")
			apiErrors.WriteError(w, apiErrors.ErrUnknownJobKind, "Tipo de job não agendável", map[string]string{"kind": kind})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(job)
	}
}
