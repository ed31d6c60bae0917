package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/usecases/acting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/suggesting"
	"github.com/joshaeeee/klyq-backend/pkg/apiErrors"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

type pauseAdRequest struct {
	AdExternalID string `json:"ad_external_id"`
}

type createBundleRequest struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

type updatePriceRequest struct {
	VariantID int64  `json:"variant_id"`
	Price     string `json:"price"`
}

type updateSuggestionRequest struct {
	Status string `json:"status"`
}

// PauseAd pausa um anúncio na plataforma e reflete a mudança no espelho.
func PauseAd(service acting.Actor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req pauseAdRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdExternalID == "" {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ad_external_id é obrigatório", nil)
			return
		}

		if err := service.PauseAd(r.Context(), storeID, req.AdExternalID); err != nil {
			writeActionError(w, "pause-ad", err)
			return
		}

		writeJSON(w, map[string]string{"status": "paused"})
	}
}

// CreateBundle cria um produto bundle em rascunho na Shopify.
func CreateBundle(service acting.Actor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req createBundleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Price == "" {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "title e price são obrigatórios", nil)
			return
		}

		product, err := service.CreateBundle(r.Context(), storeID, req.Title, req.Price)
		if err != nil {
			writeActionError(w, "create-bundle", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(product)
	}
}

// UpdatePrice altera o preço de uma variante na Shopify.
func UpdatePrice(service acting.Actor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req updatePriceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VariantID == 0 || req.Price == "" {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "variant_id e price são obrigatórios", nil)
			return
		}

		if err := service.UpdatePrice(r.Context(), storeID, req.VariantID, req.Price); err != nil {
			writeActionError(w, "update-price", err)
			return
		}

		writeJSON(w, map[string]string{"status": "updated"})
	}
}

// GetAdInsights busca o desempenho ao vivo de um anúncio na plataforma,
// para revisão de sugestões de pausa com números atuais.
func GetAdInsights(service acting.Actor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())
		storeID := params.ByName("id")
		adExternalID := params.ByName("adID")

		insights, err := service.AdInsights(r.Context(), storeID, adExternalID)
		if err != nil {
			writeActionError(w, "ad-insights", err)
			return
		}

		writeJSON(w, insights)
	}
}

// UpdateSuggestionStatus aplica ou descarta uma sugestão pendente.
func UpdateSuggestionStatus(service suggesting.Suggester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req updateSuggestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		status := domain.SuggestionStatus(req.Status)
		if status != domain.SuggestionStatusApplied && status != domain.SuggestionStatusDismissed {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "status deve ser applied ou dismissed", nil)
			return
		}

		suggestion, err := service.UpdateStatus(r.Context(), id, status)
		if err != nil {
			logrus.WithField("suggestion_id", id).WithError(err).Warn("erro ao atualizar sugestão")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Não foi possível atualizar a sugestão", map[string]string{"reason": err.Error()})
			return
		}
		if suggestion == nil {
			apiErrors.WriteError(w, apiErrors.ErrJobNotFound, "Sugestão não encontrada", nil)
			return
		}

		writeJSON(w, suggestion)
	}
}

func writeActionError(w http.ResponseWriter, action string, err error) {
	logger := logrus.WithField("action", action).WithError(err)

	switch {
	case errors.Is(err, acting.ErrAccountNotConnected):
		logger.Warn("ação rejeitada: conta não conectada")
		apiErrors.WriteError(w, apiErrors.ErrUnknownAccount, "Loja sem conta conectada na plataforma", nil)
	case errors.Is(err, acting.ErrAdNotFound):
		logger.Warn("ação rejeitada: anúncio não encontrado")
		apiErrors.WriteError(w, apiErrors.ErrJobNotFound, "Anúncio não encontrado", nil)
	case syncErrors.IsCredentialInvalid(err):
		logger.Warn("ação rejeitada: credencial revogada")
		apiErrors.WriteError(w, apiErrors.ErrCredentialRevoked, "Credencial da plataforma revogada, reconecte a conta", nil)
	default:
		logger.Error("erro ao executar ação na plataforma")
		apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro ao executar a ação na plataforma", nil)
	}
}
