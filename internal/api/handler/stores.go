package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/scheduler"
	"github.com/joshaeeee/klyq-backend/internal/usecases/account"
	"github.com/joshaeeee/klyq-backend/internal/usecases/attributing"
	"github.com/joshaeeee/klyq-backend/internal/usecases/reporting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/suggesting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/trending"
	"github.com/joshaeeee/klyq-backend/pkg/apiErrors"
)

const defaultTrendListLimit = 10

// MirrorReaders agrupa as leituras do espelho expostas por loja.
type MirrorReaders struct {
	Products   repository.ProductRepository
	Orders     repository.OrderRepository
	Campaigns  repository.CampaignRepository
	Ads        repository.AdRepository
	Suggester  suggesting.Suggester
	Attributor attributing.Attributor
	Trender    trending.Trender
	Reporter   reporting.Reporter
}

// ListStores devolve todas as lojas cadastradas.
func ListStores(service account.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := service.ListStores(r.Context())
		if err != nil {
			logrus.WithError(err).Error("erro ao listar lojas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar lojas", nil)
			return
		}
		writeJSON(w, stores)
	}
}

// GetStore devolve uma loja pelo id.
func GetStore(service account.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		store, err := service.GetStore(r.Context(), storeID)
		if err != nil {
			if errors.Is(err, account.ErrStoreNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrUnknownAccount, "Loja não encontrada", nil)
				return
			}
			logrus.WithError(err).Error("erro ao buscar loja")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar loja", nil)
			return
		}
		writeJSON(w, store)
	}
}

// TriggerStoreSync enfileira o ciclo completo de sincronização da loja.
func TriggerStoreSync(periodic *scheduler.PeriodicScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		jobs, err := periodic.TriggerManualSync(r.Context(), storeID)
		if err != nil {
			logrus.WithField("store_id", storeID).WithError(err).Error("erro ao disparar sincronização manual")
			apiErrors.WriteError(w, apiErrors.ErrQueueRejected, "Não foi possível enfileirar a sincronização", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(jobs)
	}
}

// ListStoreProducts devolve o espelho de produtos da loja.
func ListStoreProducts(readers MirrorReaders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		products, err := readers.Products.ListByStore(r.Context(), storeID)
		if err != nil {
			logrus.WithError(err).Error("erro ao listar produtos")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar produtos", nil)
			return
		}
		writeJSON(w, products)
	}
}

// ListStoreOrders devolve o espelho de pedidos da loja. Pedidos arquivados
// entram só com ?include_archived=true.
func ListStoreOrders(readers MirrorReaders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		includeArchived := r.URL.Query().Get("include_archived") == "true"

		orders, err := readers.Orders.ListByStore(r.Context(), storeID, includeArchived)
		if err != nil {
			logrus.WithError(err).Error("erro ao listar pedidos")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar pedidos", nil)
			return
		}
		writeJSON(w, orders)
	}
}

// ListStoreCampaigns devolve o espelho de campanhas da loja.
func ListStoreCampaigns(readers MirrorReaders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		campaigns, err := readers.Campaigns.ListByStore(r.Context(), storeID)
		if err != nil {
			logrus.WithError(err).Error("erro ao listar campanhas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar campanhas", nil)
			return
		}
		writeJSON(w, campaigns)
	}
}

// ListStoreAds devolve o espelho de anúncios da loja, com filtro opcional
// por campanha (?campaign_id=).
func ListStoreAds(readers MirrorReaders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		campaignID := r.URL.Query().Get("campaign_id")

		var (
			ads []*domain.Ad
			err error
		)
		if campaignID != "" {
			ads, err = readers.Ads.ListByCampaign(r.Context(), storeID, campaignID)
		} else {
			ads, err = readers.Ads.ListByStore(r.Context(), storeID)
		}
		if err != nil {
			logrus.WithError(err).Error("erro ao listar anúncios")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar anúncios", nil)
			return
		}
		writeJSON(w, ads)
	}
}

// ListStoreSuggestions devolve as sugestões da loja, com filtro opcional
// por status (?status=pending).
func ListStoreSuggestions(readers MirrorReaders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		status := domain.SuggestionStatus(r.URL.Query().Get("status"))

		suggestions, err := readers.Suggester.ListSuggestions(r.Context(), storeID, status)
		if err != nil {
			logrus.WithError(err).Error("erro ao listar sugestões")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar sugestões", nil)
			return
		}
		writeJSON(w, suggestions)
	}
}

// ListStoreAttributions devolve as atribuições de receita da loja.
func ListStoreAttributions(readers MirrorReaders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		attributions, err := readers.Attributor.ListAttributions(r.Context(), storeID)
		if err != nil {
			logrus.WithError(err).Error("erro ao listar atribuições")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar atribuições", nil)
			return
		}
		writeJSON(w, attributions)
	}
}

// ListStoreTrends devolve as tendências mais recentes da loja.
func ListStoreTrends(readers MirrorReaders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		limit := parseLimit(r.URL.Query().Get("limit"), defaultTrendListLimit)

		trends, err := readers.Trender.ListTrends(r.Context(), storeID, limit)
		if err != nil {
			logrus.WithError(err).Error("erro ao listar tendências")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar tendências", nil)
			return
		}
		writeJSON(w, trends)
	}
}

// ListStoreMetrics devolve os snapshots de métricas da loja para um
// período (?period=30d, padrão).
func ListStoreMetrics(readers MirrorReaders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		period := r.URL.Query().Get("period")
		if period == "" {
			period = "30d"
		}
		limit := parseLimit(r.URL.Query().Get("limit"), defaultJobListLimit)

		snapshots, err := readers.Reporter.ListSnapshots(r.Context(), storeID, period, limit)
		if err != nil {
			logrus.WithError(err).Error("erro ao listar métricas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar métricas", nil)
			return
		}
		writeJSON(w, snapshots)
	}
}
