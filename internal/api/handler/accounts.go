package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/internal/usecases/account"
	"github.com/joshaeeee/klyq-backend/pkg/apiErrors"
)

type connectMetaRequest struct {
	AdAccountID string `json:"ad_account_id"`
	AccessToken string `json:"access_token"`
}

// ShopifyOAuthCallback troca o code por um token permanente e registra a
// loja. A primeira conexão dispara o setup inicial em background.
func ShopifyOAuthCallback(service account.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		shopURL := query.Get("shop")
		code := query.Get("code")
		shopName := query.Get("shop_name")
		if shopName == "" {
			shopName = shopURL
		}

		store, err := service.HandleShopifyCallback(r.Context(), shopURL, shopName, code)
		if err != nil {
			if errors.Is(err, account.ErrMissingOAuthData) {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Parâmetros shop e code são obrigatórios", nil)
				return
			}
			logrus.WithField("shop", shopURL).WithError(err).Error("erro no callback OAuth da Shopify")
			apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro ao concluir a conexão com a Shopify", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(store)
	}
}

// ConnectMetaAccount vincula uma conta de anúncios do Meta à loja e dispara
// a primeira sincronização de campanhas e anúncios.
func ConnectMetaAccount(service account.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req connectMetaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdAccountID == "" || req.AccessToken == "" {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ad_account_id e access_token são obrigatórios", nil)
			return
		}

		connected, err := service.ConnectMetaAccount(r.Context(), storeID, req.AdAccountID, req.AccessToken)
		if err != nil {
			if errors.Is(err, account.ErrStoreNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrUnknownAccount, "Loja não encontrada", nil)
				return
			}
			logrus.WithField("store_id", storeID).WithError(err).Error("erro ao conectar conta do Meta")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao conectar a conta", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(connected)
	}
}

// ListAccountsNeedingReauth devolve as contas com credencial revogada, que
// precisam de reconexão manual.
func ListAccountsNeedingReauth(service account.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := service.ListAccountsNeedingReauth(r.Context())
		if err != nil {
			logrus.WithError(err).Error("erro ao listar contas pendentes de reautenticação")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar contas", nil)
			return
		}
		writeJSON(w, accounts)
	}
}
