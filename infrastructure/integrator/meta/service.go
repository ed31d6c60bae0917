package meta

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	metadomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/meta/domain"
	"github.com/joshaeeee/klyq-backend/infrastructure/integrator/meta/metaclient"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
)

// MetaIntegrator traduz os tipos da Graph API para o domínio interno.
type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchCampaigns carrega as campanhas da conta de anúncios já convertidas.
func (s *MetaIntegrator) FetchCampaigns(ctx context.Context, account *domain.ConnectedAccount) ([]*domain.Campaign, error) {
	raw, err := s.Client.ListCampaigns(ctx, account.ExternalID, account.AccessToken)
	if err != nil {
		return nil, err
	}

	campaigns := make([]*domain.Campaign, 0, len(raw))
	for i := range raw {
		campaign := FactoryCampaign(account.StoreID, &raw[i])
		if campaign == nil {
			logrus.WithField("ad_account_id", account.ExternalID).
				Warn("meta: campanha sem id descartada na conversão")
			continue
		}
		campaigns = append(campaigns, campaign)
	}

	return campaigns, nil
}

// FetchAds carrega os anúncios da conta já convertidos.
func (s *MetaIntegrator) FetchAds(ctx context.Context, account *domain.ConnectedAccount) ([]*domain.Ad, error) {
	raw, err := s.Client.ListAds(ctx, account.ExternalID, account.AccessToken)
	if err != nil {
		return nil, err
	}

	ads := make([]*domain.Ad, 0, len(raw))
	for i := range raw {
		ad := FactoryAd(account.StoreID, &raw[i])
		if ad == nil {
			logrus.WithField("ad_account_id", account.ExternalID).
				Warn("meta: anúncio sem id descartado na conversão")
			continue
		}
		ads = append(ads, ad)
	}

	return ads, nil
}

// FetchAdInsights busca o desempenho do anúncio nos últimos 7 dias.
func (s *MetaIntegrator) FetchAdInsights(ctx context.Context, account *domain.ConnectedAccount, adExternalID string) ([]*domain.AdInsight, error) {
	raw, err := s.Client.GetAdInsights(ctx, adExternalID, account.AccessToken, "last_7d")
	if err != nil {
		return nil, err
	}

	insights := make([]*domain.AdInsight, 0, len(raw))
	for i := range raw {
		insights = append(insights, FactoryAdInsight(&raw[i]))
	}

	return insights, nil
}

// PauseAd pausa o anúncio na plataforma (ação pause-ad).
func (s *MetaIntegrator) PauseAd(ctx context.Context, account *domain.ConnectedAccount, adExternalID string) error {
	return s.Client.UpdateAdStatus(ctx, adExternalID, account.AccessToken, "PAUSED")
}

// CreateAd cria um anúncio pausado reaproveitando o criativo indicado.
func (s *MetaIntegrator) CreateAd(ctx context.Context, account *domain.ConnectedAccount, name, adsetID, creativeID string) (string, error) {
	return s.Client.CreateAd(ctx, account.ExternalID, account.AccessToken, name, adsetID, creativeID)
}

// FactoryCampaign converte a campanha da Graph API. O daily_budget chega em
// centavos como string; malformado vira zero.
func FactoryCampaign(storeID string, raw *metadomain.Campaign) *domain.Campaign {
	if raw == nil || raw.ID == "" {
		return nil
	}

	campaign := &domain.Campaign{
		StoreID:    storeID,
		ExternalID: raw.ID,
		Name:       raw.Name,
		Status:     raw.Status,
		Objective:  raw.Objective,
	}

	if raw.DailyBudget != "" {
		if cents, err := strconv.ParseInt(raw.DailyBudget, 10, 64); err == nil {
			campaign.DailyBudget = decimal.New(cents, -2)
		}
	}

	return campaign
}

// FactoryAd converte o anúncio da Graph API.
func FactoryAd(storeID string, raw *metadomain.Ad) *domain.Ad {
	if raw == nil || raw.ID == "" {
		return nil
	}

	return &domain.Ad{
		StoreID:            storeID,
		ExternalID:         raw.ID,
		CampaignExternalID: raw.CampaignID,
		Name:               raw.Name,
		Status:             raw.Status,
		CreativeID:         raw.Creative.ID,
	}
}

// FactoryAdInsight converte a linha de insights, tolerando campos numéricos
// malformados que viram zero.
func FactoryAdInsight(raw *metadomain.AdInsight) *domain.AdInsight {
	insight := &domain.AdInsight{
		AdExternalID: raw.AdID,
		AdName:       raw.AdName,
	}

	if impressions, err := strconv.ParseInt(raw.Impressions, 10, 64); err == nil {
		insight.Impressions = impressions
	}
	if clicks, err := strconv.ParseInt(raw.Clicks, 10, 64); err == nil {
		insight.Clicks = clicks
	}
	if spend, err := decimal.NewFromString(raw.Spend); err == nil {
		insight.Spend = spend
	}
	if ctr, err := strconv.ParseFloat(raw.CTR, 64); err == nil {
		insight.CTR = ctr
	}

	return insight
}
