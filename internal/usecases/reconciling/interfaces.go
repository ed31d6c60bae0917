package reconciling

import (
	"context"
	"time"

	"github.com/joshaeeee/klyq-backend/internal/domain"
)

// ShopifySource é a visão do reconciliador sobre o integrador da Shopify.
type ShopifySource interface {
	FetchProducts(ctx context.Context, account *domain.ConnectedAccount) ([]*domain.Product, error)
	FetchOrders(ctx context.Context, account *domain.ConnectedAccount, since *time.Time) ([]*domain.Order, error)
}

// MetaSource é a visão do reconciliador sobre o integrador do Meta.
type MetaSource interface {
	FetchCampaigns(ctx context.Context, account *domain.ConnectedAccount) ([]*domain.Campaign, error)
	FetchAds(ctx context.Context, account *domain.ConnectedAccount) ([]*domain.Ad, error)
}
