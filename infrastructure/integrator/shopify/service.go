package shopify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	shopifydomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify/domain"
	"github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify/shopifyclient"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/utils"
)

// ShopifyIntegrator traduz os tipos de transporte da Admin API para o
// domínio interno. Valores ausentes ou malformados em campos não
// essenciais viram zero values; só external_id vazio descarta o registro.
type ShopifyIntegrator struct {
	cfg    *config.Config
	Client shopifyclient.Client
}

func New(cfg *config.Config, client shopifyclient.Client) *ShopifyIntegrator {
	return &ShopifyIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchProducts carrega o catálogo completo da loja já convertido.
func (s *ShopifyIntegrator) FetchProducts(ctx context.Context, account *domain.ConnectedAccount) ([]*domain.Product, error) {
	raw, err := s.Client.ListProducts(ctx, account.ExternalID, account.AccessToken)
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(raw))
	for i := range raw {
		product := FactoryProduct(account.StoreID, &raw[i])
		if product == nil {
			logrus.WithField("shop_url", account.ExternalID).
				Warn("shopify: produto sem id descartado na conversão")
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

// FetchOrders carrega pedidos atualizados desde o corte, já convertidos.
func (s *ShopifyIntegrator) FetchOrders(ctx context.Context, account *domain.ConnectedAccount, since *time.Time) ([]*domain.Order, error) {
	raw, err := s.Client.ListOrders(ctx, account.ExternalID, account.AccessToken, since)
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(raw))
	for i := range raw {
		order := FactoryOrder(account.StoreID, &raw[i])
		if order == nil {
			logrus.WithField("shop_url", account.ExternalID).
				Warn("shopify: pedido sem id descartado na conversão")
			continue
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// CreateBundle cria na loja um produto de bundle em rascunho, a partir dos
// parâmetros de uma sugestão aplicada pelo usuário.
func (s *ShopifyIntegrator) CreateBundle(ctx context.Context, account *domain.ConnectedAccount, title, price string) (*domain.Product, error) {
	created, err := s.Client.CreateProduct(ctx, account.ExternalID, account.AccessToken, &shopifydomain.Product{
		Title:       title,
		ProductType: "bundle",
		Status:      "draft",
		Variants: []shopifydomain.Variant{
			{Price: price},
		},
	})
	if err != nil {
		return nil, err
	}

	product := FactoryProduct(account.StoreID, created)
	if product == nil {
		return nil, fmt.Errorf("shopify: resposta de criação de produto sem id")
	}

	return product, nil
}

// ExchangeToken troca o código do callback OAuth pelo token permanente da
// loja, devolvendo token e escopos concedidos.
func (s *ShopifyIntegrator) ExchangeToken(ctx context.Context, shopURL, code string) (string, string, error) {
	response, err := s.Client.ExchangeToken(ctx, shopURL, code)
	if err != nil {
		return "", "", err
	}
	return response.AccessToken, response.Scope, nil
}

// UpdatePrice altera o preço da variante na loja (ação update_price).
func (s *ShopifyIntegrator) UpdatePrice(ctx context.Context, account *domain.ConnectedAccount, variantID int64, price string) error {
	return s.Client.UpdateVariantPrice(ctx, account.ExternalID, account.AccessToken, variantID, price)
}

// FactoryProduct converte o produto da API para o domínio interno. Preço,
// estoque e SKU vêm da primeira variante, como no catálogo simples.
func FactoryProduct(storeID string, raw *shopifydomain.Product) *domain.Product {
	if raw == nil || raw.ID == 0 {
		return nil
	}

	product := &domain.Product{
		StoreID:     storeID,
		ExternalID:  strconv.FormatInt(raw.ID, 10),
		Title:       raw.Title,
		Handle:      raw.Handle,
		Description: raw.BodyHTML,
		Vendor:      raw.Vendor,
		ProductType: raw.ProductType,
		Status:      raw.Status,
	}

	if len(raw.Variants) > 0 {
		variant := raw.Variants[0]
		product.Price = parseMoney(variant.Price)
		product.CompareAtPrice = parseMoney(variant.CompareAtPrice)
		product.SKU = variant.SKU
		product.InventoryQuantity = variant.InventoryQuantity
		product.WeightGrams = variant.Grams
	}

	return product
}

// FactoryOrder converte o pedido da API para o domínio interno.
func FactoryOrder(storeID string, raw *shopifydomain.Order) *domain.Order {
	if raw == nil || raw.ID == 0 {
		return nil
	}

	order := &domain.Order{
		StoreID:           storeID,
		ExternalID:        strconv.FormatInt(raw.ID, 10),
		OrderNumber:       strconv.Itoa(raw.OrderNumber),
		Email:             raw.Email,
		TotalPrice:        parseMoney(raw.TotalPrice),
		SubtotalPrice:     parseMoney(raw.SubtotalPrice),
		TotalTax:          parseMoney(raw.TotalTax),
		Currency:          raw.Currency,
		FinancialStatus:   raw.FinancialStatus,
		FulfillmentStatus: raw.FulfillmentStatus,
	}

	if processedAt, err := utils.ParsePlatformTime(raw.ProcessedAt); err == nil {
		order.ProcessedAt = processedAt
	} else {
		logrus.WithFields(logrus.Fields{
			"order_id":     raw.ID,
			"processed_at": raw.ProcessedAt,
		}).Warn("shopify: processed_at malformado, mantendo nulo")
	}

	return order
}

// parseMoney tolera valores monetários ausentes ou malformados; a API às
// vezes manda string vazia em compare_at_price.
func parseMoney(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}

	return parsed
}
