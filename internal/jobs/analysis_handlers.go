package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/internal/domain"
)

// handleDetectTrends recalcula as tendências de cada loja a partir do
// espelho de produtos.
func (r *Registry) handleDetectTrends(ctx context.Context, job *domain.SyncJob) error {
	return r.forEachStore(ctx, job, func(storeID string) error {
		count, err := r.trender.DetectTrends(ctx, storeID)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"store_id": storeID,
			"trends":   count,
		}).Info("jobs: detecção de tendências concluída")
		return nil
	})
}

// handleRunDiagnostics roda o ciclo analítico completo de uma loja:
// sugestões, atribuição e snapshots de métricas para todos os períodos.
// Cada etapa lê apenas o espelho local.
func (r *Registry) handleRunDiagnostics(ctx context.Context, job *domain.SyncJob) error {
	return r.forEachStore(ctx, job, func(storeID string) error {
		suggestions, err := r.suggester.RunDiagnostics(ctx, storeID)
		if err != nil {
			return fmt.Errorf("diagnóstico de sugestões: %w", err)
		}

		attributions, err := r.attributor.ComputeAttribution(ctx, storeID)
		if err != nil {
			return fmt.Errorf("cálculo de atribuição: %w", err)
		}

		for _, period := range []string{"7d", "30d", "90d"} {
			if _, err := r.reporter.ComputeSnapshot(ctx, storeID, period); err != nil {
				return fmt.Errorf("snapshot de métricas %s: %w", period, err)
			}
		}

		logrus.WithFields(logrus.Fields{
			"store_id":     storeID,
			"suggestions":  suggestions,
			"attributions": attributions,
		}).Info("jobs: diagnóstico concluído")
		return nil
	})
}

// handleTrainAIModels reavalia o modelo de atribuição com os dados mais
// recentes do espelho.
func (r *Registry) handleTrainAIModels(ctx context.Context, job *domain.SyncJob) error {
	return r.forEachStore(ctx, job, func(storeID string) error {
		report, err := r.attributor.TrainModel(ctx, storeID)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"store_id": storeID,
			"accuracy": report.ModelAccuracy,
			"samples":  report.TrainingSamples,
		}).Info("jobs: treino do modelo de atribuição concluído")
		return nil
	})
}

// handleCleanupOldData arquiva pedidos antigos e remove tendências
// expiradas, respeitando as janelas de retenção configuradas.
func (r *Registry) handleCleanupOldData(ctx context.Context, job *domain.SyncJob) error {
	now := time.Now().UTC()

	orderCutoff := now.AddDate(0, 0, -r.cfg.Analytics.OrderRetentionDays)
	archived, err := r.orderRepo.ArchiveOlderThan(ctx, orderCutoff)
	if err != nil {
		return fmt.Errorf("arquivamento de pedidos: %w", err)
	}

	trendCutoff := now.AddDate(0, 0, -r.cfg.Analytics.TrendRetentionDays)
	removed, err := r.trendRepo.DeleteOlderThan(ctx, trendCutoff)
	if err != nil {
		return fmt.Errorf("remoção de tendências: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"orders_archived": archived,
		"trends_removed":  removed,
	}).Info("jobs: limpeza de dados antigos concluída")
	return nil
}
