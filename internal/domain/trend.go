package domain

import "time"

// Trend é um snapshot de tendência detectada em uma plataforma social,
// pontuada por engajamento e por relevância para o catálogo da loja.
type Trend struct {
	ID              string    `json:"id"`
	StoreID         string    `json:"store_id"`
	Platform        string    `json:"platform"` // meta, tiktok, x
	Category        string    `json:"category"`
	Content         string    `json:"content"`
	EngagementScore float64   `json:"engagement_score"`
	RelevanceScore  float64   `json:"relevance_score"`
	CreatedAt       time.Time `json:"created_at"`
}
