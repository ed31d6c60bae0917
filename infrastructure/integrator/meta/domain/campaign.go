package domain

// Tipos de transporte da Graph API do Meta Ads.

type Campaign struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Objective   string `json:"objective"`
	DailyBudget string `json:"daily_budget"` // em centavos
	CreatedTime string `json:"created_time"`
	UpdatedTime string `json:"updated_time"`
}

type Ad struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	CampaignID string `json:"campaign_id"`
	Creative   struct {
		ID string `json:"id"`
	} `json:"creative"`
}

type Paging struct {
	Cursors struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"cursors"`
	Next string `json:"next"`
}
