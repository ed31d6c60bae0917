package domain

// AdInsight é uma linha de insights de anúncio da Graph API.
type AdInsight struct {
	AdID        string `json:"ad_id"`
	AdName      string `json:"ad_name"`
	Impressions string `json:"impressions"`
	Clicks      string `json:"clicks"`
	Spend       string `json:"spend"`
	CTR         string `json:"ctr"`
	DateStart   string `json:"date_start"`
	DateStop    string `json:"date_stop"`
}
