package utils

import "time"

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// ParsePlatformTime aceita os formatos de timestamp usados pelas APIs da
// Shopify e do Meta (RFC3339 com e sem offset numérico).
func ParsePlatformTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}

	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
