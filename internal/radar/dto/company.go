package dto

import (
	"bytes"
	"encoding/json"
)

// Scalar holds a JSON value that the radar API sends either as a number or
// as a string. The raw text is kept; null and absent values are empty.
type Scalar string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	*s = Scalar(data)
	return nil
}

// String returns the raw text.
func (s Scalar) String() string {
	return string(s)
}

// News is a news item attached to a company.
type News struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Sentiment   string `json:"sentiment"`
}

// Company is a company snapshot as returned by the search and trending
// endpoints. Optional numbers are pointers so null stays distinguishable
// from zero.
type Company struct {
	ID            Scalar   `json:"id"`
	Name          string   `json:"name"`
	Symbol        string   `json:"symbol"`
	Exchange      string   `json:"exchange"`
	CurrentPrice  *float64 `json:"current_price"`
	Change        *float64 `json:"change"`
	ChangePercent Scalar   `json:"change_percent"`
	Volume        *float64 `json:"volume"`
	MarketCap     *float64 `json:"market_cap"`
	RiskLevel     string   `json:"risk_level"`
	News          []News   `json:"news"`
}

// TrendingEntry is a company projection with its popularity counter.
type TrendingEntry struct {
	Company
	SearchCount Scalar `json:"search_count"`
}

// PlatformStats holds the aggregate counters shown in the hero section.
type PlatformStats struct {
	TotalCompanies    Scalar `json:"total_companies"`
	TotalSearches     Scalar `json:"total_searches"`
	HighRiskCompanies Scalar `json:"high_risk_companies"`
	RecentUpdates     Scalar `json:"recent_updates"`
}
