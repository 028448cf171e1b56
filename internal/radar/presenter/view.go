package presenter

import (
	"math"
	"time"

	"investor-radar/internal/radar/dto"
	"investor-radar/internal/radar/service"
)

// StatsView holds the formatted platform counters.
type StatsView struct {
	TotalCompanies    string `json:"total_companies"`
	TotalSearches     string `json:"total_searches"`
	HighRiskCompanies string `json:"high_risk_companies"`
	RecentUpdates     string `json:"recent_updates"`
}

// CompanyCard is a company as shown in the results and trending lists.
type CompanyCard struct {
	Key               string    `json:"key"`
	Name              string    `json:"name"`
	Symbol            string    `json:"symbol"`
	Exchange          string    `json:"exchange"`
	RiskLevel         string    `json:"risk_level"`
	RiskStyle         RiskStyle `json:"risk_style"`
	Price             string    `json:"price"`
	ShowChangePercent bool      `json:"show_change_percent"`
	ChangePercent     string    `json:"change_percent"`
	ChangePercentUp   bool      `json:"change_percent_up"`
	Selected          bool      `json:"selected"`
}

// NewsItem is a formatted news entry.
type NewsItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
	Date    string `json:"date"`
}

// NewsTab is one sentiment bucket ready for display.
type NewsTab struct {
	Sentiment   Sentiment  `json:"sentiment"`
	Label       string     `json:"label"`
	Count       int        `json:"count"`
	Items       []NewsItem `json:"items"`
	Placeholder string     `json:"placeholder,omitempty"`
}

// CompanyDetail is the detail panel of the selected company.
type CompanyDetail struct {
	CompanyCard
	ShowChange    bool      `json:"show_change"`
	Change        string    `json:"change"`
	ChangeUp      bool      `json:"change_up"`
	ShowVolume    bool      `json:"show_volume"`
	Volume        string    `json:"volume"`
	ShowMarketCap bool      `json:"show_market_cap"`
	MarketCap     string    `json:"market_cap"`
	NewsTabs      []NewsTab `json:"news_tabs"`
}

// TrendingCard is a trending company with its search counter.
type TrendingCard struct {
	CompanyCard
	SearchCount string `json:"search_count"`
}

// PageView is everything the page template needs.
type PageView struct {
	Query    string         `json:"query"`
	Busy     bool           `json:"busy"`
	Notice   string         `json:"notice,omitempty"`
	Stats    StatsView      `json:"stats"`
	Results  []CompanyCard  `json:"results"`
	Detail   *CompanyDetail `json:"detail,omitempty"`
	Trending []TrendingCard `json:"trending"`
}

// BuildPage turns a dashboard snapshot into a PageView. Dates are rendered
// in loc.
func BuildPage(snap service.Snapshot, notice string, loc *time.Location) PageView {
	page := PageView{
		Query:  snap.Query,
		Busy:   snap.Busy,
		Notice: notice,
		Stats: StatsView{
			TotalCompanies:    FormatCount(snap.Stats.TotalCompanies),
			TotalSearches:     FormatCount(snap.Stats.TotalSearches),
			HighRiskCompanies: FormatCount(snap.Stats.HighRiskCompanies),
			RecentUpdates:     FormatCount(snap.Stats.RecentUpdates),
		},
		Results:  make([]CompanyCard, 0, len(snap.Results)),
		Trending: make([]TrendingCard, 0, len(snap.Trending)),
	}

	for i, company := range snap.Results {
		card := BuildCard(company, service.CompanyKey(company, i))
		card.Selected = snap.Selected != nil && card.Key == snap.SelectedKey
		page.Results = append(page.Results, card)
	}

	if snap.Selected != nil {
		detail := BuildDetail(*snap.Selected, snap.SelectedKey, loc)
		page.Detail = &detail
	}

	for i, entry := range snap.Trending {
		page.Trending = append(page.Trending, TrendingCard{
			CompanyCard: BuildCard(entry.Company, service.CompanyKey(entry.Company, i)),
			SearchCount: FormatCount(entry.SearchCount),
		})
	}

	return page
}

// BuildCard formats the list-level fields of a company.
func BuildCard(company dto.Company, key string) CompanyCard {
	card := CompanyCard{
		Key:       key,
		Name:      company.Name,
		Symbol:    company.Symbol,
		Exchange:  company.Exchange,
		RiskLevel: company.RiskLevel,
		RiskStyle: RiskStyleFor(company.RiskLevel),
		Price:     FormatPrice(company.CurrentPrice),
	}
	if raw := company.ChangePercent.String(); raw != "" && raw != "0" {
		card.ShowChangePercent = true
		card.ChangePercent = FormatPercent(raw)
		card.ChangePercentUp = ParseLeadingFloat(raw) >= 0
	}
	return card
}

// BuildDetail formats the detail panel, including the news tabs.
func BuildDetail(company dto.Company, key string, loc *time.Location) CompanyDetail {
	detail := CompanyDetail{CompanyCard: BuildCard(company, key)}
	detail.Selected = true

	if present(company.Change) {
		detail.ShowChange = true
		detail.Change = FormatSignedPrice(company.Change)
		detail.ChangeUp = *company.Change >= 0
	}
	if present(company.Volume) {
		detail.ShowVolume = true
		detail.Volume = FormatAbbreviatedNumber(company.Volume)
	}
	if present(company.MarketCap) {
		detail.ShowMarketCap = true
		detail.MarketCap = FormatAbbreviatedNumber(company.MarketCap)
	}

	detail.NewsTabs = BuildNewsTabs(company.News, loc)
	return detail
}

// BuildNewsTabs partitions news by sentiment and formats each bucket. Empty
// buckets carry a placeholder instead of items.
func BuildNewsTabs(news []dto.News, loc *time.Location) []NewsTab {
	buckets := PartitionBySentiment(news)
	tabs := make([]NewsTab, 0, len(Sentiments))
	for _, sentiment := range Sentiments {
		items := buckets.Bucket(sentiment)
		tab := NewsTab{
			Sentiment: sentiment,
			Label:     sentiment.Label(),
			Count:     len(items),
			Items:     make([]NewsItem, 0, len(items)),
		}
		for _, n := range items {
			tab.Items = append(tab.Items, NewsItem{
				Title:   n.Title,
				Content: n.Content,
				Source:  n.Source,
				Date:    FormatDate(n.PublishedAt, loc),
			})
		}
		if len(items) == 0 {
			tab.Placeholder = sentiment.Placeholder()
		}
		tabs = append(tabs, tab)
	}
	return tabs
}

func present(v *float64) bool {
	return v != nil && *v != 0 && !math.IsNaN(*v)
}
