package model

// SurveyRecord is one company's yearly self-reported competitor list plus
// the sourcing context the search produced. One record per (ticker, year).
type SurveyRecord struct {
	Company     string              `json:"company"`
	Ticker      string              `json:"ticker"`
	Year        int                 `json:"year"`
	SearchQuery string              `json:"search_query"`
	SearchDate  string              `json:"search_date"`
	Context     string              `json:"context"`
	Sources     []string            `json:"sources"`
	Competitors []CompetitorMention `json:"competitors"`
}

// CompetitorMention is a single claim, made by one company in one year,
// that another entity is a competitor.
type CompetitorMention struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// YearRecord is the per-year survey content stored on a subject entity.
type YearRecord struct {
	Query       string              `json:"query"`
	Date        string              `json:"date"`
	Context     string              `json:"context"`
	Sources     []string            `json:"sources"`
	Competitors []CompetitorMention `json:"competitors"`
}
