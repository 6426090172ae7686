package model

// EntityType categorizes what kind of thing an entity is.
type EntityType string

const (
	EntityTypeCompany  EntityType = "company"
	EntityTypeDivision EntityType = "division"
	EntityTypeProduct  EntityType = "product"
	EntityTypeUnknown  EntityType = "unknown"
)

// Ownership describes whether an entity is publicly traded.
type Ownership string

const (
	OwnershipPublic  Ownership = "public"
	OwnershipPrivate Ownership = "private"
)

// Entity is a canonical node in the compiled graph: one real-world company,
// division, or product. Field names must stay aligned with the viewer, which
// reads the generated artifact directly.
type Entity struct {
	Slug             string                    `json:"slug"`
	Name             string                    `json:"name"`
	Ticker           string                    `json:"ticker,omitempty"`
	IsPublic         bool                      `json:"isPublic"`
	EntityType       EntityType                `json:"entityType,omitempty"`
	Ownership        Ownership                 `json:"ownership,omitempty"`
	ParentCompany    string                    `json:"parentCompany,omitempty"`
	ParentSlug       string                    `json:"parentSlug,omitempty"`
	Financials       *FinancialSnapshot        `json:"financials,omitempty"`
	FinancialsByYear map[int]FinancialSnapshot `json:"financialsByYear,omitempty"`

	// Years is populated only on entities that are themselves survey
	// subjects; Notes only on entities that are never subjects.
	Years map[int]YearRecord `json:"years,omitempty"`
	Notes map[int][]Note     `json:"notes,omitempty"`

	MentionedBy []Mention       `json:"mentionedBy"`
	Competitors []CompetitorRef `json:"competitors"`
}

// Mention records that a company named this entity as a competitor in a
// given year. Deduplicated on (Slug, Year) within one entity.
type Mention struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Ticker string `json:"ticker,omitempty"`
	Year   int    `json:"year"`
	Notes  string `json:"notes"`
}

// CompetitorRef is a lightweight snapshot of a mention target stored on the
// mentioning entity. At most one per distinct target slug.
type CompetitorRef struct {
	Slug             string                    `json:"slug"`
	Name             string                    `json:"name"`
	Ticker           string                    `json:"ticker,omitempty"`
	IsPublic         bool                      `json:"isPublic"`
	EntityType       EntityType                `json:"entityType,omitempty"`
	ParentSlug       string                    `json:"parentSlug,omitempty"`
	Financials       *FinancialSnapshot        `json:"financials,omitempty"`
	FinancialsByYear map[int]FinancialSnapshot `json:"financialsByYear,omitempty"`
}

// Note captures why a non-subject entity was mentioned, keyed by year on
// the entity.
type Note struct {
	From string `json:"from"`
	Note string `json:"note"`
}

// FinancialSnapshot holds one year's financial figures for an entity.
type FinancialSnapshot struct {
	Revenue      float64 `json:"revenue"`
	MarketCap    float64 `json:"market_cap"`
	RevenueRaw   string  `json:"revenue_raw,omitempty"`
	MarketCapRaw string  `json:"market_cap_raw,omitempty"`
}

// Relationship is the compiled directed edge form of a mention. The flat
// list keeps every (source, target, year) claim; it is never deduplicated.
type Relationship struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Year   int    `json:"year"`
	Notes  string `json:"notes"`
}

// Meta holds summary statistics for a compiled graph. Every count is
// derived from the final entity slice, never maintained independently.
type Meta struct {
	Generated          string `json:"generated"`
	TotalEntities      int    `json:"totalEntities"`
	PublicCompanies    int    `json:"publicCompanies"`
	PrivateEntities    int    `json:"privateEntities"`
	TotalRelationships int    `json:"totalRelationships"`
	Companies          int    `json:"companies"`
	Products           int    `json:"products"`
	Unknown            int    `json:"unknown"`
	WithFinancials     int    `json:"withFinancials"`
}

// CompiledGraph is the final artifact of one compilation run.
type CompiledGraph struct {
	Meta          Meta                `json:"meta"`
	Entities      []*Entity           `json:"entities"`
	Relationships []Relationship      `json:"relationships"`
	Industries    map[string][]string `json:"industries"`
}

// NewEntity returns an entity with the mention and competitor lists
// initialized so they serialize as empty arrays rather than null.
func NewEntity(slug, name string) *Entity {
	return &Entity{
		Slug:        slug,
		Name:        name,
		MentionedBy: []Mention{},
		Competitors: []CompetitorRef{},
	}
}
